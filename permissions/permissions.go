// Package permissions computes what a requester may do with a form.
// The resolver is a pure function over the form, its shares and the
// directory; it holds no state and touches no storage.
package permissions

import (
	"errors"

	"github.com/nextforms/forms-server/directory"
	"github.com/nextforms/forms-server/models"
)

const (
	PermissionEdit    = "edit"
	PermissionResults = "results"
	PermissionSubmit  = "submit"
)

// ErrNotAllowed covers both "form does not exist" and "no permission at
// all". Callers must surface the two identically so probing a form id
// reveals nothing.
var ErrNotAllowed = errors.New("form not found or not accessible")

// Requester identifies who is asking. UserID is empty for anonymous
// requests; LinkHash carries a presented link-share token, if any.
type Requester struct {
	UserID   string
	LinkHash string
}

func (r Requester) Anonymous() bool { return r.UserID == "" }

// Set is the resolved permission set for one requester on one form.
type Set struct {
	Edit    bool
	Results bool
	Submit  bool
}

func (s Set) Empty() bool { return !s.Edit && !s.Results && !s.Submit }

// Slice returns the set in its canonical wire order.
func (s Set) Slice() []string {
	out := []string{}
	if s.Edit {
		out = append(out, PermissionEdit)
	}
	if s.Results {
		out = append(out, PermissionResults)
	}
	if s.Submit {
		out = append(out, PermissionSubmit)
	}
	return out
}

// Resolve computes the permission set. Precedence:
//  1. owner -> edit, results, submit
//  2. any identified user when the form permits or shows itself to all users -> submit
//  3. matching user share, or group share the requester is a member of -> submit
//  4. presented hash matching a link share -> submit
//  5. nothing -> empty set
//
// Non-owner shares grant submit only; results always require ownership in
// this schema.
func Resolve(req Requester, form *models.Form, shares []models.Share, dir directory.Directory) Set {
	if !req.Anonymous() && req.UserID == form.OwnerID {
		return Set{Edit: true, Results: true, Submit: true}
	}

	access := form.Access()
	if !req.Anonymous() && (access.PermitAllUsers || access.ShowToAllUsers) {
		return Set{Submit: true}
	}

	for _, s := range shares {
		switch s.ShareType {
		case models.ShareTypeUser:
			if !req.Anonymous() && s.ShareWith == req.UserID {
				return Set{Submit: true}
			}
		case models.ShareTypeGroup:
			if !req.Anonymous() && dir.IsMember(req.UserID, s.ShareWith) {
				return Set{Submit: true}
			}
		case models.ShareTypeLink:
			if req.LinkHash != "" && s.ShareWith == req.LinkHash {
				return Set{Submit: true}
			}
		}
	}

	return Set{}
}

// SharedWith reports whether the form is explicitly shared with the user
// via a user or group share. Listing in shared_forms hinges on this (or on
// showToAllUsers), not on permitAllUsers alone.
func SharedWith(userID string, shares []models.Share, dir directory.Directory) bool {
	if userID == "" {
		return false
	}
	for _, s := range shares {
		switch s.ShareType {
		case models.ShareTypeUser:
			if s.ShareWith == userID {
				return true
			}
		case models.ShareTypeGroup:
			if dir.IsMember(userID, s.ShareWith) {
				return true
			}
		}
	}
	return false
}

// Expired reports whether the form's submission window has closed.
// expires == 0 means the form never expires.
func Expired(form *models.Form, now int64) bool {
	return form.Expires != 0 && form.Expires <= now
}

// CanSubmit folds expiry and the submit-once state into the final
// submittable flag. hasPrior is the advisory "this user already submitted"
// lookup; the store's unique index remains authoritative.
func CanSubmit(form *models.Form, set Set, hasPrior bool, now int64) bool {
	if !set.Submit || Expired(form, now) {
		return false
	}
	if form.SubmitOnce && !form.IsAnonymous && hasPrior {
		return false
	}
	return true
}
