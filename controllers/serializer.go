package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/nextforms/forms-server/directory"
	"github.com/nextforms/forms-server/models"
	"github.com/nextforms/forms-server/permissions"
)

// Dir is the directory the server resolves group memberships and share
// display names against. main wires the real one; tests inject fakes.
var Dir directory.Directory = &directory.Static{}

// partialShape is the list-view serialization of a form.
func partialShape(f *models.Form, set permissions.Set) gin.H {
	return gin.H{
		"id":          f.ID,
		"hash":        f.Hash,
		"title":       f.Title,
		"expires":     f.Expires,
		"permissions": set.Slice(),
		"partial":     true,
	}
}

func questionShape(q *models.Question) gin.H {
	options := []gin.H{}
	for _, o := range q.Options {
		options = append(options, gin.H{
			"id":         o.ID,
			"questionId": o.QuestionID,
			"text":       o.Text,
		})
	}
	return gin.H{
		"id":         q.ID,
		"formId":     q.FormID,
		"order":      q.Order,
		"type":       q.Type,
		"text":       q.Text,
		"isRequired": q.IsRequired,
		"options":    options,
	}
}

func shareShape(s *models.Share) gin.H {
	return gin.H{
		"id":          s.ID,
		"formId":      s.FormID,
		"shareType":   s.ShareType,
		"shareWith":   s.ShareWith,
		"displayName": Dir.DisplayName(s.ShareType, s.ShareWith),
	}
}

// fullShape is the detail serialization. Questions come ordered with their
// options; shares are included only when the requester holds edit.
func fullShape(f *models.Form, set permissions.Set, canSubmit bool) gin.H {
	questions := []gin.H{}
	for i := range f.Questions {
		questions = append(questions, questionShape(&f.Questions[i]))
	}

	out := gin.H{
		"id":          f.ID,
		"hash":        f.Hash,
		"title":       f.Title,
		"description": f.Description,
		"ownerId":     f.OwnerID,
		"created":     f.Created,
		"access":      f.Access(),
		"expires":     f.Expires,
		"isAnonymous": f.IsAnonymous,
		"submitOnce":  f.SubmitOnce,
		"canSubmit":   canSubmit,
		"permissions": set.Slice(),
		"questions":   questions,
	}

	if set.Edit {
		shares := []gin.H{}
		for i := range f.Shares {
			shares = append(shares, shareShape(&f.Shares[i]))
		}
		out["shares"] = shares
	}
	return out
}
