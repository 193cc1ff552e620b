// Package directory is the seam to the platform's user/group directory.
// The real directory lives outside this service; everything here only
// needs membership answers and display names.
package directory

import (
	"encoding/json"
	"os"

	"github.com/nextforms/forms-server/models"
)

type Directory interface {
	// IsMember reports whether user belongs to group.
	IsMember(user, group string) bool
	// DisplayName resolves a share target to a human-readable name.
	// Returns "" when the target is unknown (stale group, deleted user).
	DisplayName(shareType int, id string) string
}

// Static is a fixed in-memory directory, used in tests and as the
// file-backed bridge until a platform connector is wired in.
type Static struct {
	// Groups maps group id -> member user ids.
	Groups map[string][]string
	// Users maps user id -> display name.
	Users map[string]string
	// GroupNames maps group id -> display name.
	GroupNames map[string]string
}

func (s *Static) IsMember(user, group string) bool {
	for _, m := range s.Groups[group] {
		if m == user {
			return true
		}
	}
	return false
}

func (s *Static) DisplayName(shareType int, id string) string {
	switch shareType {
	case models.ShareTypeUser:
		return s.Users[id]
	case models.ShareTypeGroup:
		return s.GroupNames[id]
	}
	return ""
}

// LoadFile reads a Static directory from a JSON file. An empty path yields
// an empty directory: group shares then never match and user display names
// resolve to "".
func LoadFile(path string) (*Static, error) {
	s := &Static{
		Groups:     map[string][]string{},
		Users:      map[string]string{},
		GroupNames: map[string]string{},
	}
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}
