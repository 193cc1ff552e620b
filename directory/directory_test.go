package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextforms/forms-server/models"
)

func TestStatic(t *testing.T) {
	dir := &Static{
		Groups:     map[string][]string{"team": {"alice", "bob"}},
		Users:      map[string]string{"alice": "Alice A."},
		GroupNames: map[string]string{"team": "The Team"},
	}

	assert.True(t, dir.IsMember("alice", "team"))
	assert.False(t, dir.IsMember("mallory", "team"))
	assert.False(t, dir.IsMember("alice", "ghosts"))

	assert.Equal(t, "Alice A.", dir.DisplayName(models.ShareTypeUser, "alice"))
	assert.Equal(t, "The Team", dir.DisplayName(models.ShareTypeGroup, "team"))
	assert.Equal(t, "", dir.DisplayName(models.ShareTypeUser, "gone"))
	assert.Equal(t, "", dir.DisplayName(models.ShareTypeLink, "whatever"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.json")
	payload := `{
		"Groups": {"team": ["alice"]},
		"Users": {"alice": "Alice A."},
		"GroupNames": {"team": "The Team"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	dir, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, dir.IsMember("alice", "team"))
	assert.Equal(t, "The Team", dir.DisplayName(models.ShareTypeGroup, "team"))
}

func TestLoadFileEmptyPath(t *testing.T) {
	dir, err := LoadFile("")
	require.NoError(t, err)
	assert.False(t, dir.IsMember("anyone", "anywhere"))
	assert.Equal(t, "", dir.DisplayName(models.ShareTypeUser, "anyone"))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
