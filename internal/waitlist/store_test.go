package waitlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "waitlist.json")
	return NewStore(path), path
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		handle  string
		email   string
		want    [2]string
		wantErr string
	}{
		{name: "Normalizes", handle: " vanta_dev ", email: " Dev@Vanta.IO ", want: [2]string{"@vanta_dev", "dev@vanta.io"}},
		{name: "Keeps single at", handle: "@vanta", email: "a@b.co", want: [2]string{"@vanta", "a@b.co"}},
		{name: "Missing handle", handle: "", email: "a@b.co", wantErr: "X handle is required"},
		{name: "Missing email", handle: "vanta", email: "  ", wantErr: "Email is required"},
		{name: "Bad email", handle: "vanta", email: "not-an-email", wantErr: "Invalid email format"},
		{name: "Handle too long", handle: "abcdefghijklmnop", email: "a@b.co", wantErr: "Invalid X handle format (1-15 characters, alphanumeric and underscores only)"},
		{name: "Handle with dash", handle: "van-ta", email: "a@b.co", wantErr: "Invalid X handle format (1-15 characters, alphanumeric and underscores only)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handle, email, err := Validate(tc.handle, tc.email)
			if tc.wantErr != "" {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tc.wantErr, vErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, [2]string{handle, email})
		})
	}
}

func TestAdd(t *testing.T) {
	store, path := setupStore(t)

	entry, err := store.Add("vanta", "Dev@Vanta.io")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(entry.ID, "wl_"))
	assert.Equal(t, "@vanta", entry.XHandle)
	assert.Equal(t, "dev@vanta.io", entry.Email)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var stored []Entry
	require.NoError(t, json.Unmarshal(data, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, entry.ID, stored[0].ID)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAdd_Duplicates(t *testing.T) {
	store, _ := setupStore(t)
	_, err := store.Add("vanta", "dev@vanta.io")
	require.NoError(t, err)

	_, err = store.Add("@VANTA", "other@vanta.io")
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.Add("other", "DEV@vanta.io")
	assert.ErrorIs(t, err, ErrDuplicate)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCount_MissingAndInvalidFile(t *testing.T) {
	store, path := setupStore(t)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = store.Count()
	assert.Error(t, err)
}

func TestAdd_InvalidFileIsNotOverwritten(t *testing.T) {
	store, path := setupStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"wl_1","xHandle":"@a"`), 0o644))

	_, err := store.Add("vanta", "dev@vanta.io")
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"wl_1","xHandle":"@a"`, string(data))
}
