package allowlist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newList(t *testing.T, admins ...string) *List {
	t.Helper()
	l, err := New(filepath.Join(t.TempDir(), "allowed-users.json"), admins)
	require.NoError(t, err)
	return l
}

func TestList_SeedsAdminsAsDefaults(t *testing.T) {
	l := newList(t, "100", "200")

	require.True(t, l.IsAllowed("100"))
	require.True(t, l.IsAdmin("200"))
	require.False(t, l.IsAllowed("300"))
	require.False(t, l.IsAdmin("300"))

	users := l.All()
	require.Len(t, users, 2)
	require.True(t, users[0].IsDefault)
}

func TestList_AddAndRemove(t *testing.T) {
	l := newList(t, "100")

	user, err := l.Add("300")
	require.NoError(t, err)
	require.Equal(t, "300", user.ID)
	require.False(t, user.IsDefault)
	require.NotEmpty(t, user.AddedAt)
	require.True(t, l.IsAllowed("300"))
	require.False(t, l.IsAdmin("300"), "allow-list membership does not grant admin")

	require.NoError(t, l.Remove("300"))
	require.False(t, l.IsAllowed("300"))
}

func TestList_AddDuplicate(t *testing.T) {
	l := newList(t, "100")

	_, err := l.Add("100")
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = l.Add("300")
	require.NoError(t, err)
	_, err = l.Add("300")
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestList_RemoveMissing(t *testing.T) {
	l := newList(t, "100")
	require.ErrorIs(t, l.Remove("999"), ErrNotFound)
}

func TestList_RemoveDefaultRefused(t *testing.T) {
	l := newList(t, "100")
	require.ErrorIs(t, l.Remove("100"), ErrDefaultUser)
	require.True(t, l.IsAllowed("100"))
}

func TestList_PersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowed-users.json")

	first, err := New(path, []string{"100"})
	require.NoError(t, err)
	_, err = first.Add("300")
	require.NoError(t, err)

	second, err := New(path, []string{"100"})
	require.NoError(t, err)
	require.True(t, second.IsAllowed("300"))
	require.Len(t, second.All(), 2)
}
