package migrate

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSource_Ordered(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	require.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	require.Equal(t, uint(2), next)
}

func TestSource_UsersTableHasUniqueEmail(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	r, _, err := src.ReadUp(1)
	require.NoError(t, err)
	defer r.Close()

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "UNIQUE INDEX IF NOT EXISTS idx_users_email"))
}
