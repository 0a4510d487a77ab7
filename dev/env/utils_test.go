package devenv

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	plain, err := ResolvePath("data/wikipedia")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "data/wikipedia", plain)

	resolved, err := ResolvePath("<dev_state>/wikipedia/original")
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, strings.HasSuffix(
		resolved,
		filepath.Join("dev", ".state", "wikipedia", "original"),
	))
}
