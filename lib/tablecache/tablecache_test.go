package tablecache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func write(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "df_tour.csv"), ",year,winner\n0,1903,Maurice Garin\n1,1904,Henri Cornet\n")
	write(t, filepath.Join(dir, "notes.txt"), "not a table")
	err := os.Mkdir(filepath.Join(dir, "archive.csv"), 0777)
	if err != nil {
		t.Fatal(err)
	}

	tables, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, tables, 1)

	tour, ok := tables["df_tour"]
	require.True(t, ok)
	require.Equal(t, []string{"0", "1"}, tour.Index)
	require.Equal(t, []string{"year", "winner"}, tour.Columns)
	require.Equal(t, "Henri Cornet", tour.Record(1)["winner"])
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "df_tour.csv"), "a,b\n1,2\n")
	write(t, filepath.Join(dir, "df_giro.csv"), "a,b\n1,2,3\n")

	tables, err := Load(dir)
	require.Error(t, err)
	require.Nil(t, tables)
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLoadNamed(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "df_tour.csv"), "id,winner\nt1,Garin\n")
	write(t, filepath.Join(dir, "df_giro.csv"), "id,winner\ng1,Ganna\n")

	tables, err := LoadNamed(dir, "df_giro")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, tables, 1)
	require.Equal(t, []string{"g1"}, tables["df_giro"].Index)

	_, err = LoadNamed(dir, "df_vuelta")
	require.True(t, errors.Is(err, os.ErrNotExist))
}
