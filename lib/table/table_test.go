package table

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "year,winner,country\n1903,Maurice Garin,France\n1904,Henri Cornet,France\n"

	parsed, err := ReadCSV(strings.NewReader(input), ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	expected := Table{
		Columns: []string{"year", "winner", "country"},
		Rows: [][]string{
			{"1903", "Maurice Garin", "France"},
			{"1904", "Henri Cornet", "France"},
		},
	}
	if diff := cmp.Diff(expected, parsed); diff != "" {
		t.Fatal(diff)
	}

	indexed, err := ReadCSV(strings.NewReader(input), ReadOptions{IndexColumn: true})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "year", indexed.IndexName)
	require.Equal(t, []string{"1903", "1904"}, indexed.Index)
	require.Equal(t, []string{"winner", "country"}, indexed.Columns)
	require.Equal(t, []string{"Henri Cornet", "France"}, indexed.Rows[1])
}

func TestReadCSVMalformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"), ReadOptions{})
	require.Error(t, err)

	_, err = ReadCSV(strings.NewReader(""), ReadOptions{})
	require.Error(t, err)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	original := Table{
		IndexName: "",
		Index:     []string{"0", "1"},
		Columns:   []string{"stage", "distance"},
		Rows: [][]string{
			{"Stage 1", "182, flat"},
			{"Stage 2", "\"hilly\""},
		},
	}

	var buf bytes.Buffer
	err := WriteCSV(&buf, original)
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, strings.HasPrefix(buf.String(), ",stage,distance\n"))

	decoded, err := ReadCSV(&buf, ReadOptions{IndexColumn: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Fatal(diff)
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "df_tour.csv")

	first := New("a")
	require.NoError(t, first.Append("1"))
	require.NoError(t, first.Append("2"))
	require.NoError(t, WriteFile(path, first))

	second := New("b")
	require.NoError(t, second.Append("3"))
	require.NoError(t, WriteFile(path, second))

	loaded, err := ReadFile(path, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []string{"b"}, loaded.Columns)
	require.Equal(t, [][]string{{"3"}}, loaded.Rows)
}

func TestAccessors(t *testing.T) {
	tbl := New("date", "km")
	require.NoError(t, tbl.Append("2020-01-01", "180"))
	require.Error(t, tbl.Append("2020-01-02"))

	v, ok := tbl.Value(0, "km")
	require.True(t, ok)
	require.Equal(t, "180", v)

	_, ok = tbl.Value(0, "missing")
	require.False(t, ok)
	_, ok = tbl.Value(3, "km")
	require.False(t, ok)

	require.Equal(t, map[string]string{"date": "2020-01-01", "km": "180"}, tbl.Record(0))
	require.Nil(t, tbl.Record(1))
	require.Nil(t, tbl.Record(-1))
	require.Equal(t, 1, tbl.Len())

	empty := tbl.Slice(1, 1)
	require.Equal(t, 0, empty.Len())
	require.Equal(t, tbl.Columns, empty.Columns)
}
