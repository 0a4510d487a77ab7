package segment

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"cyclestats/lib/table"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func dateTable(t testing.TB, dates ...string) table.Table {
	tbl := table.New("date", "stage")
	for i, d := range dates {
		err := tbl.Append(d, string(rune('A'+i)))
		if err != nil {
			t.Fatal(err)
		}
	}
	return tbl
}

func dates(tbl table.Table) []string {
	out := make([]string, tbl.Len())
	for i := range tbl.Rows {
		out[i], _ = tbl.Value(i, "date")
	}
	return out
}

func TestSplitByDateDecrease(t *testing.T) {
	testCases := []struct {
		name     string
		dates    []string
		expected [][]string
	}{
		{
			name:     "single decrease",
			dates:    []string{"2020-01-01", "2020-01-05", "2020-01-03", "2020-01-10"},
			expected: [][]string{{"2020-01-01", "2020-01-05"}, {"2020-01-03", "2020-01-10"}},
		},
		{
			name:     "equal dates do not split",
			dates:    []string{"2020-01-01", "2020-01-01", "2020-01-02"},
			expected: [][]string{{"2020-01-01", "2020-01-01", "2020-01-02"}},
		},
		{
			name:     "every row decreases",
			dates:    []string{"2020-01-03", "2020-01-02", "2020-01-01"},
			expected: [][]string{{"2020-01-03"}, {"2020-01-02"}, {"2020-01-01"}},
		},
		{
			name:     "single row",
			dates:    []string{"1999-07-03"},
			expected: [][]string{{"1999-07-03"}},
		},
		{
			name:     "mixed layouts",
			dates:    []string{"2021-05-08T13:00:00Z", "2021-05-09 10:00:00", "2021-05-01"},
			expected: [][]string{{"2021-05-08T13:00:00Z", "2021-05-09 10:00:00"}, {"2021-05-01"}},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			segments, err := SplitByDateDecrease(dateTable(t, test.dates...), "date")
			if err != nil {
				t.Fatal(err)
			}
			got := make([][]string, len(segments))
			for i, s := range segments {
				got[i] = dates(s)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestSplitEmpty(t *testing.T) {
	segments, err := SplitByDateDecrease(table.New("date"), "date")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, segments, 1)
	require.Equal(t, 0, segments[0].Len())
	require.Equal(t, []string{"date"}, segments[0].Columns)
}

func TestSplitErrors(t *testing.T) {
	_, err := SplitByDateDecrease(dateTable(t, "2020-01-01"), "fecha")
	require.True(t, errors.Is(err, ErrColumnNotFound))

	_, err = SplitByDateDecrease(dateTable(t, "2020-01-01", "not a date"), "date")
	require.Error(t, err)

	segments, err := SplitByDateDecrease(
		dateTable(t, "03/01/2020", "01/01/2020"),
		"date",
		WithLayouts("02/01/2006"),
	)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, segments, 2)
}

func TestSplitWithLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("no tzdata available:", err)
	}

	// 00:30 in Paris is 23:30 UTC, before the first row
	tbl := dateTable(t, "2020-01-01T23:45:00Z", "2020-01-02T00:30:00")

	segments, err := SplitByDateDecrease(tbl, "date", WithLocation(paris))
	require.NoError(t, err)
	require.Len(t, segments, 2)

	segments, err = SplitByDateDecrease(tbl, "date", WithLocation(nil))
	require.NoError(t, err)
	require.Len(t, segments, 1)
}

func TestSplitProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	for iteration := 0; iteration < 200; iteration++ {
		n := rng.Intn(30)
		values := make([]string, n)
		for i := range values {
			values[i] = base.AddDate(0, 0, rng.Intn(20)).Format(time.DateOnly)
		}
		tbl := dateTable(t, values...)

		segments, err := SplitByDateDecrease(tbl, "date")
		if err != nil {
			t.Fatal(err)
		}
		require.NotEmpty(t, segments)

		// lossless and order preserving
		var joined [][]string
		for _, s := range segments {
			joined = append(joined, s.Rows...)
		}
		if n == 0 {
			require.Empty(t, joined)
		} else if diff := cmp.Diff(tbl.Rows, joined); diff != "" {
			t.Fatal(diff)
		}

		for i, s := range segments {
			d := dates(s)
			for j := 1; j < len(d); j++ {
				require.LessOrEqual(t, d[j-1], d[j])
			}
			if i > 0 {
				prev := dates(segments[i-1])
				require.Less(t, d[0], prev[len(prev)-1])
			}
		}

		// splitting a segment again is a no-op
		for _, s := range segments {
			again, err := SplitByDateDecrease(s, "date")
			if err != nil {
				t.Fatal(err)
			}
			require.Len(t, again, 1)
			if diff := cmp.Diff(s, again[0]); diff != "" {
				t.Fatal(diff)
			}
		}
	}
}

func TestSplitIndices(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC) }
	require.Nil(t, SplitIndices(nil))
	require.Equal(t, []int{2, 3}, SplitIndices([]time.Time{day(1), day(5), day(3), day(2), day(2)}))
}
