package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "  Tour de Francia \n", expected: "Tour de Francia"},
		{input: "Stage\t1  (ITT)", expected: "Stage 1 (ITT)"},
		{input: "\u200bPrologue", expected: "Prologue"},
		{input: "", expected: ""},
	}
	for _, row := range table {
		require.Equal(t, row.expected, CleanText(row.input))
	}
}

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div>
			<a href="race/tour-de-france/2022/stage-1"> Stage 1 <b>Copenhagen</b></a>
			<a href="%zz">broken</a>
			<a>no href</a>
		</div>
	`))
	if err != nil {
		t.Fatal(err)
	}

	anchors := GetAnchors(doc.Find("a"))
	require.Equal(t, []Anchor{
		{Name: "Stage 1 Copenhagen", Href: "race/tour-de-france/2022/stage-1"},
		{Name: "no href", Href: ""},
	}, anchors)
}
