package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type call struct {
	kind string
	id   string
	n    int
}

type recorder struct {
	calls *[]call
}

func (r recorder) ReportBroken(id string, params ...any) {
	*r.calls = append(*r.calls, call{kind: "broken", id: id, n: len(params)})
}

func (r recorder) ReportWarning(id string, params ...any) {
	*r.calls = append(*r.calls, call{kind: "warning", id: id, n: len(params)})
}

func (r recorder) ReportDebug(msg string, params ...any) {
	*r.calls = append(*r.calls, call{kind: "debug", id: msg, n: len(params)})
}

func (r recorder) ReportCount(id string, count int64) {
	*r.calls = append(*r.calls, call{kind: "count", id: id, n: int(count)})
}

func TestScopedAPI(t *testing.T) {
	var calls []call
	scoped := NewScopedAPI("stage-harvester", recorder{calls: &calls})

	scoped.ReportBroken("parse-stage", "err", 2000)
	scoped.ReportWarning("get-race")
	scoped.ReportDebug("fetching")
	scoped.ReportCount("records", 7)

	require.Equal(t, []call{
		{kind: "broken", id: "stage-harvester: parse-stage", n: 2},
		{kind: "warning", id: "stage-harvester: get-race", n: 0},
		{kind: "debug", id: "stage-harvester: fetching", n: 0},
		{kind: "count", id: "stage-harvester: records", n: 7},
	}, calls)
}

func TestSlogAPIPairs(t *testing.T) {
	pairs := SlogAPI{}.pairs([]any{"id", "x"}, []any{1, "two"})
	require.Equal(t, []any{"id", "x", "params.0", 1, "params.1", "two"}, pairs)
}
