package telemetry

import (
	"fmt"
	"log/slog"
)

// API is an abstraction over logging/metrics so that tests can assert on
// what was reported.
type API interface {
	// ReportBroken reports a unit of work that failed and should be looked at.
	//
	// `id` names the component that broke (ex. `stage-harvester.parse-stage`),
	// not the specific line that failed. Formatting: lowercase, dashes between
	// words, dots between a component and its method.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something that is not necessarily broken but may
	// be worth investigating. See ReportBroken for `id`.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information that is only useful while debugging.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the current value of a count, counts are points of
	// data over time and should not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, like a sub-logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}

// SlogAPI implements API with the default slog logger.
type SlogAPI struct{}

func (SlogAPI) pairs(first []any, params []any) []any {
	out := first
	for i, p := range params {
		out = append(out, fmt.Sprintf("params.%d", i), p)
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	slog.Error("broken component", s.pairs([]any{"id", id}, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	slog.Warn("warning", s.pairs([]any{"id", id}, params)...)
}

func (s SlogAPI) ReportDebug(msg string, params ...any) {
	slog.Debug(msg, s.pairs(nil, params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	slog.Info("count", "id", id, "n", count)
}
