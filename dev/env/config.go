package devenv

// LiveTestConfig is read from dev/.state/live_test.json5, tests that hit
// the real websites are skipped when it is missing.
type LiveTestConfig struct {
	WikipediaTopic string `json:"wikipedia_topic"`
	RaceSlug       string `json:"race_slug"`
	RaceYear       int    `json:"race_year"`
}
