package wikipedia

import (
	"context"
	"testing"
	"time"

	devenv "cyclestats/dev/env"
	"cyclestats/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestLiveFetchTable(t *testing.T) {
	config, err := devenv.GetStateConfig[devenv.LiveTestConfig]("live_test.json5")
	if err != nil || config.WikipediaTopic == "" {
		t.Skip("skipping test because no valid test config was found at dev/.state/live_test.json5")
	}
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/wikipedia")
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := NewClient(Options{})
	fetched, found, err := client.FetchTable(ctx, config.WikipediaTopic)
	require.NoError(t, err)
	require.True(t, found)
	require.NotEmpty(t, fetched.Columns)
	require.NotZero(t, fetched.Len())
}
