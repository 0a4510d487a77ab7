package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"cyclestats/lib/restyutil"
	"cyclestats/lib/serviceutil"
	"cyclestats/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	httpDump   string
)

var rootCmd = &cobra.Command{
	Use:   "cyclestats",
	Short: "cyclestats builds datasets about the grand tours of cycling.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
		telemetry.InstrumentPerfStats(cmd.Context(), time.Second*15)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "cyclestats.json5", "The configuration file to read.")
	rootCmd.PersistentFlags().StringVar(&httpDump, "http-dump", "", "A directory to dump every http exchange into.")
}

// httpOutput is nil unless --http-dump was given.
func httpOutput() restyutil.InstrumentOutput {
	if httpDump == "" {
		return nil
	}
	output, err := restyutil.NewFilesystemOutput(httpDump)
	if err != nil {
		serviceutil.Fatal("failed to create http dump directory", err)
	}
	return output
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
