package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/lucasdcanova/SeemsSmartToMe/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagCadence  int
	flagLanguage string
	flagOffline  bool
	flagExport   string
)

var rootCmd = &cobra.Command{
	Use:   "seemsmart",
	Short: "Terminal insider agent for live speech transcripts",
	Long: `seemsmart listens to a live transcript on stdin, periodically condenses it
into topics, summaries, intents and questions, and enriches each cycle with
news links and insights. Results build up a feed you can browse and export.

Pipe your transcriber into it:

    my-transcriber | seemsmart`,
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().IntVar(&flagCadence, "cadence", 0, "override analysis interval in seconds (10, 30 or 60)")
	rootCmd.PersistentFlags().StringVar(&flagLanguage, "language", "", "override response language (locale tag)")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "skip all network calls and use local analysis only")
	rootCmd.Flags().StringVar(&flagExport, "export-path", "feed.json", "where the TUI export key writes the feed")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pipeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("seemsmart %s (commit: %s, built: %s)\n", version, commit, date)
		if r := update.Check(context.Background(), version); r != nil {
			fmt.Printf("A newer version is available: %s\n", r.LatestVersion)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
