package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lucasdcanova/SeemsSmartToMe/internal/config"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/store"
	"github.com/spf13/cobra"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the persisted feed as JSON",
	Long: `Write the full feed history, newest entry last, as indented JSON.
Prints to stdout unless --out is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(config.StorePath())
		if err != nil {
			return fmt.Errorf("opening feed store: %w", err)
		}
		defer db.Close()

		items, err := db.LoadItems()
		if err != nil {
			return fmt.Errorf("loading feed: %w", err)
		}

		out := os.Stdout
		if flagExportOut != "" {
			f, err := os.Create(flagExportOut)
			if err != nil {
				return fmt.Errorf("creating %s: %w", flagExportOut, err)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encoding feed: %w", err)
		}
		if flagExportOut != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(items), flagExportOut)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagExportOut, "out", "", "write to a file instead of stdout")
}
