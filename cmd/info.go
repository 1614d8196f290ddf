package cmd

import (
	"context"
	"fmt"

	"vpctl/pkg/tui"
	"vpctl/pkg/vpmobil"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show notices and off-days of the plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		var snap *vpmobil.Snapshot
		_ = spinner.New().
			Title("Fetching plan...").
			Action(func() {
				snap, err = client.Snapshot(context.Background())
			}).
			Run()

		if err != nil {
			return fmt.Errorf("failed to fetch plan: %w", err)
		}

		fmt.Print(tui.RenderDayInfo(snap))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
