package cmd

import (
	"vpctl/pkg/tui"
	"vpctl/pkg/vpmobil"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive TUI",
	Long:  `Launch the Text User Interface to browse classes, view changes, and export timetables interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.RunTUI(provider(cmd))
	},
}

// provider defers client creation until a menu entry needs it, so the
// settings menu works before an account is configured
func provider(cmd *cobra.Command) tui.ClientProvider {
	var client *vpmobil.Client
	return func() (*vpmobil.Client, error) {
		if client != nil {
			return client, nil
		}
		c, err := newClient(cmd)
		if err != nil {
			return nil, err
		}
		client = c
		return client, nil
	}
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
