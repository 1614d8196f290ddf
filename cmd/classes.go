package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the classes in the plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		var classes []string
		_ = spinner.New().
			Title("Fetching available classes...").
			Action(func() {
				classes, err = client.AvailableClasses(context.Background())
			}).
			Run()

		if err != nil {
			return fmt.Errorf("failed to fetch classes: %w", err)
		}

		if len(classes) == 0 {
			fmt.Printf("No classes in the plan for %s.\n", client.Date().Format("02.01.2006"))
			return nil
		}
		for _, name := range classes {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classesCmd)
}
