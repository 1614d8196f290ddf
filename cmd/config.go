package cmd

import (
	"fmt"

	"vpctl/pkg/config"
	"vpctl/pkg/tui"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vpctl configuration",
	Long:  "View or edit your local configuration settings (school number, username, saved classes).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		setSchool, _ := cmd.Flags().GetInt("set-school")
		setUser, _ := cmd.Flags().GetString("set-user")
		setClass, _ := cmd.Flags().GetString("set-class")

		if setSchool == 0 && setUser == "" && setClass == "" {
			// If no flags are given, launch the interactive TUI flow
			return tui.RunConfigTUI(provider(cmd))
		}

		if setSchool < 0 {
			return fmt.Errorf("school number must be positive, got %d", setSchool)
		}
		if setSchool != 0 {
			cfg.SchoolCode = setSchool
		}
		if setUser != "" {
			cfg.Username = setUser
		}
		if setClass != "" {
			cfg.DefaultClass = setClass
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Print(tui.RenderConfig(cfg))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Int("set-school", 0, "Save your school number")
	configCmd.Flags().String("set-user", "", "Save your username")
	configCmd.Flags().String("set-class", "", "Save your default class")
}
