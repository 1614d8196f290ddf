package cmd

import (
	"context"
	"fmt"
	"os"

	"vpctl/pkg/exporter"
	"vpctl/pkg/vpmobil"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Directly export a class timetable to an ICS file",
	Long:  `Export the lessons of one class for the plan date to an ICS file without using the interactive TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		class, _ := cmd.Flags().GetString("class")
		output, _ := cmd.Flags().GetString("output")

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		if output == "" {
			output = fmt.Sprintf("%s-%s.ics", class, client.Date().Format("2006-01-02"))
		}

		var tt *vpmobil.ClassTimetable
		_ = spinner.New().
			Title(fmt.Sprintf("Exporting timetable for class %s to %s...", class, output)).
			Action(func() {
				tt, err = client.ClassTimetable(context.Background(), class)
			}).
			Run()

		if err != nil {
			return fmt.Errorf("failed to fetch timetable: %w", err)
		}

		if len(tt.Timetable()) == 0 {
			return fmt.Errorf("no lessons found for class %s", class)
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		err = exporter.GenerateICS(tt, client.Date(), file)
		if err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("Successfully exported %d lessons of class %s to %s\n", len(tt.Timetable()), class, output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("class", "c", "", "Class name to export (e.g. 10a)")
	exportCmd.Flags().StringP("output", "o", "", "Output file path (default <class>-<date>.ics)")
	exportCmd.MarkFlagRequired("class")
}
