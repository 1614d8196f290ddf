package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"vpctl/pkg/config"
	"vpctl/pkg/tui"
	"vpctl/pkg/vpmobil"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the timetable of one class",
	Long: `Print the lessons of a class for the plan date. Changed lessons are
highlighted. Use --period or --subject to narrow the list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		class, _ := cmd.Flags().GetString("class")
		period, _ := cmd.Flags().GetString("period")
		subject, _ := cmd.Flags().GetString("subject")
		search, _ := cmd.Flags().GetString("search")
		changed, _ := cmd.Flags().GetBool("changed")
		asJSON, _ := cmd.Flags().GetBool("json")

		if class == "" {
			cfg, err := config.Load()
			if err == nil && cfg.DefaultClass != "" {
				class = cfg.DefaultClass
			} else {
				return fmt.Errorf("no class given and no default class configured (use --class)")
			}
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		var tt *vpmobil.ClassTimetable
		_ = spinner.New().
			Title(fmt.Sprintf("Fetching plan for class %s...", class)).
			Action(func() {
				tt, err = client.ClassTimetable(context.Background(), class)
			}).
			Run()

		if err != nil {
			return err
		}

		lessons := tt.Timetable()
		switch {
		case period != "":
			lessons = tt.LessonsByPeriod(period)
		case subject != "":
			lessons = tt.LessonsBySubject(subject)
		case search != "":
			lessons = tt.SearchSubject(search)
		case changed:
			lessons = tt.ChangedLessons()
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(lessons)
		}

		if len(lessons) == len(tt.Timetable()) {
			fmt.Print(tui.RenderTimetable(tt))
			return nil
		}
		fmt.Print(tui.RenderLessons(lessons))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("class", "c", "", "Class name, exactly as listed by `vpctl classes`")
	showCmd.Flags().StringP("period", "p", "", "Only lessons in this period")
	showCmd.Flags().StringP("subject", "s", "", "Only lessons of this subject (exact)")
	showCmd.Flags().String("search", "", "Lessons whose subject contains this text, ignoring case")
	showCmd.Flags().Bool("changed", false, "Only lessons with a change")
	showCmd.Flags().Bool("json", false, "Print lessons as JSON")
}
