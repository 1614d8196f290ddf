package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vpctl/pkg/config"
	"vpctl/pkg/exporter"
	"vpctl/pkg/vpmobil"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// loadSnapshot fetches the day's plan behind a spinner
func loadSnapshot(provide ClientProvider) (*vpmobil.Client, *vpmobil.Snapshot, error) {
	client, err := provide()
	if err != nil {
		return nil, nil, err
	}

	var snap *vpmobil.Snapshot
	_ = spinner.New().
		Title(fmt.Sprintf("Fetching plan for %s from stundenplan24...", client.Date().Format("02.01.2006"))).
		Action(func() {
			snap, err = client.Snapshot(context.Background())
		}).
		Run()

	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch plan: %w", err)
	}
	return client, snap, nil
}

// pickClass asks for one class. The default class is preselected, saved
// classes are listed first.
func pickClass(snap *vpmobil.Snapshot) (string, error) {
	classes := snap.Classes()
	if len(classes) == 0 {
		return "", nil
	}

	cfg, _ := config.Load()
	saved := make(map[string]bool)
	selected := classes[0]
	if cfg != nil {
		for _, name := range cfg.SavedClasses {
			saved[name] = true
		}
		if cfg.DefaultClass != "" && snap.HasClass(cfg.DefaultClass) {
			selected = cfg.DefaultClass
		}
	}

	var options, rest []huh.Option[string]
	for _, name := range classes {
		if saved[name] {
			options = append(options, huh.NewOption("★ "+name, name))
		} else {
			rest = append(rest, huh.NewOption(name, name))
		}
	}
	options = append(options, rest...)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select your class").
				Description("Start typing to filter.").
				Options(options...).
				Value(&selected).
				Filtering(true).
				Height(12),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}

// RunTimetableTUI lets the user pick a class and prints its plan
func RunTimetableTUI(provide ClientProvider) error {
	_, snap, err := loadSnapshot(provide)
	if err != nil {
		return err
	}

	name, err := pickClass(snap)
	if err != nil {
		return err
	}
	if name == "" {
		fmt.Println(errorStyle.Render("No classes in this plan. Is it an off-day?"))
		return nil
	}

	tt, err := snap.Class(name)
	if err != nil {
		return err
	}

	fmt.Print(RenderTimetable(tt))
	if changed := tt.ChangedLessons(); len(changed) > 0 {
		fmt.Println(accentStyle.Render(fmt.Sprintf("\n%d lesson(s) changed today.", len(changed))))
	}
	return nil
}

// RunExportTUI exports the plan of one class to an ICS file
func RunExportTUI(provide ClientProvider) error {
	client, snap, err := loadSnapshot(provide)
	if err != nil {
		return err
	}

	name, err := pickClass(snap)
	if err != nil {
		return err
	}
	if name == "" {
		fmt.Println(errorStyle.Render("No classes in this plan. Is it an off-day?"))
		return nil
	}

	outputFile := fmt.Sprintf("%s-%s.ics", name, client.Date().Format("2006-01-02"))
	outputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output file name").
				Value(&outputFile).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("file name cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := outputForm.Run(); err != nil {
		return err
	}

	if !strings.HasSuffix(outputFile, ".ics") {
		outputFile += ".ics"
	}

	tt, err := snap.Class(name)
	if err != nil {
		return err
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := exporter.GenerateICS(tt, client.Date(), file); err != nil {
		return fmt.Errorf("failed to generate ICS: %w", err)
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\nSuccess! Exported class %s to %s", name, outputFile)))
	return nil
}

// RunInfoTUI prints the notices and off-days of the day
func RunInfoTUI(provide ClientProvider) error {
	_, snap, err := loadSnapshot(provide)
	if err != nil {
		return err
	}
	fmt.Print(RenderDayInfo(snap))
	return nil
}
