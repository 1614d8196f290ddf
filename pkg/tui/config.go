package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vpctl/pkg/config"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
)

// RunConfigTUI launches the interactive experience for managing configurations
func RunConfigTUI(provide ClientProvider) error {
	for {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("Set School Account", "account"),
						huh.NewOption("Set Saved Classes", "classes"),
						huh.NewOption("Set Default Class", "default"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "theme":
			err = runSetThemeTUI(cfg)
		case "account":
			err = runSetAccountTUI(cfg)
		case "classes":
			err = runSetSavedClassesTUI(cfg, provide)
		case "default":
			err = runSetDefaultClassTUI(cfg, provide)
		case "view":
			fmt.Print(RenderConfig(cfg))
		}

		if err != nil {
			return err
		}
	}
}

// RenderConfig lists the saved settings
func RenderConfig(cfg *config.AppConfig) string {
	var b strings.Builder
	b.WriteString(accentStyle.Render("\n--- Current Configuration (~/.vpctl.json) ---"))
	b.WriteString("\n")

	if cfg.SchoolCode == 0 {
		b.WriteString("School Code: Not set\n")
	} else {
		fmt.Fprintf(&b, "School Code: %d\n", cfg.SchoolCode)
	}
	if cfg.Username == "" {
		b.WriteString("Username: Not set\n")
	} else {
		fmt.Fprintf(&b, "Username: %s\n", cfg.Username)
	}
	fmt.Fprintf(&b, "Password: read from $%s\n", config.EnvPassword)
	fmt.Fprintf(&b, "Saved Classes: %s\n", strings.Join(cfg.SavedClasses, ", "))
	fmt.Fprintf(&b, "Default Class: %s\n", cfg.DefaultClass)
	fmt.Fprintf(&b, "Accent Color: %s\n\n", cfg.AccentColor)
	return b.String()
}

func runSetAccountTUI(cfg *config.AppConfig) error {
	school := ""
	if cfg.SchoolCode != 0 {
		school = strconv.Itoa(cfg.SchoolCode)
	}
	user := cfg.Username
	if user == "" {
		user = "schueler"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("School number").
				Description("The 8-digit number from your stundenplan24 login.").
				Value(&school).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n <= 0 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Username").
				Value(&user).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("username cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.SchoolCode, _ = strconv.Atoi(school)
	cfg.Username = strings.TrimSpace(user)

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Account saved. Export %s to log in.\n", config.EnvPassword)))
	return nil
}

// fetchClasses lists the classes of the configured day
func fetchClasses(provide ClientProvider) ([]string, error) {
	client, err := provide()
	if err != nil {
		return nil, err
	}

	var classes []string
	_ = spinner.New().
		Title("Fetching available classes...").
		Action(func() {
			classes, err = client.AvailableClasses(context.Background())
		}).
		Run()

	if err != nil {
		return nil, fmt.Errorf("failed to fetch classes: %w", err)
	}
	return classes, nil
}

func runSetSavedClassesTUI(cfg *config.AppConfig, provide ClientProvider) error {
	classes, err := fetchClasses(provide)
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		fmt.Println(errorStyle.Render("No classes in this plan. Try another --date."))
		return nil
	}

	saved := make(map[string]bool)
	for _, name := range cfg.SavedClasses {
		saved[name] = true
	}

	var options []huh.Option[string]
	for _, name := range classes {
		opt := huh.NewOption(name, name)
		if saved[name] {
			opt = opt.Selected(true)
		}
		options = append(options, opt)
	}

	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select the classes you follow").
				Description("Space = toggle, Enter = confirm. Start typing to filter.").
				Options(options...).
				Value(&selected).
				Filterable(true).
				Height(12),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.SavedClasses = selected
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Saved %d class(es).\n", len(selected))))
	return nil
}

func runSetDefaultClassTUI(cfg *config.AppConfig, provide ClientProvider) error {
	classes, err := fetchClasses(provide)
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		fmt.Println(errorStyle.Render("No classes in this plan. Try another --date."))
		return nil
	}

	selected := cfg.DefaultClass
	var options []huh.Option[string]
	for _, name := range classes {
		options = append(options, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select your default class").
				Options(options...).
				Value(&selected).
				Height(12),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.DefaultClass = selected
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Default class is now %s.\n", selected)))
	return nil
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color for vpctl").
				Description("Select a curated Charm style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Chalkboard Blue", colorBlock(defaultAccent)), defaultAccent),
					huh.NewOption(fmt.Sprintf("%s Marker Red", colorBlock("160")), "160"),
					huh.NewOption(fmt.Sprintf("%s Highlighter Yellow", colorBlock("220")), "220"),
					huh.NewOption(fmt.Sprintf("%s Schoolyard Green", colorBlock("42")), "42"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&hexInput).
					Validate(validHex),
			),
		).WithTheme(GetTheme())

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Beautiful! The theme color is now saved.\n"))
	return nil
}

func validHex(s string) error {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return fmt.Errorf("must be a valid 6-character hex code starting with #")
	}
	if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
		return fmt.Errorf("must be a valid 6-character hex code starting with #")
	}
	return nil
}
