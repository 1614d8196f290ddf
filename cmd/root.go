package cmd

import (
	"fmt"
	"os"
	"time"

	"vpctl/pkg/config"
	"vpctl/pkg/logging"
	"vpctl/pkg/vpmobil"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "vpctl",
	Short: "A CLI and TUI for VpMobil school timetables",
	Long: `vpctl reads the daily substitution plans a school publishes on
stundenplan24.de (VpMobil) and shows, filters or exports them.

Credentials come from ~/.vpctl.json, a .env file or the environment.
The password is only ever read from $VPMOBIL_PASSWORD.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.LoadEnv()

	rootCmd.PersistentFlags().Int("school", 0, "School number (overrides config and $"+config.EnvSchool+")")
	rootCmd.PersistentFlags().String("user", "", "Username (overrides config and $"+config.EnvUser+")")
	rootCmd.PersistentFlags().String("date", "", "Plan date as YYYY-MM-DD (default today)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log fetches and parsing to stderr")
	rootCmd.PersistentFlags().String("dir", "", "Read plans from a directory of saved feeds instead of the server")
}

// planDate parses --date, defaulting to today
func planDate(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", raw)
	}
	return date, nil
}

func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(config.Mode(), verbose)
}

// clientFactory resolves the account once and returns a constructor for
// per-date clients
func clientFactory(cmd *cobra.Command, logger *zap.Logger) (func(time.Time) (*vpmobil.Client, error), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	acc, err := config.ResolveAccount(cfg)
	if err != nil {
		return nil, err
	}

	if school, _ := cmd.Flags().GetInt("school"); school != 0 {
		acc.SchoolCode = school
	}
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		acc.Username = user
	}

	opts := []vpmobil.Option{vpmobil.WithLogger(logger)}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		opts = append(opts, vpmobil.WithFetcher(vpmobil.DirFetcher{Dir: dir}))
		// Saved feeds don't need a login
		if acc.SchoolCode == 0 {
			acc.SchoolCode = 1
		}
		if acc.Username == "" {
			acc.Username = "offline"
		}
		if acc.Password == "" {
			acc.Password = "offline"
		}
	}

	creds := vpmobil.Credentials{
		SchoolCode: acc.SchoolCode,
		Username:   acc.Username,
		Password:   acc.Password,
	}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%w (run `vpctl config` and set $%s)", err, config.EnvPassword)
	}

	return func(date time.Time) (*vpmobil.Client, error) {
		return vpmobil.NewClient(date, creds, opts...)
	}, nil
}

// newClient builds the client for --date
func newClient(cmd *cobra.Command) (*vpmobil.Client, error) {
	date, err := planDate(cmd)
	if err != nil {
		return nil, err
	}
	factory, err := clientFactory(cmd, newLogger(cmd))
	if err != nil {
		return nil, err
	}
	return factory(date)
}
