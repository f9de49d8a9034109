// cmd/tourney/main.go
//
// Headless tournament client.
//
// Each form command fetches the same page a browser would, parses it into
// an in-memory document, applies the values given on the command line, and
// submits through the form controllers.  Date validation, messages, and the
// post-success redirect behave exactly as in the browser; the terminal
// stands in for the window.
//
//	tourney register --first-name Ada --surname Lovelace --email ada@example.com --tournament-id 2
//	tourney create --name "Spring Open" --date 2031-04-01 --time 18:00 ...
//	tourney edit 3 --location "Annexe"
//	tourney delete 3
//	tourney forms
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grahamford77/table-tennis/internal/config"
	"github.com/grahamford77/table-tennis/internal/form"
	"github.com/grahamford77/table-tennis/internal/logger"
)

// app is the state shared by every command after PersistentPreRunE.
type app struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	forms *form.Registry

	baseURL string
	verbose bool
	yes     bool
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "tourney",
		Short:         "Drive the tournament registration forms from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "tournament service base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "echo log output to the terminal")
	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "answer yes to confirmation prompts")

	defaults, err := form.Defaults()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	root.AddCommand(
		a.formCmd(defaults, "register", "registrationForm", "Register a player for a tournament", nil),
		a.formCmd(defaults, "create", "createTournamentForm", "Create a tournament", nil),
		a.formCmd(defaults, "edit ID", "editTournamentForm", "Edit a tournament", editPath),
		a.deleteCmd(),
		a.formsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// init loads configuration, starts the logger, and loads form overrides.
func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.Service.BaseURL = a.baseURL
	}
	a.cfg = cfg

	log, err := logger.New(cfg.Paths.Root, a.verbose, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	a.log = log

	reg, err := form.Defaults()
	if err != nil {
		return err
	}
	if err := reg.LoadDir(cfg.Forms.Dir); err != nil {
		return err
	}
	a.forms = reg
	return nil
}
