package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/openpanel/panel/internal/catalog"
	"github.com/openpanel/panel/internal/config"
	"github.com/openpanel/panel/internal/logging"
	"github.com/openpanel/panel/internal/models"
	"github.com/openpanel/panel/internal/output"
	"github.com/openpanel/panel/pkg/monitor"
)

var errNotTerminal = errors.New("settings needs an interactive terminal")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Open the organization settings dashboard",
	Long: `Open the organization settings dashboard.

Projects and clients are listed side by side. Dialogs open as modals:
  a  create project        c  create client       r  save report
  e  edit selection        C  edit client         y  copy client id
  d  delete selection      tab switch pane        q  quit

The dashboard runs against an in-memory catalog seeded with demo data.`,
	GroupID: "core",
	Args:    cobra.NoArgs,
	RunE:    runSettings,
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	addCatalogFlags(settingsCmd.Flags())
	settingsCmd.Flags().Bool("no-mouse", false, "Disable mouse support")
}

// addCatalogFlags registers the flags shared by commands that open the
// organization catalog.
func addCatalogFlags(fs *pflag.FlagSet) {
	fs.String("org", "", "Organization id (overrides org.id)")
}

// loadSettingsConfig reads the config file and applies command flags.
func loadSettingsConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if org, _ := cmd.Flags().GetString("org"); org != "" {
		cfg.Org.ID = org
	}
	if noMouse, _ := cmd.Flags().GetBool("no-mouse"); noMouse {
		cfg.UI.Mouse = false
	}
	return cfg, nil
}

func programOptions(cfg config.Config) []tea.ProgramOption {
	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return opts
}

func runSettings(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	cfg, err := loadSettingsConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		output.Error("logging disabled: %v", err)
	}
	defer closeLog()

	org := models.Organization{ID: cfg.Org.ID, Name: cfg.Org.Name}
	store, err := catalog.NewDemo(org)
	if err != nil {
		return fmt.Errorf("seed demo catalog: %w", err)
	}

	logger.Info("settings start", "org", org.ID, "version", version)
	model := monitor.NewModel(monitor.Options{
		Catalog: store,
		Org:     org,
		Config:  cfg,
		Logger:  logger,
	})

	final, err := tea.NewProgram(model, programOptions(cfg)...).Run()
	if err != nil {
		return fmt.Errorf("run settings: %w", err)
	}
	if m, ok := final.(monitor.Model); ok && m.Err != nil {
		logger.Error("settings stopped", "err", m.Err)
		return m.Err
	}
	logger.Info("settings exit")
	return nil
}
