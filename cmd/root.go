package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/openpanel/panel/internal/config"
	"github.com/openpanel/panel/internal/output"
)

var (
	version    string
	configPath string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "panel",
	Short: "Organization settings for OpenPanel in the terminal",
	Long: `panel - manage an OpenPanel organization's projects and clients from the terminal.

Every dialog (create, edit, confirm, save report) is a modal on a single stack:
Escape closes the top one and clicking outside dismisses it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		if strings.HasPrefix(err.Error(), "unknown command") {
			if s := suggestCommands(firstNonFlagArg(os.Args[1:])); len(s) > 0 {
				fmt.Fprintf(os.Stderr, "\nDid you mean: %s?\n", strings.Join(s, ", "))
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Settings:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $PANEL_CONFIG or ~/.config/panel/config.toml)")
}

// getConfigPath returns the config file used by this invocation.
func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.Path()
}

// firstNonFlagArg returns the first argument that is not a flag.
func firstNonFlagArg(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

// suggestCommands fuzzy-matches name against the visible subcommands.
func suggestCommands(name string) []string {
	if name == "" {
		return nil
	}
	var names []string
	for _, c := range rootCmd.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
		}
	}
	var out []string
	for _, m := range fuzzy.Find(name, names) {
		out = append(out, m.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}
