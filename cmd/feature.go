package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openpanel/panel/internal/config"
	"github.com/openpanel/panel/internal/features"
	"github.com/openpanel/panel/internal/output"
)

const featureRowFormat = "%-22s  %-5s  %-7s  %s\n"

var featureCmd = &cobra.Command{
	Use:     "feature",
	Short:   "Manage experimental feature flags",
	GroupID: "system",
	Long: `Feature flags gate optional settings behavior.

PANEL_DISABLE_EXPERIMENTAL turns every flag off. Otherwise a flag resolves
from PANEL_FEATURE_<NAME>, the PANEL_DISABLE_FEATURE and PANEL_ENABLE_FEATURE
lists, the [features] table of the config file, and its built-in default.`,
}

var featureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known feature flags and their resolved state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := getConfigPath()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, featureRowFormat, "NAME", "STATE", "SOURCE", "DESCRIPTION")
		for _, f := range features.ListAll() {
			enabled, source := features.Resolve(path, f.Name)
			fmt.Fprintf(out, featureRowFormat, f.Name, onOff(enabled), source, f.Description)
		}
		return nil
	},
}

var featureGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show a feature flag and the surfaces it gates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := featureArg(args[0])
		if err != nil {
			return err
		}
		enabled, source := features.Resolve(getConfigPath(), name)
		printFeature(cmd.OutOrStdout(), name, enabled, source)
		return nil
	},
}

var featureSetCmd = &cobra.Command{
	Use:     "set <name> <true|false>",
	Short:   "Write a feature flag override to the config file",
	Args:    cobra.ExactArgs(2),
	Example: "  panel feature set modal_dismiss_by_key true\n  panel feature set client_project_picker off",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := featureArg(args[0])
		if err != nil {
			return err
		}
		enabled, err := parseBoolString(args[1])
		if err != nil {
			return err
		}
		if err := config.SetFeatureFlag(getConfigPath(), name, enabled); err != nil {
			return fmt.Errorf("set feature flag: %w", err)
		}
		output.Success("feature %s set to %t", name, enabled)
		return nil
	},
}

var featureUnsetCmd = &cobra.Command{
	Use:   "unset <name>",
	Short: "Drop a feature flag override from the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := featureArg(args[0])
		if err != nil {
			return err
		}
		if err := config.UnsetFeatureFlag(getConfigPath(), name); err != nil {
			return fmt.Errorf("unset feature flag: %w", err)
		}
		output.Success("feature %s unset", name)
		return nil
	},
}

// featureArg normalizes a command line feature name and rejects unknown ones.
func featureArg(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if features.IsKnownFeature(name) {
		return name, nil
	}
	known := make([]string, 0, len(features.ListAll()))
	for _, f := range features.ListAll() {
		known = append(known, f.Name)
	}
	return "", fmt.Errorf("unknown feature %q (known: %s)", name, strings.Join(known, ", "))
}

func printFeature(w io.Writer, name string, enabled bool, source string) {
	fmt.Fprintf(w, "%s=%t (source=%s)\n", name, enabled, source)
	for _, gate := range features.GateMap {
		if gate.Feature == name {
			fmt.Fprintf(w, "  gates: %s\n", gate.Surface)
		}
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func parseBoolString(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true, nil
	case "0", "false", "off", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool value %q", raw)
}

func init() {
	featureCmd.AddCommand(featureListCmd, featureGetCmd, featureSetCmd, featureUnsetCmd)
	rootCmd.AddCommand(featureCmd)
}
