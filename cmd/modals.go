package cmd

import (
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/openpanel/panel/pkg/monitor/modals"
)

// modalDescriptions documents each registered modal kind.
var modalDescriptions = map[modals.Name]string{
	modals.EditProject: "Rename a project",
	modals.EditClient:  "Edit a client's name, project and allowed origins",
	modals.AddProject:  "Create a project",
	modals.AddClient:   "Create a client, optionally with a secret",
	modals.Confirm:     "Ask before a destructive action",
	modals.SaveReport:  "Save a report for a project",
	modals.AddInvite:   "Invite someone to the organization",
}

var modalsCmd = &cobra.Command{
	Use:     "modals [filter]",
	Short:   "List the registered modal kinds",
	GroupID: "system",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		names := filterModalNames(query)
		if len(names) == 0 {
			return fmt.Errorf("no modal kind matches %q", query)
		}
		out := cmd.OutOrStdout()
		for _, name := range names {
			fmt.Fprintf(out, "%-12s  %s\n", name, modalDescriptions[name])
		}
		return nil
	},
}

// filterModalNames returns the registered kinds matching query, best match
// first. An empty query returns every kind in registry order.
func filterModalNames(query string) []modals.Name {
	if query == "" {
		return modals.Names
	}
	labels := make([]string, len(modals.Names))
	for i, n := range modals.Names {
		labels[i] = string(n)
	}
	var out []modals.Name
	for _, m := range fuzzy.Find(query, labels) {
		out = append(out, modals.Names[m.Index])
	}
	return out
}

func init() {
	rootCmd.AddCommand(modalsCmd)
}
