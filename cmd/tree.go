package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openpanel/panel/internal/catalog"
	"github.com/openpanel/panel/internal/models"
	"github.com/openpanel/panel/internal/output"
)

var treeCmd = &cobra.Command{
	Use:     "tree",
	Short:   "Print the organization's projects and clients as a tree",
	GroupID: "core",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettingsConfig(cmd)
		if err != nil {
			return err
		}
		org := models.Organization{ID: cfg.Org.ID, Name: cfg.Org.Name}
		store, err := catalog.NewDemo(org)
		if err != nil {
			return fmt.Errorf("seed demo catalog: %w", err)
		}

		depth, _ := cmd.Flags().GetInt("depth")
		return printOrgTree(cmd, store, org, output.TreeRenderOptions{
			MaxDepth:  depth,
			ShowKind:  true,
			ShowBadge: true,
		})
	},
}

func printOrgTree(cmd *cobra.Command, cat catalog.Catalog, org models.Organization, opts output.TreeRenderOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	projects, err := cat.ListProjects(ctx, org.ID)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	clients, err := cat.ListClients(ctx, org.ID)
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.RenderTree(output.OrgTree(org, projects, clients), opts))
	return nil
}

func init() {
	rootCmd.AddCommand(treeCmd)

	addCatalogFlags(treeCmd.Flags())
	treeCmd.Flags().Int("depth", 0, "Maximum depth to print (0 = unlimited)")
}
