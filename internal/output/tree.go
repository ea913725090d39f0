package output

import (
	"strings"

	"github.com/openpanel/panel/internal/models"
)

// TreeNode represents a node in a tree structure for rendering
type TreeNode struct {
	ID       string
	Title    string
	Kind     string // "project", "client", ...
	Badge    string // Short trailing marker, e.g. a client type
	Children []TreeNode
}

// TreeRenderOptions configures tree rendering behavior
type TreeRenderOptions struct {
	MaxDepth  int  // 0 = unlimited
	ShowKind  bool // Whether to prefix nodes with their kind
	ShowBadge bool // Whether to show the trailing badge
}

// RenderTree renders a tree starting from a single root node
// Returns the complete tree as a string (without the root - just children)
func RenderTree(root TreeNode, opts TreeRenderOptions) string {
	lines := renderTreeNodes(root.Children, opts, 0, "")
	return strings.Join(lines, "\n")
}

// RenderTreeLines renders multiple root nodes and returns individual lines
// Useful for embedding trees in other output
func RenderTreeLines(roots []TreeNode, opts TreeRenderOptions) []string {
	return renderTreeNodes(roots, opts, 0, "")
}

// renderTreeNodes recursively renders tree nodes
func renderTreeNodes(nodes []TreeNode, opts TreeRenderOptions, depth int, prefix string) []string {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return nil
	}

	var lines []string

	for i, node := range nodes {
		isLast := i == len(nodes)-1

		connector := "\u251c\u2500\u2500 " // ├──
		if isLast {
			connector = "\u2514\u2500\u2500 " // └──
		}

		var parts []string
		if opts.ShowKind && node.Kind != "" {
			parts = append(parts, node.Kind)
		}
		if node.ID != "" {
			parts = append(parts, node.ID+":")
		}
		parts = append(parts, node.Title)
		if opts.ShowBadge && node.Badge != "" {
			parts = append(parts, "["+node.Badge+"]")
		}

		lines = append(lines, prefix+connector+strings.Join(parts, " "))

		childPrefix := prefix
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "\u2502   " // │
		}

		lines = append(lines, renderTreeNodes(node.Children, opts, depth+1, childPrefix)...)
	}

	return lines
}

// OrgTree arranges an organization's projects with their clients as
// children. Organization-wide clients are grouped under a final node.
func OrgTree(org models.Organization, projects []models.Project, clients []models.Client) TreeNode {
	root := TreeNode{ID: org.ID, Title: org.Name, Kind: "organization"}

	byProject := make(map[string][]TreeNode)
	for _, c := range clients {
		byProject[c.ProjectID] = append(byProject[c.ProjectID], TreeNode{
			ID:    c.ID,
			Title: c.Name,
			Kind:  "client",
			Badge: string(c.Type()),
		})
	}

	for _, p := range projects {
		root.Children = append(root.Children, TreeNode{
			ID:       p.ID,
			Title:    p.Name,
			Kind:     "project",
			Children: byProject[p.ID],
		})
	}
	if orgWide := byProject[""]; len(orgWide) > 0 {
		root.Children = append(root.Children, TreeNode{
			Title:    "(organization-wide)",
			Children: orgWide,
		})
	}
	return root
}
