package monitor

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/openpanel/panel/internal/models"
)

// clipboardCommand picks the platform clipboard tool. On Linux xclip is
// preferred over xsel.
func clipboardCommand() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("pbcopy"), nil
	case "windows":
		return exec.Command("clip.exe"), nil
	case "linux":
		for _, tool := range [][]string{
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		} {
			if _, err := exec.LookPath(tool[0]); err == nil {
				return exec.Command(tool[0], tool[1:]...), nil
			}
		}
		return nil, errors.New("no clipboard tool found (install xclip or xsel)")
	}
	return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
}

// copyToClipboard writes text to the system clipboard.
func copyToClipboard(text string) error {
	cmd, err := clipboardCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// formatClientAsMarkdown formats a client as markdown for the clipboard.
func formatClientAsMarkdown(c models.Client, project string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n", c.Name))
	sb.WriteString(fmt.Sprintf("**ID:** `%s`\n", c.ID))
	sb.WriteString(fmt.Sprintf("**Type:** %s\n", c.Type()))

	if project != "" {
		sb.WriteString(fmt.Sprintf("**Project:** %s (`%s`)\n", project, c.ProjectID))
	} else {
		sb.WriteString("**Project:** organization-wide\n")
	}

	// Secrets are never copied; they are shown once at creation.
	if len(c.CORS) > 0 {
		sb.WriteString("\n## Allowed origins\n\n")
		for _, origin := range c.CORS {
			sb.WriteString(fmt.Sprintf("- %s\n", origin))
		}
	}

	return sb.String()
}
