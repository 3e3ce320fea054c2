package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathcanvas/internal/document"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

// connectionsCommand creates the connections command.
func (c *CLI) connectionsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "connections <file>",
		Short: "List each node's predictors and dependents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(connectionMap(doc.Graph))
			}
			fmt.Fprintln(out, connectionsTable(doc.Graph))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON object keyed by node label")

	return cmd
}

// nodeLinks is the JSON form of one node's neighbours.
type nodeLinks struct {
	Predictors []string `json:"predictors"`
	Dependents []string `json:"dependents"`
}

func connectionMap(s graph.Snapshot) map[string]nodeLinks {
	out := make(map[string]nodeLinks, len(s.Nodes))
	for _, n := range s.Nodes {
		out[n.Label] = nodeLinks{Predictors: n.Predictors, Dependents: n.Dependents}
	}
	return out
}

func connectionsTable(s graph.Snapshot) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("NODE", "SHAPE", "PREDICTORS", "DEPENDENTS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, n := range s.Nodes {
		t.Row(n.Label, n.Shape.String(), joinOrDash(n.Predictors), joinOrDash(n.Dependents))
	}
	return t.String()
}

func joinOrDash(labels []string) string {
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, ", ")
}
