package cli

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathcanvas/internal/document"
	"github.com/matzehuels/pathcanvas/internal/tui"
	"github.com/matzehuels/pathcanvas/pkg/canvas"
	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

// editOpts holds the edit command options.
type editOpts struct {
	logFile         string
	allowReciprocal bool
	reflective      bool
}

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a drawing in the terminal",
		Long: `Open a drawing in the terminal editor. The file is created on first save.

Mouse:
  right click         open the context menu (add, rename, delete)
  drag a node         move it, snapping to aligned nodes
  shift/ctrl + drag   draw an arrow to another node
  drag empty canvas   pan
  wheel               zoom

Keys: ctrl+s save, esc cancel, +/- zoom, 0 reset view, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write debug logs to this file while editing")
	cmd.Flags().BoolVar(&opts.allowReciprocal, "allow-reciprocal", false, "allow arrows in both directions between two nodes")
	cmd.Flags().BoolVar(&opts.reflective, "reflective", false, "forbid arrows from rectangles (indicators) to ellipses (latent variables)")

	return cmd
}

// runEdit loads path (or starts an empty drawing) and runs the editor.
func (c *CLI) runEdit(ctx context.Context, path string, opts editOpts) error {
	doc, err := loadOrCreate(path)
	if err != nil {
		return err
	}
	cfg, err := c.resolveConfig(doc)
	if err != nil {
		return err
	}
	if opts.allowReciprocal {
		cfg.AllowReciprocal = true
	}

	// The terminal belongs to the editor, so logs go to a file or nowhere.
	var w io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "open log file %s", opts.logFile)
		}
		defer f.Close()
		w = f
	}
	logger := newLogger(w, log.DebugLevel)

	topts := []tui.Option{tui.WithLogger(logger)}
	if opts.reflective {
		topts = append(topts, tui.WithCanvasOptions(canvas.WithConnectionRule(reflectiveRule)))
	}
	m, err := tui.New(doc, path, cfg, topts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "run editor")
	}

	if m.Dirty() {
		printWarning("Unsaved changes discarded")
		return nil
	}
	snap := m.Canvas().Snapshot()
	printSuccess("Closed %s", path)
	printStats(len(snap.Nodes), len(snap.Edges), false)
	printNextStep("Export it with", "pathcanvas export "+path)
	return nil
}

// loadOrCreate reads the document at path, or returns an empty one when the
// file does not exist yet.
func loadOrCreate(path string) (*document.Document, error) {
	doc, err := document.ReadFile(path)
	if errors.Is(err, errors.ErrCodeNotFound) {
		printInfo("New drawing %s", path)
		return document.New(graph.Snapshot{}), nil
	}
	return doc, err
}

// reflectiveRule rejects arrows from an indicator (rectangle) to a latent
// variable (ellipse).
func reflectiveRule(source, target graph.Node, _ []graph.Node) error {
	if source.Shape.Kind == graph.ShapeRectangle && target.Shape.Kind == graph.ShapeEllipse {
		return errors.New(errors.ErrCodeInvalidEdge, "indicators cannot predict latent variables")
	}
	return nil
}
