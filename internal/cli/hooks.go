package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pathcanvas/pkg/observability"
)

// logHooks logs canvas and export events at debug level. It is registered
// under --verbose.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnTransition(from, to, event string) {
	h.logger.Debug("canvas transition", "from", from, "to", to, "event", event)
}

func (h *logHooks) OnMutation(kind string, nodes, edges int) {
	h.logger.Debug("graph changed", "kind", kind, "nodes", nodes, "edges", edges)
}

func (h *logHooks) OnRejection(action, code, reason string) {
	h.logger.Debug("action rejected", "action", action, "code", code, "reason", reason)
}

func (h *logHooks) OnRender(commands int, d time.Duration) {}

func (h *logHooks) OnExportStart(_ context.Context, format string, nodeCount int) {
	h.logger.Debug("export started", "format", format, "nodes", nodeCount)
}

func (h *logHooks) OnExportComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "format", format, "err", err, "took", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("export complete", "format", format, "bytes", size, "took", d.Round(time.Millisecond))
}

var (
	_ observability.CanvasHooks = (*logHooks)(nil)
	_ observability.ExportHooks = (*logHooks)(nil)
)
