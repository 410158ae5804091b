// Package cli holds the pieces of the mosaic command that do not depend on
// a window: flag value parsing and the headless progress reporter.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/mosaic"
)

// ParseBackground parses a "#rrggbb" or "#rgb" color, the leading '#' optional.
func ParseBackground(s string) (mosaic.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return mosaic.RGBA{}, fmt.Errorf("invalid background %q: %w", s, err)
	}
	return mosaic.RGB(c.R, c.G, c.B), nil
}

// Reporter is the headless Presenter: it logs progress every few
// generations and stops the run once the generation limit is reached.
type Reporter struct {
	engine  *mosaic.Engine
	every   uint64
	limit   uint64
	stop    context.CancelFunc
	logger  *slog.Logger
	printer *message.Printer

	start      time.Time
	commits    int
	lastReport uint64
}

// NewReporter returns a Reporter for e. A limit of 0 never stops the run;
// every below 1 reports each presented generation. A nil logger uses
// slog.Default.
func NewReporter(e *mosaic.Engine, every, limit uint64, stop context.CancelFunc, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		engine:  e,
		every:   max(every, 1),
		limit:   limit,
		stop:    stop,
		logger:  logger,
		printer: message.NewPrinter(language.English),
		start:   time.Now(),
	}
}

// Present implements mosaic.Presenter.
func (r *Reporter) Present(_ *mosaic.Pixmap, st mosaic.Stats) error {
	r.commits += st.Committed
	if st.Generation-r.lastReport >= r.every {
		r.lastReport = st.Generation
		r.logger.Info("progress",
			"generation", r.printer.Sprintf("%d", st.Generation),
			"commits", r.printer.Sprintf("%d", r.commits),
			"distance", r.printer.Sprintf("%.5f", r.engine.Distance()))
	}
	if r.limit > 0 && st.Generation >= r.limit {
		r.stop()
	}
	return nil
}

// Commits returns the number of patches committed while reporting.
func (r *Reporter) Commits() int { return r.commits }

// Summary logs the totals of the run.
func (r *Reporter) Summary() {
	elapsed := time.Since(r.start)
	rate := float64(r.engine.Generation()) / max(elapsed.Seconds(), 1e-9)
	r.logger.Info("done",
		"generations", r.printer.Sprintf("%d", r.engine.Generation()),
		"commits", r.printer.Sprintf("%d", r.commits),
		"distance", r.printer.Sprintf("%.5f", r.engine.Distance()),
		"elapsed", elapsed.Round(time.Millisecond),
		"rate", r.printer.Sprintf("%.1f gen/s", rate))
}
