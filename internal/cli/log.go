// Package cli implements the boreholelog command-line interface.
//
// Commands:
//
//   - render: lay out one borehole and write PNG, SVG, PDF or JSON pages
//   - inspect: print the page plan or browse it interactively
//   - validate: check input, style and legend files without rendering
//   - config: list, show or write the built-in styles as TOML
//   - convert: rewrite AGS4 or CSV input as a JSON borehole document
//   - store: push boreholes to MongoDB and list them
//   - serve: run the HTTP API
//   - cache: inspect and clear the artifact cache
//
// Logging goes through charmbracelet/log; --verbose switches to debug level.
// Commands find the logger on their context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command and logs the result with structured fields.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, e.g.
//
//	14:32:01.45 INFO rendered borehole=BH01 pages=3 elapsed=1.234s
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
