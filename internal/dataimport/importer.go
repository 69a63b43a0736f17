package dataimport

// importer.go runs a chain of steps over every row of a source.
//
// The importer owns the per-row failure policy: by default a failing row is
// recorded in the report and the run continues; with StopOnError the first
// failure ends the run. When a RowGuard is configured every row runs inside
// its own guard (a savepoint on the run transaction) so a failed row leaves
// no partial writes behind.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ContextCheckInterval is how often (in rows) the importer checks for
// cancellation.
var ContextCheckInterval = 100

// Source yields records in input order. Next returns io.EOF after the last
// record.
type Source interface {
	Next() (Record, error)
	// Line is the 1-based input line of the record last returned by Next.
	Line() int
}

// RowGuard isolates the writes of a single row.
type RowGuard interface {
	Begin(ctx context.Context, row int) error
	Release(ctx context.Context, row int) error
	Rollback(ctx context.Context, row int) error
}

// ParseFunc converts an untyped record into the typed row of an import.
type ParseFunc[R any] func(rec Record) (R, error)

// FailedRow describes a row that did not import.
type FailedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Code   string `json:"code,omitempty"`
	Err    error  `json:"-"`
}

// Report is the outcome of one import run.
type Report struct {
	RunID      string      `json:"runId"`
	ImportType string      `json:"importType"`
	FileName   string      `json:"fileName,omitempty"`
	Total      int         `json:"total"`
	Imported   int         `json:"imported"`
	Failed     []FailedRow `json:"failed,omitempty"`
	DryRun     bool        `json:"dryRun,omitempty"`
	Duration   string      `json:"duration"`
	StartedAt  time.Time   `json:"startedAt"`
}

// Option configures an Importer.
type Option func(*options)

type options struct {
	guard       RowGuard
	stopOnError bool
	logger      *slog.Logger
	runID       string
}

// WithRowGuard wraps every row in g.
func WithRowGuard(g RowGuard) Option {
	return func(o *options) { o.guard = g }
}

// StopOnError ends the run at the first failed row.
func StopOnError(stop bool) Option {
	return func(o *options) { o.stopOnError = stop }
}

// WithLogger sets the base logger; run_id and import_type are added to it.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// Importer applies steps to every row of a source, in order.
type Importer[R any] struct {
	importType string
	parse      ParseFunc[R]
	steps      []Step[R]
	opts       options
	logger     *slog.Logger
}

// NewImporter builds an importer. Steps must be fresh for every run since
// they carry run-scoped caches and queues.
func NewImporter[R any](importType string, parse ParseFunc[R], steps []Step[R], opts ...Option) *Importer[R] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}

	return &Importer[R]{
		importType: importType,
		parse:      parse,
		steps:      steps,
		opts:       o,
		logger:     o.logger.With("run_id", o.runID, "import_type", importType),
	}
}

// RunID returns the id that tags this run's logs and report.
func (im *Importer[R]) RunID() string {
	return im.opts.runID
}

// Run processes every record of src. Row failures are collected in the
// report; the returned error is set only when the run itself stops (source
// failure, cancellation, guard failure, or StopOnError).
func (im *Importer[R]) Run(ctx context.Context, src Source) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:      im.opts.runID,
		ImportType: im.importType,
		StartedAt:  start,
	}
	defer func() {
		report.Duration = time.Since(start).Round(time.Millisecond).String()
	}()

	for i := 0; ; i++ {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return report, fmt.Errorf("import cancelled after %d rows: %w", report.Total, err)
			}
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("read line %d: %w", src.Line(), err)
		}

		line := src.Line()
		report.Total++

		rowErr, fatal := im.processRow(ctx, i, rec)
		if fatal != nil {
			return report, fmt.Errorf("line %d: %w", line, fatal)
		}
		if rowErr != nil {
			report.Failed = append(report.Failed, FailedRow{
				Line:   line,
				Reason: rowErr.Error(),
				Err:    rowErr,
			})
			im.logger.Warn("row failed", "line", line, "error", rowErr)
			if im.opts.stopOnError {
				return report, fmt.Errorf("line %d: %w", line, rowErr)
			}
			continue
		}
		report.Imported++
	}

	im.logger.Info("import rows processed",
		"total", report.Total,
		"imported", report.Imported,
		"failed", len(report.Failed),
	)
	return report, nil
}

// processRow returns rowErr for a failure attributable to the row and fatal
// for a failure of the run machinery.
func (im *Importer[R]) processRow(ctx context.Context, i int, rec Record) (rowErr, fatal error) {
	row, err := im.parse(rec)
	if err != nil {
		return err, nil
	}

	if im.opts.guard != nil {
		if err := im.opts.guard.Begin(ctx, i); err != nil {
			return nil, err
		}
	}

	for _, step := range im.steps {
		if err := step.Execute(ctx, &row); err != nil {
			if im.opts.guard != nil {
				if rbErr := im.opts.guard.Rollback(ctx, i); rbErr != nil {
					return nil, fmt.Errorf("rollback row: %w", rbErr)
				}
			}
			return err, nil
		}
	}

	if im.opts.guard != nil {
		if err := im.opts.guard.Release(ctx, i); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// Finish runs every AfterExecuteHook once, in step order. All hooks run even
// if one fails; the errors are joined.
func (im *Importer[R]) Finish(ctx context.Context) error {
	var errs []error
	for _, step := range im.steps {
		hook, ok := step.(AfterExecuteHook)
		if !ok {
			continue
		}
		if err := hook.AfterExecute(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
