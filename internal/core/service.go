package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/MerchantImport/internal/config"
	"github.com/JonMunkholm/MerchantImport/internal/csv"
	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/event"
	"github.com/JonMunkholm/MerchantImport/internal/logging"
	"github.com/JonMunkholm/MerchantImport/internal/store"
)

// ErrUnknownImportType is returned for a type nothing registered.
var ErrUnknownImportType = errors.New("unknown import type")

// Event delivery modes.
const (
	EventsDeferred  = "deferred"
	EventsImmediate = "immediate"
)

// TxBeginner starts the transaction a run executes in.
// Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Service runs imports. It is safe for concurrent use; each run gets its
// own transaction, caches and event queues.
type Service struct {
	db        TxBeginner
	publisher event.Publisher
	limiter   *ImportLimiter
	cfg       config.ImportConfig
	mode      string
	history   *RunHistory
}

// NewService creates a Service. Events are delivered through publisher
// according to events.Mode.
func NewService(db TxBeginner, publisher event.Publisher, cfg config.ImportConfig, events config.EventsConfig) *Service {
	return &Service{
		db:        db,
		publisher: publisher,
		limiter:   NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		cfg:       cfg,
		mode:      events.Mode,
		history:   NewRunHistory(DefaultHistorySize),
	}
}

// Types returns information about every registered import type.
func (s *Service) Types() []ImportInfo {
	defs := All()
	infos := make([]ImportInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// ActiveImports returns the number of runs in progress.
func (s *Service) ActiveImports() int {
	return s.limiter.Active()
}

// History returns the finished runs of this Service.
func (s *Service) History() *RunHistory {
	return s.history
}

// WaitForImports blocks until every active run has finished or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ImportFile imports path as importType. An empty path falls back to the
// type's default file in the data directory.
func (s *Service) ImportFile(ctx context.Context, importType, path string, opts ImportOptions) (*dataimport.Report, error) {
	def, ok := Get(importType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownImportType, importType)
	}
	if path == "" {
		path = filepath.Join(s.cfg.DataDir, def.Info.FileName)
	}

	src, err := csv.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if opts.FileName == "" {
		opts.FileName = filepath.Base(path)
	}
	return s.Import(ctx, importType, src, opts)
}

// Import runs src as importType inside a single transaction.
//
// Failed rows are rolled back to their savepoint and listed in the report;
// the rest of the run commits. Deferred events are published only after the
// commit succeeds. A dry run rolls everything back and publishes nothing.
// When the run itself fails (source error, StopOnError, cancellation) the
// whole transaction is rolled back and the partial report is returned with
// the error.
func (s *Service) Import(ctx context.Context, importType string, src csv.Source, opts ImportOptions) (*dataimport.Report, error) {
	def, ok := Get(importType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownImportType, importType)
	}
	if err := csv.RequireColumns(src.Header(), def.Info.RequiredColumns...); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(context.Background()) // no-op after commit

	merchantEvents, urlEvents := s.newSinks(opts.DryRun)

	runOpts := []dataimport.Option{
		dataimport.WithRowGuard(store.NewSavepoints(tx)),
		dataimport.StopOnError(opts.StopOnError || s.cfg.StopOnError),
		dataimport.WithLogger(logging.FromContext(ctx)),
	}
	runner := def.NewRunner(RunEnv{
		Queries:        store.New(tx),
		MerchantEvents: merchantEvents,
		URLEvents:      urlEvents,
		Options:        runOpts,
	})
	log := logging.ForRun(ctx, runner.RunID(), importType)

	report, runErr := runner.Run(ctx, src)
	if report != nil {
		report.FileName = opts.FileName
		report.DryRun = opts.DryRun
		annotateFailures(report)
	}
	if runErr != nil {
		log.Error("import aborted", "error", runErr)
		discard(merchantEvents, urlEvents)
		s.record(report, StatusAborted, runErr)
		return report, runErr
	}

	if opts.DryRun {
		discard(merchantEvents, urlEvents)
		if err := tx.Rollback(ctx); err != nil {
			return report, fmt.Errorf("rollback dry run: %w", err)
		}
		log.Info("dry run rolled back", "imported", report.Imported)
		s.record(report, StatusDryRun, nil)
		return report, nil
	}

	if err := tx.Commit(ctx); err != nil {
		err = fmt.Errorf("commit import: %w", err)
		discard(merchantEvents, urlEvents)
		s.record(report, StatusAborted, err)
		return report, err
	}

	start := time.Now()
	if err := runner.Finish(ctx); err != nil {
		log.Error("publish events failed", "error", err)
		err = fmt.Errorf("publish events: %w", err)
		s.record(report, StatusPublishFailed, err)
		return report, err
	}
	log.Info("import committed",
		"imported", report.Imported,
		"failed", len(report.Failed),
		"publish_duration", time.Since(start).Round(time.Millisecond),
	)
	s.record(report, StatusCommitted, nil)
	return report, nil
}

func (s *Service) record(report *dataimport.Report, status string, err error) {
	rec := RunRecord{Report: report, Status: status}
	if err != nil {
		rec.Error = err.Error()
	}
	s.history.Add(rec)
}

// discard drops the queued events of a run that does not commit.
func discard(sinks ...event.Sink) {
	for _, sink := range sinks {
		if d, ok := sink.(interface{ Discard() }); ok {
			d.Discard()
		}
	}
}

// newSinks returns the merchant and URL sinks for one run. A dry run always
// queues so nothing leaves the process before the rollback.
func (s *Service) newSinks(dryRun bool) (event.Sink, event.Sink) {
	if s.mode == EventsImmediate && !dryRun {
		return event.NewImmediateSink(s.publisher), event.NewImmediateSink(s.publisher)
	}
	return event.NewDeferredSink(s.publisher), event.NewDeferredSink(s.publisher)
}

// annotateFailures attaches a support code to every failed row.
func annotateFailures(report *dataimport.Report) {
	for i := range report.Failed {
		report.Failed[i].Code = MapError(report.Failed[i].Err).Code
	}
}
