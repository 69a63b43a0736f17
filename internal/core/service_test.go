package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/MerchantImport/internal/config"
	"github.com/JonMunkholm/MerchantImport/internal/csv"
	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/event"
)

// fakeTx records the statements and lifecycle calls of one transaction.
// Methods not overridden panic through the nil embedded interface.
type fakeTx struct {
	pgx.Tx
	statements []string
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(_ context.Context, sql string, _ ...interface{}) (pgconn.CommandTag, error) {
	tx.statements = append(tx.statements, sql)
	return pgconn.NewCommandTag(""), nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	db.tx = &fakeTx{}
	return db.tx, nil
}

type testRow struct {
	Key string
}

// registerTestType registers an import type whose rows publish one event
// each and fail when the key is empty. The returned RunEnv holds the
// environment of the latest run.
func registerTestType(t *testing.T) *RunEnv {
	t.Helper()
	Clear()
	t.Cleanup(Clear)

	last := &RunEnv{}
	Register(ImportDefinition{
		Info: ImportInfo{Type: "test", FileName: "test.csv", RequiredColumns: []string{"key"}},
		NewRunner: func(env RunEnv) Runner {
			*last = env
			write := dataimport.StepFunc[testRow](func(ctx context.Context, row *testRow) error {
				if row.Key == "" {
					return dataimport.Required("key")
				}
				return env.MerchantEvents.Add(ctx, event.New(event.MerchantPublish, int64(len(row.Key)), nil))
			})
			parse := func(rec dataimport.Record) (testRow, error) {
				return testRow{Key: rec.Get("key")}, nil
			}
			return dataimport.NewImporter("test", parse, []dataimport.Step[testRow]{&flushingStep{write, env.MerchantEvents}}, env.Options...)
		},
	})
	return last
}

// flushingStep flushes its sink at the end of the run like the writers do.
type flushingStep struct {
	dataimport.StepFunc[testRow]
	sink event.Sink
}

func (s *flushingStep) AfterExecute(ctx context.Context) error {
	return s.sink.Flush(ctx)
}

func newTestService(db TxBeginner, pub event.Publisher, mode string) *Service {
	return NewService(db, pub,
		config.ImportConfig{MaxConcurrent: 1},
		config.EventsConfig{Mode: mode},
	)
}

func source(t *testing.T, data string) csv.Source {
	t.Helper()
	src, err := csv.NewReader(strings.NewReader(data))
	require.NoError(t, err)
	return src
}

func TestServiceImport_CommitsThenPublishes(t *testing.T) {
	registerTestType(t)
	db := &fakeDB{}

	var committedAtPublish []bool
	pub := event.PublisherFunc(func(_ context.Context, e event.Event) error {
		committedAtPublish = append(committedAtPublish, db.tx.committed)
		return nil
	})
	svc := newTestService(db, pub, EventsDeferred)

	report, err := svc.Import(context.Background(), "test", source(t, "key,name\na,x\n,y\nccc,z\n"), ImportOptions{FileName: "test.csv"})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Imported)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 3, report.Failed[0].Line)
	assert.Equal(t, "VAL003", report.Failed[0].Code)
	assert.Equal(t, "test.csv", report.FileName)

	rec, ok := svc.History().Find(report.RunID)
	require.True(t, ok)
	assert.Equal(t, StatusCommitted, rec.Status)

	assert.True(t, db.tx.committed)
	assert.Equal(t, []bool{true, true}, committedAtPublish, "events are published after commit")
}

func TestServiceImport_SavepointPerRow(t *testing.T) {
	registerTestType(t)
	db := &fakeDB{}
	svc := newTestService(db, &event.RecordingPublisher{}, EventsDeferred)

	_, err := svc.Import(context.Background(), "test", source(t, "key,name\na,x\n,y\n"), ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"SAVEPOINT sp_0",
		"RELEASE SAVEPOINT sp_0",
		"SAVEPOINT sp_1",
		"ROLLBACK TO SAVEPOINT sp_1",
	}, db.tx.statements)
}

func TestServiceImport_DryRunRollsBack(t *testing.T) {
	env := registerTestType(t)
	db := &fakeDB{}
	pub := &event.RecordingPublisher{}
	svc := newTestService(db, pub, EventsImmediate)

	report, err := svc.Import(context.Background(), "test", source(t, "key\na\nb\n"), ImportOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Imported)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
	assert.Empty(t, pub.Events)
	assert.Zero(t, env.MerchantEvents.Pending(), "queued events are discarded")
}

func TestServiceImport_StopOnErrorRollsBack(t *testing.T) {
	env := registerTestType(t)
	db := &fakeDB{}
	pub := &event.RecordingPublisher{}
	svc := newTestService(db, pub, EventsDeferred)

	report, err := svc.Import(context.Background(), "test", source(t, "key,name\na,x\n,y\nc,z\n"), ImportOptions{StopOnError: true})
	require.ErrorIs(t, err, dataimport.ErrInvalidData)

	assert.Equal(t, 2, report.Total)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
	assert.Empty(t, pub.Events)
	assert.Zero(t, env.MerchantEvents.Pending(), "the event of row a is discarded")

	runs := svc.History().Recent(1)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusAborted, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)
}

func TestServiceImport_ImmediateEvents(t *testing.T) {
	registerTestType(t)
	db := &fakeDB{}

	var committedAtPublish []bool
	pub := event.PublisherFunc(func(_ context.Context, e event.Event) error {
		committedAtPublish = append(committedAtPublish, db.tx.committed)
		return nil
	})
	svc := newTestService(db, pub, EventsImmediate)

	_, err := svc.Import(context.Background(), "test", source(t, "key\na\n"), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, committedAtPublish, "one event before commit")
}

func TestServiceImport_PublishFailure(t *testing.T) {
	registerTestType(t)
	db := &fakeDB{}
	boom := errors.New("broker down")
	svc := newTestService(db, event.PublisherFunc(func(context.Context, event.Event) error { return boom }), EventsDeferred)

	_, err := svc.Import(context.Background(), "test", source(t, "key\na\n"), ImportOptions{})
	require.ErrorIs(t, err, boom)
	assert.True(t, db.tx.committed, "rows stay committed when publishing fails")
}

func TestServiceImport_UnknownType(t *testing.T) {
	registerTestType(t)
	svc := newTestService(&fakeDB{}, &event.RecordingPublisher{}, EventsDeferred)

	_, err := svc.Import(context.Background(), "product", source(t, "key\na\n"), ImportOptions{})
	assert.ErrorIs(t, err, ErrUnknownImportType)
}

func TestServiceImport_MissingColumn(t *testing.T) {
	registerTestType(t)
	db := &fakeDB{}
	svc := newTestService(db, &event.RecordingPublisher{}, EventsDeferred)

	_, err := svc.Import(context.Background(), "test", source(t, "name\na\n"), ImportOptions{})
	require.Error(t, err)
	assert.Equal(t, "VAL004", MapError(err).Code)
	assert.Nil(t, db.tx, "no transaction for a file with a missing column")
}

func TestServiceTypes(t *testing.T) {
	registerTestType(t)
	svc := newTestService(&fakeDB{}, &event.RecordingPublisher{}, EventsDeferred)

	types := svc.Types()
	require.Len(t, types, 1)
	assert.Equal(t, "test", types[0].Type)
	assert.Equal(t, "test", types[0].Label)
}

func TestDiscard(t *testing.T) {
	pub := &event.RecordingPublisher{}
	deferred := event.NewDeferredSink(pub)
	require.NoError(t, deferred.Add(context.Background(), event.New(event.MerchantPublish, 1, nil)))

	discard(deferred, event.NewImmediateSink(pub))

	assert.Zero(t, deferred.Pending())
	require.NoError(t, deferred.Flush(context.Background()))
	assert.Empty(t, pub.Events)
}
