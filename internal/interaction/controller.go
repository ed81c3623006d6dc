// Package interaction runs the fetch, persist, analyze and record pipeline for
// one user-triggered lineage question.
package interaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/sproc-lineage/internal/catalog"
	"github.com/ashureev/sproc-lineage/internal/domain"
	"github.com/ashureev/sproc-lineage/internal/history"
	"github.com/ashureev/sproc-lineage/internal/logger"
	"github.com/google/uuid"
)

// Connector acquires a database handle scoped to one run.
type Connector interface {
	Connect(ctx context.Context) (*sql.DB, error)
}

// DefinitionReader reads a procedure's source text from the catalog.
type DefinitionReader interface {
	Fetch(ctx context.Context, q catalog.Querier, schemaName, procName string) (string, error)
}

// DefinitionStore persists source text and returns where it was written.
type DefinitionStore interface {
	Persist(sourceText, procName string) (string, error)
}

// Analyzer explains lineage in a procedure for a user question.
type Analyzer interface {
	Analyze(ctx context.Context, sourceText, userQuery string) (string, error)
}

// Recorder keeps an audit copy of completed interactions.
type Recorder interface {
	RecordInteraction(ctx context.Context, sessionID string, rec domain.InteractionRecord) error
}

// Deps are the collaborators of a Controller. Recorder is optional.
type Deps struct {
	Connector Connector
	Reader    DefinitionReader
	Store     DefinitionStore
	Analyzer  Analyzer
	Recorder  Recorder
}

// Session is the caller-owned state a run appends to.
type Session struct {
	ID      string
	History *history.History
}

// Controller runs one analysis at a time per call; it holds no session state.
type Controller struct {
	deps  Deps
	now   func() time.Time
	newID func() string
}

// NewController creates a controller.
func NewController(deps Deps) *Controller {
	return &Controller{
		deps:  deps,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Run executes connect, read, persist, analyze and record in order. Any
// failure notifies n exactly once, returns a *StageError and leaves the
// session history untouched.
func (c *Controller) Run(ctx context.Context, sess Session, req domain.AnalysisRequest, n Notifier) (domain.InteractionRecord, error) {
	req = req.Trimmed()
	log := logger.FromContext(ctx).With(
		slog.String("schema", req.SchemaName),
		slog.String("procedure", req.ProcName),
	)

	fail := func(stage Stage, kind error, cause error, msg string) (domain.InteractionRecord, error) {
		n.Error(msg)
		log.Warn("analysis run failed", "stage", stage, "error", cause)
		err := kind
		if cause != nil {
			err = fmt.Errorf("%w: %w", kind, cause)
		}
		return domain.InteractionRecord{}, &StageError{Stage: stage, Err: err}
	}

	if !req.Complete() {
		return fail(StageIdle, ErrInvalidRequest, nil, "Please provide a schema name, a procedure name and a query.")
	}
	if sess.History == nil {
		return fail(StageIdle, ErrInvalidRequest, errors.New("no session history"), "Session is not initialized.")
	}

	log.Info("analysis run started")

	db, err := c.deps.Connector.Connect(ctx)
	if err != nil {
		return fail(StageConnecting, ErrConnection, err, fmt.Sprintf("Error: %v. Please re-authenticate.", err))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn("failed to close catalog connection", "error", closeErr)
		}
	}()
	n.Success("Connection successful")

	source, err := c.deps.Reader.Fetch(ctx, db, req.SchemaName, req.ProcName)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fail(StageReading, ErrNotFound, err, fmt.Sprintf("Stored procedure %s.%s not found.", req.SchemaName, req.ProcName))
	case err != nil:
		return fail(StageReading, ErrQuery, err, fmt.Sprintf("An error occurred while executing SQL query: %v", err))
	}

	path, err := c.deps.Store.Persist(source, req.ProcName)
	if err != nil {
		return fail(StagePersisting, ErrPersist, err, fmt.Sprintf("Failed to save stored procedure: %v", err))
	}
	n.Success("Stored procedure saved to " + path)

	result, err := c.deps.Analyzer.Analyze(ctx, source, req.UserQuery)
	if err != nil {
		return fail(StageAnalyzing, ErrAnalysis, err, fmt.Sprintf("Analysis failed: %v", err))
	}
	if strings.TrimSpace(result) == "" {
		return fail(StageAnalyzing, ErrAnalysis, errors.New("model returned an empty response"), "Analysis failed: the model returned an empty response.")
	}

	rec := domain.InteractionRecord{
		ID:         c.newID(),
		SchemaName: req.SchemaName,
		ProcName:   req.ProcName,
		UserQuery:  req.UserQuery,
		ResultText: result,
		StoredPath: path,
		CreatedAt:  c.now().UTC(),
	}
	sess.History.Append(rec)

	if c.deps.Recorder != nil {
		if err := c.deps.Recorder.RecordInteraction(ctx, sess.ID, rec); err != nil {
			log.Warn("failed to write audit record", "interaction_id", rec.ID, "error", err)
		}
	}

	log.Info("analysis run complete", "interaction_id", rec.ID, "history_len", sess.History.Len())
	return rec, nil
}
