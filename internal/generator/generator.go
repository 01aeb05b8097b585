// =============================================================================
// Visitor Export - Generator
// =============================================================================
//
// This module wires the record store, the validator, the exporter and the
// approver history into the export pipeline. It is what the command-line
// front end talks to.
//
// PIPELINE:
//   1. Import a spreadsheet (replaces the list) and/or add visitors by hand
//      (appends to the list)
//   2. Validate the list and the shared metadata
//   3. Render and write the GBK import file
//   4. Remember the approver in the history
//
// FAILURE MODEL:
//   Steps 1-3 either succeed or leave the store and the history untouched.
//   A failure to save the history in step 4 does not fail the export; it is
//   reported in Result.HistoryWarning.
//
// =============================================================================

package generator

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/visitor-export/internal/config"
	"github.com/ginjaninja78/visitor-export/internal/csvparser"
	"github.com/ginjaninja78/visitor-export/internal/exporter"
	"github.com/ginjaninja78/visitor-export/internal/history"
	"github.com/ginjaninja78/visitor-export/internal/records"
	"github.com/ginjaninja78/visitor-export/internal/types"
	"github.com/ginjaninja78/visitor-export/internal/validation"
	"github.com/ginjaninja78/visitor-export/internal/xlsxparser"
)

// ErrUnsupportedInput is returned for import files that are neither
// spreadsheets nor CSV.
var ErrUnsupportedInput = errors.New("unsupported input file: expected .xlsx, .xlsm or .csv")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of a successful export.
type Result struct {
	// OutputFile is the path of the written import file.
	OutputFile string

	// Records is the number of visitor rows written.
	Records int

	// HistoryWarning is set when the approver history could not be saved.
	// The export itself succeeded.
	HistoryWarning error

	// Duration is the time taken by validation and export.
	Duration time.Duration
}

// =============================================================================
// GENERATOR STRUCTURE
// =============================================================================

// Logger is an interface for logging. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Generator runs the export pipeline for one operator session.
type Generator struct {
	store     *records.Store
	history   *history.History
	exporter  *exporter.Exporter
	importCfg config.ImportSettings
	now       func() time.Time
	logger    Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock replaces the wall clock used for validation.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithImportSettings sets how spreadsheets are read.
func WithImportSettings(s config.ImportSettings) Option {
	return func(g *Generator) { g.importCfg = s }
}

// New creates a Generator around the given store and history.
func New(store *records.Store, hist *history.History, exp *exporter.Exporter, opts ...Option) *Generator {
	g := &Generator{
		store:     store,
		history:   hist,
		exporter:  exp,
		importCfg: config.Default().Import,
		now:       time.Now,
		logger:    nopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// =============================================================================
// INPUT
// =============================================================================

// ImportFile reads a visitor spreadsheet and replaces the current list.
// It returns the number of visitors imported.
func (g *Generator) ImportFile(path string) (int, error) {
	var (
		batch records.Batch
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		batch, err = xlsxparser.Parse(path, g.importCfg.SheetName)
	case ".csv":
		batch, err = csvparser.Parse(path, g.importCfg)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	n, err := g.store.ImportBatch(batch)
	if err != nil {
		return 0, err
	}

	g.logger.Info("imported visitors", "file", path, "count", n)
	return n, nil
}

// AddVisitor appends one manually entered visitor.
func (g *Generator) AddVisitor(entry records.ManualEntry) (types.VisitorRecord, error) {
	rec, err := g.store.AddOne(entry)
	if err != nil {
		return types.VisitorRecord{}, err
	}

	g.logger.Debug("added visitor", "name", rec.Name, "total", g.store.Len())
	return rec, nil
}

// Preview returns the current list for display.
func (g *Generator) Preview() []types.VisitorRecord {
	return g.store.Snapshot()
}

// =============================================================================
// EXPORT
// =============================================================================

// Generate validates the current list against meta, writes the import file to
// dest and records the approver in the history.
func (g *Generator) Generate(meta types.SharedMetadata, dest string) (Result, error) {
	startTime := time.Now()
	snapshot := g.store.Snapshot()

	meta.ApproverID = strings.TrimSpace(meta.ApproverID)
	meta.ApproverName = strings.TrimSpace(meta.ApproverName)

	if err := validation.NewValidatorWithClock(g.now).Validate(meta, snapshot); err != nil {
		g.logger.Warn("export rejected", "reason", err)
		return Result{}, err
	}

	if err := g.exporter.Export(snapshot, meta, dest); err != nil {
		g.logger.Error("export failed", "file", dest, "error", err)
		return Result{}, err
	}

	result := Result{
		OutputFile: dest,
		Records:    len(snapshot),
	}

	if err := g.history.Record(meta.ApproverID, meta.ApproverName); err != nil {
		g.logger.Warn("approver history not saved", "error", err)
		result.HistoryWarning = err
	}

	result.Duration = time.Since(startTime)
	g.logger.Info("export complete", "file", dest, "records", result.Records)

	return result, nil
}

// =============================================================================
// APPROVER LOOKUP
// =============================================================================

// CompleteApprover fills in a missing half of the approver pair from the
// history. A pair that is already complete, or unknown, is returned as is.
func (g *Generator) CompleteApprover(id, name string) (string, string) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)

	switch {
	case id != "" && name == "":
		if e, ok := g.history.SelectByID(id); ok {
			return e.ID, e.Name
		}
	case id == "" && name != "":
		if e, ok := g.history.SelectByName(name); ok {
			return e.ID, e.Name
		}
	}
	return id, name
}

// Approvers returns the approver history, most recent first.
func (g *Generator) Approvers() []types.ApproverEntry {
	return g.history.Entries()
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
