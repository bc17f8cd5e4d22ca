package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anystockai/tracker/internal/config"
	"github.com/anystockai/tracker/internal/core"
)

// Snapshot is the exported document.
type Snapshot struct {
	Symbol     string               `json:"symbol"`
	ExportedAt time.Time            `json:"exported_at"`
	Backend    string               `json:"backend"`
	History    []core.HistoryRecord `json:"history"`
}

// New opens the storage named by cfg.
func New(cfg config.ArchiveConfig) (Storage, error) {
	switch cfg.Type {
	case "", "localfs":
		return NewLocalFS(cfg.Path)
	case "s3":
		return NewS3(S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown archive type %q", cfg.Type))
	}
}

// Exporter writes signal history snapshots to a Storage.
type Exporter struct {
	store   Storage
	backend string
	now     func() time.Time
}

// NewExporter creates an exporter; backend is recorded in every snapshot.
func NewExporter(store Storage, backend string) *Exporter {
	return &Exporter{store: store, backend: backend, now: time.Now}
}

// snapshotTimeFormat sorts lexically in time order and keeps milliseconds so
// back-to-back exports get distinct names.
const snapshotTimeFormat = "20060102T150405.000Z"

// maxSnapshotAttempts bounds the suffixes tried when a name is taken.
const maxSnapshotAttempts = 100

// SnapshotPath is history/<SYMBOL>/<UTC timestamp>.json.
func SnapshotPath(symbol string, at time.Time) string {
	return fmt.Sprintf("history/%s/%s.json", strings.ToUpper(symbol), at.UTC().Format(snapshotTimeFormat))
}

// validateSymbol rejects symbols that would not stay one path segment.
func validateSymbol(symbol string) error {
	switch {
	case strings.TrimSpace(symbol) == "":
		return fmt.Errorf("symbol cannot be empty")
	case symbol == ".", strings.Contains(symbol, ".."):
		return fmt.Errorf("symbol %q contains a relative path element", symbol)
	case strings.ContainsAny(symbol, `/\`):
		return fmt.Errorf("symbol %q contains a path separator", symbol)
	}
	return nil
}

// Export writes records for symbol and returns the path written. An
// existing snapshot is never overwritten.
func (e *Exporter) Export(ctx context.Context, symbol string, records []core.HistoryRecord) (string, error) {
	if err := validateSymbol(symbol); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}
	if records == nil {
		records = []core.HistoryRecord{}
	}
	at := e.now()
	snap := Snapshot{
		Symbol:     symbol,
		ExportedAt: at.UTC(),
		Backend:    e.backend,
		History:    records,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}

	path, err := e.freePath(ctx, SnapshotPath(symbol, at))
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}
	if err := e.store.Write(ctx, path, data); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("writing %s: %w", path, err))
	}
	return path, nil
}

// freePath returns path, or path with a _N suffix when it is already taken.
func (e *Exporter) freePath(ctx context.Context, path string) (string, error) {
	base := strings.TrimSuffix(path, ".json")
	candidate := path
	for i := 1; i <= maxSnapshotAttempts; i++ {
		exists, err := e.store.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d.json", base, i)
	}
	return "", fmt.Errorf("no free snapshot name for %s", path)
}

// Snapshots lists exported snapshot paths for symbol, oldest first.
func (e *Exporter) Snapshots(ctx context.Context, symbol string) ([]string, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return e.store.List(ctx, "history/"+strings.ToUpper(symbol))
}
