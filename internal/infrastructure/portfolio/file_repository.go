// Package portfolio persists the prediction history as a JSON array file.
package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Isaksend/credit-score/internal/domain/model"
)

type resultRecord struct {
	CreditScore        *float64 `json:"credit_score,omitempty"`
	DefaultProbability *float64 `json:"default_probability,omitempty"`
	DefaultClass       *int     `json:"default_class,omitempty"`
	RiskLevel          string   `json:"risk_level,omitempty"`
	Decision           string   `json:"decision,omitempty"`
	ScoreRange         string   `json:"score_range,omitempty"`
}

type entryRecord struct {
	ID        string       `json:"id,omitempty"`
	Timestamp string       `json:"timestamp,omitempty"`
	Source    string       `json:"source,omitempty"`
	Username  string       `json:"username,omitempty"`
	Result    resultRecord `json:"result"`
}

// FileRepository implements port.PortfolioRepository on a single JSON file.
// Each append rewrites the file through a temporary file and a rename.
// Records are kept as raw JSON so a malformed record survives rewrites and
// only loses its own unreadable fields when listed.
type FileRepository struct {
	mu   sync.RWMutex
	path string
}

// NewFileRepository creates a repository backed by path. The file is created
// on the first append.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Path returns the backing file path.
func (r *FileRepository) Path() string { return r.path }

// Append records one entry at the end of the log.
func (r *FileRepository) Append(ctx context.Context, entry model.PortfolioEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read()
	if err != nil {
		return fmt.Errorf("failed to read portfolio log: %w", err)
	}
	record, err := json.Marshal(toRecord(entry))
	if err != nil {
		return fmt.Errorf("failed to encode portfolio entry: %w", err)
	}
	records = append(records, record)

	if err := r.write(records); err != nil {
		return fmt.Errorf("failed to write portfolio log: %w", err)
	}
	return nil
}

// List returns entries in insertion order. A positive limit returns only the
// most recent limit entries. A missing file yields an empty list.
func (r *FileRepository) List(ctx context.Context, limit int) ([]model.PortfolioEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	records, err := r.read()
	r.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio log: %w", err)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	entries := make([]model.PortfolioEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, fromRecord(rec))
	}
	return entries, nil
}

func (r *FileRepository) read() ([]json.RawMessage, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return records, nil
}

func (r *FileRepository) write(records []json.RawMessage) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func toRecord(e model.PortfolioEntry) entryRecord {
	rec := entryRecord{
		Source:   e.Source,
		Username: e.Username,
		Result: resultRecord{
			CreditScore:        e.CreditScore,
			DefaultProbability: e.DefaultProbability,
			DefaultClass:       e.DefaultClass,
			RiskLevel:          e.RiskLevel,
			Decision:           e.Decision,
			ScoreRange:         e.ScoreRange,
		},
	}
	if e.ID != uuid.Nil {
		rec.ID = e.ID.String()
	}
	if !e.RecordedAt.IsZero() {
		rec.Timestamp = e.RecordedAt.UTC().Format(time.RFC3339Nano)
	}
	return rec
}

// fromRecord decodes one record field by field. Fields of the wrong type,
// non-finite numbers, unparsable ids and timestamps are left zero; a record
// that is not an object yields an empty entry.
func fromRecord(raw json.RawMessage) model.PortfolioEntry {
	var e model.PortfolioEntry

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return e
	}

	e.Source = stringField(fields, "source")
	e.Username = stringField(fields, "username")
	if id, err := uuid.Parse(stringField(fields, "id")); err == nil {
		e.ID = id
	}
	if ts, err := time.Parse(time.RFC3339Nano, stringField(fields, "timestamp")); err == nil {
		e.RecordedAt = ts
	}

	result, _ := fields["result"].(map[string]any)
	e.CreditScore = numberField(result, "credit_score")
	e.DefaultProbability = numberField(result, "default_probability")
	if f := numberField(result, "default_class"); f != nil && *f == math.Trunc(*f) {
		class := int(*f)
		e.DefaultClass = &class
	}
	e.RiskLevel = stringField(result, "risk_level")
	e.Decision = stringField(result, "decision")
	e.ScoreRange = stringField(result, "score_range")
	return e
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func numberField(fields map[string]any, key string) *float64 {
	n, ok := fields[key].(json.Number)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
