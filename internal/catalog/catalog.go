// Package catalog loads the perfume snapshot from CSV and holds it as
// process-wide read-only state. A snapshot bundles the items together
// with the similarity index built over them, so the positional
// alignment between the two can never drift.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/scentlab/fragrec/internal/domain"
	"github.com/scentlab/fragrec/internal/index"
)

// Defaults applied to rows with missing numeric fields.
const (
	defaultLongevity = 3
	defaultSillage   = 3
)

// Snapshot is an immutable catalog plus its similarity index.
// Index is nil when the catalog is empty.
type Snapshot struct {
	Items    []domain.Item
	Index    *index.Index
	LoadedAt time.Time
}

// Empty reports whether the snapshot has no usable rows.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Items) == 0 || s.Index == nil
}

// NewSnapshot builds a snapshot, including the index, from loaded items.
func NewSnapshot(items []domain.Item) *Snapshot {
	return &Snapshot{
		Items:    items,
		Index:    index.Build(items),
		LoadedAt: time.Now(),
	}
}

// Holder publishes the current snapshot to concurrent readers. Reload
// is an atomic pointer swap: in-flight requests keep the snapshot they
// started with and never observe a half-updated view.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a holder seeded with the given snapshot.
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Snapshot returns the currently published snapshot.
func (h *Holder) Snapshot() *Snapshot { return h.current.Load() }

// Swap publishes a new snapshot.
func (h *Holder) Swap(s *Snapshot) { h.current.Store(s) }

// LoadCSV reads a catalog snapshot file. Rows missing brand, name, or
// accords are dropped; duplicate (brand, name) pairs keep the first
// occurrence; all other fields are coerced to per-field defaults
// rather than rejected.
func LoadCSV(path string) ([]domain.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	items, err := ReadItems(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return items, nil
}

// ReadItems parses catalog rows from CSV data with a header row.
func ReadItems(r io.Reader) ([]domain.Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows, coerce per field

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)

	var items []domain.Item
	seen := make(map[string]struct{})
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := rowReader{cols: cols, record: record}
		brand := strings.TrimSpace(row.str("brand"))
		name := strings.TrimSpace(row.str("name"))
		accords := splitAccords(row.str("main_accords"))
		if brand == "" || name == "" || len(accords) == 0 {
			continue // identity fields are the only hard requirement
		}

		key := strings.ToLower(brand) + "\x00" + strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		priceMin := row.float("price_min", 0)
		priceMax := row.float("price_max", 0)
		if priceMax < priceMin {
			priceMax = priceMin
		}

		items = append(items, domain.Item{
			Brand:       brand,
			Name:        name,
			Gender:      domain.ParseGender(row.str("gender")),
			PriceMin:    priceMin,
			PriceMax:    priceMax,
			Accords:     accords,
			TopNotes:    row.str("top_notes"),
			MiddleNotes: row.str("middle_notes"),
			BaseNotes:   row.str("base_notes"),
			Description: row.str("description"),
			Longevity:   clampInt(row.int("longevity", defaultLongevity), 1, 5),
			Sillage:     clampInt(row.int("sillage", defaultSillage), 1, 5),
			RatingValue: row.float("rating_value", 0),
			RatingCount: maxInt(row.int("rating_count", 0), 0),
			URL:         row.str("url"),
		})
	}
	return items, nil
}

// columnIndex maps lowercased header names to positions. Both
// "rating value" and "rating_value" spellings are accepted.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		cols[key] = i
	}
	return cols
}

type rowReader struct {
	cols   map[string]int
	record []string
}

func (r rowReader) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return r.record[i]
}

func (r rowReader) float(col string, def float64) float64 {
	s := strings.TrimSpace(r.str(col))
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func (r rowReader) int(col string, def int) int {
	s := strings.TrimSpace(r.str(col))
	if s == "" {
		return def
	}
	// Some sources write counts as "1234.0".
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return int(v)
}

// splitAccords splits a pipe-delimited tag string into lowercase tags.
func splitAccords(raw string) []string {
	var accords []string
	for _, part := range strings.Split(raw, "|") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			accords = append(accords, tag)
		}
	}
	return accords
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
