package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yigit/rankpredictor/internal/app/models"
	"gopkg.in/yaml.v3"
)

// CutoffFixture is the on-disk form of a cutoff data set. JSON files are
// accepted as well since they are valid YAML.
type CutoffFixture struct {
	Colleges []models.College `yaml:"colleges"`
	Cutoffs  []FixtureCutoff  `yaml:"cutoffs"`
}

// FixtureCutoff is one cutoff row referencing a college by slug
type FixtureCutoff struct {
	College     string `yaml:"college"`
	ExamType    string `yaml:"exam"`
	Course      string `yaml:"course"`
	Branch      string `yaml:"branch"`
	SeatType    string `yaml:"seat_type"`
	SubCategory string `yaml:"sub_category"`
	Quota       string `yaml:"quota"`
	Year        string `yaml:"year"`
	Round       string `yaml:"round"`
	ClosingRank string `yaml:"closing_rank"`
}

// ParseCutoffFixture decodes a fixture, rejecting unknown keys
func ParseCutoffFixture(data []byte) (*CutoffFixture, error) {
	var f CutoffFixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse cutoff fixture: %w", err)
	}
	return &f, nil
}

// Rows joins each cutoff with its college metadata
func (f *CutoffFixture) Rows() ([]models.CutoffRow, error) {
	colleges := make(map[string]models.College, len(f.Colleges))
	for _, c := range f.Colleges {
		slug := strings.ToLower(strings.TrimSpace(c.Slug))
		if slug == "" {
			return nil, fmt.Errorf("cutoff fixture: college without slug")
		}
		if _, dup := colleges[slug]; dup {
			return nil, fmt.Errorf("cutoff fixture: duplicate college %s", slug)
		}
		c.Slug = slug
		colleges[slug] = c
	}

	rows := make([]models.CutoffRow, 0, len(f.Cutoffs))
	for i, fc := range f.Cutoffs {
		college, ok := colleges[strings.ToLower(strings.TrimSpace(fc.College))]
		if !ok {
			return nil, fmt.Errorf("cutoff fixture: row %d references unknown college %q", i+1, fc.College)
		}
		rows = append(rows, models.CutoffRow{
			College:     college,
			ExamType:    fc.ExamType,
			Course:      fc.Course,
			Branch:      fc.Branch,
			SeatType:    fc.SeatType,
			SubCategory: fc.SubCategory,
			Quota:       fc.Quota,
			Year:        fc.Year,
			Round:       fc.Round,
			ClosingRank: fc.ClosingRank,
		})
	}
	return rows, nil
}

// MemoryCutoffStore serves cutoff rows from memory. It is read-only after
// construction and safe for concurrent use.
type MemoryCutoffStore struct {
	rows []models.CutoffRow
}

// NewMemoryCutoffStore creates a store over a copy of rows
func NewMemoryCutoffStore(rows []models.CutoffRow) *MemoryCutoffStore {
	cp := make([]models.CutoffRow, len(rows))
	copy(cp, rows)
	return &MemoryCutoffStore{rows: cp}
}

// LoadMemoryCutoffStore reads a fixture file into a store
func LoadMemoryCutoffStore(path string) (*MemoryCutoffStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cutoff fixture: %w", err)
	}
	f, err := ParseCutoffFixture(data)
	if err != nil {
		return nil, err
	}
	rows, err := f.Rows()
	if err != nil {
		return nil, err
	}
	return NewMemoryCutoffStore(rows), nil
}

// Len returns the number of stored rows
func (s *MemoryCutoffStore) Len() int {
	return len(s.rows)
}

// Query filters rows with the same semantics as CutoffRepository.Query
func (s *MemoryCutoffStore) Query(ctx context.Context, criteria models.CutoffCriteria) ([]models.CutoffRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var slugs map[string]bool
	if len(criteria.CollegeSlugs) > 0 {
		slugs = make(map[string]bool, len(criteria.CollegeSlugs))
		for _, slug := range criteria.CollegeSlugs {
			slugs[strings.ToLower(slug)] = true
		}
	}

	var out []models.CutoffRow
	for _, row := range s.rows {
		switch {
		case row.ExamType != criteria.ExamType:
		case criteria.SeatType != "" && row.SeatType != criteria.SeatType:
		case criteria.SubCategory != "" && row.SubCategory != criteria.SubCategory:
		case criteria.Quota != "" && row.Quota != criteria.Quota:
		case slugs != nil && !slugs[row.College.Slug]:
		default:
			out = append(out, row)
		}
	}
	return out, nil
}
