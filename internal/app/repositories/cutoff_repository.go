package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/pkg/logger"
)

var cutoffColumns = []string{
	"c.slug", "c.name", "c.state", "c.tag", "c.fees", "c.avg_salary", "c.nirf_rank", "c.placement_rate",
	"k.exam_type", "k.course", "k.branch", "k.seat_type", "k.sub_category", "k.quota",
	"k.year", "k.round", "k.closing_rank",
}

// CutoffRepository reads historical closing ranks joined with college metadata
type CutoffRepository struct {
	db DBTX
	// Use squirrel instance with placeholder format
	sb squirrel.StatementBuilderType
}

// NewCutoffRepository creates a new CutoffRepository
func NewCutoffRepository(db DBTX) *CutoffRepository {
	return &CutoffRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// buildQuery renders the criteria as SQL. Empty criteria fields are not
// constrained. Rows are not filtered by rank.
func (r *CutoffRepository) buildQuery(criteria models.CutoffCriteria) (string, []interface{}, error) {
	q := r.sb.Select(cutoffColumns...).
		From("cutoffs k").
		Join("colleges c ON c.slug = k.college_slug").
		Where(squirrel.Eq{"k.exam_type": criteria.ExamType})

	if criteria.SeatType != "" {
		q = q.Where(squirrel.Eq{"k.seat_type": criteria.SeatType})
	}
	if criteria.SubCategory != "" {
		q = q.Where(squirrel.Eq{"k.sub_category": criteria.SubCategory})
	}
	if criteria.Quota != "" {
		q = q.Where(squirrel.Eq{"k.quota": criteria.Quota})
	}
	if len(criteria.CollegeSlugs) > 0 {
		q = q.Where(squirrel.Eq{"k.college_slug": criteria.CollegeSlugs})
	}

	return q.OrderBy("c.slug", "k.course", "k.branch", "k.seat_type", "k.sub_category", "k.quota", "k.year", "k.round", "k.id").ToSql()
}

// Query returns every cutoff row matching criteria
func (r *CutoffRepository) Query(ctx context.Context, criteria models.CutoffCriteria) ([]models.CutoffRow, error) {
	sql, args, err := r.buildQuery(criteria)
	if err != nil {
		logger.Error().Err(err).Msg("Error building cutoff query SQL")
		return nil, fmt.Errorf("failed to build cutoff query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("exam_type", criteria.ExamType).Msg("Error executing cutoff query")
		return nil, fmt.Errorf("error querying cutoffs: %w", err)
	}
	defer rows.Close()

	var result []models.CutoffRow
	for rows.Next() {
		var row models.CutoffRow
		c := &row.College
		if err := rows.Scan(
			&c.Slug, &c.Name, &c.State, &c.Tag, &c.Fees, &c.AvgSalary, &c.NIRFRank, &c.PlacementRate,
			&row.ExamType, &row.Course, &row.Branch, &row.SeatType, &row.SubCategory, &row.Quota,
			&row.Year, &row.Round, &row.ClosingRank,
		); err != nil {
			logger.Error().Err(err).Msg("Error scanning cutoff row")
			return nil, fmt.Errorf("error scanning cutoff row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating cutoff rows")
		return nil, fmt.Errorf("error iterating cutoff rows: %w", err)
	}

	return result, nil
}

// UpsertCollege inserts or refreshes a college's metadata
func (r *CutoffRepository) UpsertCollege(ctx context.Context, college models.College) error {
	sql, args, err := r.sb.Insert("colleges").
		Columns("slug", "name", "state", "tag", "fees", "avg_salary", "nirf_rank", "placement_rate").
		Values(strings.ToLower(college.Slug), college.Name, college.State, college.Tag, college.Fees,
			college.AvgSalary, college.NIRFRank, college.PlacementRate).
		Suffix("ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, state = EXCLUDED.state, tag = EXCLUDED.tag, " +
			"fees = EXCLUDED.fees, avg_salary = EXCLUDED.avg_salary, nirf_rank = EXCLUDED.nirf_rank, " +
			"placement_rate = EXCLUDED.placement_rate").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert college query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("slug", college.Slug).Msg("Error upserting college")
		return fmt.Errorf("error upserting college %s: %w", college.Slug, err)
	}
	return nil
}

// InsertCutoffs appends raw cutoff rows in one statement
func (r *CutoffRepository) InsertCutoffs(ctx context.Context, rows []models.CutoffRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	q := r.sb.Insert("cutoffs").
		Columns("college_slug", "exam_type", "course", "branch", "seat_type", "sub_category", "quota", "year", "round", "closing_rank")
	for _, row := range rows {
		q = q.Values(strings.ToLower(row.College.Slug), row.ExamType, row.Course, row.Branch, row.SeatType,
			row.SubCategory, row.Quota, row.Year, row.Round, row.ClosingRank)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert cutoffs query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int("rows", len(rows)).Msg("Error inserting cutoffs")
		return 0, fmt.Errorf("error inserting cutoffs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountCutoffs returns the number of stored cutoff rows
func (r *CutoffRepository) CountCutoffs(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("cutoffs").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count cutoffs query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting cutoffs: %w", err)
	}
	return n, nil
}
