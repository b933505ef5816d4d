package repositories

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/rankpredictor/internal/app/models"
)

var cutoffResultColumns = []string{
	"slug", "name", "state", "tag", "fees", "avg_salary", "nirf_rank", "placement_rate",
	"exam_type", "course", "branch", "seat_type", "sub_category", "quota", "year", "round", "closing_rank",
}

func TestCutoffRepositoryBuildQuery(t *testing.T) {
	repo := NewCutoffRepository(nil)

	sql, args, err := repo.buildQuery(models.CutoffCriteria{
		ExamType:     "JEE-Main",
		SeatType:     "OPEN",
		SubCategory:  "Gender-Neutral",
		CollegeSlugs: []string{"dtu-delhi", "nsut-delhi"},
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM cutoffs k JOIN colleges c ON c.slug = k.college_slug")
	assert.Contains(t, sql, "k.exam_type = $1")
	assert.Contains(t, sql, "k.seat_type = $2")
	assert.Contains(t, sql, "k.sub_category = $3")
	assert.Contains(t, sql, "k.college_slug IN ($4,$5)")
	assert.NotContains(t, sql, "k.quota =")
	assert.NotContains(t, sql, "closing_rank <")
	assert.Equal(t, []interface{}{"JEE-Main", "OPEN", "Gender-Neutral", "dtu-delhi", "nsut-delhi"}, args)
}

func TestCutoffRepositoryQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCutoffRepository(mock)

	nirf := 27
	placement := 0.91
	rows := pgxmock.NewRows(cutoffResultColumns).
		AddRow("dtu-delhi", "Delhi Technological University", "Delhi", "", int64(220000), int64(1500000), &nirf, &placement,
			"JEE-Main", "B.Tech", "Civil Engineering", "OPEN", "Gender-Neutral", "Delhi Region", "2025", "Round-1", "61000").
		AddRow("nsut-delhi", "NSUT", "Delhi", "University", int64(0), int64(0), nil, nil,
			"JEE-Main", "B.Tech", "Civil Engineering", "OPEN", "Gender-Neutral", "Delhi Region", "2025", "Round-1", "N/A")

	mock.ExpectQuery("SELECT c.slug").
		WithArgs("JEE-Main", "OPEN", "Gender-Neutral", "Delhi Region").
		WillReturnRows(rows)

	got, err := repo.Query(context.Background(), models.CutoffCriteria{
		ExamType:    "JEE-Main",
		SeatType:    "OPEN",
		SubCategory: "Gender-Neutral",
		Quota:       "Delhi Region",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "dtu-delhi", got[0].College.Slug)
	require.NotNil(t, got[0].College.NIRFRank)
	assert.Equal(t, 27, *got[0].College.NIRFRank)
	assert.Equal(t, 0.91, *got[0].College.PlacementRate)
	assert.Equal(t, "61000", got[0].ClosingRank)

	assert.Nil(t, got[1].College.NIRFRank)
	assert.Equal(t, "N/A", got[1].ClosingRank)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCutoffRepositoryQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCutoffRepository(mock)
	cause := errors.New("connection reset")

	mock.ExpectQuery("SELECT c.slug").
		WithArgs("GATE").
		WillReturnError(cause)

	_, err = repo.Query(context.Background(), models.CutoffCriteria{ExamType: "GATE"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCutoffRepositoryWrites(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCutoffRepository(mock)
	college := models.College{Slug: "NIT-Trichy", Name: "NIT Tiruchirappalli", State: "Tamil Nadu", Fees: 150000}

	mock.ExpectExec("INSERT INTO colleges").
		WithArgs("nit-trichy", "NIT Tiruchirappalli", "Tamil Nadu", "", int64(150000), int64(0), college.NIRFRank, college.PlacementRate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO cutoffs").
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	require.NoError(t, repo.UpsertCollege(context.Background(), college))

	n, err := repo.InsertCutoffs(context.Background(), []models.CutoffRow{
		{College: college, ExamType: "JEE-Main", Year: "2025", Round: "Round-1", ClosingRank: "100"},
		{College: college, ExamType: "JEE-Main", Year: "2025", Round: "Round-2", ClosingRank: "120"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := repo.CountCutoffs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, mock.ExpectationsWereMet())
}
