package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var timetableRowColumns = []string{"id", "name", "proposal_id", "variant", "strategy", "version", "status", "score", "metrics", "conflicts", "suggestions", "parameters", "generated_at", "created_at", "updated_at"}

func TestGeneratedTimetableRepositoryCreateVersioned(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGeneratedTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) + 1 FROM generated_timetables WHERE name = $1")).
		WithArgs("Spring 2025").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO generated_timetables")).
		WithArgs(sqlmock.AnyArg(), "Spring 2025", "proposal-1", 1, "faculty_balance", 3, string(models.TimetableStatusDraft), 72,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	payload := &models.StoredTimetable{
		Name:       "Spring 2025",
		ProposalID: "proposal-1",
		Variant:    1,
		Strategy:   "faculty_balance",
		Score:      72,
	}
	require.NoError(t, repo.CreateVersioned(context.Background(), nil, payload))
	assert.Equal(t, 3, payload.Version)
	assert.NotEmpty(t, payload.ID)
	assert.Equal(t, types.JSONText(`[]`), payload.Conflicts)
	assert.Equal(t, types.JSONText(`{}`), payload.Metrics)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratedTimetableRepositoryCreateRequiresName(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGeneratedTimetableRepository(db)

	assert.Error(t, repo.CreateVersioned(context.Background(), nil, &models.StoredTimetable{}))
	assert.Error(t, repo.CreateVersioned(context.Background(), nil, nil))
}

func TestGeneratedTimetableRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGeneratedTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM generated_timetables WHERE status = $1 AND name ILIKE $2")).
		WithArgs("approved", "%spring%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	now := time.Now()
	rows := sqlmock.NewRows(timetableRowColumns).
		AddRow("tt-1", "Spring", "p-1", 0, "minimal_gaps", 1, "approved", 80, []byte(`{}`), []byte(`[]`), []byte(`[]`), []byte(`{}`), now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM generated_timetables WHERE status = $1 AND name ILIKE $2 ORDER BY created_at DESC, version DESC LIMIT $3 OFFSET $4")).
		WithArgs("approved", "%spring%", 5, 10).
		WillReturnRows(rows)

	list, total, err := repo.List(context.Background(), models.TimetableFilter{
		Status:   models.TimetableStatusApproved,
		Name:     "spring",
		Page:     3,
		PageSize: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, list, 1)
	assert.Equal(t, models.TimetableStatusApproved, list[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratedTimetableRepositoryListDefaultsPaging(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGeneratedTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM generated_timetables")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(timetableRowColumns))

	list, total, err := repo.List(context.Background(), models.TimetableFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratedTimetableRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGeneratedTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM generated_timetables WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratedTimetableRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGeneratedTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE generated_timetables SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4")).
		WithArgs(string(models.TimetableStatusUnderReview), sqlmock.AnyArg(), "tt-1", string(models.TimetableStatusDraft)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), nil, "tt-1", models.TimetableStatusDraft, models.TimetableStatusUnderReview))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratedTimetableRepositoryUpdateStatusStale(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGeneratedTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE generated_timetables SET status")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), nil, "tt-1", models.TimetableStatusDraft, models.TimetableStatusUnderReview)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGeneratedTimetableRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGeneratedTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM generated_timetables WHERE id = $1")).
		WithArgs("tt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM generated_timetables WHERE id = $1")).
		WithArgs("tt-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "tt-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "tt-2"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
