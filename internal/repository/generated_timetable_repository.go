package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

const generatedTimetableColumns = `id, name, proposal_id, variant, strategy, version, status, score, metrics, conflicts, suggestions, parameters, generated_at, created_at, updated_at`

// GeneratedTimetableRepository persists saved timetable candidates.
type GeneratedTimetableRepository struct {
	db *sqlx.DB
}

// NewGeneratedTimetableRepository constructs repository.
func NewGeneratedTimetableRepository(db *sqlx.DB) *GeneratedTimetableRepository {
	return &GeneratedTimetableRepository{db: db}
}

func (r *GeneratedTimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateVersioned inserts a timetable assigning the next version for its name.
func (r *GeneratedTimetableRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, timetable *models.StoredTimetable) error {
	if timetable == nil {
		return fmt.Errorf("timetable payload is nil")
	}
	if timetable.Name == "" {
		return fmt.Errorf("timetable name is required")
	}
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	if timetable.Status == "" {
		timetable.Status = models.TimetableStatusDraft
	}
	for _, field := range []*types.JSONText{&timetable.Metrics, &timetable.Parameters} {
		if len(*field) == 0 {
			*field = types.JSONText(`{}`)
		}
	}
	for _, field := range []*types.JSONText{&timetable.Conflicts, &timetable.Suggestions} {
		if len(*field) == 0 {
			*field = types.JSONText(`[]`)
		}
	}
	now := time.Now().UTC()
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = now
	}
	if timetable.GeneratedAt.IsZero() {
		timetable.GeneratedAt = now
	}
	timetable.UpdatedAt = now

	target := r.exec(exec)

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM generated_timetables WHERE name = $1`
	if err := sqlx.GetContext(ctx, target, &timetable.Version, nextVersionQuery, timetable.Name); err != nil {
		return fmt.Errorf("compute next timetable version: %w", err)
	}

	const insertQuery = `
INSERT INTO generated_timetables (id, name, proposal_id, variant, strategy, version, status, score, metrics, conflicts, suggestions, parameters, generated_at, created_at, updated_at)
VALUES (:id, :name, :proposal_id, :variant, :strategy, :version, :status, :score, :metrics, :conflicts, :suggestions, :parameters, :generated_at, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, timetable); err != nil {
		return fmt.Errorf("insert generated timetable: %w", err)
	}
	return nil
}

// List returns timetables matching the filter, newest first, with the total match count.
func (r *GeneratedTimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.StoredTimetable, int, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM generated_timetables"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count generated timetables: %w", err)
	}

	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf("SELECT %s FROM generated_timetables%s ORDER BY created_at DESC, version DESC LIMIT $%d OFFSET $%d",
		generatedTimetableColumns, where, len(args)-1, len(args))

	var timetables []models.StoredTimetable
	if err := r.db.SelectContext(ctx, &timetables, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list generated timetables: %w", err)
	}
	return timetables, total, nil
}

// FindByID loads a timetable by its identifier.
func (r *GeneratedTimetableRepository) FindByID(ctx context.Context, id string) (*models.StoredTimetable, error) {
	query := `SELECT ` + generatedTimetableColumns + ` FROM generated_timetables WHERE id = $1`
	var timetable models.StoredTimetable
	if err := r.db.GetContext(ctx, &timetable, query, id); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// UpdateStatus moves a timetable to status only if it is still in from.
func (r *GeneratedTimetableRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, from, to models.TimetableStatus) error {
	const query = `UPDATE generated_timetables SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.exec(exec).ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return fmt.Errorf("update generated timetable status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("generated timetable status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a stored timetable; its entries cascade.
func (r *GeneratedTimetableRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM generated_timetables WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete generated timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("generated timetable rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Ping verifies database connectivity for readiness probes.
func (r *GeneratedTimetableRepository) Ping(ctx context.Context) error {
	if r.db == nil {
		return fmt.Errorf("database not configured")
	}
	return r.db.PingContext(ctx)
}
