package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// TimetableEntryRepository manages sessions of stored timetables.
type TimetableEntryRepository struct {
	db *sqlx.DB
}

// NewTimetableEntryRepository builds repository.
func NewTimetableEntryRepository(db *sqlx.DB) *TimetableEntryRepository {
	return &TimetableEntryRepository{db: db}
}

func (r *TimetableEntryRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InsertBatch stores entries one row at a time inside the caller's transaction.
func (r *TimetableEntryRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.StoredTimetableEntry) error {
	if len(entries) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO timetable_entries (id, timetable_id, subject_id, batch_id, faculty_id, classroom_id, time_slot_id, day, start_time, end_time, duration, fixed, created_at)
VALUES (:id, :timetable_id, :subject_id, :batch_id, :faculty_id, :classroom_id, :time_slot_id, :day, :start_time, :end_time, :duration, :fixed, :created_at)`

	for i := range entries {
		entry := &entries[i]
		if entry.TimetableID == "" {
			return fmt.Errorf("timetable entry %d has no timetable id", i)
		}
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, entry); err != nil {
			return fmt.Errorf("insert timetable entry: %w", err)
		}
	}
	return nil
}

// ListByTimetable returns entries ordered by weekday then start time.
func (r *TimetableEntryRepository) ListByTimetable(ctx context.Context, timetableID string) ([]models.StoredTimetableEntry, error) {
	const query = `SELECT id, timetable_id, subject_id, batch_id, faculty_id, classroom_id, time_slot_id, day, start_time, end_time, duration, fixed, created_at FROM timetable_entries WHERE timetable_id = $1 ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day) ASC, start_time ASC, batch_id ASC`
	var entries []models.StoredTimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, timetableID); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}
