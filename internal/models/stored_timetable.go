package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// StoredTimetable is a saved candidate moving through the review lifecycle.
type StoredTimetable struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	ProposalID  string          `db:"proposal_id" json:"proposal_id"`
	Variant     int             `db:"variant" json:"variant"`
	Strategy    string          `db:"strategy" json:"strategy"`
	Version     int             `db:"version" json:"version"`
	Status      TimetableStatus `db:"status" json:"status"`
	Score       int             `db:"score" json:"score"`
	Metrics     types.JSONText  `db:"metrics" json:"metrics"`
	Conflicts   types.JSONText  `db:"conflicts" json:"conflicts"`
	Suggestions types.JSONText  `db:"suggestions" json:"suggestions"`
	Parameters  types.JSONText  `db:"parameters" json:"parameters"`
	GeneratedAt time.Time       `db:"generated_at" json:"generated_at"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// StoredTimetableEntry is one persisted session of a stored timetable.
type StoredTimetableEntry struct {
	ID          string    `db:"id" json:"id"`
	TimetableID string    `db:"timetable_id" json:"timetable_id"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	BatchID     string    `db:"batch_id" json:"batch_id"`
	FacultyID   string    `db:"faculty_id" json:"faculty_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	TimeSlotID  string    `db:"time_slot_id" json:"time_slot_id"`
	Day         string    `db:"day" json:"day"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	Duration    int       `db:"duration" json:"duration"`
	Fixed       bool      `db:"fixed" json:"fixed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TimetableFilter narrows stored timetable listings.
type TimetableFilter struct {
	Status   TimetableStatus
	Name     string
	Page     int
	PageSize int
}

// CanTransition reports whether the review lifecycle allows moving from one status to another.
func (s TimetableStatus) CanTransition(to TimetableStatus) bool {
	switch s {
	case TimetableStatusDraft:
		return to == TimetableStatusUnderReview
	case TimetableStatusUnderReview:
		return to == TimetableStatusApproved || to == TimetableStatusRejected || to == TimetableStatusDraft
	case TimetableStatusRejected:
		return to == TimetableStatusDraft
	default:
		return false
	}
}

// Valid reports whether s is a known status.
func (s TimetableStatus) Valid() bool {
	switch s {
	case TimetableStatusDraft, TimetableStatusUnderReview, TimetableStatusApproved, TimetableStatusRejected:
		return true
	}
	return false
}
