package dto

import (
	"time"

	"github.com/noah-isme/timetable-optimizer/internal/models"
	"github.com/noah-isme/timetable-optimizer/internal/timetable"
)

// GenerateTimetableRequest carries the scheduling universe for one generation run.
type GenerateTimetableRequest struct {
	CandidateCount int                            `json:"candidateCount" validate:"omitempty,min=1"`
	Classrooms     []models.Classroom             `json:"classrooms" validate:"dive"`
	Subjects       []models.Subject               `json:"subjects" validate:"dive"`
	Faculty        []models.Faculty               `json:"faculty" validate:"dive"`
	Batches        []models.Batch                 `json:"batches" validate:"dive"`
	TimeSlots      []models.TimeSlot              `json:"timeSlots" validate:"dive"`
	FixedClasses   []models.FixedClass            `json:"fixedClasses" validate:"dive"`
	Parameters     *models.OptimizationParameters `json:"parameters"`
}

// Input converts the request into the optimizer universe. Missing parameters
// fall back to defaults.
func (r GenerateTimetableRequest) Input(defaults models.OptimizationParameters) timetable.Input {
	params := defaults
	if r.Parameters != nil {
		params = *r.Parameters
	}
	return timetable.Input{
		Classrooms:   r.Classrooms,
		Subjects:     r.Subjects,
		Faculty:      r.Faculty,
		Batches:      r.Batches,
		TimeSlots:    r.TimeSlots,
		FixedClasses: r.FixedClasses,
		Parameters:   params,
	}
}

// GenerateTimetableResponse returns ranked candidates under a proposal id.
type GenerateTimetableResponse struct {
	ProposalID  string                      `json:"proposalId"`
	Candidates  []models.GeneratedTimetable `json:"candidates"`
	GeneratedAt time.Time                   `json:"generatedAt"`
	ExpiresAt   time.Time                   `json:"expiresAt"`
}

// SaveTimetableRequest persists one candidate of a proposal as a draft.
type SaveTimetableRequest struct {
	ProposalID  string `json:"proposalId" validate:"required"`
	CandidateID string `json:"candidateId" validate:"required"`
	Name        string `json:"name" validate:"omitempty,max=120"`
}

// SaveTimetableResponse identifies the stored draft.
type SaveTimetableResponse struct {
	TimetableID string `json:"timetableId"`
	Version     int    `json:"version"`
}

// UpdateTimetableStatusRequest moves a stored timetable through review.
type UpdateTimetableStatusRequest struct {
	Status models.TimetableStatus `json:"status" validate:"required,oneof=draft under_review approved rejected"`
}

// TimetableQuery filters stored timetables.
type TimetableQuery struct {
	Status   string `form:"status" json:"status" validate:"omitempty,oneof=draft under_review approved rejected"`
	Name     string `form:"name" json:"name"`
	Page     int    `form:"page" json:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" json:"page_size" validate:"omitempty,min=1,max=100"`
}

// TimetableDetail bundles a stored timetable with its entries.
type TimetableDetail struct {
	models.StoredTimetable
	Entries []models.StoredTimetableEntry `json:"entries"`
}

// GenerationJobStatus is the lifecycle of an asynchronous generation.
type GenerationJobStatus string

const (
	GenerationJobQueued    GenerationJobStatus = "queued"
	GenerationJobRunning   GenerationJobStatus = "running"
	GenerationJobCompleted GenerationJobStatus = "completed"
	GenerationJobFailed    GenerationJobStatus = "failed"
)

// GenerationJobResponse reports the state of an asynchronous generation.
type GenerationJobResponse struct {
	JobID     string                     `json:"jobId"`
	Status    GenerationJobStatus        `json:"status"`
	Error     string                     `json:"error,omitempty"`
	Result    *GenerateTimetableResponse `json:"result,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}
