package models

import "time"

// ClassroomType classifies rooms for subject compatibility.
type ClassroomType string

const (
	ClassroomTypeLecture    ClassroomType = "lecture"
	ClassroomTypeLaboratory ClassroomType = "laboratory"
	ClassroomTypeSeminar    ClassroomType = "seminar"
)

// SubjectType drives which rooms can host a subject.
type SubjectType string

const (
	SubjectTypeTheory    SubjectType = "theory"
	SubjectTypePractical SubjectType = "practical"
	SubjectTypeTutorial  SubjectType = "tutorial"
)

// Shift is the part of day a batch attends.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftEvening   Shift = "evening"
)

// Classroom is a physical room available to the scheduler.
type Classroom struct {
	ID        string        `json:"id" yaml:"id" db:"id" validate:"required"`
	Name      string        `json:"name" yaml:"name" db:"name"`
	Capacity  int           `json:"capacity" yaml:"capacity" db:"capacity" validate:"min=1"`
	Type      ClassroomType `json:"type" yaml:"type" db:"type" validate:"omitempty,oneof=lecture laboratory seminar"`
	Equipment []string      `json:"equipment" yaml:"equipment"`
	Building  string        `json:"building,omitempty" yaml:"building,omitempty" db:"building"`
	Floor     int           `json:"floor,omitempty" yaml:"floor,omitempty" db:"floor"`
}

// Subject is a course with a weekly instructional requirement in minutes.
type Subject struct {
	ID                string      `json:"id" yaml:"id" db:"id" validate:"required"`
	Name              string      `json:"name" yaml:"name" db:"name"`
	Code              string      `json:"code" yaml:"code" db:"code"`
	Department        string      `json:"department" yaml:"department" db:"department"`
	Semester          int         `json:"semester" yaml:"semester" db:"semester"`
	Credits           int         `json:"credits" yaml:"credits" db:"credits"`
	HoursPerWeek      int         `json:"hoursPerWeek" yaml:"hoursPerWeek" db:"hours_per_week" validate:"min=1"`
	Type              SubjectType `json:"type" yaml:"type" db:"type" validate:"omitempty,oneof=theory practical tutorial"`
	RequiredEquipment []string    `json:"requiredEquipment,omitempty" yaml:"requiredEquipment,omitempty"`
	MaxStudents       int         `json:"maxStudents,omitempty" yaml:"maxStudents,omitempty" db:"max_students"`
}

// Faculty is a teacher together with the subjects they can teach.
type Faculty struct {
	ID                    string   `json:"id" yaml:"id" db:"id" validate:"required"`
	Name                  string   `json:"name" yaml:"name" db:"name"`
	Email                 string   `json:"email" yaml:"email" db:"email"`
	Department            string   `json:"department" yaml:"department" db:"department"`
	Subjects              []string `json:"subjects" yaml:"subjects"`
	MaxHoursPerWeek       int      `json:"maxHoursPerWeek" yaml:"maxHoursPerWeek" db:"max_hours_per_week" validate:"min=0"`
	AverageLeavesPerMonth float64  `json:"averageLeavesPerMonth" yaml:"averageLeavesPerMonth" db:"average_leaves_per_month"`
	PreferredTimeSlots    []string `json:"preferredTimeSlots,omitempty" yaml:"preferredTimeSlots,omitempty"`
	UnavailableSlots      []string `json:"unavailableSlots,omitempty" yaml:"unavailableSlots,omitempty"`
}

// Batch is a cohort of students scheduled as a unit.
type Batch struct {
	ID           string   `json:"id" yaml:"id" db:"id" validate:"required"`
	Name         string   `json:"name" yaml:"name" db:"name"`
	Department   string   `json:"department" yaml:"department" db:"department"`
	Semester     int      `json:"semester" yaml:"semester" db:"semester"`
	StudentCount int      `json:"studentCount" yaml:"studentCount" db:"student_count" validate:"min=1"`
	Subjects     []string `json:"subjects" yaml:"subjects"`
	Shift        Shift    `json:"shift" yaml:"shift" db:"shift" validate:"omitempty,oneof=morning afternoon evening"`
}

// TimeSlot is a weekly recurring interval shared by the whole universe.
type TimeSlot struct {
	ID        string `json:"id" yaml:"id" db:"time_slot_id" validate:"required"`
	Day       string `json:"day" yaml:"day" db:"day" validate:"required"`
	StartTime string `json:"startTime" yaml:"startTime" db:"start_time" validate:"required"`
	EndTime   string `json:"endTime" yaml:"endTime" db:"end_time" validate:"required"`
	Duration  int    `json:"duration" yaml:"duration" db:"duration" validate:"min=0"`
}

// FixedClass is a pre-placed session the generator must keep as is.
type FixedClass struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	SubjectID   string `json:"subjectId" yaml:"subjectId" validate:"required"`
	BatchID     string `json:"batchId" yaml:"batchId" validate:"required"`
	FacultyID   string `json:"facultyId" yaml:"facultyId" validate:"required"`
	ClassroomID string `json:"classroomId" yaml:"classroomId" validate:"required"`
	TimeSlot    string `json:"timeSlot" yaml:"timeSlot" validate:"required"`
	IsRecurring bool   `json:"isRecurring" yaml:"isRecurring"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// OptimizationParameters tune slot ranking and placement limits. Zero values disable a knob.
type OptimizationParameters struct {
	MaxClassesPerDay           int    `json:"maxClassesPerDay" yaml:"maxClassesPerDay" validate:"min=0"`
	PreferredStartTime         string `json:"preferredStartTime" yaml:"preferredStartTime"`
	PreferredEndTime           string `json:"preferredEndTime" yaml:"preferredEndTime"`
	LunchBreakDuration         int    `json:"lunchBreakDuration" yaml:"lunchBreakDuration" validate:"min=0"`
	MinBreakBetweenClasses     int    `json:"minBreakBetweenClasses" yaml:"minBreakBetweenClasses" validate:"min=0"`
	AllowBackToBackClasses     bool   `json:"allowBackToBackClasses" yaml:"allowBackToBackClasses"`
	PrioritizeLabEquipment     bool   `json:"prioritizeLabEquipment" yaml:"prioritizeLabEquipment"`
	BalanceFacultyWorkload     bool   `json:"balanceFacultyWorkload" yaml:"balanceFacultyWorkload"`
	MinimizeGapsBetweenClasses bool   `json:"minimizeGapsBetweenClasses" yaml:"minimizeGapsBetweenClasses"`
}

// TimetableEntry is one scheduled session.
type TimetableEntry struct {
	ID          string   `json:"id"`
	SubjectID   string   `json:"subjectId"`
	BatchID     string   `json:"batchId"`
	FacultyID   string   `json:"facultyId"`
	ClassroomID string   `json:"classroomId"`
	TimeSlot    TimeSlot `json:"timeSlot"`
	Day         string   `json:"day"`
	Fixed       bool     `json:"fixed,omitempty"`
}

// ConflictType names the resource dimension a conflict concerns.
type ConflictType string

const (
	ConflictTypeClassroom ConflictType = "classroom"
	ConflictTypeFaculty   ConflictType = "faculty"
	ConflictTypeBatch     ConflictType = "batch"
	ConflictTypeEquipment ConflictType = "equipment"
)

// ConflictSeverity ranks conflicts for scoring.
type ConflictSeverity string

const (
	ConflictSeverityLow    ConflictSeverity = "low"
	ConflictSeverityMedium ConflictSeverity = "medium"
	ConflictSeverityHigh   ConflictSeverity = "high"
)

// Conflict reports an unmet scheduling requirement.
type Conflict struct {
	Type            ConflictType     `json:"type"`
	Description     string           `json:"description"`
	Severity        ConflictSeverity `json:"severity"`
	Suggestions     []string         `json:"suggestions"`
	AffectedEntries []string         `json:"affectedEntries"`
}

// TimetableMetrics are the quality indicators of one candidate.
type TimetableMetrics struct {
	ClassroomUtilization   int `json:"classroomUtilization"`
	FacultyWorkloadBalance int `json:"facultyWorkloadBalance"`
	ConflictCount          int `json:"conflictCount"`
	PreferenceMatch        int `json:"preferenceMatch"`
}

// TimetableStatus is the review lifecycle of a generated timetable.
type TimetableStatus string

const (
	TimetableStatusDraft       TimetableStatus = "draft"
	TimetableStatusUnderReview TimetableStatus = "under_review"
	TimetableStatusApproved    TimetableStatus = "approved"
	TimetableStatusRejected    TimetableStatus = "rejected"
)

// GeneratedTimetable is one complete candidate produced by the optimizer.
type GeneratedTimetable struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Variant     int              `json:"variant"`
	Strategy    string           `json:"strategy"`
	Entries     []TimetableEntry `json:"entries"`
	Score       int              `json:"score"`
	Metrics     TimetableMetrics `json:"metrics"`
	Conflicts   []Conflict       `json:"conflicts"`
	Suggestions []string         `json:"suggestions"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Status      TimetableStatus  `json:"status"`
}
