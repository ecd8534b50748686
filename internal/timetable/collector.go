package timetable

import (
	"fmt"
	"math"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// Score weights. The conflict penalty is not normalised: enough high-severity
// conflicts push the raw score below zero, which then floors at 0.
const (
	weightUtilization     = 0.25
	weightWorkloadBalance = 0.35
	weightPreferenceMatch = 0.20
	weightConflictPenalty = 0.20

	penaltyHigh   = 30
	penaltyMedium = 20
	penaltyLow    = 10

	lowUtilizationThreshold = 60
)

const (
	suggestClassrooms  = "Consider adding more classrooms or extending operating hours"
	suggestFaculty     = "Review faculty assignments and consider hiring additional staff"
	suggestEquipment   = "Equip additional rooms with the required equipment or relax subject equipment requirements"
	suggestTimeSlots   = "Add time slots or spread batch subjects across more days"
	suggestUtilization = "Classroom utilization can be improved by better time slot allocation"
)

func subjectLabel(subject *models.Subject) string {
	if subject.Name != "" {
		return subject.Name
	}
	return subject.ID
}

func batchLabel(batch *batchInfo) string {
	if batch.rec.Name != "" {
		return batch.rec.Name
	}
	return batch.rec.ID
}

func noFacultyConflict(subject *models.Subject) models.Conflict {
	return models.Conflict{
		Type:        models.ConflictTypeFaculty,
		Description: fmt.Sprintf("No faculty available for %s", subjectLabel(subject)),
		Severity:    models.ConflictSeverityHigh,
		Suggestions: []string{"Assign faculty to this subject"},
	}
}

func noRoomConflict(u *universe, subject *models.Subject, batch *batchInfo) models.Conflict {
	for i := range u.rooms {
		if u.roomFits(&u.rooms[i], subject, batch, false) {
			return models.Conflict{
				Type:        models.ConflictTypeEquipment,
				Description: fmt.Sprintf("No classroom with the equipment required by %s can host %s", subjectLabel(subject), batchLabel(batch)),
				Severity:    models.ConflictSeverityMedium,
				Suggestions: []string{"Install the required equipment in a suitable classroom", "Review the subject's equipment requirements"},
			}
		}
	}
	return models.Conflict{
		Type:        models.ConflictTypeClassroom,
		Description: fmt.Sprintf("No classroom can seat %d students of %s for %s", batch.rec.StudentCount, batchLabel(batch), subjectLabel(subject)),
		Severity:    models.ConflictSeverityMedium,
		Suggestions: []string{"Add a larger classroom or laboratory", "Split the batch into smaller groups"},
	}
}

func shortfallConflict(subject *models.Subject, batch *batchInfo, scheduled int) models.Conflict {
	return models.Conflict{
		Type: models.ConflictTypeBatch,
		Description: fmt.Sprintf("Unable to schedule all %d minutes for %s with %s (%d scheduled, %d short)",
			subject.HoursPerWeek, subjectLabel(subject), batchLabel(batch), scheduled, subject.HoursPerWeek-scheduled),
		Severity: models.ConflictSeverityHigh,
		Suggestions: []string{
			"Consider adding more time slots",
			"Check faculty availability",
			"Review classroom capacity",
		},
	}
}

// collectMetrics computes the quality indicators of a pass. ConflictCount mirrors
// the conflict list.
func collectMetrics(u *universe, entries []models.TimetableEntry, conflicts []models.Conflict) models.TimetableMetrics {
	return models.TimetableMetrics{
		ClassroomUtilization:   classroomUtilization(u, entries),
		FacultyWorkloadBalance: workloadBalance(entries),
		ConflictCount:          len(conflicts),
		PreferenceMatch:        preferenceMatch(u, entries),
	}
}

// classroomUtilization treats the whole slot x room grid as one flat denominator.
func classroomUtilization(u *universe, entries []models.TimetableEntry) int {
	capacity := len(u.slots) * len(u.rooms)
	if capacity == 0 {
		return 0
	}
	return clampPercent(math.Round(100 * float64(len(entries)) / float64(capacity)))
}

// workloadBalance is 100 minus the population standard deviation of scheduled
// minutes per faculty. Faculty with no sessions are not part of the sample.
func workloadBalance(entries []models.TimetableEntry) int {
	index := make(map[string]int)
	var minutes []float64
	for _, entry := range entries {
		i, ok := index[entry.FacultyID]
		if !ok {
			i = len(minutes)
			index[entry.FacultyID] = i
			minutes = append(minutes, 0)
		}
		minutes[i] += float64(entryDuration(entry))
	}
	if len(minutes) == 0 {
		return 100
	}
	var sum float64
	for _, v := range minutes {
		sum += v
	}
	mean := sum / float64(len(minutes))
	var variance float64
	for _, v := range minutes {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(minutes))
	return clampPercent(math.Round(100 - math.Sqrt(variance)))
}

func entryDuration(entry models.TimetableEntry) int {
	if entry.TimeSlot.Duration > 0 {
		return entry.TimeSlot.Duration
	}
	start, errStart := ParseClock(entry.TimeSlot.StartTime)
	end, errEnd := ParseClock(entry.TimeSlot.EndTime)
	if errStart != nil || errEnd != nil || end < start {
		return 0
	}
	return end - start
}

func preferenceMatch(u *universe, entries []models.TimetableEntry) int {
	considered, matched := 0, 0
	for _, entry := range entries {
		idx, ok := u.facultyByID[entry.FacultyID]
		if !ok || len(u.faculty[idx].preferred) == 0 {
			continue
		}
		considered++
		if u.faculty[idx].preferred.has(entry.TimeSlot.ID) {
			matched++
		}
	}
	if considered == 0 {
		return 100
	}
	return clampPercent(math.Round(100 * float64(matched) / float64(considered)))
}

// conflictPenalty is the raw, unbounded severity sum.
func conflictPenalty(conflicts []models.Conflict) int {
	penalty := 0
	for _, c := range conflicts {
		switch c.Severity {
		case models.ConflictSeverityHigh:
			penalty += penaltyHigh
		case models.ConflictSeverityMedium:
			penalty += penaltyMedium
		case models.ConflictSeverityLow:
			penalty += penaltyLow
		}
	}
	return penalty
}

func score(m models.TimetableMetrics, conflicts []models.Conflict) int {
	raw := float64(m.ClassroomUtilization)*weightUtilization +
		float64(m.FacultyWorkloadBalance)*weightWorkloadBalance +
		float64(m.PreferenceMatch)*weightPreferenceMatch -
		float64(conflictPenalty(conflicts))*weightConflictPenalty
	return clampPercent(math.Round(raw))
}

func suggestions(conflicts []models.Conflict, m models.TimetableMetrics) []string {
	present := make(map[models.ConflictType]bool, 4)
	for _, c := range conflicts {
		present[c.Type] = true
	}
	result := []string{}
	if present[models.ConflictTypeClassroom] {
		result = append(result, suggestClassrooms)
	}
	if present[models.ConflictTypeFaculty] {
		result = append(result, suggestFaculty)
	}
	if present[models.ConflictTypeEquipment] {
		result = append(result, suggestEquipment)
	}
	if present[models.ConflictTypeBatch] {
		result = append(result, suggestTimeSlots)
	}
	if m.ClassroomUtilization < lowUtilizationThreshold {
		result = append(result, suggestUtilization)
	}
	return result
}

func clampPercent(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(v)
	}
}
