package timetable

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

var fixedNow = time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)

func weekdaySlots(start, end string, duration int) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, 5)
	for i, day := range weekdays[:5] {
		slots = append(slots, models.TimeSlot{
			ID:        fmt.Sprintf("slot-%d", i+1),
			Day:       day,
			StartTime: start,
			EndTime:   end,
			Duration:  duration,
		})
	}
	return slots
}

func singleRoomInput() Input {
	return Input{
		Classrooms: []models.Classroom{{ID: "room-1", Name: "A101", Capacity: 30, Type: models.ClassroomTypeLecture}},
		Subjects:   []models.Subject{{ID: "math", Name: "Mathematics", HoursPerWeek: 60, Type: models.SubjectTypeTheory}},
		Faculty:    []models.Faculty{{ID: "fac-1", Name: "Dr. Rao", Subjects: []string{"math"}}},
		Batches:    []models.Batch{{ID: "cs-a", Name: "CS A", StudentCount: 25, Subjects: []string{"math"}}},
		TimeSlots:  weekdaySlots("09:00", "10:00", 60),
	}
}

// campusInput is a busier universe with contention on faculty, rooms and batches.
func campusInput() Input {
	var slots []models.TimeSlot
	starts := []string{"09:00", "10:00", "11:00", "13:00", "14:00"}
	ends := []string{"10:00", "11:00", "12:00", "14:00", "15:00"}
	for _, day := range weekdays[:5] {
		for s := range starts {
			slots = append(slots, models.TimeSlot{
				ID:        fmt.Sprintf("%s-%d", day[:3], s+1),
				Day:       day,
				StartTime: starts[s],
				EndTime:   ends[s],
				Duration:  60,
			})
		}
		// overlapping half-hour offset slot to exercise overlap detection
		slots = append(slots, models.TimeSlot{
			ID:        fmt.Sprintf("%s-x", day[:3]),
			Day:       day,
			StartTime: "09:30",
			EndTime:   "10:30",
			Duration:  60,
		})
	}
	return Input{
		Classrooms: []models.Classroom{
			{ID: "lt-1", Capacity: 60, Type: models.ClassroomTypeLecture, Equipment: []string{"Projector"}},
			{ID: "lt-2", Capacity: 40, Type: models.ClassroomTypeLecture},
			{ID: "lab-1", Capacity: 35, Type: models.ClassroomTypeLaboratory, Equipment: []string{"Computers", "Projector"}},
		},
		Subjects: []models.Subject{
			{ID: "ds", Name: "Data Structures", HoursPerWeek: 180, Type: models.SubjectTypeTheory},
			{ID: "dbms", Name: "Databases", HoursPerWeek: 120, Type: models.SubjectTypeTheory, RequiredEquipment: []string{"Projector"}},
			{ID: "os-lab", Name: "OS Lab", HoursPerWeek: 120, Type: models.SubjectTypePractical, RequiredEquipment: []string{"Computers"}},
			{ID: "math", Name: "Discrete Math", HoursPerWeek: 240, Type: models.SubjectTypeTheory},
		},
		Faculty: []models.Faculty{
			{ID: "f-1", Subjects: []string{"ds", "os-lab"}, PreferredTimeSlots: []string{"Mon-1", "Tue-1"}},
			{ID: "f-2", Subjects: []string{"dbms", "ds"}, UnavailableSlots: []string{"Mon-1"}},
			{ID: "f-3", Subjects: []string{"math"}, MaxHoursPerWeek: 5},
			{ID: "f-4", Subjects: []string{"os-lab", "math"}},
		},
		Batches: []models.Batch{
			{ID: "cs-a", Name: "CS A", StudentCount: 32, Subjects: []string{"ds", "dbms", "os-lab", "math"}},
			{ID: "cs-b", Name: "CS B", StudentCount: 38, Subjects: []string{"ds", "dbms", "math"}},
			{ID: "it-a", Name: "IT A", StudentCount: 30, Subjects: []string{"os-lab", "math"}},
		},
		TimeSlots: slots,
		FixedClasses: []models.FixedClass{
			{ID: "assembly", SubjectID: "math", BatchID: "cs-a", FacultyID: "f-4", ClassroomID: "lt-1", TimeSlot: "Wed-1"},
		},
		Parameters: models.OptimizationParameters{
			PreferredStartTime: "10:00",
			PreferredEndTime:   "14:00",
		},
	}
}

func newTestOptimizer(t *testing.T, in Input, opts ...Option) *Optimizer {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	opt, err := New(in, opts...)
	require.NoError(t, err)
	return opt
}

func assertNoDoubleBooking(t *testing.T, tt models.GeneratedTimetable) {
	t.Helper()
	for i := 0; i < len(tt.Entries); i++ {
		a := tt.Entries[i]
		for j := i + 1; j < len(tt.Entries); j++ {
			b := tt.Entries[j]
			if a.Fixed && b.Fixed {
				continue
			}
			if !entriesOverlap(t, a, b) {
				continue
			}
			assert.NotEqual(t, a.ClassroomID, b.ClassroomID, "classroom double booked: %s / %s in %s", a.ID, b.ID, tt.ID)
			assert.NotEqual(t, a.FacultyID, b.FacultyID, "faculty double booked: %s / %s in %s", a.ID, b.ID, tt.ID)
			assert.NotEqual(t, a.BatchID, b.BatchID, "batch double booked: %s / %s in %s", a.ID, b.ID, tt.ID)
		}
	}
}

func entriesOverlap(t *testing.T, a, b models.TimetableEntry) bool {
	t.Helper()
	if a.Day != b.Day {
		return false
	}
	as, err := ParseClock(a.TimeSlot.StartTime)
	require.NoError(t, err)
	ae, err := ParseClock(a.TimeSlot.EndTime)
	require.NoError(t, err)
	bs, err := ParseClock(b.TimeSlot.StartTime)
	require.NoError(t, err)
	be, err := ParseClock(b.TimeSlot.EndTime)
	require.NoError(t, err)
	return as < be && bs < ae
}

func TestGenerateSingleSessionScenario(t *testing.T) {
	opt := newTestOptimizer(t, singleRoomInput())

	result, err := opt.Generate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, result, 1)

	tt := result[0]
	assert.Len(t, tt.Entries, 1)
	assert.Empty(t, tt.Conflicts)
	assert.Equal(t, 20, tt.Metrics.ClassroomUtilization)
	assert.Equal(t, 100, tt.Metrics.FacultyWorkloadBalance)
	assert.Equal(t, 100, tt.Metrics.PreferenceMatch)
	assert.Greater(t, tt.Score, 0)
	assert.Equal(t, models.TimetableStatusDraft, tt.Status)
	assert.Equal(t, fixedNow, tt.GeneratedAt)
}

func TestGenerateWithoutFacultyRecordsFacultyConflict(t *testing.T) {
	in := singleRoomInput()
	in.Faculty = nil
	opt := newTestOptimizer(t, in)

	result, err := opt.Generate(context.Background(), 1)
	require.NoError(t, err)

	tt := result[0]
	assert.Empty(t, tt.Entries)
	assert.Equal(t, 0, tt.Metrics.ClassroomUtilization)
	require.Len(t, tt.Conflicts, 1)
	assert.Equal(t, models.ConflictTypeFaculty, tt.Conflicts[0].Type)
	assert.Equal(t, models.ConflictSeverityHigh, tt.Conflicts[0].Severity)
	assert.Contains(t, tt.Conflicts[0].Description, "Mathematics")
	assert.Contains(t, tt.Suggestions, suggestFaculty)
}

func TestGenerateMissingEquipmentLeavesShortfall(t *testing.T) {
	in := singleRoomInput()
	in.Subjects[0].RequiredEquipment = []string{"Projector"}
	opt := newTestOptimizer(t, in)

	for variant := 0; variant < strategyCount; variant++ {
		tt := opt.Run(variant)
		assert.Empty(t, tt.Entries, "variant %d", variant)

		var types []models.ConflictType
		for _, c := range tt.Conflicts {
			types = append(types, c.Type)
		}
		assert.Contains(t, types, models.ConflictTypeBatch, "variant %d", variant)
		assert.Contains(t, types, models.ConflictTypeEquipment, "variant %d", variant)
	}
}

func TestGenerateReturnsRequestedCountSortedByScore(t *testing.T) {
	opt := newTestOptimizer(t, campusInput())

	result, err := opt.Generate(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, result, 4)
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].Score, result[i].Score)
	}
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	opt := newTestOptimizer(t, singleRoomInput())

	_, err := opt.Generate(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestGenerateHonoursCancellation(t *testing.T) {
	opt := newTestOptimizer(t, campusInput())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := opt.Generate(ctx, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunNeverDoubleBooks(t *testing.T) {
	params := []models.OptimizationParameters{
		{},
		{PreferredStartTime: "10:00", PreferredEndTime: "14:00"},
		{MaxClassesPerDay: 2, MinBreakBetweenClasses: 30},
		{BalanceFacultyWorkload: true, PrioritizeLabEquipment: true},
	}
	for pi, p := range params {
		in := campusInput()
		in.Parameters = p
		opt := newTestOptimizer(t, in)
		for variant := 0; variant < 9; variant++ {
			t.Run(fmt.Sprintf("params-%d/variant-%d", pi, variant), func(t *testing.T) {
				assertNoDoubleBooking(t, opt.Run(variant))
			})
		}
	}
}

func TestRunPreservesFixedClasses(t *testing.T) {
	in := campusInput()
	opt := newTestOptimizer(t, in)

	result, err := opt.Generate(context.Background(), 3)
	require.NoError(t, err)
	for _, tt := range result {
		var found bool
		for _, entry := range tt.Entries {
			if entry.ID != "fixed-assembly" {
				continue
			}
			found = true
			assert.Equal(t, "math", entry.SubjectID)
			assert.Equal(t, "cs-a", entry.BatchID)
			assert.Equal(t, "f-4", entry.FacultyID)
			assert.Equal(t, "lt-1", entry.ClassroomID)
			assert.Equal(t, "Wed-1", entry.TimeSlot.ID)
			assert.Equal(t, "Wednesday", entry.Day)
			assert.True(t, entry.Fixed)
		}
		assert.True(t, found, "fixed class missing from %s", tt.ID)
	}
}

func TestRunFixedClassBlocksHeuristicPlacement(t *testing.T) {
	in := singleRoomInput()
	in.TimeSlots = in.TimeSlots[:1]
	in.FixedClasses = []models.FixedClass{{SubjectID: "other", BatchID: "other-batch", FacultyID: "fac-9", ClassroomID: "room-1", TimeSlot: "slot-1"}}
	opt := newTestOptimizer(t, in)

	tt := opt.Run(0)
	require.Len(t, tt.Entries, 1)
	assert.Equal(t, "fixed-1", tt.Entries[0].ID)
	require.Len(t, tt.Conflicts, 1)
	assert.Equal(t, models.ConflictTypeBatch, tt.Conflicts[0].Type)
}

func TestRunIsDeterministicPerVariant(t *testing.T) {
	opt := newTestOptimizer(t, campusInput())
	for variant := 0; variant < 6; variant++ {
		first := opt.Run(variant)
		second := opt.Run(variant)
		assert.Equal(t, first, second, "variant %d", variant)
	}
}

func TestGenerateIndependentOfWorkerCount(t *testing.T) {
	sequential := newTestOptimizer(t, campusInput())
	parallel := newTestOptimizer(t, campusInput(), WithWorkers(4))

	a, err := sequential.Generate(context.Background(), 3)
	require.NoError(t, err)
	b, err := parallel.Generate(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunMetricsStayInBounds(t *testing.T) {
	opt := newTestOptimizer(t, campusInput())
	for variant := 0; variant < 9; variant++ {
		tt := opt.Run(variant)
		for name, v := range map[string]int{
			"score":       tt.Score,
			"utilization": tt.Metrics.ClassroomUtilization,
			"balance":     tt.Metrics.FacultyWorkloadBalance,
			"preference":  tt.Metrics.PreferenceMatch,
		} {
			assert.GreaterOrEqual(t, v, 0, "%s variant %d", name, variant)
			assert.LessOrEqual(t, v, 100, "%s variant %d", name, variant)
		}
	}
}

// The source system always reported metrics.conflictCount as 0. This
// implementation mirrors the conflict list instead.
func TestRunConflictCountMirrorsConflictList(t *testing.T) {
	in := singleRoomInput()
	in.Faculty = nil
	opt := newTestOptimizer(t, in)

	tt := opt.Run(0)
	assert.NotZero(t, tt.Metrics.ConflictCount)
	assert.Equal(t, len(tt.Conflicts), tt.Metrics.ConflictCount)
}

func TestRunUsesStrategyByVariant(t *testing.T) {
	opt := newTestOptimizer(t, singleRoomInput())
	assert.Equal(t, MinimalGaps.String(), opt.Run(0).Strategy)
	assert.Equal(t, FacultyBalance.String(), opt.Run(1).Strategy)
	assert.Equal(t, RoomOptimization.String(), opt.Run(2).Strategy)
	assert.Equal(t, FacultyBalance.String(), opt.Run(10).Strategy)
}

func TestStrategyForAppliesParameterBias(t *testing.T) {
	p := models.OptimizationParameters{BalanceFacultyWorkload: true}
	assert.Equal(t, FacultyBalance, StrategyFor(0, p))
	assert.Equal(t, RoomOptimization, StrategyFor(1, p))

	p.MinimizeGapsBetweenClasses = true
	assert.Equal(t, MinimalGaps, StrategyFor(0, p))
}

func TestEmptyUniverseIsValid(t *testing.T) {
	opt := newTestOptimizer(t, Input{})

	result, err := opt.Generate(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, result, 2)
	for _, tt := range result {
		assert.Empty(t, tt.Entries)
		assert.Empty(t, tt.Conflicts)
		assert.Equal(t, 0, tt.Metrics.ClassroomUtilization)
	}
}
