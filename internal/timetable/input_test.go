package timetable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

func TestNewRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *Input)
		field     string
		malformed bool
	}{
		{
			name:   "missing slot id",
			mutate: func(in *Input) { in.TimeSlots[0].ID = "" },
			field:  "timeSlots[0].id",
		},
		{
			name:   "duplicate slot id",
			mutate: func(in *Input) { in.TimeSlots[1].ID = in.TimeSlots[0].ID },
			field:  "timeSlots[1].id",
		},
		{
			name:   "unknown day",
			mutate: func(in *Input) { in.TimeSlots[0].Day = "Someday" },
			field:  "timeSlots[0].day",
		},
		{
			name:      "malformed start",
			mutate:    func(in *Input) { in.TimeSlots[0].StartTime = "9am" },
			field:     "timeSlots[0].startTime",
			malformed: true,
		},
		{
			name:   "end before start",
			mutate: func(in *Input) { in.TimeSlots[0].EndTime = "08:00" },
			field:  "timeSlots[0].endTime",
		},
		{
			name:   "negative duration",
			mutate: func(in *Input) { in.TimeSlots[0].Duration = -5 },
			field:  "timeSlots[0].duration",
		},
		{
			name:   "zero capacity",
			mutate: func(in *Input) { in.Classrooms[0].Capacity = 0 },
			field:  "classrooms[0].capacity",
		},
		{
			name:   "zero minutes per week",
			mutate: func(in *Input) { in.Subjects[0].HoursPerWeek = 0 },
			field:  "subjects[0].hoursPerWeek",
		},
		{
			name:   "duplicate faculty",
			mutate: func(in *Input) { in.Faculty = append(in.Faculty, in.Faculty[0]) },
			field:  "faculty[1].id",
		},
		{
			name:   "negative weekly cap",
			mutate: func(in *Input) { in.Faculty[0].MaxHoursPerWeek = -1 },
			field:  "faculty[0].maxHoursPerWeek",
		},
		{
			name:   "empty batch",
			mutate: func(in *Input) { in.Batches[0].StudentCount = 0 },
			field:  "batches[0].studentCount",
		},
		{
			name:   "negative daily cap",
			mutate: func(in *Input) { in.Parameters.MaxClassesPerDay = -1 },
			field:  "parameters.maxClassesPerDay",
		},
		{
			name: "inverted preferred window",
			mutate: func(in *Input) {
				in.Parameters.PreferredStartTime = "15:00"
				in.Parameters.PreferredEndTime = "09:00"
			},
			field: "parameters.preferredEndTime",
		},
		{
			name: "malformed preferred window",
			mutate: func(in *Input) {
				in.Parameters.PreferredStartTime = "25:00"
				in.Parameters.PreferredEndTime = "09:00"
			},
			field:     "parameters.preferredStartTime",
			malformed: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := singleRoomInput()
			tc.mutate(&in)

			_, err := New(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, tc.malformed, errors.Is(err, ErrMalformedTime))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestNewDerivesSlotDuration(t *testing.T) {
	in := singleRoomInput()
	in.TimeSlots[0].Duration = 0
	in.TimeSlots[0].EndTime = "10:30"

	opt, err := New(in)
	require.NoError(t, err)
	assert.Equal(t, 90, opt.u.slots[0].duration)
}

func TestNewIgnoresPartialPreferredWindow(t *testing.T) {
	in := singleRoomInput()
	in.Parameters.PreferredStartTime = "09:00"

	opt, err := New(in)
	require.NoError(t, err)
	assert.False(t, opt.u.preferred.set)
}

func TestNewSkipsFixedClassOnUnknownSlot(t *testing.T) {
	in := singleRoomInput()
	in.FixedClasses = []models.FixedClass{
		{ID: "ghost", SubjectID: "math", BatchID: "cs-a", FacultyID: "fac-1", ClassroomID: "room-1", TimeSlot: "nope"},
		{ID: "kept", SubjectID: "math", BatchID: "cs-a", FacultyID: "fac-1", ClassroomID: "room-1", TimeSlot: "slot-2"},
	}

	opt, err := New(in)
	require.NoError(t, err)
	require.Len(t, opt.u.fixed, 1)
	assert.Equal(t, "fixed-kept", opt.u.fixed[0].entryID)

	var fixedIDs []string
	for _, e := range opt.Run(0).Entries {
		if e.Fixed {
			fixedIDs = append(fixedIDs, e.ID)
		}
	}
	assert.Equal(t, []string{"fixed-kept"}, fixedIDs)
}

func TestSuitableRoomsPrioritisesLaboratories(t *testing.T) {
	in := singleRoomInput()
	in.Classrooms = []models.Classroom{
		{ID: "lab", Capacity: 40, Type: models.ClassroomTypeLaboratory},
		{ID: "hall", Capacity: 40, Type: models.ClassroomTypeLecture},
	}
	in.Parameters.PrioritizeLabEquipment = true

	opt, err := New(in)
	require.NoError(t, err)
	batch := &opt.u.batches[0]

	rooms := opt.u.suitableRooms(&opt.u.subjects[0], batch)
	require.Len(t, rooms, 2)
	assert.Equal(t, "hall", opt.u.rooms[rooms[0]].rec.ID)

	practical := models.Subject{ID: "lab-work", HoursPerWeek: 60, Type: models.SubjectTypePractical}
	rooms = opt.u.suitableRooms(&practical, batch)
	require.Len(t, rooms, 1)
	assert.Equal(t, "lab", opt.u.rooms[rooms[0]].rec.ID)
}
