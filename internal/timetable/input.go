package timetable

import (
	"fmt"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// Input is the raw scheduling universe handed to the optimizer.
type Input struct {
	Classrooms   []models.Classroom            `json:"classrooms" yaml:"classrooms"`
	Subjects     []models.Subject              `json:"subjects" yaml:"subjects"`
	Faculty      []models.Faculty              `json:"faculty" yaml:"faculty"`
	Batches      []models.Batch                `json:"batches" yaml:"batches"`
	TimeSlots    []models.TimeSlot             `json:"timeSlots" yaml:"timeSlots"`
	FixedClasses []models.FixedClass           `json:"fixedClasses" yaml:"fixedClasses"`
	Parameters   models.OptimizationParameters `json:"parameters" yaml:"parameters"`
}

type stringSet map[string]struct{}

func newStringSet(items []string) stringSet {
	set := make(stringSet, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func (s stringSet) has(item string) bool {
	_, ok := s[item]
	return ok
}

type slotInfo struct {
	rec      models.TimeSlot
	span     span
	duration int
}

type roomInfo struct {
	rec       models.Classroom
	equipment stringSet
}

type facultyInfo struct {
	rec         models.Faculty
	teaches     stringSet
	preferred   stringSet
	unavailable []span
}

type batchInfo struct {
	rec      models.Batch
	requires stringSet
}

type fixedPlacement struct {
	entryID string
	rec     models.FixedClass
	slot    int
}

type window struct {
	start int
	end   int
	set   bool
}

func (w window) contains(minute int) bool {
	return w.set && minute >= w.start && minute < w.end
}

// universe is the validated, read-only snapshot every pass works from.
type universe struct {
	rooms     []roomInfo
	subjects  []models.Subject
	faculty   []facultyInfo
	batches   []batchInfo
	slots     []slotInfo
	fixed     []fixedPlacement
	params    models.OptimizationParameters
	preferred window

	slotByID    map[string]int
	facultyByID map[string]int
}

func buildUniverse(in Input) (*universe, error) {
	u := &universe{
		params:      in.Parameters,
		slotByID:    make(map[string]int, len(in.TimeSlots)),
		facultyByID: make(map[string]int, len(in.Faculty)),
	}

	for i, ts := range in.TimeSlots {
		field := fmt.Sprintf("timeSlots[%d]", i)
		if ts.ID == "" {
			return nil, invalid(field+".id", "", "is required")
		}
		if _, dup := u.slotByID[ts.ID]; dup {
			return nil, invalid(field+".id", ts.ID, "duplicate time slot id")
		}
		day, ok := dayIndex(ts.Day)
		if !ok {
			return nil, invalid(field+".day", ts.Day, "must be a weekday name")
		}
		start, err := parseField(field+".startTime", ts.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := parseField(field+".endTime", ts.EndTime)
		if err != nil {
			return nil, err
		}
		if end <= start {
			return nil, invalid(field+".endTime", ts.EndTime, "must be after startTime")
		}
		if ts.Duration < 0 {
			return nil, invalid(field+".duration", fmt.Sprint(ts.Duration), "must not be negative")
		}
		duration := ts.Duration
		if duration == 0 {
			duration = end - start
		}
		u.slotByID[ts.ID] = len(u.slots)
		u.slots = append(u.slots, slotInfo{rec: ts, span: span{day: day, start: start, end: end}, duration: duration})
	}

	roomIDs := make(stringSet, len(in.Classrooms))
	for i, room := range in.Classrooms {
		field := fmt.Sprintf("classrooms[%d]", i)
		if room.ID == "" {
			return nil, invalid(field+".id", "", "is required")
		}
		if roomIDs.has(room.ID) {
			return nil, invalid(field+".id", room.ID, "duplicate classroom id")
		}
		if room.Capacity <= 0 {
			return nil, invalid(field+".capacity", fmt.Sprint(room.Capacity), "must be greater than zero")
		}
		roomIDs[room.ID] = struct{}{}
		u.rooms = append(u.rooms, roomInfo{rec: room, equipment: newStringSet(room.Equipment)})
	}

	subjectIDs := make(stringSet, len(in.Subjects))
	for i, subject := range in.Subjects {
		field := fmt.Sprintf("subjects[%d]", i)
		if subject.ID == "" {
			return nil, invalid(field+".id", "", "is required")
		}
		if subjectIDs.has(subject.ID) {
			return nil, invalid(field+".id", subject.ID, "duplicate subject id")
		}
		if subject.HoursPerWeek <= 0 {
			return nil, invalid(field+".hoursPerWeek", fmt.Sprint(subject.HoursPerWeek), "must be greater than zero")
		}
		subjectIDs[subject.ID] = struct{}{}
		u.subjects = append(u.subjects, subject)
	}

	for i, f := range in.Faculty {
		field := fmt.Sprintf("faculty[%d]", i)
		if f.ID == "" {
			return nil, invalid(field+".id", "", "is required")
		}
		if _, dup := u.facultyByID[f.ID]; dup {
			return nil, invalid(field+".id", f.ID, "duplicate faculty id")
		}
		if f.MaxHoursPerWeek < 0 {
			return nil, invalid(field+".maxHoursPerWeek", fmt.Sprint(f.MaxHoursPerWeek), "must not be negative")
		}
		info := facultyInfo{
			rec:       f,
			teaches:   newStringSet(f.Subjects),
			preferred: newStringSet(f.PreferredTimeSlots),
		}
		// unknown unavailable slot ids cannot block anything
		for _, id := range f.UnavailableSlots {
			if idx, ok := u.slotByID[id]; ok {
				info.unavailable = append(info.unavailable, u.slots[idx].span)
			}
		}
		u.facultyByID[f.ID] = len(u.faculty)
		u.faculty = append(u.faculty, info)
	}

	batchIDs := make(stringSet, len(in.Batches))
	for i, b := range in.Batches {
		field := fmt.Sprintf("batches[%d]", i)
		if b.ID == "" {
			return nil, invalid(field+".id", "", "is required")
		}
		if batchIDs.has(b.ID) {
			return nil, invalid(field+".id", b.ID, "duplicate batch id")
		}
		if b.StudentCount <= 0 {
			return nil, invalid(field+".studentCount", fmt.Sprint(b.StudentCount), "must be greater than zero")
		}
		batchIDs[b.ID] = struct{}{}
		u.batches = append(u.batches, batchInfo{rec: b, requires: newStringSet(b.Subjects)})
	}

	for i, fc := range in.FixedClasses {
		// a fixed class without a known slot has nowhere to be seeded
		idx, ok := u.slotByID[fc.TimeSlot]
		if !ok {
			continue
		}
		entryID := fmt.Sprintf("fixed-%d", i+1)
		if fc.ID != "" {
			entryID = "fixed-" + fc.ID
		}
		u.fixed = append(u.fixed, fixedPlacement{entryID: entryID, rec: fc, slot: idx})
	}

	if err := u.applyParameters(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *universe) applyParameters() error {
	p := u.params
	if p.MaxClassesPerDay < 0 {
		return invalid("parameters.maxClassesPerDay", fmt.Sprint(p.MaxClassesPerDay), "must not be negative")
	}
	if p.MinBreakBetweenClasses < 0 {
		return invalid("parameters.minBreakBetweenClasses", fmt.Sprint(p.MinBreakBetweenClasses), "must not be negative")
	}
	if p.LunchBreakDuration < 0 {
		return invalid("parameters.lunchBreakDuration", fmt.Sprint(p.LunchBreakDuration), "must not be negative")
	}
	if p.PreferredStartTime == "" || p.PreferredEndTime == "" {
		return nil
	}
	start, err := parseField("parameters.preferredStartTime", p.PreferredStartTime)
	if err != nil {
		return err
	}
	end, err := parseField("parameters.preferredEndTime", p.PreferredEndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return invalid("parameters.preferredEndTime", p.PreferredEndTime, "must be after preferredStartTime")
	}
	u.preferred = window{start: start, end: end, set: true}
	return nil
}

func parseField(field, raw string) (int, error) {
	minutes, err := ParseClock(raw)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "expected 24h HH:MM", Err: ErrMalformedTime}
	}
	return minutes, nil
}

// suitableRooms lists classrooms able to host the subject for the batch, in input order.
func (u *universe) suitableRooms(subject *models.Subject, batch *batchInfo) []int {
	var rooms []int
	for i := range u.rooms {
		if u.roomFits(&u.rooms[i], subject, batch, true) {
			rooms = append(rooms, i)
		}
	}
	if !u.params.PrioritizeLabEquipment || subject.Type == models.SubjectTypePractical || len(subject.RequiredEquipment) > 0 {
		return rooms
	}
	// keep laboratories free for subjects that need them
	ordered := make([]int, 0, len(rooms))
	for _, idx := range rooms {
		if u.rooms[idx].rec.Type != models.ClassroomTypeLaboratory {
			ordered = append(ordered, idx)
		}
	}
	for _, idx := range rooms {
		if u.rooms[idx].rec.Type == models.ClassroomTypeLaboratory {
			ordered = append(ordered, idx)
		}
	}
	return ordered
}

func (u *universe) roomFits(room *roomInfo, subject *models.Subject, batch *batchInfo, checkEquipment bool) bool {
	if room.rec.Capacity < batch.rec.StudentCount {
		return false
	}
	if subject.Type == models.SubjectTypePractical && room.rec.Type != models.ClassroomTypeLaboratory {
		return false
	}
	if checkEquipment {
		for _, item := range subject.RequiredEquipment {
			if !room.equipment.has(item) {
				return false
			}
		}
	}
	return true
}

// eligibleFaculty lists faculty able to teach the subject, in input order.
func (u *universe) eligibleFaculty(subjectID string) []int {
	var result []int
	for i := range u.faculty {
		if u.faculty[i].teaches.has(subjectID) {
			result = append(result, i)
		}
	}
	return result
}
