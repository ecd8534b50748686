package timetable

import (
	"fmt"
	"sort"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// passState accumulates the output of a single scheduling pass. It is owned by
// exactly one pass and never shared.
type passState struct {
	u       *universe
	variant int
	seq     int

	entries   []models.TimetableEntry
	conflicts []models.Conflict

	facultyBusy    map[string][]span
	roomBusy       map[string][]span
	batchBusy      map[string][]span
	facultyMinutes map[string]int
	batchDayCount  map[string]*[daysPerWeek]int
}

func newPassState(u *universe, variant int) *passState {
	return &passState{
		u:              u,
		variant:        variant,
		facultyBusy:    make(map[string][]span),
		roomBusy:       make(map[string][]span),
		batchBusy:      make(map[string][]span),
		facultyMinutes: make(map[string]int),
		batchDayCount:  make(map[string]*[daysPerWeek]int),
	}
}

// seedFixed places every fixed class without checking them against each other.
func (s *passState) seedFixed() {
	for _, fixed := range s.u.fixed {
		slot := s.u.slots[fixed.slot]
		s.record(models.TimetableEntry{
			ID:          fixed.entryID,
			SubjectID:   fixed.rec.SubjectID,
			BatchID:     fixed.rec.BatchID,
			FacultyID:   fixed.rec.FacultyID,
			ClassroomID: fixed.rec.ClassroomID,
			TimeSlot:    slot.rec,
			Day:         slot.rec.Day,
			Fixed:       true,
		}, slot)
	}
}

func (s *passState) place(subject *models.Subject, batch *batchInfo, faculty *facultyInfo, room *roomInfo, slotIdx int) int {
	slot := s.u.slots[slotIdx]
	s.seq++
	s.record(models.TimetableEntry{
		ID:          fmt.Sprintf("entry-%d-%d", s.variant, s.seq),
		SubjectID:   subject.ID,
		BatchID:     batch.rec.ID,
		FacultyID:   faculty.rec.ID,
		ClassroomID: room.rec.ID,
		TimeSlot:    slot.rec,
		Day:         slot.rec.Day,
	}, slot)
	return slot.duration
}

func (s *passState) record(entry models.TimetableEntry, slot slotInfo) {
	s.entries = append(s.entries, entry)
	s.facultyBusy[entry.FacultyID] = append(s.facultyBusy[entry.FacultyID], slot.span)
	s.roomBusy[entry.ClassroomID] = append(s.roomBusy[entry.ClassroomID], slot.span)
	s.batchBusy[entry.BatchID] = append(s.batchBusy[entry.BatchID], slot.span)
	s.facultyMinutes[entry.FacultyID] += slot.duration
	s.dayCounts(entry.BatchID)[slot.span.day]++
}

func (s *passState) dayCounts(batchID string) *[daysPerWeek]int {
	counts, ok := s.batchDayCount[batchID]
	if !ok {
		counts = &[daysPerWeek]int{}
		s.batchDayCount[batchID] = counts
	}
	return counts
}

func (s *passState) addConflict(c models.Conflict) {
	if c.Suggestions == nil {
		c.Suggestions = []string{}
	}
	if c.AffectedEntries == nil {
		c.AffectedEntries = []string{}
	}
	s.conflicts = append(s.conflicts, c)
}

func (s *passState) facultyFree(f *facultyInfo, slotIdx int) bool {
	slot := s.u.slots[slotIdx]
	if overlapsAny(slot.span, s.facultyBusy[f.rec.ID]) || overlapsAny(slot.span, f.unavailable) {
		return false
	}
	if f.rec.MaxHoursPerWeek > 0 && s.facultyMinutes[f.rec.ID]+slot.duration > f.rec.MaxHoursPerWeek*60 {
		return false
	}
	return true
}

func (s *passState) roomFree(room *roomInfo, slotIdx int) bool {
	return !overlapsAny(s.u.slots[slotIdx].span, s.roomBusy[room.rec.ID])
}

// batchFree reports whether the batch can take one more session at the slot.
func (s *passState) batchFree(batchID string, slotIdx int) bool {
	target := s.u.slots[slotIdx].span
	busy := s.batchBusy[batchID]
	if overlapsAny(target, busy) {
		return false
	}
	p := s.u.params
	if p.MaxClassesPerDay > 0 && s.dayCounts(batchID)[target.day] >= p.MaxClassesPerDay {
		return false
	}
	if !p.AllowBackToBackClasses && p.MinBreakBetweenClasses > 0 {
		padded := span{day: target.day, start: target.start - p.MinBreakBetweenClasses, end: target.end + p.MinBreakBetweenClasses}
		if overlapsAny(padded, busy) {
			return false
		}
	}
	return true
}

func (s *passState) firstFreeFaculty(candidates []int, slotIdx int) *facultyInfo {
	for _, idx := range candidates {
		f := &s.u.faculty[idx]
		if s.facultyFree(f, slotIdx) {
			return f
		}
	}
	return nil
}

func (s *passState) firstFreeRoom(candidates []int, slotIdx int) *roomInfo {
	for _, idx := range candidates {
		room := &s.u.rooms[idx]
		if s.roomFree(room, slotIdx) {
			return room
		}
	}
	return nil
}

// rankDaySlots orders one day's slots: preferred window first, then earliest start.
// Slots the batch cannot take are dropped.
func (s *passState) rankDaySlots(day int, batchID string) []int {
	var slots []int
	for i := range s.u.slots {
		if s.u.slots[i].span.day == day && s.batchFree(batchID, i) {
			slots = append(slots, i)
		}
	}
	sort.SliceStable(slots, func(a, b int) bool {
		sa, sb := s.u.slots[slots[a]].span, s.u.slots[slots[b]].span
		inA, inB := s.u.preferred.contains(sa.start), s.u.preferred.contains(sb.start)
		if inA != inB {
			return inA
		}
		return sa.start < sb.start
	})
	return slots
}

// bestBatchSlot picks, among slots accepted by allowed and free for the batch,
// the one on the batch's least loaded day, earliest start first. It returns -1
// when nothing qualifies.
func (s *passState) bestBatchSlot(batchID string, allowed func(slotIdx int) bool) int {
	counts := s.dayCounts(batchID)
	best := -1
	for i := range s.u.slots {
		if !allowed(i) || !s.batchFree(batchID, i) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		cand, cur := s.u.slots[i].span, s.u.slots[best].span
		if counts[cand.day] != counts[cur.day] {
			if counts[cand.day] < counts[cur.day] {
				best = i
			}
			continue
		}
		if cand.start < cur.start {
			best = i
		}
	}
	return best
}
