package timetable

import (
	"sort"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// StrategyKind selects how sessions of one subject/batch pair are placed.
type StrategyKind int

const (
	// MinimalGaps walks the week day by day and packs sessions into the
	// earliest preferred slots.
	MinimalGaps StrategyKind = iota
	// FacultyBalance hands one session to each eligible faculty member,
	// least loaded first.
	FacultyBalance
	// RoomOptimization fills suitable classrooms in order.
	RoomOptimization

	strategyCount = 3
)

func (k StrategyKind) String() string {
	switch k {
	case MinimalGaps:
		return "minimal_gaps"
	case FacultyBalance:
		return "faculty_balance"
	case RoomOptimization:
		return "room_optimization"
	default:
		return "unknown"
	}
}

// placementStrategy places sessions for a subject/batch pair and returns the
// minutes it managed to schedule.
type placementStrategy interface {
	kind() StrategyKind
	placeSessions(subject *models.Subject, batch *batchInfo, requiredMinutes int, state *passState) int
}

var strategies = [strategyCount]placementStrategy{
	minimalGapsStrategy{},
	facultyBalanceStrategy{},
	roomOptimizationStrategy{},
}

// strategyBias shifts the strategy rotation when the parameters ask for
// workload balancing without gap minimisation.
func strategyBias(p models.OptimizationParameters) int {
	if p.BalanceFacultyWorkload && !p.MinimizeGapsBetweenClasses {
		return int(FacultyBalance)
	}
	return 0
}

// StrategyFor reports the strategy a variant runs with under the given parameters.
func StrategyFor(variant int, p models.OptimizationParameters) StrategyKind {
	return strategies[strategyIndex(variant, p)].kind()
}

func strategyIndex(variant int, p models.OptimizationParameters) int {
	idx := (variant + strategyBias(p)) % strategyCount
	if idx < 0 {
		idx += strategyCount
	}
	return idx
}

type minimalGapsStrategy struct{}

func (minimalGapsStrategy) kind() StrategyKind { return MinimalGaps }

func (minimalGapsStrategy) placeSessions(subject *models.Subject, batch *batchInfo, requiredMinutes int, state *passState) int {
	needed := (requiredMinutes + 59) / 60
	faculty := state.u.eligibleFaculty(subject.ID)
	rooms := state.u.suitableRooms(subject, batch)

	placed, minutes := 0, 0
	for day := 0; day < daysPerWeek && placed < needed; day++ {
		for _, slotIdx := range state.rankDaySlots(day, batch.rec.ID) {
			if placed >= needed {
				break
			}
			// an earlier placement today may have taken an overlapping slot
			if !state.batchFree(batch.rec.ID, slotIdx) {
				continue
			}
			f := state.firstFreeFaculty(faculty, slotIdx)
			if f == nil {
				continue
			}
			room := state.firstFreeRoom(rooms, slotIdx)
			if room == nil {
				continue
			}
			minutes += state.place(subject, batch, f, room, slotIdx)
			placed++
		}
	}
	return minutes
}

type facultyBalanceStrategy struct{}

func (facultyBalanceStrategy) kind() StrategyKind { return FacultyBalance }

func (facultyBalanceStrategy) placeSessions(subject *models.Subject, batch *batchInfo, requiredMinutes int, state *passState) int {
	order := state.u.eligibleFaculty(subject.ID)
	sort.SliceStable(order, func(a, b int) bool {
		return state.facultyMinutes[state.u.faculty[order[a]].rec.ID] < state.facultyMinutes[state.u.faculty[order[b]].rec.ID]
	})
	rooms := state.u.suitableRooms(subject, batch)

	minutes := 0
	for _, idx := range order {
		if minutes >= requiredMinutes {
			break
		}
		f := &state.u.faculty[idx]
		slotIdx := state.bestBatchSlot(batch.rec.ID, func(i int) bool { return state.facultyFree(f, i) })
		if slotIdx < 0 {
			continue
		}
		room := state.firstFreeRoom(rooms, slotIdx)
		if room == nil {
			continue
		}
		minutes += state.place(subject, batch, f, room, slotIdx)
	}
	return minutes
}

type roomOptimizationStrategy struct{}

func (roomOptimizationStrategy) kind() StrategyKind { return RoomOptimization }

func (roomOptimizationStrategy) placeSessions(subject *models.Subject, batch *batchInfo, requiredMinutes int, state *passState) int {
	faculty := state.u.eligibleFaculty(subject.ID)

	minutes := 0
	for _, idx := range state.u.suitableRooms(subject, batch) {
		if minutes >= requiredMinutes {
			break
		}
		room := &state.u.rooms[idx]
		slotIdx := state.bestBatchSlot(batch.rec.ID, func(i int) bool { return state.roomFree(room, i) })
		if slotIdx < 0 {
			continue
		}
		f := state.firstFreeFaculty(faculty, slotIdx)
		if f == nil {
			continue
		}
		minutes += state.place(subject, batch, f, room, slotIdx)
	}
	return minutes
}
