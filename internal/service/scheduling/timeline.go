package scheduling

import (
	"sort"
	"time"

	"mes-scheduler/internal/storage"
)

// Interval is one booked [Start, End) slot on a device timeline.
type Interval struct {
	Start  time.Time
	End    time.Time
	TaskID int64
}

// Timeline is the ordered, non-overlapping set of booked intervals on one
// device. Mutated only by the allocator during a run.
type Timeline struct {
	intervals []Interval
}

// Insert adds an interval keeping the list sorted by start time.
func (t *Timeline) Insert(iv Interval) {
	i := sort.Search(len(t.intervals), func(i int) bool {
		return !t.intervals[i].Start.Before(iv.Start)
	})
	t.intervals = append(t.intervals, Interval{})
	copy(t.intervals[i+1:], t.intervals[i:])
	t.intervals[i] = iv
}

// Overlaps reports whether [start, end) intersects any booked interval.
func (t *Timeline) Overlaps(start, end time.Time) bool {
	for _, iv := range t.intervals {
		if start.Before(iv.End) && iv.Start.Before(end) {
			return true
		}
	}
	return false
}

// EarliestSlot finds the earliest start at or after `from` such that
// [start, start+duration) fits: gaps between booked intervals first, then
// the tail after the last one.
func (t *Timeline) EarliestSlot(from time.Time, duration time.Duration) time.Time {
	candidate := from
	for _, iv := range t.intervals {
		if iv.End.Before(candidate) || iv.End.Equal(candidate) {
			continue
		}
		if !candidate.Add(duration).After(iv.Start) {
			return candidate
		}
		candidate = iv.End
	}
	return candidate
}

func (t *Timeline) Intervals() []Interval {
	return t.intervals
}

// Timelines holds the per-device timelines a run mutates, keyed by device
// id.
type Timelines map[int64]*Timeline

// ForDevice returns the device's timeline, creating an empty one on first
// use.
func (ts Timelines) ForDevice(deviceID int64) *Timeline {
	tl, ok := ts[deviceID]
	if !ok {
		tl = &Timeline{}
		ts[deviceID] = tl
	}
	return tl
}

// BuildTimelines rebuilds the booked intervals from persisted active tasks,
// so a run after a partial failure starts from the real state.
func BuildTimelines(tasks []*storage.ProductionTask) Timelines {
	timelines := make(Timelines)
	for _, task := range tasks {
		if !task.Active() {
			continue
		}
		timelines.ForDevice(task.DeviceID).Insert(Interval{
			Start:  task.PlannedStartTime,
			End:    task.PlannedEndTime,
			TaskID: task.ID,
		})
	}
	return timelines
}
