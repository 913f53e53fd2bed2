package scheduling

import (
	"testing"
	"time"

	"mes-scheduler/internal/storage"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func TestTimeline_InsertKeepsOrder(t *testing.T) {
	tl := &Timeline{}

	tl.Insert(Interval{Start: base.Add(4 * time.Hour), End: base.Add(5 * time.Hour), TaskID: 2})
	tl.Insert(Interval{Start: base, End: base.Add(time.Hour), TaskID: 1})
	tl.Insert(Interval{Start: base.Add(2 * time.Hour), End: base.Add(3 * time.Hour), TaskID: 3})

	intervals := tl.Intervals()
	assert.Len(t, intervals, 3)
	assert.Equal(t, int64(1), intervals[0].TaskID)
	assert.Equal(t, int64(3), intervals[1].TaskID)
	assert.Equal(t, int64(2), intervals[2].TaskID)
}

func TestTimeline_EarliestSlot_Empty(t *testing.T) {
	tl := &Timeline{}

	start := tl.EarliestSlot(base, 30*time.Minute)
	assert.Equal(t, base, start)
}

func TestTimeline_EarliestSlot_AfterBusyInterval(t *testing.T) {
	tl := &Timeline{}
	tl.Insert(Interval{Start: base, End: base.Add(2 * time.Hour)})

	// [now, now+2h) is taken, the next free slot starts at now+2h.
	start := tl.EarliestSlot(base, 30*time.Minute)
	assert.Equal(t, base.Add(2*time.Hour), start)
}

func TestTimeline_EarliestSlot_FillsGap(t *testing.T) {
	tl := &Timeline{}
	tl.Insert(Interval{Start: base, End: base.Add(time.Hour)})
	tl.Insert(Interval{Start: base.Add(3 * time.Hour), End: base.Add(4 * time.Hour)})

	// A 30-minute job fits into the 1h..3h gap.
	start := tl.EarliestSlot(base, 30*time.Minute)
	assert.Equal(t, base.Add(time.Hour), start)

	// A 3-hour job does not, it goes after the last interval.
	start = tl.EarliestSlot(base, 3*time.Hour)
	assert.Equal(t, base.Add(4*time.Hour), start)
}

func TestTimeline_EarliestSlot_GapExactFit(t *testing.T) {
	tl := &Timeline{}
	tl.Insert(Interval{Start: base, End: base.Add(time.Hour)})
	tl.Insert(Interval{Start: base.Add(2 * time.Hour), End: base.Add(3 * time.Hour)})

	// End of one interval touching the start of the next is not an
	// overlap, [start, end) intervals.
	start := tl.EarliestSlot(base, time.Hour)
	assert.Equal(t, base.Add(time.Hour), start)
	assert.False(t, tl.Overlaps(start, start.Add(time.Hour)))
}

func TestTimeline_Overlaps(t *testing.T) {
	tl := &Timeline{}
	tl.Insert(Interval{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)})

	assert.True(t, tl.Overlaps(base.Add(90*time.Minute), base.Add(3*time.Hour)))
	assert.True(t, tl.Overlaps(base, base.Add(61*time.Minute)))
	assert.False(t, tl.Overlaps(base, base.Add(time.Hour)))
	assert.False(t, tl.Overlaps(base.Add(2*time.Hour), base.Add(3*time.Hour)))
}

func TestBuildTimelines_SkipsTerminalTasks(t *testing.T) {
	tasks := []*storage.ProductionTask{
		{ID: 1, DeviceID: 1, Status: storage.TaskStatusPending, PlannedStartTime: base, PlannedEndTime: base.Add(time.Hour)},
		{ID: 2, DeviceID: 1, Status: storage.TaskStatusCompleted, PlannedStartTime: base.Add(time.Hour), PlannedEndTime: base.Add(2 * time.Hour)},
		{ID: 3, DeviceID: 2, Status: storage.TaskStatusPaused, PlannedStartTime: base, PlannedEndTime: base.Add(time.Hour)},
		{ID: 4, DeviceID: 2, Status: storage.TaskStatusCancelled, PlannedStartTime: base, PlannedEndTime: base.Add(time.Hour)},
	}

	timelines := BuildTimelines(tasks)

	// Completed and cancelled tasks free their slot for planning.
	assert.Len(t, timelines[int64(1)].Intervals(), 1)
	assert.Len(t, timelines[int64(2)].Intervals(), 1)
	assert.Equal(t, int64(3), timelines[int64(2)].Intervals()[0].TaskID)
}
