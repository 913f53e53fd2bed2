package scheduling

import (
	"math"
	"sort"
	"time"

	"mes-scheduler/internal/storage"
)

// Allocator turns one unscheduled plan into a device- and mold-bound task.
// It is a pure function of (plan, index, timelines, now): no storage, no
// clock, so every decision is reproducible.
type Allocator struct {
	// DefaultResourceBonus is added to the relation weight of the
	// material's default device or mold before scoring. A preference
	// hint, not a hard override.
	DefaultResourceBonus int
}

type candidate struct {
	device   *storage.Device
	mold     *storage.Mold
	score    int
	start    time.Time
	duration time.Duration
}

// Allocate selects the best eligible (device, mold) pair for the plan and
// produces a pending task on the earliest feasible slot of the winning
// device. The timeline of the winning device is NOT mutated here; the
// caller books the interval once the task is committed.
func (a *Allocator) Allocate(plan *storage.ProductionPlan, idx *MasterDataIndex, timelines Timelines, now time.Time) (*storage.ProductionTask, *AllocationError) {
	fail := func(kind string) (*storage.ProductionTask, *AllocationError) {
		return nil, &AllocationError{Kind: kind, PlanID: plan.ID, PlanNumber: plan.PlanNumber}
	}

	material := idx.Materials[plan.MaterialID]

	var deviceRels []storage.MaterialDeviceRelation
	for _, rel := range idx.DeviceRelations[plan.MaterialID] {
		device, ok := idx.Devices[rel.DeviceID]
		if ok && device.EligibleForScheduling() {
			deviceRels = append(deviceRels, rel)
		}
	}
	if len(deviceRels) == 0 {
		return fail(ErrKindNoCompatibleDevice)
	}

	var moldRels []storage.MaterialMoldRelation
	for _, rel := range idx.MoldRelations[plan.MaterialID] {
		mold, ok := idx.Molds[rel.MoldID]
		if ok && mold.EligibleForScheduling() {
			moldRels = append(moldRels, rel)
		}
	}
	if len(moldRels) == 0 {
		return fail(ErrKindNoCompatibleMold)
	}

	// Cartesian product restricted to molds physically usable on the
	// device.
	var pairs int
	var capacityDefined bool
	var candidates []candidate
	for _, devRel := range deviceRels {
		device := idx.Devices[devRel.DeviceID]
		for _, moldRel := range moldRels {
			if !idx.MoldRunsOnDevice(moldRel.MoldID, devRel.DeviceID) {
				continue
			}
			pairs++

			duration, ok := productionDuration(plan.PlannedQuantity, moldRel, device)
			if !ok {
				continue
			}
			capacityDefined = true

			mold := idx.Molds[moldRel.MoldID]
			candidates = append(candidates, candidate{
				device:   device,
				mold:     mold,
				score:    a.score(material, devRel, device, moldRel, mold),
				start:    timelines.ForDevice(device.ID).EarliestSlot(now, duration),
				duration: duration,
			})
		}
	}
	if pairs == 0 {
		return fail(ErrKindNoCompatibleResource)
	}
	if !capacityDefined {
		return fail(ErrKindNoCapacityDefined)
	}

	// Highest score wins; ties break by earliest feasible start, then
	// lower device id, then lower mold id. The order is total, so two
	// runs over the same snapshot pick the same pair.
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.score != cj.score {
			return ci.score > cj.score
		}
		if !ci.start.Equal(cj.start) {
			return ci.start.Before(cj.start)
		}
		if ci.device.ID != cj.device.ID {
			return ci.device.ID < cj.device.ID
		}
		return ci.mold.ID < cj.mold.ID
	})

	best := candidates[0]

	return &storage.ProductionTask{
		TaskNumber:       "T-" + plan.PlanNumber,
		PlanID:           plan.ID,
		DeviceID:         best.device.ID,
		MoldID:           best.mold.ID,
		TaskQuantity:     plan.PlannedQuantity,
		PlannedStartTime: best.start,
		PlannedEndTime:   best.start.Add(best.duration),
		DueDate:          plan.DueDate,
		Status:           storage.TaskStatusPending,
	}, nil
}

func (a *Allocator) score(material *storage.Material, devRel storage.MaterialDeviceRelation, device *storage.Device, moldRel storage.MaterialMoldRelation, mold *storage.Mold) int {
	deviceWeight := devRel.Weight
	moldWeight := moldRel.Weight

	if material != nil {
		if material.DefaultDeviceID != nil && *material.DefaultDeviceID == device.ID {
			deviceWeight += a.DefaultResourceBonus
		}
		if material.DefaultMoldID != nil && *material.DefaultMoldID == mold.ID {
			moldWeight += a.DefaultResourceBonus
		}
	}

	return deviceWeight*device.SchedulingWeight + moldWeight*mold.SchedulingWeight
}

// productionDuration applies the throughput model: the mold-specific unit
// rate when the pair defines one, otherwise the device's hourly capacity.
// ok is false when neither rate is usable.
func productionDuration(quantity float64, moldRel storage.MaterialMoldRelation, device *storage.Device) (time.Duration, bool) {
	if rate := moldRel.UnitRate(); rate > 0 {
		seconds := math.Ceil(quantity / rate)
		return time.Duration(seconds) * time.Second, true
	}
	if device.CapacityPerHour > 0 {
		hours := math.Ceil(quantity / device.CapacityPerHour)
		return time.Duration(hours) * time.Hour, true
	}
	return 0, false
}
