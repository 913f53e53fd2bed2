package scheduling

import (
	"errors"
	"fmt"
)

// Machine-readable failure kinds of the scheduling core. Allocation kinds
// end up in RunSummary.Failures; the rest map to rejected requests.
const (
	ErrKindNoCompatibleDevice     = "no_compatible_device"
	ErrKindNoCompatibleMold       = "no_compatible_mold"
	ErrKindNoCompatibleResource   = "no_compatible_resource"
	ErrKindNoCapacityDefined      = "no_capacity_defined"
	ErrKindInvalidStateTransition = "invalid_state_transition"
	ErrKindSchedulingInProgress   = "scheduling_in_progress"
	ErrKindConcurrentModification = "concurrent_modification"
)

// ErrSchedulingInProgress is returned when a second run is triggered while
// one is active. The caller gets a rejection, never a silent queue.
var ErrSchedulingInProgress = errors.New(ErrKindSchedulingInProgress)

// ErrInvalidStateTransition rejects a task status change the state machine
// does not permit.
var ErrInvalidStateTransition = errors.New(ErrKindInvalidStateTransition)

// AllocationError reports why one plan could not be allocated. It never
// aborts the batch; the run records it and moves on.
type AllocationError struct {
	Kind       string
	PlanID     int64
	PlanNumber string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("plan %s (id=%d): %s", e.PlanNumber, e.PlanID, e.Kind)
}
