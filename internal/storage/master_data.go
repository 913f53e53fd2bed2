package storage

const (
	DeviceStatusRunning     = "running"
	DeviceStatusIdle        = "idle"
	DeviceStatusMaintenance = "maintenance"
	DeviceStatusFault       = "fault"
	DeviceStatusOffline     = "offline"
)

const (
	MoldStatusNormal      = "normal"
	MoldStatusMaintenance = "maintenance"
	MoldStatusIdle        = "idle"
	MoldStatusScrapped    = "scrapped"
)

type Device struct {
	ID                       int64   `json:"id"`
	Code                     string  `json:"code"`
	Name                     string  `json:"name"`
	Status                   string  `json:"status"`
	CapacityPerHour          float64 `json:"capacity_per_hour"`
	SchedulingWeight         int     `json:"scheduling_weight"`
	IsAvailableForScheduling bool    `json:"is_available_for_scheduling"`
}

// EligibleForScheduling reports whether the device may be an allocation
// target: flagged available and running or idle.
func (d *Device) EligibleForScheduling() bool {
	if !d.IsAvailableForScheduling {
		return false
	}
	return d.Status == DeviceStatusRunning || d.Status == DeviceStatusIdle
}

type Mold struct {
	ID               int64  `json:"id"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	Status           string `json:"status"`
	SchedulingWeight int    `json:"scheduling_weight"`
}

func (m *Mold) EligibleForScheduling() bool {
	return m.Status == MoldStatusNormal
}

type Material struct {
	ID              int64  `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Unit            string `json:"unit"`
	DefaultDeviceID *int64 `json:"default_device_id"`
	DefaultMoldID   *int64 `json:"default_mold_id"`
}

// MaterialDeviceRelation declares that a device can produce a material,
// with a preference weight in [1,100].
type MaterialDeviceRelation struct {
	MaterialID int64 `json:"material_id"`
	DeviceID   int64 `json:"device_id"`
	Weight     int   `json:"weight"`
}

// MaterialMoldRelation declares that a mold is usable for a material and
// carries the throughput model for the pair: output_per_cycle pieces every
// cycle_time_seconds.
type MaterialMoldRelation struct {
	MaterialID       int64   `json:"material_id"`
	MoldID           int64   `json:"mold_id"`
	Weight           int     `json:"weight"`
	CycleTimeSeconds float64 `json:"cycle_time_seconds"`
	OutputPerCycle   float64 `json:"output_per_cycle"`
}

// UnitRate is pieces per second, zero when the pair has no usable rate.
func (r *MaterialMoldRelation) UnitRate() float64 {
	if r.CycleTimeSeconds <= 0 || r.OutputPerCycle <= 0 {
		return 0
	}
	return r.OutputPerCycle / r.CycleTimeSeconds
}

// MoldDeviceRelation declares physical compatibility between a mold and a
// device. A mold can only be scheduled on devices it has a relation with.
type MoldDeviceRelation struct {
	MoldID    int64 `json:"mold_id"`
	DeviceID  int64 `json:"device_id"`
	IsPrimary bool  `json:"is_primary"`
}

// DeviceSchedulingUpdate mutates only the scheduling-extension attributes
// of a device, never the master record itself.
type DeviceSchedulingUpdate struct {
	CapacityPerHour          float64 `json:"capacity_per_hour"`
	SchedulingWeight         int     `json:"scheduling_weight"`
	IsAvailableForScheduling bool    `json:"is_available_for_scheduling"`
}

type MaterialSchedulingUpdate struct {
	DefaultDeviceID *int64 `json:"default_device_id"`
	DefaultMoldID   *int64 `json:"default_mold_id"`
}
