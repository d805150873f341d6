package models

// MachineState mirrors the numeric states published by the laundromat feed.
type MachineState int

const (
	StateAvailable MachineState = iota
	StateRunning
	StateRunningNotStarted
	StateFinished
	StateUnavailable
	StateError
	StateUnknown
)

var machineStateNames = [...]string{
	"AVAILABLE",
	"RUNNING",
	"RUNNING_NOT_STARTED",
	"FINISHED",
	"UNAVAILABLE",
	"ERROR",
	"UNKNOWN",
}

func (s MachineState) String() string {
	if s < 0 || int(s) >= len(machineStateNames) {
		return "UNKNOWN"
	}
	return machineStateNames[s]
}

// MachineRecord is one washer or dryer as reported by the feed.
// ID is the machine number and is the only identity used for matching.
type MachineRecord struct {
	ID            string       `json:"number"`
	State         MachineState `json:"state"`
	MaxWeight     float64      `json:"maxWeight,omitempty"`
	StartTime     string       `json:"startTime"`
	EndTime       string       `json:"endTime"`
	DonePercent   string       `json:"donePercent"`
	RemainingTime string       `json:"remainingTime"`
	Program       string       `json:"program"`
}

// Snapshot is one full poll result. It always replaces the previous one.
type Snapshot struct {
	Dryers  []MachineRecord `json:"dryers"`
	Washers []MachineRecord `json:"washers"`
}

// Machines returns dryers followed by washers.
func (s Snapshot) Machines() []MachineRecord {
	all := make([]MachineRecord, 0, len(s.Dryers)+len(s.Washers))
	all = append(all, s.Dryers...)
	all = append(all, s.Washers...)
	return all
}

// WatchEntry is the machine record captured when watching was enabled.
// It is identified by (ID, EndTime).
type WatchEntry = MachineRecord

// WatchList is persisted and replaced as a whole.
type WatchList []WatchEntry
