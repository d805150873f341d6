package proxiwash

import "github.com/jaytnw/washwatch/internal/models"

func sameCycle(a, b models.MachineRecord) bool {
	return a.ID == b.ID && a.EndTime == b.EndTime
}

// IsWatched reports whether the machine's current cycle is in the list.
func IsWatched(machine models.MachineRecord, list models.WatchList) bool {
	for _, w := range list {
		if sameCycle(w, machine) {
			return true
		}
	}
	return false
}

// MachineOfID returns the last machine in all with the given id.
func MachineOfID(id string, all []models.MachineRecord) (models.MachineRecord, bool) {
	var (
		found models.MachineRecord
		ok    bool
	)
	for _, m := range all {
		if m.ID == id {
			found, ok = m, true
		}
	}
	return found, ok
}

// CleanWatchList keeps the entries whose machine is still running the same
// cycle in snap. The input slice is returned unchanged when nothing is dropped.
func CleanWatchList(list models.WatchList, snap models.Snapshot) models.WatchList {
	if len(list) == 0 {
		return list
	}

	byID := make(map[string]models.MachineRecord, len(snap.Dryers)+len(snap.Washers))
	for _, m := range snap.Machines() {
		byID[m.ID] = m
	}

	var cleaned models.WatchList
	for i, w := range list {
		m, ok := byID[w.ID]
		keep := ok && m.EndTime == w.EndTime && m.State == models.StateRunning
		if keep {
			if cleaned != nil {
				cleaned = append(cleaned, w)
			}
			continue
		}
		if cleaned == nil {
			cleaned = make(models.WatchList, i, len(list)-1)
			copy(cleaned, list[:i])
		}
	}

	if cleaned == nil {
		return list
	}
	return cleaned
}

// Dropped returns the entries of before that are missing from after.
func Dropped(before, after models.WatchList) models.WatchList {
	var dropped models.WatchList
	for _, w := range before {
		if !IsWatched(w, after) {
			dropped = append(dropped, w)
		}
	}
	return dropped
}

// WithEntry returns a copy of list with entry appended.
func WithEntry(list models.WatchList, entry models.WatchEntry) models.WatchList {
	out := make(models.WatchList, 0, len(list)+1)
	out = append(out, list...)
	return append(out, entry)
}

// WithoutMachine returns a copy of list without the machine's current cycle.
func WithoutMachine(list models.WatchList, machine models.MachineRecord) models.WatchList {
	out := make(models.WatchList, 0, len(list))
	for _, w := range list {
		if !sameCycle(w, machine) {
			out = append(out, w)
		}
	}
	return out
}
