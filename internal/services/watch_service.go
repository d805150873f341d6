package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jaytnw/washwatch/internal/apperr"
	"github.com/jaytnw/washwatch/internal/models"
	"github.com/jaytnw/washwatch/internal/notifications"
	"github.com/jaytnw/washwatch/internal/proxiwash"
	"github.com/jaytnw/washwatch/internal/repository"
)

var (
	ErrMachineNotFound   = errors.New("machine not found")
	ErrMachineNotRunning = errors.New("machine not running")
	ErrEndTimeUnknown    = errors.New("end time unknown")
)

type WatchService interface {
	Start(ctx context.Context)
	Run(ctx context.Context, interval time.Duration)
	Refresh(ctx context.Context) error
	ProcessSnapshot(ctx context.Context, snap models.Snapshot)
	HandleSnapshotMessage(topic string, payload []byte)
	ToggleWatch(ctx context.Context, machineID string) (bool, error)
	WatchList() models.WatchList
	MachineEndDate(machineID string) (time.Time, error)
	Overview() models.MachinesOverview
}

type watchService struct {
	fetcher   SnapshotFetcher
	repo      repository.WatchListRepository
	scheduler notifications.Scheduler
	prank     proxiwash.PrankReorderer
	now       func() time.Time

	// mu serialises every read-modify-write of the watch-list.
	mu        sync.Mutex
	snapshot  models.Snapshot
	watchList models.WatchList
	// restored is false until the entries loaded by Start have been
	// scheduled again; the notifier keeps its timers in memory only.
	restored bool
}

func NewWatchService(
	fetcher SnapshotFetcher,
	repo repository.WatchListRepository,
	scheduler notifications.Scheduler,
	prank proxiwash.PrankReorderer,
	now func() time.Time,
) WatchService {
	if now == nil {
		now = time.Now
	}
	return &watchService{
		fetcher:   fetcher,
		repo:      repo,
		scheduler: scheduler,
		prank:     prank,
		now:       now,
		watchList: models.WatchList{},
	}
}

// Start loads the persisted watch-list. A failed load starts from an empty list.
// Loaded entries get their notifications back on the first snapshot, once
// reconciliation has dropped the cycles that ended while the service was down.
func (s *watchService) Start(ctx context.Context) {
	list, err := s.repo.Load(ctx)
	if err != nil {
		log.Printf("⚠️ [WatchService] failed to load watch-list, starting empty: %v", err)
		list = models.WatchList{}
	}

	s.mu.Lock()
	s.watchList = list
	s.restored = len(list) == 0
	s.mu.Unlock()

	log.Printf("📋 [WatchService] loaded %d watched machines", len(list))
}

// Run refreshes immediately and then on every tick until ctx is done.
func (s *watchService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			log.Printf("❌ [WatchService] refresh failed: %v", err)
		}

		select {
		case <-ctx.Done():
			log.Println("🛑 [WatchService] poll loop stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *watchService) Refresh(ctx context.Context) error {
	snap, err := s.fetcher.FetchSnapshot(ctx)
	if err != nil {
		return apperr.New("API_ERROR", "Failed to fetch machines", 502, err)
	}
	s.ProcessSnapshot(ctx, snap)
	return nil
}

func (s *watchService) HandleSnapshotMessage(topic string, payload []byte) {
	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		log.Printf("❌ [WatchService] invalid snapshot on %s: %v", topic, err)
		return
	}
	s.ProcessSnapshot(context.Background(), snap)
}

// ProcessSnapshot runs one pipeline pass: prank transform, reconciliation,
// cancellation of dropped entries and persistence.
func (s *watchService) ProcessSnapshot(ctx context.Context, snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prank.Active(s.now()) {
		snap = s.prank.Apply(snap)
	}
	s.snapshot = snap

	cleaned := proxiwash.CleanWatchList(s.watchList, snap)
	changed := len(cleaned) != len(s.watchList)

	for _, w := range proxiwash.Dropped(s.watchList, cleaned) {
		if _, stillWatched := proxiwash.MachineOfID(w.ID, cleaned); stillWatched {
			continue
		}
		if err := s.scheduler.Disable(w.ID); err != nil {
			log.Printf("⚠️ [WatchService] failed to cancel notifications of machine %s: %v", w.ID, err)
		}
		log.Printf("🧹 [WatchService] dropped machine %s (cycle ending %s)", w.ID, w.EndTime)
	}

	if !s.restored {
		s.restored = true
		rescheduled := s.reschedule(ctx, cleaned)
		changed = changed || len(rescheduled) != len(cleaned)
		cleaned = rescheduled
	}

	if !changed {
		return
	}
	s.watchList = cleaned
	s.persist(ctx)
}

// reschedule enables every entry again and drops the ones whose end time is
// unknown or whose notifications cannot be scheduled.
func (s *watchService) reschedule(ctx context.Context, list models.WatchList) models.WatchList {
	kept := make(models.WatchList, 0, len(list))
	for _, w := range list {
		end, ok := proxiwash.MachineEndDate(w, s.now())
		if !ok {
			log.Printf("🧹 [WatchService] dropped machine %s: end time %q unknown", w.ID, w.EndTime)
			continue
		}
		if err := s.scheduler.Enable(ctx, w.ID, end); err != nil {
			log.Printf("🧹 [WatchService] dropped machine %s: rescheduling failed: %v", w.ID, err)
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == len(list) {
		return list
	}
	return kept
}

// ToggleWatch enables or disables notifications for the machine's current
// cycle and reports whether it is watched afterwards.
func (s *watchService) ToggleWatch(ctx context.Context, machineID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	machine, ok := proxiwash.MachineOfID(machineID, s.snapshot.Machines())
	if !ok {
		return false, apperr.New("MACHINE_NOT_FOUND", "Machine not found", 404, ErrMachineNotFound)
	}

	if proxiwash.IsWatched(machine, s.watchList) {
		if err := s.scheduler.Disable(machine.ID); err != nil {
			log.Printf("⚠️ [WatchService] failed to cancel notifications of machine %s: %v", machine.ID, err)
		}
		s.watchList = proxiwash.WithoutMachine(s.watchList, machine)
		s.persist(ctx)
		return false, nil
	}

	if machine.State != models.StateRunning {
		return false, apperr.New("MACHINE_NOT_RUNNING", "Machine is not running", 409, ErrMachineNotRunning)
	}
	end, ok := proxiwash.MachineEndDate(machine, s.now())
	if !ok {
		return false, apperr.New("MACHINE_NOT_RUNNING", "Machine end time is unknown", 409, ErrEndTimeUnknown)
	}

	// A previous cycle of this machine must be disabled before the new one.
	if stale, ok := proxiwash.MachineOfID(machine.ID, s.watchList); ok {
		if err := s.scheduler.Disable(machine.ID); err != nil {
			log.Printf("⚠️ [WatchService] failed to cancel notifications of machine %s: %v", machine.ID, err)
		}
		s.watchList = proxiwash.WithoutMachine(s.watchList, stale)
	}

	if err := s.scheduler.Enable(ctx, machine.ID, end); err != nil {
		if errors.Is(err, notifications.ErrPermissionDenied) {
			return false, apperr.New("PERMISSION_DENIED", "Notifications are disabled for this app", 403, err)
		}
		if errors.Is(err, notifications.ErrInvalidMachineID) {
			return false, apperr.New("INVALID_MACHINE", "Machine number cannot be scheduled", 400, err)
		}
		return false, apperr.New("SCHEDULE_ERROR", "Failed to schedule notifications", 500, err)
	}

	s.watchList = proxiwash.WithEntry(s.watchList, machine)
	s.persist(ctx)
	return true, nil
}

// persist writes the whole list. The in-memory list stays authoritative
// when the write fails. Callers hold mu.
func (s *watchService) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.watchList); err != nil {
		log.Printf("❌ [WatchService] failed to save watch-list: %v", err)
	}
}

func (s *watchService) WatchList() models.WatchList {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(models.WatchList, len(s.watchList))
	copy(out, s.watchList)
	return out
}

func (s *watchService) MachineEndDate(machineID string) (time.Time, error) {
	s.mu.Lock()
	machine, ok := proxiwash.MachineOfID(machineID, s.snapshot.Machines())
	s.mu.Unlock()

	if !ok {
		return time.Time{}, apperr.New("MACHINE_NOT_FOUND", "Machine not found", 404, ErrMachineNotFound)
	}
	end, ok := proxiwash.MachineEndDate(machine, s.now())
	if !ok {
		return time.Time{}, apperr.New("END_TIME_UNKNOWN", "Machine end time is unknown", 404, ErrEndTimeUnknown)
	}
	return end, nil
}

func (s *watchService) Overview() models.MachinesOverview {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	prank := s.prank.Active(now)
	view := func(machines []models.MachineRecord) ([]models.MachineView, int) {
		views := make([]models.MachineView, 0, len(machines))
		available := 0
		for _, m := range machines {
			v := models.MachineView{
				MachineRecord: m,
				DisplayNumber: m.ID,
				Watched:       proxiwash.IsWatched(m, s.watchList),
			}
			if prank {
				v.DisplayNumber = proxiwash.DisplayNumber(m.ID)
			}
			if m.State == models.StateRunning {
				if end, ok := proxiwash.MachineEndDate(m, now); ok {
					v.EndDate = &end
				}
			}
			if m.State == models.StateAvailable {
				available++
			}
			views = append(views, v)
		}
		return views, available
	}

	overview := models.MachinesOverview{Prank: prank}
	overview.Dryers, overview.AvailableDryers = view(s.snapshot.Dryers)
	overview.Washers, overview.AvailableWashers = view(s.snapshot.Washers)
	return overview
}
