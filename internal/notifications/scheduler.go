package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"
)

// reminderIDFactor maps a machine number to its reminder notification id.
const reminderIDFactor = 100

var (
	ErrPermissionDenied = errors.New("notification permission denied")
	ErrInvalidMachineID = errors.New("invalid machine id")
)

type Kind string

const (
	KindFinished Kind = "finished"
	KindReminder Kind = "reminder"
)

type Notification struct {
	ID        int       `json:"id"`
	MachineID string    `json:"machineId"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	FireAt    time.Time `json:"fireAt"`
}

// Notifier is the platform notification service.
type Notifier interface {
	Schedule(ctx context.Context, n Notification) error
	Cancel(id int) error
}

type PermissionChecker interface {
	RequestPermission(ctx context.Context) (bool, error)
}

// ReminderSource returns the reminder offset in minutes. 0 disables reminders.
type ReminderSource interface {
	ReminderOffset(ctx context.Context) (int, error)
}

// Scheduler is safe for concurrent use. Enable reserves the machine before
// asking for permission, so concurrent enables of one machine schedule once.
type Scheduler interface {
	Enable(ctx context.Context, machineID string, end time.Time) error
	Disable(machineID string) error
	Fired(id int)
	Scheduled() []int
}

type scheduler struct {
	notifier    Notifier
	permissions PermissionChecker
	reminders   ReminderSource
	now         func() time.Time

	mu        sync.Mutex
	scheduled map[int]time.Time // machine number -> end instant
	pending   map[int]int       // notification id -> machine number
}

func NewScheduler(notifier Notifier, permissions PermissionChecker, reminders ReminderSource, now func() time.Time) Scheduler {
	if now == nil {
		now = time.Now
	}
	return &scheduler{
		notifier:    notifier,
		permissions: permissions,
		reminders:   reminders,
		now:         now,
		scheduled:   make(map[int]time.Time),
		pending:     make(map[int]int),
	}
}

// ReminderID returns the id of the reminder paired with a machine's
// finished notification.
func ReminderID(id int) int {
	return id * reminderIDFactor
}

func parseMachineID(machineID string) (int, error) {
	id, err := strconv.Atoi(machineID)
	if err != nil || id < 0 || id >= reminderIDFactor {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMachineID, machineID)
	}
	return id, nil
}

func (s *scheduler) Enable(ctx context.Context, machineID string, end time.Time) error {
	id, err := parseMachineID(machineID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	_, already := s.scheduled[id]
	if !already {
		s.scheduled[id] = end
	}
	s.mu.Unlock()
	if already {
		log.Printf("[Scheduler] machine %s already scheduled, ignoring enable", machineID)
		return nil
	}

	if err := s.schedule(ctx, id, machineID, end); err != nil {
		s.mu.Lock()
		delete(s.scheduled, id)
		s.mu.Unlock()
		return err
	}
	return nil
}

// schedule runs with the machine reserved in s.scheduled.
func (s *scheduler) schedule(ctx context.Context, id int, machineID string, end time.Time) error {
	granted, err := s.permissions.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("request permission: %w", err)
	}
	if !granted {
		return ErrPermissionDenied
	}

	offset, err := s.reminders.ReminderOffset(ctx)
	if err != nil {
		log.Printf("⚠️ [Scheduler] reminder offset unavailable, skipping reminder: %v", err)
		offset = 0
	}

	var ids []int
	if offset > 0 && ReminderID(id) != id {
		at := end.Add(-time.Duration(offset) * time.Minute)
		if at.After(s.now()) {
			reminder := Notification{
				ID:        ReminderID(id),
				MachineID: machineID,
				Kind:      KindReminder,
				Title:     fmt.Sprintf("Machine %s ends in %d min", machineID, offset),
				Body:      fmt.Sprintf("Machine %s will be done soon, get ready to pick up your laundry", machineID),
				FireAt:    at,
			}
			if err := s.notifier.Schedule(ctx, reminder); err != nil {
				return fmt.Errorf("schedule reminder: %w", err)
			}
			ids = append(ids, reminder.ID)
		}
	}

	finished := Notification{
		ID:        id,
		MachineID: machineID,
		Kind:      KindFinished,
		Title:     fmt.Sprintf("Machine %s finished", machineID),
		Body:      fmt.Sprintf("Your laundry in machine %s is done", machineID),
		FireAt:    end,
	}
	if err := s.notifier.Schedule(ctx, finished); err != nil {
		for _, rid := range ids {
			_ = s.notifier.Cancel(rid)
		}
		return fmt.Errorf("schedule finished: %w", err)
	}
	ids = append(ids, finished.ID)

	s.mu.Lock()
	for _, nid := range ids {
		s.pending[nid] = id
	}
	s.mu.Unlock()

	log.Printf("🔔 [Scheduler] machine %s scheduled for %s (reminder %d min)", machineID, end.Format(time.RFC3339), offset)
	return nil
}

// Disable cancels both notifications of a machine. Unknown ids are a no-op.
func (s *scheduler) Disable(machineID string) error {
	id, err := parseMachineID(machineID)
	if err != nil {
		return err
	}

	var errs []error
	for _, nid := range []int{id, ReminderID(id)} {
		if err := s.notifier.Cancel(nid); err != nil {
			errs = append(errs, err)
		}
	}

	s.mu.Lock()
	s.forget(id)
	s.mu.Unlock()

	return errors.Join(errs...)
}

// Fired records that a notification went off. The machine goes back to
// unscheduled once its finished notification has fired.
func (s *scheduler) Fired(nid int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.pending[nid]
	if !ok {
		return
	}
	delete(s.pending, nid)
	if nid == id {
		s.forget(id)
	}
}

func (s *scheduler) forget(id int) {
	delete(s.scheduled, id)
	for nid, owner := range s.pending {
		if owner == id {
			delete(s.pending, nid)
		}
	}
}

// Scheduled returns the pending notification ids in ascending order.
func (s *scheduler) Scheduled() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int, 0, len(s.pending))
	for nid := range s.pending {
		out = append(out, nid)
	}
	sort.Ints(out)
	return out
}
