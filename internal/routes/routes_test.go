package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jaytnw/washwatch/internal/apperr"
	"github.com/jaytnw/washwatch/internal/handlers"
	"github.com/jaytnw/washwatch/internal/models"
	"github.com/jaytnw/washwatch/internal/services"
)

type stubWatchService struct {
	watched map[string]bool
}

func (s *stubWatchService) Start(context.Context) {}
func (s *stubWatchService) Run(context.Context, time.Duration) {}
func (s *stubWatchService) Refresh(context.Context) error { return nil }
func (s *stubWatchService) ProcessSnapshot(context.Context, models.Snapshot) {}
func (s *stubWatchService) HandleSnapshotMessage(string, []byte) {}

func (s *stubWatchService) ToggleWatch(_ context.Context, id string) (bool, error) {
	switch id {
	case "3":
		s.watched[id] = !s.watched[id]
		return s.watched[id], nil
	case "4":
		return false, apperr.New("PERMISSION_DENIED", "Notifications are disabled for this app", 403, nil)
	default:
		return false, apperr.New("MACHINE_NOT_FOUND", "Machine not found", 404, services.ErrMachineNotFound)
	}
}

func (s *stubWatchService) WatchList() models.WatchList {
	return models.WatchList{{ID: "3", State: models.StateRunning, EndTime: "16:10"}}
}

func (s *stubWatchService) MachineEndDate(id string) (time.Time, error) {
	if id == "3" {
		return time.Date(2020, time.January, 14, 16, 10, 0, 0, time.UTC), nil
	}
	return time.Time{}, apperr.New("END_TIME_UNKNOWN", "Machine end time is unknown", 404, services.ErrEndTimeUnknown)
}

func (s *stubWatchService) Overview() models.MachinesOverview {
	return models.MachinesOverview{AvailableWashers: 2}
}

type stubPreferenceService struct {
	prefs models.Preferences
}

func (s *stubPreferenceService) ReminderOffset(context.Context) (int, error) {
	return s.prefs.ReminderOffset, nil
}

func (s *stubPreferenceService) RequestPermission(context.Context) (bool, error) {
	return s.prefs.NotificationsAllowed, nil
}

func (s *stubPreferenceService) GetPreferences(context.Context) (models.Preferences, error) {
	return s.prefs, nil
}

func (s *stubPreferenceService) SetReminderOffset(_ context.Context, minutes int) error {
	s.prefs.ReminderOffset = minutes
	return nil
}

func (s *stubPreferenceService) SetNotificationsAllowed(_ context.Context, allowed bool) error {
	s.prefs.NotificationsAllowed = allowed
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newApp() *fiber.App {
	app := fiber.New()
	Setup(app,
		handlers.NewWatchHandler(&stubWatchService{watched: map[string]bool{}}),
		handlers.NewPreferenceHandler(&stubPreferenceService{prefs: models.Preferences{ReminderOffset: 5, NotificationsAllowed: true}}),
	)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func TestToggleRoute(t *testing.T) {
	app := newApp()

	status, env := do(t, app, http.MethodPost, "/v1/machines/3/watch", "")
	if status != http.StatusOK || !strings.Contains(string(env.Data), `"watched":true`) {
		t.Fatalf("first toggle: %d %s", status, env.Data)
	}

	status, env = do(t, app, http.MethodPost, "/v1/machines/3/watch", "")
	if status != http.StatusOK || !strings.Contains(string(env.Data), `"watched":false`) {
		t.Fatalf("second toggle: %d %s", status, env.Data)
	}

	status, env = do(t, app, http.MethodPost, "/v1/machines/4/watch", "")
	if status != http.StatusForbidden || env.Error.Code != "PERMISSION_DENIED" {
		t.Fatalf("denied toggle: %d %+v", status, env)
	}

	status, env = do(t, app, http.MethodPost, "/v1/machines/9/watch", "")
	if status != http.StatusNotFound || env.Error.Code != "MACHINE_NOT_FOUND" {
		t.Fatalf("unknown machine: %d %+v", status, env)
	}
}

func TestEndDateRoute(t *testing.T) {
	app := newApp()

	status, env := do(t, app, http.MethodGet, "/v1/machines/3/end", "")
	if status != http.StatusOK || !strings.Contains(string(env.Data), "2020-01-14T16:10:00Z") {
		t.Fatalf("end date: %d %s", status, env.Data)
	}

	status, env = do(t, app, http.MethodGet, "/v1/machines/5/end", "")
	if status != http.StatusNotFound || env.Error.Code != "END_TIME_UNKNOWN" {
		t.Fatalf("unknown end: %d %+v", status, env)
	}
}

func TestReadRoutes(t *testing.T) {
	app := newApp()

	for _, path := range []string{"/v1/machines", "/v1/watchlist", "/v1/preferences"} {
		status, env := do(t, app, http.MethodGet, path, "")
		if status != http.StatusOK || !env.Success {
			t.Errorf("GET %s: %d %+v", path, status, env)
		}
	}

	status, env := do(t, app, http.MethodPost, "/v1/refresh", "")
	if status != http.StatusOK || !strings.Contains(string(env.Data), `"availableWashers":2`) {
		t.Fatalf("refresh: %d %s", status, env.Data)
	}
}

func TestPreferenceRoutes(t *testing.T) {
	app := newApp()

	status, env := do(t, app, http.MethodPut, "/v1/preferences/reminder", `{"minutes":10}`)
	if status != http.StatusOK || !strings.Contains(string(env.Data), `"reminderOffset":10`) {
		t.Fatalf("reminder: %d %s", status, env.Data)
	}

	status, env = do(t, app, http.MethodPut, "/v1/preferences/notifications", `{"allowed":false}`)
	if status != http.StatusOK || !strings.Contains(string(env.Data), `"notificationsAllowed":false`) {
		t.Fatalf("notifications: %d %s", status, env.Data)
	}

	status, env = do(t, app, http.MethodPut, "/v1/preferences/reminder", `{}`)
	if status != http.StatusBadRequest || env.Error.Code != "INVALID_BODY" {
		t.Fatalf("invalid body: %d %+v", status, env)
	}
}
