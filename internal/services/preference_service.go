package services

import (
	"context"
	"strconv"

	"github.com/jaytnw/washwatch/internal/apperr"
	"github.com/jaytnw/washwatch/internal/models"
	"github.com/jaytnw/washwatch/internal/repository"
)

const (
	defaultReminderOffset = 5
	maxReminderOffset     = 24 * 60
)

// PreferenceService backs the reminder offset and the notification
// permission with the preference store.
type PreferenceService interface {
	ReminderOffset(ctx context.Context) (int, error)
	RequestPermission(ctx context.Context) (bool, error)
	GetPreferences(ctx context.Context) (models.Preferences, error)
	SetReminderOffset(ctx context.Context, minutes int) error
	SetNotificationsAllowed(ctx context.Context, allowed bool) error
}

type preferenceService struct {
	repo repository.PreferenceRepository
}

func NewPreferenceService(repo repository.PreferenceRepository) PreferenceService {
	return &preferenceService{repo: repo}
}

func (s *preferenceService) ReminderOffset(ctx context.Context) (int, error) {
	value, ok, err := s.repo.Get(ctx, models.PrefReminderOffset)
	if err != nil {
		return 0, err
	}
	if !ok {
		return defaultReminderOffset, nil
	}
	minutes, err := strconv.Atoi(value)
	if err != nil || minutes < 0 {
		return 0, nil
	}
	return minutes, nil
}

func (s *preferenceService) RequestPermission(ctx context.Context) (bool, error) {
	value, ok, err := s.repo.Get(ctx, models.PrefNotificationsAllowed)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return value == "1", nil
}

func (s *preferenceService) GetPreferences(ctx context.Context) (models.Preferences, error) {
	offset, err := s.ReminderOffset(ctx)
	if err != nil {
		return models.Preferences{}, apperr.New("DB_ERROR", "Failed to read preferences", 500, err)
	}
	allowed, err := s.RequestPermission(ctx)
	if err != nil {
		return models.Preferences{}, apperr.New("DB_ERROR", "Failed to read preferences", 500, err)
	}
	return models.Preferences{ReminderOffset: offset, NotificationsAllowed: allowed}, nil
}

func (s *preferenceService) SetReminderOffset(ctx context.Context, minutes int) error {
	if minutes < 0 || minutes > maxReminderOffset {
		return apperr.New("INVALID_REMINDER", "Reminder offset must be between 0 and 1440 minutes", 400, nil)
	}
	if err := s.repo.Set(ctx, models.PrefReminderOffset, strconv.Itoa(minutes)); err != nil {
		return apperr.New("DB_ERROR", "Failed to save reminder offset", 500, err)
	}
	return nil
}

func (s *preferenceService) SetNotificationsAllowed(ctx context.Context, allowed bool) error {
	value := "0"
	if allowed {
		value = "1"
	}
	if err := s.repo.Set(ctx, models.PrefNotificationsAllowed, value); err != nil {
		return apperr.New("DB_ERROR", "Failed to save notification permission", 500, err)
	}
	return nil
}
