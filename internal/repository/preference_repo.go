package repository

import (
	"context"
	"errors"

	"github.com/jaytnw/washwatch/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	FindAll(ctx context.Context) ([]models.Preference, error)
}

type preferenceRepo struct {
	conn *gorm.DB
}

func NewPreferenceRepo(conn *gorm.DB) PreferenceRepository {
	return &preferenceRepo{
		conn: conn,
	}
}

func (r *preferenceRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var pref models.Preference
	err := r.conn.WithContext(ctx).
		Where("key = ?", key).
		First(&pref).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return pref.Value, true, nil
}

func (r *preferenceRepo) Set(ctx context.Context, key, value string) error {
	pref := models.Preference{Key: key, Value: value}
	return r.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&pref).Error
}

func (r *preferenceRepo) FindAll(ctx context.Context) ([]models.Preference, error) {
	var prefs []models.Preference
	err := r.conn.WithContext(ctx).Order("key").Find(&prefs).Error
	return prefs, err
}
