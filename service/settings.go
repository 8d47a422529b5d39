package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bajeti/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsService 用户显示偏好
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// SettingsPatch 部分更新，nil 字段保持原值
type SettingsPatch struct {
	Currency       *string `json:"currency"`
	DateFormat     *string `json:"dateFormat"`
	FirstDayOfWeek *string `json:"firstDayOfWeek"`
}

func (p SettingsPatch) validate() error {
	if p.Currency != nil && !models.ValidCurrency(*p.Currency) {
		return NewValidationError("invalid currency")
	}
	if p.DateFormat != nil && !models.ValidDateFormat(*p.DateFormat) {
		return NewValidationError("invalid dateFormat")
	}
	if p.FirstDayOfWeek != nil && !models.ValidWeekStart(*p.FirstDayOfWeek) {
		return NewValidationError("invalid firstDayOfWeek")
	}
	return nil
}

// Get 读取偏好，不存在时写入默认值
// 并发首读由主键冲突兜底
func (s *SettingsService) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	db := s.db.WithContext(ctx)

	var st models.UserSettings
	err := db.Where("user_id = ?", userID).First(&st).Error
	if err == nil {
		return &st, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	st = models.DefaultSettings(userID)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&st).Error; err != nil {
		return nil, fmt.Errorf("create settings: %w", err)
	}
	if err := db.Where("user_id = ?", userID).First(&st).Error; err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &st, nil
}

// Patch 部分更新偏好并返回完整结果
func (s *SettingsService) Patch(ctx context.Context, userID string, p SettingsPatch) (*models.UserSettings, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	st, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Currency != nil {
		st.Currency = *p.Currency
	}
	if p.DateFormat != nil {
		st.DateFormat = *p.DateFormat
	}
	if p.FirstDayOfWeek != nil {
		st.FirstDayOfWeek = *p.FirstDayOfWeek
	}
	st.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"currency", "date_format", "first_day_of_week", "updated_at"}),
	}).Create(st).Error; err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return st, nil
}
