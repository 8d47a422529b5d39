package client

import (
	"context"
	"sync"

	"bajeti/format"
	"bajeti/models"

	"github.com/shopspring/decimal"
)

// SettingsStore 当前用户的显示偏好，加载前使用默认值
type SettingsStore struct {
	api *Client

	mu      sync.RWMutex
	current models.UserSettings
}

func NewSettingsStore(api *Client) *SettingsStore {
	return &SettingsStore{api: api, current: models.DefaultSettings("")}
}

func (s *SettingsStore) Settings() models.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load 用服务端的值替换本地值，失败时保留当前值
func (s *SettingsStore) Load(ctx context.Context) error {
	st, err := s.api.GetSettings(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = *st
	s.mu.Unlock()
	return nil
}

// Update 先更新本地值再保存到服务端；保存失败时返回错误，本地值不回滚
func (s *SettingsStore) Update(ctx context.Context, p SettingsPatch) error {
	s.mu.Lock()
	if p.Currency != nil {
		s.current.Currency = *p.Currency
	}
	if p.DateFormat != nil {
		s.current.DateFormat = *p.DateFormat
	}
	if p.FirstDayOfWeek != nil {
		s.current.FirstDayOfWeek = *p.FirstDayOfWeek
	}
	s.mu.Unlock()

	st, err := s.api.UpdateSettings(ctx, p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = *st
	s.mu.Unlock()
	return nil
}

func (s *SettingsStore) FormatAmount(amount decimal.Decimal) string {
	return format.Currency(amount, s.Settings().Currency)
}

func (s *SettingsStore) FormatAmountWithSign(amount decimal.Decimal) string {
	return format.CurrencyWithSign(amount, s.Settings().Currency)
}

func (s *SettingsStore) FormatCompact(amount decimal.Decimal) string {
	return format.CompactCurrency(amount, s.Settings().Currency)
}

func (s *SettingsStore) FormatDate(iso string) string {
	return format.Date(iso, s.Settings().DateFormat)
}
