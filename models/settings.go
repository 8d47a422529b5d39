package models

import "time"

// 日期显示格式
const (
	DateFormatShort  = "short"
	DateFormatMedium = "medium"
	DateFormatLong   = "long"
)

// 每周第一天
const (
	WeekStartSunday = "sunday"
	WeekStartMonday = "monday"
)

// SupportedCurrencies 支持的币种（ISO 4217）
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "TZS", "KES", "NGN", "ZAR", "INR"}

// UserSettings 用户显示偏好，每个用户一条，user_id 为主键
type UserSettings struct {
	UserID         string    `json:"-" gorm:"primaryKey;size:128"`
	Currency       string    `json:"currency" gorm:"size:3;not null"`
	DateFormat     string    `json:"dateFormat" gorm:"size:10;not null"`
	FirstDayOfWeek string    `json:"firstDayOfWeek" gorm:"size:10;not null"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultSettings 首次读取时写入的默认偏好
func DefaultSettings(userID string) UserSettings {
	return UserSettings{
		UserID:         userID,
		Currency:       "USD",
		DateFormat:     DateFormatMedium,
		FirstDayOfWeek: WeekStartMonday,
	}
}

// ValidCurrency 判断币种是否受支持
func ValidCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// ValidDateFormat 判断日期格式是否合法
func ValidDateFormat(f string) bool {
	return f == DateFormatShort || f == DateFormatMedium || f == DateFormatLong
}

// ValidWeekStart 判断每周第一天是否合法
func ValidWeekStart(d string) bool {
	return d == WeekStartSunday || d == WeekStartMonday
}
