package service

import (
	"testing"

	"bajeti/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSettingsService_GetCreatesDefaults(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)

	st, err := svc.Get(ctx(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "USD", st.Currency)
	assert.Equal(t, models.DateFormatMedium, st.DateFormat)
	assert.Equal(t, models.WeekStartMonday, st.FirstDayOfWeek)

	_, err = svc.Get(ctx(), "u1")
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&models.UserSettings{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestSettingsService_Patch(t *testing.T) {
	svc := NewSettingsService(openTestDB(t))

	// 未读取过也可以直接更新
	st, err := svc.Patch(ctx(), "u1", SettingsPatch{Currency: strPtr("TZS")})
	require.NoError(t, err)
	assert.Equal(t, "TZS", st.Currency)
	assert.Equal(t, models.DateFormatMedium, st.DateFormat)

	st, err = svc.Patch(ctx(), "u1", SettingsPatch{DateFormat: strPtr("long"), FirstDayOfWeek: strPtr("sunday")})
	require.NoError(t, err)
	assert.Equal(t, "TZS", st.Currency, "unspecified fields keep their value")
	assert.Equal(t, "long", st.DateFormat)
	assert.Equal(t, "sunday", st.FirstDayOfWeek)

	got, err := svc.Get(ctx(), "u1")
	require.NoError(t, err)
	assert.Equal(t, st.Currency, got.Currency)
	assert.Equal(t, st.DateFormat, got.DateFormat)
	assert.Equal(t, st.FirstDayOfWeek, got.FirstDayOfWeek)

	// 空补丁返回当前值
	same, err := svc.Patch(ctx(), "u1", SettingsPatch{})
	require.NoError(t, err)
	assert.Equal(t, "TZS", same.Currency)
}

func TestSettingsService_Patch_Invalid(t *testing.T) {
	svc := NewSettingsService(openTestDB(t))
	var verr *ValidationError

	_, err := svc.Patch(ctx(), "u1", SettingsPatch{Currency: strPtr("BTC")})
	assert.ErrorAs(t, err, &verr)
	_, err = svc.Patch(ctx(), "u1", SettingsPatch{DateFormat: strPtr("iso")})
	assert.ErrorAs(t, err, &verr)
	_, err = svc.Patch(ctx(), "u1", SettingsPatch{FirstDayOfWeek: strPtr("friday")})
	assert.ErrorAs(t, err, &verr)

	st, err := svc.Get(ctx(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "USD", st.Currency)
}
