package api

import (
	"strings"
	"sync"

	"bajeti/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators 在 gin 的校验引擎上注册自定义标签
//   - txtype:     income / expense
//   - isodate:    YYYY-MM-DD 且为真实日期
//   - notblank:   去掉空白后非空
//   - currency:   受支持的币种
//   - dateformat: short / medium / long
//   - weekday:    sunday / monday
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("txtype", func(fl validator.FieldLevel) bool {
			return models.ValidType(fl.Field().String())
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return models.ValidDate(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return models.ValidCurrency(fl.Field().String())
		})
		_ = v.RegisterValidation("dateformat", func(fl validator.FieldLevel) bool {
			return models.ValidDateFormat(fl.Field().String())
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return models.ValidWeekStart(fl.Field().String())
		})
	})
}
