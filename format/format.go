// Package format 金额与日期的显示格式
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// InvalidDate 日期无法解析时的占位
const InvalidDate = "—"

const dateLayout = "2006-01-02"

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"TZS": "TSh ",
	"KES": "KSh ",
	"NGN": "₦",
	"ZAR": "R",
	"INR": "₹",
}

// Formatter 按语言区域格式化数字
type Formatter struct {
	printer *message.Printer
}

// New 创建指定语言区域的 Formatter
func New(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

var std = New(language.English)

// Currency 使用默认（英文）区域格式化金额
func Currency(amount decimal.Decimal, code string) string {
	return std.Currency(amount, code)
}

// CompactCurrency 使用默认区域的紧凑写法，如 $1.2K
func CompactCurrency(amount decimal.Decimal, code string) string {
	return std.CompactCurrency(amount, code)
}

// CurrencyWithSign 使用默认区域，带 "+ " / "− " 前缀
func CurrencyWithSign(amount decimal.Decimal, code string) string {
	return std.CurrencyWithSign(amount, code)
}

// Symbol 币种符号，未知币种返回 ISO 代码加空格
func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if s, ok := symbols[code]; ok {
		return s
	}
	if u, err := currency.ParseISO(code); err == nil {
		return u.String() + " "
	}
	return code + " "
}

// Currency 最多两位小数，去掉多余的 0
func (f *Formatter) Currency(amount decimal.Decimal, code string) string {
	return f.render(amount, code, func(v float64) string {
		return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
	})
}

// CompactCurrency 千、百万、十亿分别缩写为 K、M、B，保留一位小数
func (f *Formatter) CompactCurrency(amount decimal.Decimal, code string) string {
	return f.render(amount, code, func(v float64) string {
		suffix := ""
		switch {
		case v >= 1e9:
			v, suffix = v/1e9, "B"
		case v >= 1e6:
			v, suffix = v/1e6, "M"
		case v >= 1e3:
			v, suffix = v/1e3, "K"
		}
		return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(1))) + suffix
	})
}

// CurrencyWithSign 正数（含 0）前缀 "+ "，负数前缀 "− "，金额取绝对值
func (f *Formatter) CurrencyWithSign(amount decimal.Decimal, code string) string {
	sign := "+"
	if amount.IsNegative() {
		sign = "−"
	}
	return sign + " " + f.Currency(amount.Abs(), code)
}

func (f *Formatter) render(amount decimal.Decimal, code string, num func(float64) string) string {
	prefix := ""
	if amount.IsNegative() {
		prefix = "-"
	}
	return prefix + Symbol(code) + num(amount.Abs().InexactFloat64())
}

// Date 按偏好格式化 YYYY-MM-DD（允许带时间部分），无法解析返回 InvalidDate
//   - short:  1/5/25
//   - medium: Jan 5, 2025
//   - long:   January 5, 2025
func Date(iso, preference string) string {
	if len(iso) < len(dateLayout) {
		return InvalidDate
	}
	t, err := time.Parse(dateLayout, iso[:len(dateLayout)])
	if err != nil {
		return InvalidDate
	}
	switch preference {
	case "short":
		return t.Format("1/2/06")
	case "long":
		return t.Format("January 2, 2006")
	default:
		return t.Format("Jan 2, 2006")
	}
}
