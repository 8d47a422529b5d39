// Package summary 交易汇总：按月收支、本月概览、支出分类占比、近 N 个月趋势
//
// 所有函数都是纯函数，不做 I/O。金额一律取绝对值，再按 type 决定计入收入还是支出。
package summary

import (
	"sort"
	"time"

	"bajeti/models"

	"github.com/shopspring/decimal"
)

const (
	// DefaultMonths 趋势图默认月数
	DefaultMonths = 6
	// OtherCategory 找不到分类时的名称
	OtherCategory = "Other"

	monthKeyLayout = "2006-01"
)

// Totals 某个月的收入、支出和结余
type Totals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// CategoryAmount 某个支出分类的合计
type CategoryAmount struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// MonthPoint 趋势图上的一个月
type MonthPoint struct {
	Key      string          `json:"key"`
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// MonthKey 取日期的 "YYYY-MM" 前缀
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// MonthTotals 按月汇总，只包含有交易的月份
func MonthTotals(txs []models.Transaction) map[string]Totals {
	byMonth := make(map[string]Totals)
	for _, tx := range txs {
		key := MonthKey(tx.Date)
		t, ok := byMonth[key]
		if !ok {
			t = Totals{Income: decimal.Zero, Expenses: decimal.Zero, Balance: decimal.Zero}
		}
		abs := tx.Amount.Abs()
		if tx.Type == models.TypeIncome {
			t.Income = t.Income.Add(abs)
			t.Balance = t.Balance.Add(abs)
		} else {
			t.Expenses = t.Expenses.Add(abs)
			t.Balance = t.Balance.Sub(abs)
		}
		byMonth[key] = t
	}
	return byMonth
}

// Overall 全部交易合计
func Overall(txs []models.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expenses: decimal.Zero, Balance: decimal.Zero}
	for _, m := range MonthTotals(txs) {
		t.Income = t.Income.Add(m.Income)
		t.Expenses = t.Expenses.Add(m.Expenses)
		t.Balance = t.Balance.Add(m.Balance)
	}
	return t
}

// CurrentMonth now 所在月份（按 UTC）的汇总，没有数据时全部为零
func CurrentMonth(txs []models.Transaction, now time.Time) Totals {
	if t, ok := MonthTotals(txs)[now.UTC().Format(monthKeyLayout)]; ok {
		return t
	}
	return Totals{Income: decimal.Zero, Expenses: decimal.Zero, Balance: decimal.Zero}
}

// CategoryNames 分类 ID 到名称的映射
func CategoryNames(cats []models.Category) map[string]string {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names
}

// ExpenseByCategory 按分类名称汇总支出，金额从大到小
func ExpenseByCategory(txs []models.Transaction, names map[string]string) []CategoryAmount {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != models.TypeExpense {
			continue
		}
		name, ok := names[tx.CategoryID]
		if !ok {
			name = OtherCategory
		}
		sums[name] = sums[name].Add(tx.Amount.Abs())
	}

	out := make([]CategoryAmount, 0, len(sums))
	for name, v := range sums {
		out = append(out, CategoryAmount{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Value.Cmp(out[j].Value); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SpendingOverTime 截止 now 所在月（按 UTC）的最近 months 个月，按时间正序，无数据的月份补零
func SpendingOverTime(txs []models.Transaction, now time.Time, months int) []MonthPoint {
	if months <= 0 {
		months = DefaultMonths
	}
	byMonth := MonthTotals(txs)

	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]MonthPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		key := m.Format(monthKeyLayout)
		p := MonthPoint{Key: key, Month: MonthLabel(key), Income: decimal.Zero, Expenses: decimal.Zero}
		if t, ok := byMonth[key]; ok {
			p.Income = t.Income
			p.Expenses = t.Expenses
		}
		out = append(out, p)
	}
	return out
}

// MonthLabel "2025-01" -> "Jan 25"
func MonthLabel(key string) string {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return key
	}
	return t.Format("Jan 06")
}

// Report 仪表盘需要的全部汇总
type Report struct {
	Month             string            `json:"month"`
	CurrentMonth      Totals            `json:"currentMonth"`
	MonthTotals       map[string]Totals `json:"monthTotals"`
	ExpenseByCategory []CategoryAmount  `json:"expenseByCategory"`
	SpendingOverTime  []MonthPoint      `json:"spendingOverTime"`
}

// Build 一次算出 Report
func Build(txs []models.Transaction, cats []models.Category, now time.Time, months int) Report {
	return Report{
		Month:             now.UTC().Format(monthKeyLayout),
		CurrentMonth:      CurrentMonth(txs, now),
		MonthTotals:       MonthTotals(txs),
		ExpenseByCategory: ExpenseByCategory(txs, CategoryNames(cats)),
		SpendingOverTime:  SpendingOverTime(txs, now, months),
	}
}
