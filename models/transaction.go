package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateLayout 交易日期格式，只精确到天
const DateLayout = "2006-01-02"

func init() {
	// 金额以 JSON 数字输出
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction 收支记录
// 金额带符号：支出为负，收入为正
type Transaction struct {
	ID         string          `json:"id" gorm:"primaryKey;size:36;index:idx_tx_user_date_id,priority:3"`
	UserID     string          `json:"-" gorm:"size:128;not null;index:idx_tx_user_date_id,priority:1"`
	CategoryID string          `json:"categoryId" gorm:"size:36;not null;index"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Date       string          `json:"date" gorm:"column:occurred_on;size:10;not null;index:idx_tx_user_date_id,priority:2"`
	Notes      string          `json:"notes" gorm:"size:500;not null;default:''"`
	Type       string          `json:"type" gorm:"size:10;not null"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate 未指定 ID 时生成 UUID
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// SignedAmount 按类型规范金额符号：支出为负，收入为正
func SignedAmount(amount decimal.Decimal, txType string) decimal.Decimal {
	if txType == TypeExpense {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// ValidDate 判断是否为合法的 YYYY-MM-DD 日期
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
