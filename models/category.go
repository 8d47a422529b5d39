package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 收支类型
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// ValidType 判断收支类型是否合法
func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

// Category 用户的收支分类
type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"-" gorm:"size:128;not null;index"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Type      string    `json:"type" gorm:"size:10;not null"`
	IsDefault bool      `json:"isDefault" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}

// BeforeCreate 未指定 ID 时生成 UUID
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// SeedCategory 新用户的默认分类
type SeedCategory struct {
	Name string
	Type string
}

// DefaultCategories 第一次查询分类且为空时写入：6 个支出 + 2 个收入
var DefaultCategories = []SeedCategory{
	{"Food", TypeExpense},
	{"Rent", TypeExpense},
	{"Transport", TypeExpense},
	{"Bills", TypeExpense},
	{"Entertainment", TypeExpense},
	{"Savings", TypeExpense},
	{"Salary", TypeIncome},
	{"Other Income", TypeIncome},
}

// NewDefaultCategories 为用户生成默认分类
func NewDefaultCategories(userID string) []Category {
	cats := make([]Category, 0, len(DefaultCategories))
	for _, s := range DefaultCategories {
		cats = append(cats, Category{
			UserID:    userID,
			Name:      s.Name,
			Type:      s.Type,
			IsDefault: true,
		})
	}
	return cats
}
