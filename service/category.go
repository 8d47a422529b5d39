package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"bajeti/logger"
	"bajeti/models"

	"gorm.io/gorm"
)

const maxCategoryNameLen = 100

// CategoryService 分类的增删改查，含删除时的交易处理策略
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CategoryInput 创建/更新分类的参数
type CategoryInput struct {
	Name      string
	Type      string
	IsDefault bool
}

// DeleteCategoryOptions 分类下有交易时的处理方式
// DeleteTransactions 优先于 ReassignToCategoryID
type DeleteCategoryOptions struct {
	ReassignToCategoryID string `json:"reassignToCategoryId"`
	DeleteTransactions   bool   `json:"deleteTransactions"`
}

func (in *CategoryInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || !models.ValidType(in.Type) {
		return NewValidationError("invalid name or type")
	}
	if utf8.RuneCountInString(in.Name) > maxCategoryNameLen {
		return NewValidationError("name must be at most %d characters", maxCategoryNameLen)
	}
	return nil
}

// List 返回用户全部分类（按类型、名称排序），为空时先写入默认分类
func (s *CategoryService) List(ctx context.Context, userID string) ([]models.Category, error) {
	cats, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cats) > 0 {
		return cats, nil
	}

	if err := s.seed(ctx, userID); err != nil {
		return nil, err
	}
	return s.find(ctx, userID)
}

func (s *CategoryService) find(ctx context.Context, userID string) ([]models.Category, error) {
	cats := make([]models.Category, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("type").Order("name").Order("id").
		Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// seed 在事务内复查为空后写入默认分类；并发首读可能重复写入，可接受
func (s *CategoryService) seed(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Category{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		defaults := models.NewDefaultCategories(userID)
		return tx.Create(&defaults).Error
	})
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	logger.FromContext(ctx).Info("seeded default categories", "user_id", userID, "count", len(models.DefaultCategories))
	return nil
}

// Get 获取单个分类
func (s *CategoryService) Get(ctx context.Context, userID, id string) (*models.Category, error) {
	return getCategory(s.db.WithContext(ctx), userID, id)
}

func getCategory(db *gorm.DB, userID, id string) (*models.Category, error) {
	var cat models.Category
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &cat, nil
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, userID string, in CategoryInput) (*models.Category, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	cat := models.Category{
		UserID:    userID,
		Name:      in.Name,
		Type:      in.Type,
		IsDefault: in.IsDefault,
	}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &cat, nil
}

// Update 修改分类名称和类型，不影响已有交易的类型
func (s *CategoryService) Update(ctx context.Context, userID, id string, in CategoryInput) (*models.Category, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	cat, err := getCategory(db, userID, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(cat).Updates(map[string]any{
		"name": in.Name,
		"type": in.Type,
	}).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	cat.Name = in.Name
	cat.Type = in.Type
	return cat, nil
}

// Delete 删除分类
//   - 无交易：直接删除
//   - DeleteTransactions：先删交易再删分类
//   - ReassignToCategoryID：目标须属于同一用户、类型相同且不是自身，交易迁移后删除分类
//   - 都未指定：返回 ConflictError，附带交易数
//
// 整个过程在一个数据库事务内完成
func (s *CategoryService) Delete(ctx context.Context, userID, id string, opts DeleteCategoryOptions) error {
	log := logger.FromContext(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cat, err := getCategory(tx, userID, id)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ? AND user_id = ?", id, userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("count transactions: %w", err)
		}

		if count > 0 {
			switch {
			case opts.DeleteTransactions:
				if err := tx.Where("category_id = ? AND user_id = ?", id, userID).
					Delete(&models.Transaction{}).Error; err != nil {
					return fmt.Errorf("delete transactions: %w", err)
				}
				log.Info("deleted category transactions", "category_id", id, "count", count)
			case opts.ReassignToCategoryID != "":
				if err := validateReassignTarget(tx, userID, cat, opts.ReassignToCategoryID); err != nil {
					return err
				}
				if err := tx.Model(&models.Transaction{}).
					Where("category_id = ? AND user_id = ?", id, userID).
					Update("category_id", opts.ReassignToCategoryID).Error; err != nil {
					return fmt.Errorf("reassign transactions: %w", err)
				}
				log.Info("reassigned category transactions", "category_id", id, "target_id", opts.ReassignToCategoryID, "count", count)
			default:
				return NewConflictError(count, "category has transactions")
			}
		}

		if err := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{}).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

func validateReassignTarget(tx *gorm.DB, userID string, from *models.Category, targetID string) error {
	if targetID == from.ID {
		return NewValidationError("invalid category to reassign to")
	}
	target, err := getCategory(tx, userID, targetID)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return NewValidationError("invalid category to reassign to")
	}
	if err != nil {
		return err
	}
	if target.Type != from.Type {
		return NewValidationError("invalid category to reassign to")
	}
	return nil
}
