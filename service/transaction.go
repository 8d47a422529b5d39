package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"bajeti/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	maxNotesLen = 500
)

// TransactionService 交易记录查询与增删改
type TransactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// TransactionFilter 列表查询条件
// Paginate 为 false 时返回全部记录（不分页）
type TransactionFilter struct {
	Type     string
	DateFrom string
	DateTo   string
	Search   string
	Cursor   string
	Limit    int
	Paginate bool
}

// TransactionPage 一页结果，NextCursor 仅在本页装满时非空
type TransactionPage struct {
	Transactions []models.Transaction `json:"transactions"`
	NextCursor   *string              `json:"nextCursor"`
}

// TransactionInput 创建/更新交易的参数
type TransactionInput struct {
	Amount     decimal.Decimal
	CategoryID string
	Date       string
	Notes      string
	Type       string
}

// ParseTransactionFilter 从查询参数构建过滤条件
// 只要出现 limit 或 cursor 参数（即使为空）就进入分页模式
func ParseTransactionFilter(q url.Values) (TransactionFilter, error) {
	f := TransactionFilter{
		Type:     q.Get("type"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		Search:   strings.TrimSpace(q.Get("search")),
		Cursor:   q.Get("cursor"),
		Limit:    DefaultPageLimit,
	}
	_, hasLimit := q["limit"]
	_, hasCursor := q["cursor"]
	f.Paginate = hasLimit || hasCursor

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, NewValidationError("invalid limit")
		}
		f.Limit = n
	}
	if err := f.validate(); err != nil {
		return f, err
	}
	return f, nil
}

func (f *TransactionFilter) validate() error {
	if f.Limit < 1 {
		f.Limit = 1
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	if f.Type != "" && !models.ValidType(f.Type) {
		return NewValidationError("invalid type filter")
	}
	if f.DateFrom != "" && !models.ValidDate(f.DateFrom) {
		return NewValidationError("invalid dateFrom")
	}
	if f.DateTo != "" && !models.ValidDate(f.DateTo) {
		return NewValidationError("invalid dateTo")
	}
	if f.Cursor != "" {
		if _, _, err := ParseCursor(f.Cursor); err != nil {
			return err
		}
	}
	return nil
}

// Query 按 (date DESC, id DESC) 返回一页交易
func (s *TransactionService) Query(ctx context.Context, userID string, f TransactionFilter) (*TransactionPage, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("transactions.*").
		Where("transactions.user_id = ?", userID)

	if f.Type != "" {
		q = q.Where("transactions.type = ?", f.Type)
	}
	if f.DateFrom != "" {
		q = q.Where("transactions.occurred_on >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("transactions.occurred_on <= ?", f.DateTo)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		q = q.Joins("INNER JOIN categories ON categories.id = transactions.category_id AND categories.user_id = ?", userID).
			Where("(LOWER(transactions.notes) LIKE ? ESCAPE '!' OR LOWER(categories.name) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if f.Paginate && f.Cursor != "" {
		date, id, _ := ParseCursor(f.Cursor)
		q = q.Where("(transactions.occurred_on < ? OR (transactions.occurred_on = ? AND transactions.id < ?))", date, date, id)
	}

	q = q.Order("transactions.occurred_on DESC").Order("transactions.id DESC")
	if f.Paginate {
		q = q.Limit(f.Limit)
	}

	txs := make([]models.Transaction, 0)
	if err := q.Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	page := &TransactionPage{Transactions: txs}
	if f.Paginate && len(txs) == f.Limit {
		next := EncodeCursor(txs[len(txs)-1])
		page.NextCursor = &next
	}
	return page, nil
}

// All 返回用户全部交易
func (s *TransactionService) All(ctx context.Context, userID string) ([]models.Transaction, error) {
	page, err := s.Query(ctx, userID, TransactionFilter{})
	if err != nil {
		return nil, err
	}
	return page.Transactions, nil
}

// Get 获取单条交易
func (s *TransactionService) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	return getTransaction(s.db.WithContext(ctx), userID, id)
}

func getTransaction(db *gorm.DB, userID, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("transaction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func (s *TransactionService) validateInput(db *gorm.DB, userID string, in *TransactionInput) error {
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if in.CategoryID == "" || !models.ValidType(in.Type) {
		return NewValidationError("invalid payload")
	}
	if !models.ValidDate(in.Date) {
		return NewValidationError("invalid date, expected YYYY-MM-DD")
	}
	if utf8.RuneCountInString(in.Notes) > maxNotesLen {
		return NewValidationError("notes must be at most %d characters", maxNotesLen)
	}
	if _, err := getCategory(db, userID, in.CategoryID); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return NewValidationError("invalid category")
		}
		return err
	}
	in.Amount = models.SignedAmount(in.Amount, in.Type)
	return nil
}

// Create 创建交易，金额符号按类型规范化
func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	db := s.db.WithContext(ctx)
	if err := s.validateInput(db, userID, &in); err != nil {
		return nil, err
	}
	t := models.Transaction{
		UserID:     userID,
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		Date:       in.Date,
		Notes:      in.Notes,
		Type:       in.Type,
	}
	if err := db.Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return &t, nil
}

// Update 整体更新交易
func (s *TransactionService) Update(ctx context.Context, userID, id string, in TransactionInput) (*models.Transaction, error) {
	db := s.db.WithContext(ctx)
	t, err := getTransaction(db, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(db, userID, &in); err != nil {
		return nil, err
	}
	if err := db.Model(t).Updates(map[string]any{
		"category_id": in.CategoryID,
		"amount":      in.Amount,
		"occurred_on": in.Date,
		"notes":       in.Notes,
		"type":        in.Type,
	}).Error; err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	t.CategoryID = in.CategoryID
	t.Amount = in.Amount
	t.Date = in.Date
	t.Notes = in.Notes
	t.Type = in.Type
	return t, nil
}

// Delete 删除交易
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NewNotFoundError("transaction not found")
	}
	return nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
