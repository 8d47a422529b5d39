package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"bajeti/models"
	"bajeti/summary"

	"golang.org/x/sync/errgroup"
)

// BudgetStore 当前用户的分类和交易缓存
// 所有修改都先调用服务端，成功后再更新缓存；读取方法返回副本
type BudgetStore struct {
	api *Client

	mu           sync.RWMutex
	categories   []models.Category
	transactions []models.Transaction
	loaded       bool
}

func NewBudgetStore(api *Client) *BudgetStore {
	return &BudgetStore{api: api}
}

// Load 并发拉取分类和全部交易，整体替换缓存
func (s *BudgetStore) Load(ctx context.Context) error {
	var (
		cats []models.Category
		txs  []models.Transaction
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cats, err = s.api.ListCategories(ctx)
		return err
	})
	g.Go(func() error {
		page, err := s.api.ListTransactions(ctx, TransactionQuery{})
		if err != nil {
			return err
		}
		txs = page.Transactions
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.categories = cats
	s.transactions = txs
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Loaded 是否至少成功加载过一次
func (s *BudgetStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *BudgetStore) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...)
}

func (s *BudgetStore) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Transaction(nil), s.transactions...)
}

// CategoriesOfType 按类型过滤，用于交易表单的分类下拉
func (s *BudgetStore) CategoriesOfType(typ string) []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Category
	for _, c := range s.categories {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func (s *BudgetStore) CategoryByID(id string) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// HasCategoryNamed 同类型下是否已有同名分类（忽略大小写和首尾空白），exceptID 用于改名时排除自身
// 服务端允许重名，这里只用于提示
func (s *BudgetStore) HasCategoryNamed(name, typ, exceptID string) bool {
	name = strings.TrimSpace(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID != exceptID && c.Type == typ && strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return true
		}
	}
	return false
}

// AddTransaction 新交易插到缓存最前面
func (s *BudgetStore) AddTransaction(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	tx, err := s.api.CreateTransaction(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.transactions = append([]models.Transaction{*tx}, s.transactions...)
	s.mu.Unlock()
	return tx, nil
}

func (s *BudgetStore) UpdateTransaction(ctx context.Context, id string, in TransactionInput) (*models.Transaction, error) {
	tx, err := s.api.UpdateTransaction(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.transactions = replaceByID(s.transactions, *tx, func(t models.Transaction) string { return t.ID })
	s.mu.Unlock()
	return tx, nil
}

func (s *BudgetStore) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.api.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.transactions = removeWhere(s.transactions, func(t models.Transaction) bool { return t.ID == id })
	s.mu.Unlock()
	return nil
}

// AddCategory 新分类追加到末尾
func (s *BudgetStore) AddCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	cat, err := s.api.CreateCategory(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.categories = append(s.categories, *cat)
	s.mu.Unlock()
	return cat, nil
}

func (s *BudgetStore) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	cat, err := s.api.UpdateCategory(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.categories = replaceByID(s.categories, *cat, func(c models.Category) string { return c.ID })
	s.mu.Unlock()
	return cat, nil
}

// DeleteCategory 删除分类
// 带 opts 时交易可能被迁移或删除，重新拉取交易；否则只移除缓存中属于该分类的交易
// 409 以 *APIError 返回，TransactionCount 供调用方询问用户如何处理
func (s *BudgetStore) DeleteCategory(ctx context.Context, id string, opts *DeleteCategoryOptions) error {
	if err := s.api.DeleteCategory(ctx, id, opts); err != nil {
		return err
	}

	s.mu.Lock()
	s.categories = removeWhere(s.categories, func(c models.Category) bool { return c.ID == id })
	if opts == nil {
		s.transactions = removeWhere(s.transactions, func(t models.Transaction) bool { return t.CategoryID == id })
	}
	s.mu.Unlock()

	if opts == nil {
		return nil
	}
	page, err := s.api.ListTransactions(ctx, TransactionQuery{})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.transactions = page.Transactions
	s.mu.Unlock()
	return nil
}

// Report 基于缓存计算仪表盘汇总
func (s *BudgetStore) Report(now time.Time, months int) summary.Report {
	return summary.Build(s.Transactions(), s.Categories(), now, months)
}

func (s *BudgetStore) CurrentMonth(now time.Time) summary.Totals {
	return summary.CurrentMonth(s.Transactions(), now)
}

func (s *BudgetStore) ExpenseByCategory() []summary.CategoryAmount {
	return summary.ExpenseByCategory(s.Transactions(), summary.CategoryNames(s.Categories()))
}

func (s *BudgetStore) SpendingOverTime(now time.Time, months int) []summary.MonthPoint {
	return summary.SpendingOverTime(s.Transactions(), now, months)
}

func replaceByID[T any](items []T, v T, id func(T) string) []T {
	out := make([]T, len(items))
	for i, it := range items {
		if id(it) == id(v) {
			out[i] = v
		} else {
			out[i] = it
		}
	}
	return out
}

func removeWhere[T any](items []T, drop func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !drop(it) {
			out = append(out, it)
		}
	}
	return out
}
