package client

import (
	"context"
	"sync"
	"sync/atomic"

	"bajeti/models"
)

// Pager 交易列表的无限滚动分页
type Pager struct {
	api   *Client
	query TransactionQuery

	loading atomic.Bool

	mu     sync.Mutex
	items  []models.Transaction
	cursor *string
	// gen 每次 Reset 加一，旧一代的响应直接丢弃
	gen uint64
}

// NewPager limit 不大于 0 时使用服务端默认页大小
func NewPager(api *Client, query TransactionQuery, limit int) *Pager {
	query.Paginate = true
	query.Limit = limit
	query.Cursor = ""
	return &Pager{api: api, query: query}
}

// Reset 清空并加载第一页，错误直接返回以便调用方提示重试
func (p *Pager) Reset(ctx context.Context) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.items = nil
	p.cursor = nil
	p.mu.Unlock()

	page, err := p.api.ListTransactions(ctx, p.query)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return nil
	}
	p.items = page.Transactions
	p.cursor = page.NextCursor
	return nil
}

// LoadMore 追加下一页，返回是否追加了数据
// 已有请求在进行或没有下一页时直接返回；请求失败时停止继续翻页；
// 请求期间发生 Reset 时结果作废
func (p *Pager) LoadMore(ctx context.Context) bool {
	if !p.loading.CompareAndSwap(false, true) {
		return false
	}
	defer p.loading.Store(false)

	p.mu.Lock()
	cursor, gen := p.cursor, p.gen
	p.mu.Unlock()
	if cursor == nil {
		return false
	}

	q := p.query
	q.Cursor = *cursor
	page, err := p.api.ListTransactions(ctx, q)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return false
	}
	if err != nil {
		p.cursor = nil
		return false
	}
	p.items = append(p.items, page.Transactions...)
	p.cursor = page.NextCursor
	return len(page.Transactions) > 0
}

func (p *Pager) Items() []models.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Transaction(nil), p.items...)
}

func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor != nil
}

// Loading 是否有请求在进行
func (p *Pager) Loading() bool {
	return p.loading.Load()
}
