// Package client 记账 API 的 Go 客户端，以及在其上构建的本地缓存（BudgetStore、SettingsStore）和无限滚动分页器。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bajeti/models"
	"bajeti/summary"

	"github.com/shopspring/decimal"
)

// Client 封装 /api 下的全部接口
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换默认的 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	Status           int
	Message          string
	TransactionCount int64
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// CategoryInput 创建/修改分类
type CategoryInput struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// DeleteCategoryOptions 分类下有交易时的处理方式
type DeleteCategoryOptions struct {
	ReassignToCategoryID string `json:"reassignToCategoryId,omitempty"`
	DeleteTransactions   bool   `json:"deleteTransactions,omitempty"`
}

// TransactionInput 创建/修改交易
type TransactionInput struct {
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"categoryId"`
	Date       string          `json:"date"`
	Notes      string          `json:"notes"`
	Type       string          `json:"type"`
}

// TransactionQuery 列表查询；Paginate 为 false 时一次取回全部
type TransactionQuery struct {
	Type     string
	DateFrom string
	DateTo   string
	Search   string
	Cursor   string
	Limit    int
	Paginate bool
}

func (q TransactionQuery) values() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("type", q.Type)
	set("dateFrom", q.DateFrom)
	set("dateTo", q.DateTo)
	set("search", q.Search)
	if q.Paginate {
		if q.Limit > 0 {
			v.Set("limit", strconv.Itoa(q.Limit))
		} else {
			v.Set("limit", "")
		}
		set("cursor", q.Cursor)
	}
	return v
}

// TransactionPage 一页交易
type TransactionPage struct {
	Transactions []models.Transaction `json:"transactions"`
	NextCursor   *string              `json:"nextCursor"`
}

// SettingsPatch 未设置的字段保持原值
type SettingsPatch struct {
	Currency       *string `json:"currency,omitempty"`
	DateFormat     *string `json:"dateFormat,omitempty"`
	FirstDayOfWeek *string `json:"firstDayOfWeek,omitempty"`
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &out)
	return out, err
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := c.do(ctx, http.MethodPatch, "/api/categories/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory opts 为 nil 时不带请求体
func (c *Client) DeleteCategory(ctx context.Context, id string, opts *DeleteCategoryOptions) error {
	var body interface{}
	if opts != nil {
		body = opts
	}
	return c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, body, nil)
}

func (c *Client) ListTransactions(ctx context.Context, q TransactionQuery) (*TransactionPage, error) {
	var out TransactionPage
	if err := c.do(ctx, http.MethodGet, "/api/transactions", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/transactions/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, in TransactionInput) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodPatch, "/api/transactions/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) GetSettings(ctx context.Context) (*models.UserSettings, error) {
	var out models.UserSettings
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, p SettingsPatch) (*models.UserSettings, error) {
	var out models.UserSettings
	if err := c.do(ctx, http.MethodPatch, "/api/settings", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary months 为 0 时使用服务端默认值
func (c *Client) Summary(ctx context.Context, months int) (*summary.Report, error) {
	q := url.Values{}
	if months > 0 {
		q.Set("months", strconv.Itoa(months))
	}
	var out summary.Report
	if err := c.do(ctx, http.MethodGet, "/api/summary", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportCSV 返回 CSV 文件内容
func (c *Client) ExportCSV(ctx context.Context, dateFrom, dateTo string) ([]byte, error) {
	return c.download(ctx, "/api/export/csv", dateFrom, dateTo)
}

// ExportXLSX 返回 xlsx 文件内容
func (c *Client) ExportXLSX(ctx context.Context, dateFrom, dateTo string) ([]byte, error) {
	return c.download(ctx, "/api/export/xlsx", dateFrom, dateTo)
}

func (c *Client) download(ctx context.Context, path, dateFrom, dateTo string) ([]byte, error) {
	q := url.Values{}
	if dateFrom != "" {
		q.Set("dateFrom", dateFrom)
	}
	if dateTo != "" {
		q.Set("dateTo", dateTo)
	}
	var buf bytes.Buffer
	if err := c.do(ctx, http.MethodGet, path, q, nil, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// do 发送请求；out 为 *bytes.Buffer 时原样读取响应体，否则按 JSON 解码
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	switch o := out.(type) {
	case nil:
		return nil
	case *bytes.Buffer:
		o.Write(data)
		return nil
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

func decodeError(status int, data []byte) error {
	var body struct {
		Error            string `json:"error"`
		TransactionCount int64  `json:"transactionCount"`
	}
	apiErr := &APIError{Status: status}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.TransactionCount = body.TransactionCount
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	return apiErr
}
