package api

import (
	"context"

	"bajeti/models"
	"bajeti/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type transactionService interface {
	Query(ctx context.Context, userID string, f service.TransactionFilter) (*service.TransactionPage, error)
	Get(ctx context.Context, userID, id string) (*models.Transaction, error)
	Create(ctx context.Context, userID string, in service.TransactionInput) (*models.Transaction, error)
	Update(ctx context.Context, userID, id string, in service.TransactionInput) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
}

// TransactionHandler 交易记录处理器
type TransactionHandler struct {
	svc transactionService
}

// NewTransactionHandler 创建交易记录处理器
func NewTransactionHandler(svc transactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// TransactionRequest 创建/更新交易请求
// 金额符号会按类型规范：支出存为负数，收入存为正数
type TransactionRequest struct {
	Amount     *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number" example:"-12.5"`
	CategoryID string           `json:"categoryId" binding:"required,notblank" example:"6f1c2d3e-0000-4000-8000-000000000001"`
	Date       string           `json:"date" binding:"required,isodate" example:"2025-01-20"`
	Notes      string           `json:"notes" binding:"max=500" example:"Lunch"`
	Type       string           `json:"type" binding:"required,txtype" example:"expense"`
}

func (r TransactionRequest) input() service.TransactionInput {
	return service.TransactionInput{
		Amount:     *r.Amount,
		CategoryID: r.CategoryID,
		Date:       r.Date,
		Notes:      r.Notes,
		Type:       r.Type,
	}
}

// List 获取交易列表
// @Summary 获取交易列表
// @Description 按 (date DESC, id DESC) 排序。传 limit 或 cursor 时分页，nextCursor 仅在本页装满时返回；
// @Description 两者都不传时返回全部记录。search 不区分大小写匹配备注或分类名
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param limit query int false "每页数量，1-100" default(20)
// @Param cursor query string false "上一页返回的游标 <date>|<id>"
// @Param type query string false "income 或 expense"
// @Param dateFrom query string false "起始日期 YYYY-MM-DD（含）"
// @Param dateTo query string false "截止日期 YYYY-MM-DD（含）"
// @Param search query string false "搜索关键字"
// @Success 200 {object} service.TransactionPage "获取成功"
// @Failure 400 {object} ErrorResponse "参数错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	filter, err := service.ParseTransactionFilter(c.Request.URL.Query())
	if err != nil {
		HandleError(c, err, "invalid query")
		return
	}
	page, err := h.svc.Query(c.Request.Context(), userID, filter)
	if err != nil {
		HandleError(c, err, "failed to fetch transactions")
		return
	}
	Success(c, page)
}

// Get 获取交易详情
// @Summary 获取交易详情
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path string true "交易ID"
// @Success 200 {object} models.Transaction "获取成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "交易不存在"
// @Router /api/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tx, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		HandleError(c, err, "failed to fetch transaction")
		return
	}
	Success(c, tx)
}

// Create 创建交易
// @Summary 创建交易
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "交易信息"
// @Success 200 {object} models.Transaction "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid payload")
		return
	}
	tx, err := h.svc.Create(c.Request.Context(), userID, req.input())
	if err != nil {
		HandleError(c, err, "failed to create transaction")
		return
	}
	Success(c, tx)
}

// Update 更新交易
// @Summary 更新交易
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "交易ID"
// @Param request body TransactionRequest true "交易信息"
// @Success 200 {object} models.Transaction "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "交易不存在"
// @Router /api/transactions/{id} [patch]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid payload")
		return
	}
	tx, err := h.svc.Update(c.Request.Context(), userID, c.Param("id"), req.input())
	if err != nil {
		HandleError(c, err, "failed to update transaction")
		return
	}
	Success(c, tx)
}

// Delete 删除交易
// @Summary 删除交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path string true "交易ID"
// @Success 200 {object} OKResponse "删除成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "交易不存在"
// @Router /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		HandleError(c, err, "failed to delete transaction")
		return
	}
	OK(c)
}
