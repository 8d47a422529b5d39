package api

import (
	"strconv"
	"time"

	"bajeti/models"
	"bajeti/service"
	"bajeti/summary"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const maxSummaryMonths = 24

// SummaryHandler 仪表盘汇总
type SummaryHandler struct {
	categories   categoryService
	transactions transactionService
	now          func() time.Time
}

func NewSummaryHandler(categories categoryService, transactions transactionService) *SummaryHandler {
	return &SummaryHandler{categories: categories, transactions: transactions, now: time.Now}
}

// Get 获取汇总
// @Summary 获取收支汇总
// @Description 返回本月概览、按月收支、支出分类占比和最近 months 个月（默认 6，最多 24）的收支趋势
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param months query int false "趋势图月数" default(6)
// @Success 200 {object} summary.Report "获取成功"
// @Failure 400 {object} ErrorResponse "参数错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/summary [get]
func (h *SummaryHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	months := summary.DefaultMonths
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSummaryMonths {
			BadRequest(c, "months must be between 1 and 24")
			return
		}
		months = n
	}

	var (
		cats []models.Category
		txs  []models.Transaction
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		cats, err = h.categories.List(ctx, userID)
		return err
	})
	g.Go(func() error {
		page, err := h.transactions.Query(ctx, userID, allTransactions())
		if err != nil {
			return err
		}
		txs = page.Transactions
		return nil
	})
	if err := g.Wait(); err != nil {
		HandleError(c, err, "failed to build summary")
		return
	}

	Success(c, summary.Build(txs, cats, h.now(), months))
}

// allTransactions 不分页、不过滤
func allTransactions() service.TransactionFilter {
	return service.TransactionFilter{}
}
