package api

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"bajeti/models"
	"bajeti/service"

	"github.com/gin-gonic/gin"
)

type categoryService interface {
	List(ctx context.Context, userID string) ([]models.Category, error)
	Create(ctx context.Context, userID string, in service.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, userID, id string, in service.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, userID, id string, opts service.DeleteCategoryOptions) error
}

// CategoryHandler 分类管理
type CategoryHandler struct {
	svc categoryService
}

func NewCategoryHandler(svc categoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

type CategoryCreateRequest struct {
	Name      string `json:"name" binding:"required,notblank,max=100" example:"Groceries"`
	Type      string `json:"type" binding:"required,txtype" example:"expense"`
	IsDefault bool   `json:"isDefault" example:"false"`
}

type CategoryUpdateRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100" example:"Groceries"`
	Type string `json:"type" binding:"required,txtype" example:"expense"`
}

// CategoryDeleteRequest 删除分类的可选请求体
type CategoryDeleteRequest struct {
	ReassignToCategoryID string `json:"reassignToCategoryId" example:"6f1c2d3e-0000-4000-8000-000000000001"`
	DeleteTransactions   bool   `json:"deleteTransactions" example:"false"`
}

// List 获取分类列表
// @Summary 获取分类列表
// @Description 返回当前用户全部分类，按类型、名称排序；首次访问且为空时自动创建 8 个默认分类
// @Tags 分类
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category "获取成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cats, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err, "failed to fetch categories")
		return
	}
	Success(c, cats)
}

// Create 创建分类
// @Summary 创建分类
// @Description 名称去除首尾空白后不能为空，类型为 income 或 expense；允许重名
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "分类信息"
// @Success 200 {object} models.Category "创建成功"
// @Failure 400 {object} ErrorResponse "名称或类型不合法"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid name or type")
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), userID, service.CategoryInput{
		Name:      req.Name,
		Type:      req.Type,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		HandleError(c, err, "failed to create category")
		return
	}
	Success(c, cat)
}

// Update 修改分类
// @Summary 修改分类
// @Description 修改名称和类型，不会改变已有交易的类型
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类ID"
// @Param request body CategoryUpdateRequest true "分类信息"
// @Success 200 {object} models.Category "修改成功"
// @Failure 400 {object} ErrorResponse "名称或类型不合法"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "分类不存在"
// @Router /api/categories/{id} [patch]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid name or type")
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), userID, c.Param("id"), service.CategoryInput{
		Name: req.Name,
		Type: req.Type,
	})
	if err != nil {
		HandleError(c, err, "failed to update category")
		return
	}
	Success(c, cat)
}

// Delete 删除分类
// @Summary 删除分类
// @Description 分类下没有交易时直接删除；有交易时需指定 deleteTransactions=true（连同交易删除）
// @Description 或 reassignToCategoryId（迁移到同类型的其他分类），否则返回 409 和交易数
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类ID"
// @Param request body CategoryDeleteRequest false "有交易时的处理方式"
// @Success 200 {object} OKResponse "删除成功"
// @Failure 400 {object} ErrorResponse "迁移目标不合法"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "分类不存在"
// @Failure 409 {object} ErrorResponse "分类下仍有交易"
// @Router /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	// 请求体可选
	var req CategoryDeleteRequest
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(string(raw)) != "" {
		if err := json.Unmarshal(raw, &req); err != nil {
			BadRequest(c, "invalid request body")
			return
		}
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id"), service.DeleteCategoryOptions{
		ReassignToCategoryID: strings.TrimSpace(req.ReassignToCategoryID),
		DeleteTransactions:   req.DeleteTransactions,
	}); err != nil {
		HandleError(c, err, "failed to delete category")
		return
	}
	OK(c)
}
