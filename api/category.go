package api

import (
	"strconv"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 类别处理器
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List 获取类别列表
// @Summary 获取类别列表
// @Description 系统类别与当前用户的自定义类别，附带引用次数
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param type query string false "体系 (type/source)，为空返回全部"
// @Success 200 {object} Response{data=[]service.CategoryView} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var taxonomy models.Taxonomy
	if v := c.Query("type"); v != "" {
		t, ok := models.ParseTaxonomy(v)
		if !ok {
			BadRequest(c, "type must be 'type' or 'source'")
			return
		}
		taxonomy = t
	}

	views, err := h.categories.List(c.Request.Context(), middleware.GetCurrentUserID(c), taxonomy)
	if err != nil {
		respondError(c, err, "failed to list categories")
		return
	}
	Success(c, views)
}

// Create 创建类别
// @Summary 创建类别
// @Description type 体系可指定角色 (income/expense/loan/settlement/none)，未指定时按名称推断
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateCategoryInput true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "类别已存在"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CreateCategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), middleware.GetCurrentUserID(c), req)
	if err != nil {
		respondError(c, err, "failed to create category")
		return
	}
	SuccessWithMessage(c, "Category added", cat)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 系统类别与已被引用的类别不可删除
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 403 {object} Response "系统类别"
// @Failure 404 {object} Response "类别不存在"
// @Failure 409 {object} Response "类别已被引用"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	if err := h.categories.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), uint(id)); err != nil {
		respondError(c, err, "failed to delete category")
		return
	}
	SuccessWithMessage(c, "Category deleted", nil)
}
