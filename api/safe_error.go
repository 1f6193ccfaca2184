package api

import (
	"errors"
	"net/http"
	"time"

	"fintrack/config"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// respondError 把业务错误映射为状态码；未识别的错误按 500 处理
// 内部错误详情只在非 release 模式下返回给客户端
func respondError(c *gin.Context, err error, fallback string) {
	var (
		validation *service.ValidationError
		forbidden  *service.ForbiddenError
		conflict   *service.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		BadRequest(c, validation.Error())
	case errors.As(err, &forbidden):
		Forbidden(c, forbidden.Message)
	case errors.As(err, &conflict):
		Conflict(c, conflict.Message)
	case errors.Is(err, service.ErrNoMatchingRows):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, "record not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrEmailDisabled):
		Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		_ = c.Error(err)
		InternalError(c, config.SafeErrorMessage(err, fallback))
	}
}

// dateQuery 解析 2006-01-02 格式的查询参数，未提供时返回 nil
func dateQuery(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, v, time.UTC)
	if err != nil {
		return nil, &service.ValidationError{Field: name, Message: "date must use the format YYYY-MM-DD"}
	}
	return &t, nil
}

// dateRange 读取 start、end 两个查询参数
func dateRange(c *gin.Context) (start, end *time.Time, err error) {
	if start, err = dateQuery(c, "start"); err != nil {
		return nil, nil, err
	}
	if end, err = dateQuery(c, "end"); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}
