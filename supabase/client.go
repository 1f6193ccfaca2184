// Package supabase 通过 PostgREST 接口把 Supabase 作为存储后端。
// 只包一层熔断，不做自动重试：失败直接返回给调用方。
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/config"
	"fintrack/store"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("supabase")

// PostgreSQL 错误码
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// APIError PostgREST 返回的非 2xx 响应
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase returned status %d: %s %s", e.Status, e.Code, e.Message)
}

// Client PostgREST 客户端
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	cb             *gobreaker.CircuitBreaker
	logger         *zap.Logger
}

// NewClient 创建客户端
func NewClient(httpClient *http.Client, baseURL, apiKey, serviceRoleKey string, cb *gobreaker.CircuitBreaker, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		cb:             cb,
		logger:         logger,
	}
}

// New 按配置创建客户端
func New(cfg *config.SupabaseConfig, logger *zap.Logger) *Client {
	return NewClient(
		&http.Client{Timeout: cfg.Timeout},
		cfg.URL,
		cfg.APIKey,
		cfg.ServiceRoleKey,
		NewCircuitBreaker("supabase"),
		logger,
	)
}

// NewCircuitBreaker 连续失败过多时快速失败；唯一约束与不存在属于正常业务结果，不计入失败
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, store.ErrDuplicate) || errors.Is(err, store.ErrNotFound)
		},
	})
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// request 描述一次 PostgREST 调用
type request struct {
	method  string
	table   string
	query   url.Values
	payload any
	prefer  string
}

func (c *Client) bearer() string {
	if c.serviceRoleKey != "" {
		return c.serviceRoleKey
	}
	return c.apiKey
}

// do 经熔断器执行请求并把错误翻译成存储层错误
func (c *Client) do(ctx context.Context, r request) (*response, error) {
	out, err := c.cb.Execute(func() (any, error) {
		return c.send(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return out.(*response), nil
}

func (c *Client) send(ctx context.Context, r request) (*response, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, r.table)
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.payload != nil {
		data, err := json.Marshal(r.payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		c.logger.Error("supabase: failed to create request",
			zap.String("method", r.method),
			zap.String("table", r.table),
			zap.Error(err),
		)
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	req.Header.Set("Content-Type", "application/json")
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: request failed",
			zap.String("method", r.method),
			zap.String("table", r.table),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("supabase: non-2xx response",
			zap.String("method", r.method),
			zap.String("table", r.table),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(data)),
		)
		return nil, classify(resp.StatusCode, data)
	}

	c.logger.Debug("supabase: request OK",
		zap.String("method", r.method),
		zap.String("table", r.table),
		zap.Int("status", resp.StatusCode),
	)
	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func classify(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	_ = json.Unmarshal(body, apiErr)
	switch {
	case apiErr.Code == pgForeignKeyViolation:
		return fmt.Errorf("%w: %v", store.ErrNotFound, apiErr)
	case apiErr.Code == pgUniqueViolation || status == http.StatusConflict:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, apiErr)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %v", store.ErrNotFound, apiErr)
	default:
		return apiErr
	}
}

// totalCount 解析 Content-Range: 0-24/573 或 */0
func totalCount(h http.Header) (int64, error) {
	cr := h.Get("Content-Range")
	i := strings.LastIndex(cr, "/")
	if i < 0 {
		return 0, fmt.Errorf("supabase: missing count in Content-Range %q", cr)
	}
	return strconv.ParseInt(cr[i+1:], 10, 64)
}

func finish(span trace.Span, err error) {
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func decode[T any](resp *response) ([]T, error) {
	var rows []T
	if len(resp.body) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(resp.body, &rows); err != nil {
		return nil, fmt.Errorf("supabase: decode response: %w", err)
	}
	return rows, nil
}

// quote PostgREST 过滤值中含保留字符时需要加引号
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

func eq(v any) string {
	return fmt.Sprintf("eq.%v", v)
}
