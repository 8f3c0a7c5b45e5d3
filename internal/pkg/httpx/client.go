// Package httpx 执行供应商请求
package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"github.com/gotomicro/ego/core/elog"
	"github.com/hashicorp/go-retryablehttp"
)

// 响应体最多读取 1MB
const maxBodySize = 1 << 20

// Response 供应商响应
type Response struct {
	StatusCode int
	Body       []byte
}

// Doer 发送供应商请求，非 2xx 响应返回 errs.ErrVendorRequestFailed
//
//go:generate mockgen -source=./client.go -destination=./mocks/doer.mock.go -package=httpxmocks Doer
type Doer interface {
	Do(ctx context.Context, req domain.VendorRequest) (Response, error)
}

type Config struct {
	Timeout  time.Duration `yaml:"timeout"`
	RetryMax int           `yaml:"retryMax"`
	// RetryWaitMin 与 RetryWaitMax 为指数退避的上下界
	RetryWaitMin time.Duration `yaml:"retryWaitMin"`
	RetryWaitMax time.Duration `yaml:"retryWaitMax"`
}

var _ Doer = (*Client)(nil)

// Client 基于 retryablehttp，连接错误和 5xx 会按配置重试
type Client struct {
	client *retryablehttp.Client
}

func NewClient(cfg Config) *Client {
	c := retryablehttp.NewClient()
	c.Logger = leveledLogger{logger: elog.DefaultLogger.With(elog.String("component", "httpx"))}
	c.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		c.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		c.RetryWaitMax = cfg.RetryWaitMax
	}
	if cfg.Timeout > 0 {
		c.HTTPClient.Timeout = cfg.Timeout
	}
	// 最后一次的响应原样交给调用方处理
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &Client{client: c}
}

func (c *Client) Do(ctx context.Context, req domain.VendorRequest) (Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	var body any
	if req.Body != nil {
		body = req.Body
	}
	r, err := retryablehttp.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", errs.ErrVendorRequestFailed, err)
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	resp, err := c.client.Do(r)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", errs.ErrVendorRequestFailed, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Response{}, fmt.Errorf("%w: 读取响应失败: %w", errs.ErrVendorRequestFailed, err)
	}
	res := Response{StatusCode: resp.StatusCode, Body: data}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return res, fmt.Errorf("%w: status=%d, body=%s", errs.ErrVendorRequestFailed, resp.StatusCode, abbreviate(data))
	}
	return res, nil
}

func abbreviate(data []byte) string {
	const limit = 256
	data = bytes.TrimSpace(data)
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}

// leveledLogger 把 retryablehttp 的日志接到 elog
type leveledLogger struct {
	logger *elog.Component
}

func (l leveledLogger) fields(kvs []any) []elog.Field {
	fields := make([]elog.Field, 0, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		fields = append(fields, elog.Any(fmt.Sprint(kvs[i]), kvs[i+1]))
	}
	return fields
}

func (l leveledLogger) Error(msg string, kvs ...any) { l.logger.Error(msg, l.fields(kvs)...) }
func (l leveledLogger) Warn(msg string, kvs ...any)  { l.logger.Warn(msg, l.fields(kvs)...) }
func (l leveledLogger) Info(msg string, kvs ...any)  { l.logger.Info(msg, l.fields(kvs)...) }
func (l leveledLogger) Debug(msg string, kvs ...any) { l.logger.Debug(msg, l.fields(kvs)...) }
