package middleware

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CodMac/go-treesitter-gii/logs"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 统一写访问日志，并尽量从响应体中的 `code` 字段提取错误码。
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if project := c.Param("name"); project != "" {
			fields = append(fields, zap.String("project", project))
		}
		if code, ok := parseCode(bw.body.Bytes()); ok {
			fields = append(fields, zap.String("code", code))
		}
		logs.Info("access", fields...)
	}
}

func parseCode(body []byte) (string, bool) {
	if len(body) == 0 || body[0] != '{' {
		return "", false
	}

	// 错误响应体格式：{"code":"NOT_FOUND", ...}
	var payload struct {
		Code *string `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	if payload.Code == nil {
		return "", false
	}
	return *payload.Code, true
}
