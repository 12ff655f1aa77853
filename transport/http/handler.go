package http

import (
	"io"
	nethttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/logs"
	"github.com/CodMac/go-treesitter-gii/output"
	"github.com/CodMac/go-treesitter-gii/service"
)

// 请求体上限
const maxBodySize = 4 << 20

// RegisterProjectRoutes 注册项目相关接口
func RegisterProjectRoutes(group *gin.RouterGroup, svc *service.ProjectService) {
	h := &projectHandler{svc: svc}
	group.GET("/projects", h.list)
	group.GET("/projects/:name/structure", h.structure)
	group.GET("/projects/:name/items", h.item)
	group.POST("/projects/:name/preview", h.preview)
	group.POST("/projects/:name/save", h.save)
	group.GET("/projects/:name/graph", h.graph)
}

type projectHandler struct {
	svc *service.ProjectService
}

func (h *projectHandler) list(c *gin.Context) {
	c.PureJSON(nethttp.StatusOK, gin.H{"projects": h.svc.List()})
}

func (h *projectHandler) structure(c *gin.Context) {
	project, err := h.svc.Structure(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.PureJSON(nethttp.StatusOK, project)
}

func (h *projectHandler) item(c *gin.Context) {
	item, err := h.svc.Parse(c.Param("name"), c.Query("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.PureJSON(nethttp.StatusOK, item)
}

func (h *projectHandler) preview(c *gin.Context) {
	h.generate(c, h.svc.Preview)
}

func (h *projectHandler) save(c *gin.Context) {
	h.generate(c, h.svc.Save)
}

func (h *projectHandler) generate(c *gin.Context, fn func(name, id string, data []byte) ([]*service.FileChange, error)) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
	if err != nil {
		writeError(c, errx.ErrInvalidArgument.WithMsg("读取请求体失败").WithCause(err))
		return
	}
	changes, err := fn(c.Param("name"), c.Query("id"), data)
	if err != nil {
		writeError(c, err)
		return
	}
	if changes == nil {
		changes = []*service.FileChange{}
	}
	c.PureJSON(nethttp.StatusOK, gin.H{"files": changes})
}

// graph 默认返回 JSON，format=mermaid 时返回可直接打开的网页
func (h *projectHandler) graph(c *gin.Context) {
	graph, err := h.svc.Graph(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}

	if strings.EqualFold(c.Query("format"), "mermaid") {
		c.Status(nethttp.StatusOK)
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := output.ExportMermaidHTML(c.Writer, graph.Project, graph.Context, graph.Relations); err != nil {
			logs.Warn("输出关系图失败", zap.Error(err))
		}
		return
	}

	entries := graph.Context.Entries()
	entities := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		entities = append(entities, gin.H{"id": entry.ID, "type": entry.Type})
	}
	c.PureJSON(nethttp.StatusOK, gin.H{"entities": entities, "relations": graph.Relations})
}

// writeError 把 errx 错误映射为 HTTP 状态码：NOT_FOUND 为 404，其他业务错误为 400，系统错误为 500
func writeError(c *gin.Context, err error) {
	e := errx.As(err)
	status := nethttp.StatusBadRequest
	switch {
	case e.IsSys():
		status = nethttp.StatusInternalServerError
		logs.Error("请求处理失败", zap.String("path", c.Request.URL.Path), zap.Error(err), zap.String("stack", e.StackTrace()))
	case e.Code() == errx.CodeNotFound:
		status = nethttp.StatusNotFound
	}

	body := gin.H{"code": e.Code(), "msg": e.Msg()}
	if data := e.Data(); len(data) > 0 {
		body["data"] = data
	}
	c.Abort()
	c.PureJSON(status, body)
}
