package http_test

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/config"
	"github.com/CodMac/go-treesitter-gii/service"
	"github.com/CodMac/go-treesitter-gii/store"
	transport "github.com/CodMac/go-treesitter-gii/transport/http"
	_ "github.com/CodMac/go-treesitter-gii/x/nest"
)

func newServer(t *testing.T) *transport.Server {
	gin.SetMode(gin.TestMode)

	dir := filepath.Join(t.TempDir(), "nestproject")
	require.NoError(t, os.CopyFS(dir, os.DirFS(filepath.Join("..", "..", "x", "nest", "testdata", "nestproject"))))

	svc := service.NewProjectService([]config.ProjectConfig{{Name: "demo", Path: dir}}, store.NewDiskStore(), 2)
	s := transport.NewHttpServer(config.HTTPConfig{Addr: ":0"}, gin.New())
	transport.RegisterProjectRoutes(s.Group(), svc)
	return s
}

func do(s *transport.Server, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestNewHttpServer_Healthz(t *testing.T) {
	s := newServer(t)

	w := do(s, nethttp.MethodGet, "/healthz", "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
}

func TestProjectRoutes(t *testing.T) {
	s := newServer(t)

	t.Run("list", func(t *testing.T) {
		w := do(s, nethttp.MethodGet, "/api/projects", "")
		require.Equal(t, nethttp.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"demo"`)
	})

	t.Run("structure", func(t *testing.T) {
		w := do(s, nethttp.MethodGet, "/api/projects/demo/structure", "")
		require.Equal(t, nethttp.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"src/project/domain/models/ProjectModel.ts"`)
	})

	t.Run("item", func(t *testing.T) {
		w := do(s, nethttp.MethodGet, "/api/projects/demo/items?id=src/project/domain/enums/ProviderEnum.ts", "")
		require.Equal(t, nethttp.StatusOK, w.Code)

		var body struct {
			Type string `json:"type"`
			Data struct {
				Name   string `json:"name"`
				Fields []struct {
					Name string `json:"name"`
				} `json:"fields"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "enum", body.Type)
		assert.Equal(t, "ProviderEnum", body.Data.Name)
		assert.Len(t, body.Data.Fields, 2)
	})

	t.Run("preview", func(t *testing.T) {
		w := do(s, nethttp.MethodPost, "/api/projects/demo/preview?id=src/project/domain/enums/ProviderEnum.ts",
			`{"name": "ProviderEnum", "fields": [{"name": "GITLAB", "oldName": "GITLAB", "value": "gitlab", "label": "Git<Lab>"}]}`)
		require.Equal(t, nethttp.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"src/project/domain/enums/ProviderEnum.ts"`)
		assert.Contains(t, w.Body.String(), `'Git<Lab>'`)
		assert.NotContains(t, w.Body.String(), `\u003c`)
		assert.Contains(t, w.Body.String(), `-    static CLOCKIFY = 'clockify';`)
	})

	t.Run("graph", func(t *testing.T) {
		w := do(s, nethttp.MethodGet, "/api/projects/demo/graph", "")
		require.Equal(t, nethttp.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"type":"EXTEND"`)

		w = do(s, nethttp.MethodGet, "/api/projects/demo/graph?format=mermaid", "")
		require.Equal(t, nethttp.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "graph LR")
	})
}

func TestProjectRoutes_Errors(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   string
	}{
		{"unknown project", nethttp.MethodGet, "/api/projects/missing/structure", "", nethttp.StatusNotFound, "NOT_FOUND"},
		{"missing file", nethttp.MethodGet, "/api/projects/demo/items?id=src/project/domain/enums/NoEnum.ts", "", nethttp.StatusNotFound, "NOT_FOUND"},
		{"directory", nethttp.MethodGet, "/api/projects/demo/items?id=src/project", "", nethttp.StatusBadRequest, "INVALID_ARGUMENT"},
		{"bad body", nethttp.MethodPost, "/api/projects/demo/preview?id=src/project/domain/enums/ProviderEnum.ts", "{", nethttp.StatusBadRequest, "INVALID_ARGUMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var body struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}
