package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-tosi/TDG/internal/models"
	"github.com/leo-tosi/TDG/internal/services"
	"github.com/leo-tosi/TDG/internal/sink"
	"github.com/leo-tosi/TDG/internal/templates"
)

const productsTemplate = `{
  "total_columns": 4,
  "columns": [
    { "position": 1, "name": "sku", "type": "patterned_number", "prefix": "SKU", "start": 10, "step": 10 },
    { "position": 2, "name": "label", "type": "text", "textType": "hiragana", "length": 5 },
    { "position": 4, "name": "price", "type": "random_number", "start": 100, "end": 999 }
  ]
}`

func setupTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	tmplDir := filepath.Join(root, "templates")
	require.NoError(t, os.MkdirAll(tmplDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "products.json"), []byte(productsTemplate), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "broken.json"), []byte("{"), 0644))

	out, err := sink.DSFileSink(filepath.Join(root, "public"))
	require.NoError(t, err)
	service := services.DSDataGenerationService(templates.DSStore(tmplDir), out, services.Options{
		MaxRows:       1000,
		MaxColumns:    50,
		MaxTextLength: 100,
	})
	handler := DSGenerationHandler(service)

	router := gin.New()
	router.GET("/get-templates", handler.GetTemplates)
	router.GET("/load-template", handler.LoadTemplate)
	router.POST("/generate", handler.Generate)
	router.GET("/download/:id", handler.DownloadFile)
	return router, out.Dir
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetTemplates(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := get(router, "/get-templates")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.TemplateListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []models.TemplateInfo{
		{File: "broken.json", Name: "broken"},
		{File: "products.json", Name: "products"},
	}, resp.Templates)
}

func TestLoadTemplate(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := get(router, "/load-template?file=products.json")
	require.Equal(t, http.StatusOK, w.Code)
	var schema models.Schema
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schema))
	assert.Equal(t, 4, schema.TotalColumns)
	assert.Len(t, schema.Columns, 3)

	tests := []struct {
		path   string
		status int
	}{
		{"/load-template", http.StatusBadRequest},
		{"/load-template?file=missing.json", http.StatusNotFound},
		{"/load-template?file=broken.json", http.StatusUnprocessableEntity},
		{"/load-template?file=..%2Fsecret.json", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(router, tt.path)
			assert.Equal(t, tt.status, w.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGenerateFromTemplateAndDownload(t *testing.T) {
	router, outDir := setupTestRouter(t)

	w := postJSON(router, "/generate", map[string]interface{}{
		"file_name":  "products",
		"template":   "products",
		"rows_count": 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.ID, 36)
	assert.Equal(t, "products.csv", resp.File)
	assert.Equal(t, 3, resp.Rows)

	onDisk, err := os.ReadFile(filepath.Join(outDir, "products.csv"))
	require.NoError(t, err)
	lines := strings.Split(string(onDisk), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "sku,label,price", lines[0])
	for _, line := range lines[1:] {
		cells := strings.Split(line, ",")
		require.Len(t, cells, 4)
		assert.Equal(t, "", cells[2])
	}

	w = get(router, "/download/"+resp.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var download map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &download))
	assert.Equal(t, "COMPLETED", download["status"])
	decoded, err := base64.StdEncoding.DecodeString(download["file_data"].(string))
	require.NoError(t, err)
	assert.Equal(t, onDisk, decoded)

	w = get(router, "/download/"+resp.ID+"?download=true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, onDisk, w.Body.Bytes())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.csv")
}

func TestGenerateInline(t *testing.T) {
	router, outDir := setupTestRouter(t)

	w := postJSON(router, "/generate", map[string]interface{}{
		"file_name":     "inline",
		"total_columns": 3,
		"rows_count":    2,
		"columns": []map[string]interface{}{
			{"position": 1, "name": "a", "type": "fixed", "value": "1"},
			{"position": 2, "name": "b", "type": "random_number", "start": 2, "end": 2},
			{"position": 3, "name": "c", "type": "unknown"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	content, err := os.ReadFile(filepath.Join(outDir, "inline.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,2,\n1,2,", string(content))
}

func TestGenerateDefaultRows(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := postJSON(router, "/generate", map[string]interface{}{"file_name": "d", "template": "products.json"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, services.DefaultRowsCount, resp.Rows)
}

func TestGenerateBadRequests(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"missing file name", map[string]interface{}{"template": "products"}, http.StatusBadRequest},
		{"missing schema", map[string]interface{}{"file_name": "x"}, http.StatusBadRequest},
		{"zero total columns", map[string]interface{}{"file_name": "x", "total_columns": 0, "columns": []interface{}{}}, http.StatusBadRequest},
		{"unknown template", map[string]interface{}{"file_name": "x", "template": "nope"}, http.StatusNotFound},
		{"path traversal", map[string]interface{}{"file_name": "../x", "template": "products"}, http.StatusBadRequest},
		{"position out of range", map[string]interface{}{
			"file_name": "x", "total_columns": 1,
			"columns": []map[string]interface{}{{"position": 5, "name": "a", "type": "fixed"}},
		}, http.StatusUnprocessableEntity},
		{"negative rows", map[string]interface{}{"file_name": "x", "template": "products", "rows_count": -1}, http.StatusUnprocessableEntity},
		{"too many rows", map[string]interface{}{"file_name": "x", "template": "products", "rows_count": 5000}, http.StatusUnprocessableEntity},
		{"unparsable template", map[string]interface{}{"file_name": "x", "template": "broken.json"}, http.StatusUnprocessableEntity},
		{"too many columns", map[string]interface{}{"file_name": "x", "total_columns": 2000000000, "columns": []interface{}{}}, http.StatusUnprocessableEntity},
		{"text too long", map[string]interface{}{
			"file_name": "x", "total_columns": 1,
			"columns": []map[string]interface{}{{"position": 1, "name": "t", "type": "text", "length": 1000000000}},
		}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/generate", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGenerateMalformedBody(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateParseErrorIsNotWriteFailure(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := postJSON(router, "/generate", map[string]interface{}{"file_name": "x", "template": "broken.json"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "template parse error")
	assert.NotContains(t, resp.Error, "save")
}

type brokenDisk struct{}

func (brokenDisk) Write(context.Context, string, []byte) (string, error) {
	return "", sink.ErrWriteFailed
}

func (brokenDisk) Read(string) ([]byte, error) {
	return nil, os.ErrNotExist
}

func TestGenerateWriteFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tmplDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "products.json"), []byte(productsTemplate), 0644))
	service := services.DSDataGenerationService(templates.DSStore(tmplDir), brokenDisk{}, services.Options{})

	router := gin.New()
	router.POST("/generate", DSGenerationHandler(service).Generate)

	w := postJSON(router, "/generate", map[string]interface{}{"file_name": "x", "template": "products"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to save file", resp.Error)
	assert.NotEmpty(t, resp.ID)
}

func TestDownloadAttachmentNameIsQuoted(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := postJSON(router, "/generate", map[string]interface{}{"file_name": "my report; v2", "template": "products", "rows_count": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = get(router, "/download/"+resp.ID+"?download=true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="my report; v2.csv"`, w.Header().Get("Content-Disposition"))
}

func TestDownloadInvalidJobID(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := get(router, "/download/invalid-job-id")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadFailedJob(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := postJSON(router, "/generate", map[string]interface{}{
		"file_name": "bad", "total_columns": 1,
		"columns": []map[string]interface{}{{"position": 2, "type": "fixed"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)

	w = get(router, "/download/"+resp.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
