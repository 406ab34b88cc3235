package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/importer"
)

type memTx struct {
	inserted  []importer.ValidatedRecord
	committed bool
}

func (t *memTx) InsertProduct(ctx context.Context, rec importer.ValidatedRecord) error {
	t.inserted = append(t.inserted, rec)
	return nil
}

func (t *memTx) Commit() error {
	t.committed = true
	return nil
}

func (t *memTx) Rollback() error { return nil }

type memStore struct {
	categories []importer.Category
	tx         memTx
}

func (s *memStore) ListCategories(ctx context.Context) ([]importer.Category, error) {
	return s.categories, nil
}

func (s *memStore) Begin(ctx context.Context) (importer.Tx, error) {
	return &s.tx, nil
}

var _ importer.Store = (*memStore)(nil)

func testImportRouter(store importer.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	coordinator := importer.NewCoordinator(store, log)
	handler := NewImportHandler(coordinator, log, 0)

	router := gin.New()
	router.POST("/api/v1/products/import", handler.ImportProducts)
	router.GET("/api/v1/products/import/template", handler.GetImportTemplate)
	return router
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestImportProducts_CSVHappyPath(t *testing.T) {
	store := &memStore{categories: []importer.Category{{ID: uuid.New(), Name: "Tools"}}}
	router := testImportRouter(store)

	csvData := "Product Name,Category Name,Price,Stock\nWidget,Tools,9.99,5\n"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "products.csv", csvData))

	require.Equal(t, http.StatusOK, w.Code)
	var report importer.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.True(t, report.Success)
	assert.Equal(t, 1, report.Processed)
	assert.Empty(t, report.Errors)
	assert.True(t, store.tx.committed)
	assert.Len(t, store.tx.inserted, 1)
}

func TestImportProducts_RowErrorsReported(t *testing.T) {
	store := &memStore{categories: []importer.Category{{ID: uuid.New(), Name: "Tools"}}}
	router := testImportRouter(store)

	csvData := "Product Name,Category Name,Price,Stock\nWidget,Tools,9.99,5\nGadget,Tools,-1,5\n"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "products.csv", csvData))

	require.Equal(t, http.StatusOK, w.Code)
	var report importer.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.False(t, report.Success)
	assert.Equal(t, 1, report.Processed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 3, report.Errors[0].Row)
	assert.Contains(t, report.Errors[0].Message, "Price")
}

func TestImportProducts_MissingColumns(t *testing.T) {
	store := &memStore{categories: []importer.Category{{ID: uuid.New(), Name: "Tools"}}}
	router := testImportRouter(store)

	csvData := "Product Name,Notes\nWidget,whatever\n"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "products.csv", csvData))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_COLUMNS")
	assert.Contains(t, w.Body.String(), "category_name")
	assert.Empty(t, store.tx.inserted)
}

func TestImportProducts_NoCategories(t *testing.T) {
	router := testImportRouter(&memStore{})

	csvData := "Product Name,Category Name,Price,Stock\nWidget,Tools,9.99,5\n"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "products.csv", csvData))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_CATEGORIES")
}

func TestImportProducts_FileRequired(t *testing.T) {
	router := testImportRouter(&memStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_REQUIRED")
}

func TestImportProducts_RejectsUnknownFormat(t *testing.T) {
	router := testImportRouter(&memStore{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "products.txt", "not a spreadsheet"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_FORMAT")
}

func TestImportProducts_EmptyFile(t *testing.T) {
	store := &memStore{categories: []importer.Category{{ID: uuid.New(), Name: "Tools"}}}
	router := testImportRouter(store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "products.csv", "Product Name,Category Name,Price,Stock\n"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMPTY_FILE")
}

func TestGetImportTemplate_JSON(t *testing.T) {
	router := testImportRouter(&memStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/import/template", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "product_name")
	assert.Contains(t, w.Body.String(), "category_name")
}

func TestGetImportTemplate_CSV(t *testing.T) {
	router := testImportRouter(&memStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/import/template?format=csv", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "product_name,category_name,price,stock", strings.TrimSpace(w.Body.String()))
}

func TestParseCSV(t *testing.T) {
	headers, rows, err := parseCSV(strings.NewReader("Product Name,Price\nWidget,9.99\nGadget,4.99\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"Product Name", "Price"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, "Widget", rows[0]["Product Name"])
	assert.Equal(t, "4.99", rows[1]["Price"])
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Products"
	f.SetSheetName("Sheet1", sheet)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Product Name", "Category Name", "Price", "Stock"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Widget", "Tools", "9.99", "5"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	headers, rows, err := parseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Product Name", "Category Name", "Price", "Stock"}, headers)
	require.Len(t, rows, 1)
	assert.Equal(t, "Widget", rows[0]["Product Name"])
	assert.Equal(t, "Tools", rows[0]["Category Name"])
}
