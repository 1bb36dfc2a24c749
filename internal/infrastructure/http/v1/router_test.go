package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "stockreport/internal/core/context"
	"stockreport/internal/domain/auth"
	"stockreport/internal/domain/reports"
	v1 "stockreport/internal/infrastructure/http/v1"
	"stockreport/internal/infrastructure/http/v1/dto"
	"stockreport/internal/infrastructure/objectstore"
	"stockreport/internal/infrastructure/storage/memory"
	"stockreport/internal/infrastructure/xlsx"
)

type testServer struct {
	handler http.Handler
}

func newServer(t *testing.T, validator *auth.JWTService) *testServer {
	t.Helper()
	artifacts, err := objectstore.NewLocal(t.TempDir(), "http://example.test")
	require.NoError(t, err)

	svc := reports.NewService(memory.New(memory.Demo()), xlsx.New(xlsx.Options{}), artifacts, reports.NewAssembler(2)).
		WithJournal(memory.NewJournal(10))
	cfg := v1.RouterConfig{Reports: svc, Version: "test"}
	if validator != nil {
		cfg.JWTValidator = validator
	}
	return &testServer{handler: v1.NewRouter(cfg)}
}

func (s *testServer) do(t *testing.T, method, target string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.do(t, http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDefaults(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/v1/reports/stock-movement/defaults", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[dto.StockMovementDefaults](t, rec)
	assert.Equal(t, strconv.Itoa(time.Now().UTC().Year())+"-01-01", got.DateFrom)
	assert.True(t, got.IncludePurchases)
	assert.True(t, got.IncludeSales)
	assert.True(t, got.IncludePOS)
}

func TestPreview(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/reports/stock-movement/preview",
		dto.StockMovementRequest{DateFrom: "2024-01-01", DateTo: "2024-02-29"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[dto.StockMovementPreview](t, rec)
	assert.Equal(t, "Stock Movement Report (2024-01-01 to 2024-02-29)", got.Title)
	require.Len(t, got.Groups, 3)
	assert.Equal(t, "January 2024", got.Groups[0].Label)
	assert.Equal(t, "Year 2024 Total", got.Groups[2].Label)
	assert.True(t, got.Groups[2].Summary)
	assert.Equal(t, "integer", got.Groups[0].Columns[0].Kind)

	require.Len(t, got.Rows, 3)
	assert.Equal(t, "Coffee Beans", got.Rows[0].Name)
	assert.Equal(t, "Mug (Color: Black)", got.Rows[1].Name)
	assert.Equal(t, "Mug (Color: White)", got.Rows[2].Name)
	assert.Len(t, got.Rows[0].Cells, 2*len(reports.MonthColumns)+len(reports.YearColumns))
}

func TestGenerateAndDownload(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/reports/stock-movement",
		dto.StockMovementRequest{DateFrom: "2024-01-01", DateTo: "2024-02-29"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decode[dto.StockMovementResult](t, rec)
	assert.Equal(t, "Stock_Movement_Report_2024-01-01_2024-02-29.xlsx", res.FileName)
	assert.Equal(t, 3, res.Products)
	assert.Equal(t, 2, res.Months)
	assert.Positive(t, res.Size)

	link, err := url.Parse(res.URL)
	require.NoError(t, err)
	assert.Equal(t, "example.test", link.Host)

	rec = s.do(t, http.MethodGet, link.RequestURI(), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsx.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), res.FileName)
	assert.Equal(t, res.Size, rec.Body.Len())

	rec = s.do(t, http.MethodGet, "/api/v1/reports/stock-movement/history?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	runs := decode[[]dto.StockMovementRun](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].RunID)
	assert.Equal(t, "2024-01-01", runs[0].Params.DateFrom)
	assert.True(t, runs[0].Params.Channels.POS)
}

func TestErrors(t *testing.T) {
	s := newServer(t, nil)

	tests := []struct {
		name     string
		method   string
		target   string
		body     any
		wantCode int
		wantErr  string
	}{
		{
			name:     "inverted range",
			method:   http.MethodPost,
			target:   "/api/v1/reports/stock-movement",
			body:     dto.StockMovementRequest{DateFrom: "2024-03-01", DateTo: "2024-01-01"},
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_DATE_RANGE",
		},
		{
			name:     "bad date",
			method:   http.MethodPost,
			target:   "/api/v1/reports/stock-movement/preview",
			body:     dto.StockMovementRequest{DateFrom: "01/02/2024"},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "no products",
			method:   http.MethodPost,
			target:   "/api/v1/reports/stock-movement/preview",
			body:     dto.StockMovementRequest{DateFrom: "2024-01-01", DateTo: "2024-01-31", ProductIDs: []int64{999}},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "NO_PRODUCTS",
		},
		{
			name:     "bad history limit",
			method:   http.MethodGet,
			target:   "/api/v1/reports/stock-movement/history?limit=-1",
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "unknown artifact",
			method:   http.MethodGet,
			target:   "/api/v1/reports/stock-movement/nope/download",
			wantCode: http.StatusNotFound,
			wantErr:  "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.target, tt.body, nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decode[dto.ErrorResponse](t, rec).Code)
		})
	}
}

func TestAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("secret"))
	s := newServer(t, jwtSvc)

	rec := s.do(t, http.MethodGet, "/api/v1/reports/stock-movement/defaults", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decode[dto.ErrorResponse](t, rec).Code)

	rec = s.do(t, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	token, _, err := jwtSvc.GenerateAccessToken(appctx.UserContext{UserID: "2", Login: "admin"})
	require.NoError(t, err)
	bearer := http.Header{"Authorization": []string{"Bearer " + token}}
	rec = s.do(t, http.MethodGet, "/api/v1/reports/stock-movement/defaults", nil, bearer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/reports/stock-movement",
		dto.StockMovementRequest{DateFrom: "2024-01-01", DateTo: "2024-01-31"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_DownloadLinkOpensWithoutToken(t *testing.T) {
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("secret"))
	s := newServer(t, jwtSvc)

	token, _, err := jwtSvc.GenerateAccessToken(appctx.UserContext{UserID: "2", Login: "admin"})
	require.NoError(t, err)
	rec := s.do(t, http.MethodPost, "/api/v1/reports/stock-movement",
		dto.StockMovementRequest{DateFrom: "2024-01-01", DateTo: "2024-01-31"},
		http.Header{"Authorization": []string{"Bearer " + token}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	link, err := url.Parse(decode[dto.StockMovementResult](t, rec).URL)
	require.NoError(t, err)
	rec = s.do(t, http.MethodGet, link.RequestURI(), nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsx.ContentType, rec.Header().Get("Content-Type"))
}
