package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/pricefactor/config"
	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/factor"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
	"github.com/YuminosukeSato/pricefactor/pricing"
)

func fittedModel(t *testing.T) *factor.Model {
	t.Helper()
	var table dataset.Table
	users := []string{"alice", "bob", "carol"}
	items := []string{"kettle", "toaster"}
	dates := []string{"2023-01-01", "2023-01-02", "2023-01-03"}
	k := 0
	for _, u := range users {
		for _, i := range items {
			for _, d := range dates {
				table = append(table, dataset.Rating{UserID: u, ItemID: i, Rating: float64(1 + (k*7)%5), Timestamp: d})
				k++
			}
		}
	}
	m := factor.NewModel(factor.WithNFactors(2), factor.WithLearningRate(0.05), factor.WithEpochs(30), factor.WithSeed(3))
	require.NoError(t, m.Fit(context.Background(), table))
	return m
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCalculatePriceEndpoint(t *testing.T) {
	m := fittedModel(t)
	srv := New(pricing.NewCalculator(m, nil), m, nil)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/calculate_price",
		`{"user_id":"alice","product_id":"kettle","purchase_date":"2023-01-02","base_price":51.38}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp PriceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	want := pricing.Apply(51.38, m.Predict("alice", "kettle", "2023-01-02"))
	assert.InDelta(t, want, resp.FinalPrice, 1e-9)
}

func TestCalculatePriceNormalizesDate(t *testing.T) {
	m := fittedModel(t)
	srv := New(pricing.NewCalculator(m, nil), m, nil)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/calculate_price",
		`{"user_id":"bob","product_id":"toaster","purchase_date":"2023/01/03","base_price":10}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp PriceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, pricing.Apply(10, m.Predict("bob", "toaster", "2023-01-03")), resp.FinalPrice, 1e-9)
}

func TestCalculatePriceIgnoresExtraFields(t *testing.T) {
	m := fittedModel(t)
	srv := New(pricing.NewCalculator(m, nil), m, nil)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/calculate_price",
		`{"user_id":"carol","product_id":"kettle","purchase_date":"2023-01-01","base_price":20,"currency":"USD"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp PriceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, pricing.Apply(20, m.Predict("carol", "kettle", "2023-01-01")), resp.FinalPrice, 1e-9)
}

func TestCalculatePriceBadRequest(t *testing.T) {
	m := fittedModel(t)
	srv := New(pricing.NewCalculator(m, nil), m, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"user_id":`},
		{"missing user", `{"product_id":"kettle","purchase_date":"2023-01-02","base_price":1}`},
		{"missing base price", `{"user_id":"alice","product_id":"kettle","purchase_date":"2023-01-02"}`},
		{"unparseable date", `{"user_id":"alice","product_id":"kettle","purchase_date":"not a date","base_price":1}`},
		{"wrong type", `{"user_id":"alice","product_id":"kettle","purchase_date":"2023-01-02","base_price":"1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv.Handler(), http.MethodPost, "/api/calculate_price", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Detail)
		})
	}
}

type panickingPredictor struct{}

func (panickingPredictor) Predict(string, string, string) float64 { panic("corrupt state") }

func TestCalculatePriceInternalError(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	srv := New(pricing.NewCalculator(panickingPredictor{}, nil), nil, logger)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/calculate_price",
		`{"user_id":"alice","product_id":"kettle","purchase_date":"2023-01-02","base_price":1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "alice")
	assert.True(t, logger.ContainsMessage("Price calculation failed"))
	assert.True(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorOrchestration))
}

func TestRootAndModelEndpoints(t *testing.T) {
	m := fittedModel(t)
	srv := New(pricing.NewCalculator(m, nil), m, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pricefactor is running"}`, rec.Body.String())

	rec = do(t, srv.Handler(), http.MethodGet, "/api/model", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, factor.ModelType, summary["model_type"])
	assert.Equal(t, true, summary["is_fitted"])

	empty := New(pricing.NewCalculator(m, nil), nil, nil)
	rec = do(t, empty.Handler(), http.MethodGet, "/api/model", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	m := fittedModel(t)
	srv := New(pricing.NewCalculator(m, nil), m, nil)

	do(t, srv.Handler(), http.MethodGet, "/", "")
	rec := do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pricefactor_http_requests_total")
}

func TestRequestLogging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	m := fittedModel(t)
	srv := New(pricing.NewCalculator(m, nil), m, logger)

	do(t, srv.Handler(), http.MethodGet, "/", "")
	assert.True(t, logger.ContainsMessage("Request served"))
	assert.True(t, logger.ContainsField("http.path", "/"))
}

func TestRunShutsDownOnCancel(t *testing.T) {
	m := fittedModel(t)
	srv := New(pricing.NewCalculator(m, nil), m, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, config.APIConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second})
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
