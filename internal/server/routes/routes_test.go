package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdulrahmanx9/bandwidth-monitor/internal/monitor"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	sent, recv uint64
}

func (s *staticSource) ReadCounters(iface string) (uint64, uint64, error) {
	return s.sent, s.recv, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.ServerConfig{}
	cfg.App.Name = "Bandwidth Monitor"
	cfg.Auth.APIKey = "test-key"

	m := monitor.NewMonitor(monitor.Options{
		Interface:      "eth0",
		Source:         &staticSource{sent: 1000, recv: 2000},
		Store:          monitor.NewStore(filepath.Join(t.TempDir(), "usage.json")),
		SampleInterval: 5 * time.Second,
		WindowPeriod:   60 * time.Second,
	})

	return SetupRoutes(m, cfg)
}

func doRequest(router *gin.Engine, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthNoAuth(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestStatsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/stats/bandwidth",
		"/api/v1/stats/monthly-traffic",
	} {
		w := doRequest(router, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestGetBandwidth(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, "/api/v1/stats/bandwidth", "test-key")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int            `json:"code"`
		Data monitor.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 200, body.Code)
	assert.Equal(t, "eth0", body.Data.InterfaceName)
	assert.Equal(t, 12, body.Data.MaxSamplesForAvg)
	// 尚无采样时平均速率为零
	assert.Zero(t, body.Data.CurrentSampleCount)
	assert.Zero(t, body.Data.AverageMbps.Total)
}

func TestGetMonthlyTraffic(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, "/api/v1/stats/monthly-traffic", "test-key")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int                 `json:"code"`
		Data monitor.UsageReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 200, body.Code)
	assert.Equal(t, monitor.MonthKey(time.Now()), body.Data.Month)
	assert.Zero(t, body.Data.RawBytes.Total)
	assert.Equal(t, "0 B", body.Data.DataUsage.Total)
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, "/api/v2/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
