package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/koulakhilesh/OpenEnergy/config"
)

func testBaseConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Battery.CapacityMWh = 1.0
	cfg.Battery.SetDefaults()
	cfg.Schedule.SetDefaults()
	cfg.Simulation.SetDefaults()
	cfg.Prices.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.API.SetDefaults()
	return cfg
}

func TestHealthEndpoint(t *testing.T) {
	router := NewServer(testBaseConfig()).Router()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestSimulateEndpoint(t *testing.T) {
	router := NewServer(testBaseConfig()).Router()
	body := `{"start_date": "2015-02-01", "end_date": "2015-02-02", "noise_seed": 7}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var resp SimulateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RunID == "" {
		t.Fatal("expected a run id")
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 daily results got %d", len(resp.Results))
	}
	var total float64
	for _, r := range resp.Results {
		total += r.DailyPnL
	}
	if math.Abs(total-resp.TotalPnL) > 1e-9 {
		t.Fatalf("total pnl %v does not match summed results %v", resp.TotalPnL, total)
	}
	if resp.FinalSOC < 0 || resp.FinalSOC > 1 {
		t.Fatalf("final SOC out of range: %v", resp.FinalSOC)
	}
}

func TestSimulateEndpoint_OverridesBattery(t *testing.T) {
	router := NewServer(testBaseConfig()).Router()
	body := `{"start_date": "2015-02-01", "end_date": "2015-02-01", "battery_capacity_mwh": 0.5, "initial_soc": 0.9}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSimulateEndpoint_BadJSON(t *testing.T) {
	router := NewServer(testBaseConfig()).Router()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != "INVALID_REQUEST" {
		t.Fatalf("expected INVALID_REQUEST got %q", resp.Code)
	}
}

func TestSimulateEndpoint_ReversedDates(t *testing.T) {
	router := NewServer(testBaseConfig()).Router()
	body := `{"start_date": "2015-02-10", "end_date": "2015-02-01"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSimulateEndpoint_UnknownPriceModel(t *testing.T) {
	router := NewServer(testBaseConfig()).Router()
	body := `{"price_model": "oracle"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
}
