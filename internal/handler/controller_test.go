package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"keyword-seasonality/internal/config"
	"keyword-seasonality/internal/service"
	"keyword-seasonality/pkg/ranking"
	"keyword-seasonality/pkg/seasonality"
	"keyword-seasonality/pkg/worker"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := service.NewRankingService(seasonality.DefaultScorer(), worker.NewPool(worker.PoolConfig{MaxWorkers: 2}))
	return NewApp(NewController(svc), config.ServerConfig{})
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return resp.StatusCode, data
}

func spikySeries() []float64 {
	values := make([]float64, 104)
	for i := range values {
		values[i] = 10
	}
	values[30] = 100
	return values
}

func TestHealth(t *testing.T) {
	status, body := doRequest(t, newTestApp(t), http.MethodGet, "/health", "")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestRank(t *testing.T) {
	values, _ := json.Marshal(spikySeries())
	body := `{"keywords": [
		{"keyword": "socks", "time_series": "'10','10','10'"},
		{"keyword": "ski", "values": ` + string(values) + `},
		{"keyword": "bad", "time_series": "'5','x','3'"}
	]}`

	status, data := doRequest(t, newTestApp(t), http.MethodPost, "/api/v1/rank", body)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, data)
	}

	var report ranking.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Expected report JSON, got: %v", err)
	}
	if len(report.Results) != 2 || report.Results[0].Keyword != "ski" || report.Results[0].AverageSeasonality != 45 {
		t.Errorf("Unexpected results: %+v", report.Results)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Keyword != "bad" {
		t.Errorf("Unexpected skipped: %+v", report.Skipped)
	}
}

func TestRank_TopAndYearLength(t *testing.T) {
	body := `{"top": 1, "year_length": 2, "keywords": [
		{"keyword": "a", "time_series": "1,2,1,2"},
		{"keyword": "b", "time_series": "1,9,1,9"}
	]}`

	status, data := doRequest(t, newTestApp(t), http.MethodPost, "/api/v1/rank", body)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, data)
	}

	var report ranking.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Expected report JSON, got: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Keyword != "b" {
		t.Errorf("Expected only b, got %+v", report.Results)
	}
	if report.YearLength != 2 || len(report.Results[0].YearlyScores) != 2 {
		t.Errorf("Expected two-week years, got %+v", report)
	}
}

func TestRank_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"keywords": [`},
		{"no keywords", `{"keywords": []}`},
		{"negative year length", `{"year_length": -1, "keywords": [{"keyword": "a", "time_series": "1"}]}`},
		{"negative top", `{"top": -1, "keywords": [{"keyword": "a", "time_series": "1"}]}`},
	}

	app := newTestApp(t)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			status, data := doRequest(t, app, http.MethodPost, "/api/v1/rank", test.body)
			if status != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", status, data)
			}
			if !strings.Contains(string(data), `"error"`) {
				t.Errorf("Expected error body, got %s", data)
			}
		})
	}
}

func TestScore(t *testing.T) {
	app := newTestApp(t)

	status, data := doRequest(t, app, http.MethodPost, "/api/v1/score", `{"keyword": "k", "time_series": "'1','5','2'"}`)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, data)
	}
	var score seasonality.Score
	if err := json.Unmarshal(data, &score); err != nil {
		t.Fatalf("Expected score JSON, got: %v", err)
	}
	if score.AverageSeasonality != 3 || score.Weeks != 3 {
		t.Errorf("Unexpected score: %+v", score)
	}

	status, data = doRequest(t, app, http.MethodPost, "/api/v1/score", `{"keyword": "k", "time_series": "'5','x'"}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", status, data)
	}
	if !strings.Contains(string(data), `"malformed_input"`) {
		t.Errorf("Expected malformed_input kind, got %s", data)
	}

	status, data = doRequest(t, app, http.MethodPost, "/api/v1/score", `{"keyword": "k"}`)
	if status != http.StatusUnprocessableEntity || !strings.Contains(string(data), `"empty_series"`) {
		t.Errorf("Expected 422 empty_series, got %d: %s", status, data)
	}
}
