package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/earnbox/earnbox/internal/app/ledger"
	"github.com/earnbox/earnbox/internal/app/manual"
	"github.com/earnbox/earnbox/internal/app/reward"
	"github.com/earnbox/earnbox/internal/app/withdraw"
	"github.com/earnbox/earnbox/internal/infra/clock"
	"github.com/earnbox/earnbox/internal/infra/kv"
)

// ─── Test Setup ─────────────────────────────────────────────────────────────

type testEnv struct {
	srv     *Server
	handler http.Handler
	clk     *clock.Manual
	ledger  *ledger.Store
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, time.January, 20, 10, 0, 0, 0, time.UTC))
	store := ledger.Load(kv.NewMemory(), ledger.DefaultConfig())

	surfaces, err := reward.NewRegistry(reward.DefaultConfigs(), clk, store, reward.OpenerFunc(func(string) error { return nil }))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	t.Cleanup(func() { surfaces.Close() })

	flow := withdraw.NewFlow(store, clk, withdraw.DefaultConfig())
	t.Cleanup(func() { flow.Close() })

	hub := NewEarningsHub()
	store.OnAppend(hub.Publish)

	srv := NewServer(store, surfaces)
	srv.SetWithdraw(flow)
	srv.SetManual(manual.NewForm(store, clk))
	srv.SetEarningsHub(hub)
	srv.EnableMetrics()

	return &testEnv{srv: srv, handler: srv.Handler(), clk: clk, ledger: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func errorMessage(resp map[string]interface{}) string {
	e, _ := resp["error"].(map[string]interface{})
	msg, _ := e["message"].(string)
	return msg
}

// ─── Health & Header ────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := setupServer(t)
	w, resp := env.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || resp["status"] != "ok" {
		t.Errorf("GET /health = %d %v", w.Code, resp)
	}
}

func TestHeader(t *testing.T) {
	env := setupServer(t)
	tests := []struct {
		view  string
		code  int
		title string
	}{
		{"tasks", http.StatusOK, "Tasks Dashboard"},
		{"transactions", http.StatusOK, "Transaction History"},
		{"withdraw", http.StatusOK, "Withdraw Funds"},
		{"", http.StatusOK, "Tasks Dashboard"},
		{"settings", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			w, resp := env.do(t, http.MethodGet, "/api/header?view="+tt.view, "")
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			if tt.title != "" && resp["view_title"] != tt.title {
				t.Errorf("view_title = %v, want %q", resp["view_title"], tt.title)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupServer(t)
	env.do(t, http.MethodPost, "/api/surfaces/watch/slots/0/click", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "earnbox_ledger_appends_total") {
		t.Error("metrics output missing earnbox_ledger_appends_total")
	}
}

func TestCORS_Preflight(t *testing.T) {
	env := setupServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/withdrawals", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("preflight missing Access-Control-Allow-Origin")
	}
}

// ─── Reward Surfaces ────────────────────────────────────────────────────────

func TestSurfaces_List(t *testing.T) {
	env := setupServer(t)
	w, resp := env.do(t, http.MethodGet, "/api/surfaces", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	list, _ := resp["surfaces"].([]interface{})
	if len(list) != 4 {
		t.Fatalf("expected 4 surfaces, got %d", len(list))
	}
	first := list[0].(map[string]interface{})
	if first["name"] != "watch" || first["variant"] != "immediate" {
		t.Errorf("first surface = %v", first)
	}
}

func TestSurfaces_WatchClickCredits(t *testing.T) {
	env := setupServer(t)

	w, resp := env.do(t, http.MethodPost, "/api/surfaces/watch/slots/0/click", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp["action"] != "credited" {
		t.Errorf("action = %v, want credited", resp["action"])
	}
	if resp["open_url"] == nil {
		t.Error("expected open_url in response")
	}
	slot := resp["slot"].(map[string]interface{})
	if slot["state"] != "on_cooldown" || slot["label"] != "Wait (60s)" {
		t.Errorf("slot = %v", slot)
	}

	_, header := env.do(t, http.MethodGet, "/api/header?view=tasks", "")
	if header["balance"] != "0.5" {
		t.Errorf("balance = %v, want \"0.5\"", header["balance"])
	}
}

func TestSurfaces_DelayedFlowOverHTTP(t *testing.T) {
	env := setupServer(t)

	_, resp := env.do(t, http.MethodPost, "/api/surfaces/like/slots/4/start", "")
	if resp["action"] != "started" {
		t.Fatalf("start action = %v", resp["action"])
	}
	_, resp = env.do(t, http.MethodPost, "/api/surfaces/like/slots/4/confirm", "")
	if resp["action"] != "confirmed" {
		t.Fatalf("confirm action = %v", resp["action"])
	}

	env.clk.Advance(2 * time.Minute)
	if env.ledger.Len() != 1 {
		t.Fatalf("ledger Len = %d, want 1 after confirmation delay", env.ledger.Len())
	}

	_, resp = env.do(t, http.MethodGet, "/api/surfaces/like", "")
	slot := resp["slots"].([]interface{})[4].(map[string]interface{})
	if slot["state"] != "on_cooldown" {
		t.Errorf("slot state = %v, want on_cooldown", slot["state"])
	}
}

func TestSurfaces_NotFound(t *testing.T) {
	env := setupServer(t)
	for _, path := range []string{
		"/api/surfaces/tiktok/slots/0/click",
		"/api/surfaces/watch/slots/20/click",
		"/api/surfaces/watch/slots/abc/click",
	} {
		w, _ := env.do(t, http.MethodPost, path, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("POST %s = %d, want 404", path, w.Code)
		}
	}
	w, _ := env.do(t, http.MethodGet, "/api/surfaces/tiktok", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("GET unknown surface = %d, want 404", w.Code)
	}
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

func TestEarnings_ManualEntryAndViews(t *testing.T) {
	env := setupServer(t)

	w, resp := env.do(t, http.MethodPost, "/api/earnings", `{"source":"Freelance","amount":"10","date":"2024-01-15"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if resp["kind"] != "credit" || resp["id"] == "" {
		t.Errorf("created = %v", resp)
	}
	env.do(t, http.MethodPost, "/api/earnings", `{"source":"Tips","amount":"5","date":"2024-01-20"}`)

	_, resp = env.do(t, http.MethodGet, "/api/transactions", "")
	if resp["count"] != float64(2) {
		t.Errorf("count = %v, want 2", resp["count"])
	}
	txs := resp["transactions"].([]interface{})
	if txs[0].(map[string]interface{})["source"] != "Tips" {
		t.Error("transactions not newest first")
	}

	_, resp = env.do(t, http.MethodGet, "/api/summary", "")
	if resp["top_source"] != "Freelance" || resp["balance"] != "15" {
		t.Errorf("summary = %v", resp)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chart/monthly", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	var points []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if len(points) != 1 || points[0]["label"] != "Jan 24" || points[0]["total"] != "15" {
		t.Errorf("chart = %v", points)
	}
}

func TestEarnings_Validation(t *testing.T) {
	env := setupServer(t)

	w, resp := env.do(t, http.MethodPost, "/api/earnings", `{"source":"","amount":"1"}`)
	if w.Code != http.StatusUnprocessableEntity || errorMessage(resp) != "All fields are required." {
		t.Errorf("got %d %v", w.Code, resp)
	}
	w, _ = env.do(t, http.MethodPost, "/api/earnings", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad JSON = %d, want 400", w.Code)
	}
	w, _ = env.do(t, http.MethodGet, "/api/chart/monthly?limit=0", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("limit=0 = %d, want 400", w.Code)
	}
}

// ─── Withdrawals ────────────────────────────────────────────────────────────

func TestWithdraw_Flow(t *testing.T) {
	env := setupServer(t)

	_, resp := env.do(t, http.MethodGet, "/api/withdrawals/status", "")
	if resp["enabled"] != false {
		t.Errorf("enabled = %v at zero balance", resp["enabled"])
	}
	if methods, _ := resp["methods"].([]interface{}); len(methods) != 3 || methods[0] != "jazzcash" {
		t.Errorf("methods = %v", resp["methods"])
	}

	env.do(t, http.MethodPost, "/api/earnings", `{"source":"Freelance","amount":"20"}`)

	body := `{"method":"jazzcash","amount":"25","account_name":"Ali","account_number":"0300"}`
	w, resp := env.do(t, http.MethodPost, "/api/withdrawals", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if errorMessage(resp) != "Withdrawal amount cannot exceed your current balance." {
		t.Errorf("message = %q", errorMessage(resp))
	}

	body = `{"method":"easypaisa","amount":"12.5","account_name":"Ali","account_number":"0300"}`
	w, resp = env.do(t, http.MethodPost, "/api/withdrawals", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if resp["message"] != "Successfully withdrew RS 12.50!" {
		t.Errorf("message = %v", resp["message"])
	}
	tx := resp["transaction"].(map[string]interface{})
	if tx["amount"] != "-12.5" || tx["source"] != "Withdrawal via Easypaisa" || tx["kind"] != "debit" {
		t.Errorf("transaction = %v", tx)
	}

	_, resp = env.do(t, http.MethodGet, "/api/withdrawals/status", "")
	if resp["enabled"] != true || resp["message"] == "" {
		t.Errorf("status = %v", resp)
	}
	env.clk.Advance(4 * time.Second)
	_, resp = env.do(t, http.MethodGet, "/api/withdrawals/status", "")
	if resp["message"] != "" {
		t.Errorf("message = %v, want cleared", resp["message"])
	}
}
