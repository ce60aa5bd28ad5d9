package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/scentlab/fragrec/internal/catalog"
	"github.com/scentlab/fragrec/internal/domain"
	healthuc "github.com/scentlab/fragrec/internal/usecase/health"
	recommenduc "github.com/scentlab/fragrec/internal/usecase/recommend"
)

func testRouter(items []domain.Item) http.Handler {
	holder := catalog.NewHolder(catalog.NewSnapshot(items))
	srv := NewServer(
		recommenduc.New(holder, domain.NoopExplainer{}),
		healthuc.New(holder, nil, domain.NoopExplainer{}),
		zap.NewNop(),
	)
	r := chi.NewRouter()
	srv.Register(r)
	return r
}

func catalogFixture() []domain.Item {
	return []domain.Item{
		{
			Brand: "Dior", Name: "Sauvage", Gender: domain.GenderMale,
			PriceMin: 350, PriceMax: 600,
			Accords:     []string{"fresh", "citrus"},
			Description: "fresh citrus office scent",
			Longevity:   4, Sillage: 4, RatingValue: 4.4, RatingCount: 1500,
			URL: "https://example.com/sauvage",
		},
		{
			Brand: "Amouage", Name: "Interlude", Gender: domain.GenderUnisex,
			PriceMin: 900, PriceMax: 1400,
			Accords:     []string{"oud", "amber", "smoky"},
			Description: "dense smoky amber oud",
			Longevity:   5, Sillage: 5, RatingValue: 4.5, RatingCount: 800,
		},
	}
}

func postRecommend(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRecommendEndpoint(t *testing.T) {
	h := testRouter(catalogFixture())
	rr := postRecommend(t, h, `{"preferred_notes":["oud","smoky"],"k":5}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var resp struct {
		Results []struct {
			Brand      string     `json:"brand"`
			Name       string     `json:"name"`
			PriceRange [2]float64 `json:"price_range"`
			Score      float64    `json:"score"`
			Why        string     `json:"why"`
			AIWhy      string     `json:"ai_why"`
		} `json:"results"`
		Message string `json:"message"`
		LLMUsed bool   `json:"llm_used"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	top := resp.Results[0]
	if top.Name != "Interlude" {
		t.Errorf("top result = %s, want Interlude", top.Name)
	}
	if top.PriceRange != [2]float64{900, 1400} {
		t.Errorf("price_range = %v", top.PriceRange)
	}
	if top.Score <= 0 || top.Why == "" {
		t.Errorf("score/why missing: %v %q", top.Score, top.Why)
	}
	if top.AIWhy != "" || resp.LLMUsed {
		t.Error("no provider configured, ai_why and llm_used must be unset")
	}
}

func TestRecommendEndpoint_InvalidBody(t *testing.T) {
	h := testRouter(catalogFixture())
	rr := postRecommend(t, h, `{"k": "ten"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestRecommendEndpoint_EmptyCatalog(t *testing.T) {
	h := testRouter(nil)
	rr := postRecommend(t, h, `{}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: empty catalog is not a transport error", rr.Code)
	}
	var resp struct {
		Results []json.RawMessage `json:"results"`
		Message string            `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != recommenduc.MsgEmptyCatalog {
		t.Errorf("message = %q, want %q", resp.Message, recommenduc.MsgEmptyCatalog)
	}
	if resp.Results == nil {
		t.Error("results must encode as [], not null")
	}
}

func TestRecommendEndpoint_FilterNarrowing(t *testing.T) {
	h := testRouter(catalogFixture())
	rr := postRecommend(t, h, `{"price_max": 700}`)

	var resp struct {
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Name != "Sauvage" {
		t.Errorf("price_max filter: got %+v", resp.Results)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := testRouter(catalogFixture())
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		OK          bool              `json:"ok"`
		CatalogSize int               `json:"catalog_size"`
		Checks      map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK {
		t.Error("expected ok = true")
	}
	if resp.CatalogSize != 2 {
		t.Errorf("catalog_size = %d, want 2", resp.CatalogSize)
	}
	if resp.Checks["catalog"] != "ok" {
		t.Errorf("catalog check = %q", resp.Checks["catalog"])
	}
	if resp.Checks["explainer"] != "disabled" {
		t.Errorf("explainer check = %q, want disabled", resp.Checks["explainer"])
	}
}

func TestHealthEndpoint_EmptyCatalog(t *testing.T) {
	h := testRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OK {
		t.Error("empty catalog should report ok = false")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := testRouter(catalogFixture())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("expected Prometheus exposition output")
	}
}

func TestRound3(t *testing.T) {
	if got := round3(0.123456); got != 0.123 {
		t.Errorf("round3 = %v", got)
	}
	if got := round3(0.9995); got != 1.0 {
		t.Errorf("round3 = %v", got)
	}
}
