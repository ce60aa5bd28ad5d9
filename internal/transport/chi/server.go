// Package chi wires the recommendation and health services to HTTP.
package chi

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/scentlab/fragrec/internal/domain"
	healthuc "github.com/scentlab/fragrec/internal/usecase/health"
	recommenduc "github.com/scentlab/fragrec/internal/usecase/recommend"
)

// Server exposes the HTTP API.
type Server struct {
	recommend *recommenduc.Service
	health    *healthuc.Service
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(recommend *recommenduc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{recommend: recommend, health: health, logger: logger}
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/recommend", s.handleRecommend)
	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

// recommendRequest is the inbound JSON body. Pointer fields distinguish
// "absent" from zero so absent filters stay disabled.
type recommendRequest struct {
	Liked          []string `json:"liked"`
	UseCases       []string `json:"use_cases"`
	PreferredNotes []string `json:"preferred_notes"`

	PriceMin       *float64 `json:"price_min"`
	PriceMax       *float64 `json:"price_max"`
	RatingMin      *float64 `json:"rating_min"`
	RatingCountMin *int     `json:"rating_count_min"`
	LongevityMin   *int     `json:"longevity_min"`
	SillageMin     *int     `json:"sillage_min"`
	Gender         string   `json:"gender"`

	K       int  `json:"k"`
	Explain bool `json:"explain"`
}

type recommendResponse struct {
	Results []resultDTO `json:"results"`
	Message string      `json:"message,omitempty"`
	LLMUsed bool        `json:"llm_used"`
}

type resultDTO struct {
	Brand       string     `json:"brand"`
	Name        string     `json:"name"`
	Gender      string     `json:"gender"`
	PriceRange  [2]float64 `json:"price_range"`
	Accords     []string   `json:"accords"`
	Longevity   int        `json:"longevity"`
	Sillage     int        `json:"sillage"`
	RatingValue float64    `json:"rating_value"`
	RatingCount int        `json:"rating_count"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Score       float64    `json:"score"`
	Why         string     `json:"why"`
	AIWhy       string     `json:"ai_why,omitempty"`
}

// handleRecommend handles POST /api/recommend.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Debug("rejected recommend request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp := s.recommend.Recommend(r.Context(), domain.Query{
		Liked:          req.Liked,
		UseCases:       req.UseCases,
		PreferredNotes: req.PreferredNotes,
		PriceMin:       req.PriceMin,
		PriceMax:       req.PriceMax,
		RatingMin:      req.RatingMin,
		RatingCountMin: req.RatingCountMin,
		LongevityMin:   req.LongevityMin,
		SillageMin:     req.SillageMin,
		Gender:         req.Gender,
		K:              req.K,
		Explain:        req.Explain,
	})

	out := recommendResponse{
		Results: make([]resultDTO, len(resp.Results)),
		Message: resp.Message,
		LLMUsed: resp.LLMUsed,
	}
	for i, rec := range resp.Results {
		out.Results[i] = toResultDTO(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

type healthResponse struct {
	OK          bool              `json:"ok"`
	CatalogSize int               `json:"catalog_size"`
	Checks      map[string]string `json:"checks"`
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}
	writeJSON(w, http.StatusOK, healthResponse{
		OK:          report.Status == healthuc.Healthy,
		CatalogSize: report.CatalogSize,
		Checks:      checks,
	})
}

func toResultDTO(rec domain.Recommendation) resultDTO {
	return resultDTO{
		Brand:       rec.Item.Brand,
		Name:        rec.Item.Name,
		Gender:      string(rec.Item.Gender),
		PriceRange:  [2]float64{rec.Item.PriceMin, rec.Item.PriceMax},
		Accords:     rec.Item.Accords,
		Longevity:   rec.Item.Longevity,
		Sillage:     rec.Item.Sillage,
		RatingValue: rec.Item.RatingValue,
		RatingCount: rec.Item.RatingCount,
		URL:         rec.Item.URL,
		Description: rec.Item.Description,
		Score:       round3(rec.Score),
		Why:         rec.Why,
		AIWhy:       rec.AIWhy,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
