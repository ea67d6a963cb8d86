package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"feira/internal/core"
	"feira/internal/export"
	"feira/internal/ledger"
	"feira/internal/services"
)

const favoritesCacheKey = "top"

type collectionRequest struct {
	Product string   `json:"product"`
	Samples []string `json:"samples"`
}

type pricesRequest struct {
	Prices []float64 `json:"prices"`
}

type recordResponse struct {
	Product string    `json:"product"`
	Prices  []float64 `json:"prices"`
}

func toRecordResponse(r core.ProductRecord) recordResponse {
	prices := make([]float64, 0, len(r.Prices))
	for _, p := range r.Prices {
		prices = append(prices, p.Units())
	}
	return recordResponse{Product: r.Product, Prices: prices}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleRecordCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := core.Collection{
		Product: strings.TrimSpace(req.Product),
		Samples: req.Samples,
	}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.svc.RecordCollection(r.Context(), c); err != nil {
		slog.ErrorContext(r.Context(), "Failed to record collection",
			"product", c.Product, "samples", len(c.Samples), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save collection")
		return
	}

	s.favoritesCache.Delete(favoritesCacheKey)
	writeJSON(w, http.StatusCreated, toRecordResponse(core.ProductRecord{
		Product: c.Product,
		Prices:  c.Prices(),
	}))
}

func (s *Server) handleTodayRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.TodayRecords(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load today's records", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	resp := struct {
		Date    string           `json:"date"`
		Records []recordResponse `json:"records"`
	}{Date: core.TodayKey(), Records: make([]recordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdatePrices(w http.ResponseWriter, r *http.Request) {
	product := strings.TrimSpace(r.PathValue("product"))
	if product == "" {
		writeError(w, http.StatusBadRequest, "missing product")
		return
	}

	var req pricesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Prices) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "prices must not be empty")
		return
	}

	prices := make([]core.Money, 0, len(req.Prices))
	for _, p := range req.Prices {
		prices = append(prices, core.MoneyFromUnits(p))
	}

	if err := s.svc.UpdatePrices(r.Context(), product, prices); err != nil {
		if errors.Is(err, ledger.ErrUnknownProduct) {
			writeError(w, http.StatusNotFound, "product not collected today")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update prices",
			"product", product, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update prices")
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(core.ProductRecord{
		Product: product,
		Prices:  prices,
	}))
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	limit := s.favoritesLimit
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	// Only the default limit is cached; it covers the common autocomplete path.
	if limit == s.favoritesLimit {
		if names, ok := s.favoritesCache.Get(favoritesCacheKey); ok {
			writeJSON(w, http.StatusOK, map[string][]string{"favorites": names})
			return
		}
	}

	names, err := s.svc.Favorites(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load favorites", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load favorites")
		return
	}
	if names == nil {
		names = []string{}
	}
	if limit == s.favoritesLimit {
		s.favoritesCache.Set(favoritesCacheKey, names)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"favorites": names})
}

func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	results := s.catalog.Search(term)
	if results == nil {
		results = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"products": results})
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	content, err := s.svc.BuildTodayCSV(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNothingToExport) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to build CSV", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	filename := export.Filename(time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filename, err := s.svc.ExportToday(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNothingToExport) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		slog.ErrorContext(r.Context(), "Export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "export delivery failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"filename": filename})
}
