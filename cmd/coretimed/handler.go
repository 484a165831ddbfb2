package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/poppyseed/coretime/internal/model"
	"github.com/poppyseed/coretime/internal/pricing"
	"github.com/poppyseed/coretime/internal/regions"
	"github.com/poppyseed/coretime/internal/sale"
	"github.com/poppyseed/coretime/internal/version"
)

// regionView is the read side of the region poller.
type regionView interface {
	State() regions.State
	Snapshot() *model.Snapshot
	Query(core uint32, begin uint64, mask string) (model.Region, bool)
}

// constantsView is the read side of the constants cache.
type constantsView interface {
	Get() (*model.BrokerConstants, bool)
	Err() error
}

// saleView is the read side of the sale tracker.
type saleView interface {
	Session() *sale.Session
	Err() error
}

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

type priceResponse struct {
	Block        uint64   `json:"block"`
	Status       string   `json:"status"`
	Price        *float64 `json:"price"`
	PricePerCore *float64 `json:"price_per_core"`
	SaleEnds     *uint64  `json:"sale_ends"`
}

type curveResponse struct {
	Start  uint64    `json:"start"`
	End    uint64    `json:"end"`
	Blocks []uint64  `json:"blocks"`
	Prices []float64 `json:"prices"`
}

// createHealthHandler creates the HTTP handler for health, metrics and debug endpoints.
// db may be nil when sale info comes from the gateway.
func createHealthHandler(poller regionView, consts constantsView, tracker saleView, db pinger, metricsPath string, metricsHandler http.Handler, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()

	if metricsHandler != nil {
		router.Handle(metricsPath, metricsHandler).Methods(http.MethodGet)
	}

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Version    version.Info   `json:"version"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Version:    version.Current(),
			Components: make(map[string]any),
		}

		// Check indexer
		if db != nil {
			if err := db.Ping(ctx); err != nil {
				health.Status = "unhealthy"
				health.Components["indexer"] = map[string]string{
					"status": "disconnected",
					"error":  err.Error(),
				}
			} else {
				health.Components["indexer"] = "connected"
			}
		}

		// Check region poller
		state := poller.State()
		health.Components["regions"] = map[string]any{
			"state":   state.String(),
			"regions": poller.Snapshot().Len(),
		}
		if state == regions.StateIdle || state == regions.StateStale {
			degrade(&health.Status)
		}

		// Check constants cache
		c, loading := consts.Get()
		switch {
		case consts.Err() != nil:
			health.Components["constants"] = map[string]string{
				"status": "failed",
				"error":  consts.Err().Error(),
			}
			degrade(&health.Status)
		case loading:
			health.Components["constants"] = "loading"
			degrade(&health.Status)
		default:
			health.Components["constants"] = c
		}

		// Check sale tracker
		saleStatus := map[string]any{"loaded": tracker.Session() != nil}
		if err := tracker.Err(); err != nil {
			saleStatus["error"] = err.Error()
		}
		health.Components["sale"] = saleStatus
		if tracker.Session() == nil {
			degrade(&health.Status)
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	}).Methods(http.MethodGet)

	router.HandleFunc("/debug/price", func(w http.ResponseWriter, r *http.Request) {
		block, err := strconv.ParseUint(r.URL.Query().Get("block"), 10, 64)
		if err != nil {
			http.Error(w, "block parameter required (e.g., ?block=10050)", http.StatusBadRequest)
			return
		}

		s := tracker.Session()
		if s == nil {
			http.Error(w, "sale not loaded", http.StatusServiceUnavailable)
			return
		}

		resp := priceResponse{
			Block:  block,
			Status: s.Status(block).String(),
		}

		price, ok, err := s.Price(block)
		if err != nil {
			writePricingError(w, err, logger)
			return
		}
		if ok {
			resp.Price = &price
		}

		perCore, ok, err := s.PricePerCore(block)
		if err != nil {
			writePricingError(w, err, logger)
			return
		}
		if ok {
			resp.PricePerCore = &perCore
		}

		if ends, ok := s.Ends(); ok {
			resp.SaleEnds = &ends
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodGet)

	router.HandleFunc("/debug/curve", func(w http.ResponseWriter, r *http.Request) {
		s := tracker.Session()
		if s == nil {
			http.Error(w, "sale not loaded", http.StatusServiceUnavailable)
			return
		}

		curve, ok, err := s.Curve()
		if err != nil {
			writePricingError(w, err, logger)
			return
		}
		if !ok {
			http.Error(w, "no price curve for current sale", http.StatusNotFound)
			return
		}

		blocks, prices := curve.Series()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(curveResponse{
			Start:  curve.Start(),
			End:    curve.End(),
			Blocks: blocks,
			Prices: prices,
		})
	}).Methods(http.MethodGet)

	router.HandleFunc("/debug/region", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		core, err := strconv.ParseUint(q.Get("core"), 10, 32)
		if err != nil {
			http.Error(w, "invalid core parameter", http.StatusBadRequest)
			return
		}
		begin, err := strconv.ParseUint(q.Get("begin"), 10, 64)
		if err != nil {
			http.Error(w, "invalid begin parameter", http.StatusBadRequest)
			return
		}

		region, ok := poller.Query(uint32(core), begin, q.Get("mask"))
		if !ok {
			http.Error(w, "region not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(region)
	}).Methods(http.MethodGet)

	return router
}

func degrade(status *string) {
	if *status == "healthy" {
		*status = "degraded"
	}
}

func writePricingError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if errors.Is(err, pricing.ErrConfiguration) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	logger.Error("pricing failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
