package syncd

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/opstream/ordersync/pkg/syncer"
	"github.com/opstream/ordersync/pkg/utils"
)

type statusResponse struct {
	Status    string          `json:"status"`
	Watermark string          `json:"watermark,omitempty"`
	Stats     syncer.Snapshot `json:"stats"`
}

// SetupServer configures the operational HTTP endpoint on HTTP_PORT.
func (a *App) SetupServer() {
	addr := ":" + utils.Env("HTTP_PORT", "8080")

	r := mux.NewRouter()

	r.Handle("/healthz", http.HandlerFunc(a.handleHealth)).Methods("GET")
	r.Handle("/statusz", http.HandlerFunc(a.handleStatus)).Methods("GET")

	a.Server = &http.Server{Addr: addr, Handler: r}
}

// handleHealth pings both databases; either one unreachable means 503.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.Source.Ping(ctx); err != nil {
		http.Error(w, "source database unreachable", http.StatusServiceUnavailable)
		return
	}
	if err := a.Warehouse.Ping(ctx); err != nil {
		http.Error(w, "analytical database unreachable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleStatus reports loop progress: the extraction cursor plus counters.
func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		Status: "ok",
		Stats:  a.Engine.Stats.Snapshot(),
	}
	if mark := a.Engine.Tracker.Current(); !mark.IsZero() {
		resp.Watermark = mark.UTC().Format(time.RFC3339Nano)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
