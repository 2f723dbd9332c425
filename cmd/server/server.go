// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/codr1/courtgrid/internal/api"
	"github.com/codr1/courtgrid/internal/api/actors"
	"github.com/codr1/courtgrid/internal/api/bookings"
	apievents "github.com/codr1/courtgrid/internal/api/events"
	"github.com/codr1/courtgrid/internal/api/requests"
	"github.com/codr1/courtgrid/internal/api/resources"
	"github.com/codr1/courtgrid/internal/config"
	"github.com/codr1/courtgrid/internal/websocket"
)

func newServer(cfg *config.Config, a *app) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      newHandler(a),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func newHandler(a *app) http.Handler {
	router := http.NewServeMux()

	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithActor,
		api.WithRecovery,
		api.WithRequestID,
	)

	resources.InitHandlers(a.orchestrator)
	requests.InitHandlers(a.orchestrator, a.limiter, a.trustProxy)
	bookings.InitHandlers(a.orchestrator)
	apievents.InitHandlers(a.orchestrator)
	actors.InitHandlers(a.database)

	registerRoutes(router, a.hub)
	return handler
}

func registerRoutes(mux *http.ServeMux, hub *websocket.Hub) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Resources
	mux.HandleFunc("POST /api/v1/resources", resources.HandleCreateResource)
	mux.HandleFunc("GET /api/v1/resources", resources.HandleListResources)
	mux.HandleFunc("GET /api/v1/resources/{id}", resources.HandleGetResource)
	mux.HandleFunc("GET /api/v1/resources/{id}/slots", resources.HandleListSlots)

	// Requests
	mux.HandleFunc("POST /api/v1/requests", requests.HandleSubmitRequest)
	mux.HandleFunc("GET /api/v1/requests", requests.HandleListRequests)
	mux.HandleFunc("GET /api/v1/requests/{id}", requests.HandleGetRequest)
	mux.HandleFunc("POST /api/v1/requests/{id}/respond", requests.HandleRespond)
	mux.HandleFunc("POST /api/v1/requests/{id}/cancel", requests.HandleCancelRequest)

	// Bookings
	mux.HandleFunc("POST /api/v1/bookings", bookings.HandleDirectBook)
	mux.HandleFunc("GET /api/v1/bookings", bookings.HandleListBookings)
	mux.HandleFunc("GET /api/v1/bookings/{id}", bookings.HandleGetBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/cancel", bookings.HandleCancelBooking)

	// Events
	mux.HandleFunc("GET /api/v1/events", apievents.HandleListEvents)
	mux.Handle("GET /api/v1/events/ws", websocket.Handler(hub))

	// Actors
	mux.HandleFunc("PUT /api/v1/actors/{id}/contact", actors.HandleUpsertContact)
}
