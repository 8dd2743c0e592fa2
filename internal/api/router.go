package api

import (
	"net/http"
	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"

	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	engine handlers.DistanceResolver,
	places *services.PlaceService,
	defaultUnit domain.Unit,
	log *zap.Logger,
) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()

	distanceHandler := &handlers.DistanceHandler{
		Engine:      engine,
		DefaultUnit: defaultUnit,
		Log:         log,
	}
	placeHandler := &handlers.PlaceHandler{
		Service:     places,
		DefaultUnit: defaultUnit,
		Log:         log,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/distance", distanceHandler.Distance)
	mux.HandleFunc("/convert", handlers.Convert)

	mux.HandleFunc("GET /places", placeHandler.List)
	mux.HandleFunc("POST /places", placeHandler.Create)
	mux.HandleFunc("GET /places/{id}", placeHandler.Get)
	mux.HandleFunc("PATCH /places/{id}", placeHandler.Update)
	mux.HandleFunc("DELETE /places/{id}", placeHandler.Delete)
	mux.HandleFunc("POST /places/{id}/visited", placeHandler.ToggleVisited)
	mux.HandleFunc("POST /places/{id}/archive", placeHandler.Archive)
	mux.HandleFunc("DELETE /places/{id}/archive", placeHandler.Unarchive)
	mux.HandleFunc("POST /trip/archive", placeHandler.ArchiveTrip)
	mux.HandleFunc("DELETE /trip/archive", placeHandler.UnarchiveTrip)

	return loggingMiddleware(log, mux)
}
