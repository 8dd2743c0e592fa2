package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"

	"go.uber.org/zap"
)

type DistanceResolver interface {
	Resolve(ctx context.Context, origin, destination string, unit domain.Unit) (services.DistanceResult, error)
}

type DistanceHandler struct {
	Engine      DistanceResolver
	DefaultUnit domain.Unit
	Log         *zap.Logger
}

// Distance reports the great-circle distance between two addresses.
// An address that cannot be resolved yields 200 with distance 0 and resolved=false.
func (h *DistanceHandler) Distance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	q := r.URL.Query()
	req := dto.DistanceQuery{
		Origin:      strings.TrimSpace(q.Get("origin")),
		Destination: strings.TrimSpace(q.Get("destination")),
		Unit:        strings.ToLower(strings.TrimSpace(q.Get("unit"))),
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	unit := h.DefaultUnit
	if req.Unit != "" {
		u, err := domain.ParseUnit(req.Unit)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		unit = u
	}

	res, err := h.Engine.Resolve(r.Context(), req.Origin, req.Destination, unit)
	if err != nil {
		h.Log.Warn("distance unresolved",
			zap.String("origin", req.Origin),
			zap.String("destination", req.Destination),
			zap.Error(err),
		)
	}

	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{
		Distance: res.Distance.Value,
		Unit:     unit.String(),
		Resolved: res.Resolved,
	})
}

// Convert converts a distance between units without rounding.
func Convert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	q := r.URL.Query()

	value, err := strconv.ParseFloat(strings.TrimSpace(q.Get("value")), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		writeError(w, r, http.StatusBadRequest, "value must be a finite number")
		return
	}

	req := dto.ConvertQuery{
		Value: value,
		From:  strings.ToLower(strings.TrimSpace(q.Get("from"))),
		To:    strings.ToLower(strings.TrimSpace(q.Get("to"))),
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	from, err := domain.ParseUnit(req.From)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	to, err := domain.ParseUnit(req.To)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ConvertResponse{
		Value: domain.ConvertDistance(req.Value, from, to),
		Unit:  to.String(),
	})
}
