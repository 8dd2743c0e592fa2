package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PlaceHandler struct {
	Service     *services.PlaceService
	DefaultUnit domain.Unit
	Log         *zap.Logger
}

// List returns places with distances expressed in the requested unit.
// Archived places are hidden unless archived=true or archived=all.
func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.ListPlacesQuery{
		Unit:     strings.ToLower(strings.TrimSpace(q.Get("unit"))),
		Type:     strings.ToLower(strings.TrimSpace(q.Get("type"))),
		Archived: strings.ToLower(strings.TrimSpace(q.Get("archived"))),
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	var filter ports.PlaceFilter
	if req.Type != "" {
		t := domain.PlaceType(req.Type)
		filter.Type = &t
	}
	switch req.Archived {
	case "", "false":
		archived := false
		filter.Archived = &archived
	case "true":
		archived := true
		filter.Archived = &archived
	}

	places, err := h.Service.ListPlaces(r.Context(), filter)
	if err != nil {
		h.writePlaceError(w, r, err)
		return
	}

	unit := h.unitOrDefault(req.Unit)
	res := dto.ListPlaceResponse{Places: make([]dto.PlaceResponse, 0, len(places))}
	for _, p := range places {
		res.Places = append(res.Places, toPlaceResponse(p, unit))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *PlaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePlaceID(w, r)
	if !ok {
		return
	}

	unit, ok := queryUnit(w, r, h.DefaultUnit)
	if !ok {
		return
	}

	p, err := h.Service.GetPlace(r.Context(), id)
	if err != nil {
		h.writePlaceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlaceResponse(p, unit))
}

// Create stores a new place and computes its distance from the base location.
func (h *PlaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlaceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	req.Unit = strings.ToLower(strings.TrimSpace(req.Unit))
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	unit := h.unitOrDefault(req.Unit)
	p, err := h.Service.CreatePlace(r.Context(), services.CreatePlaceInput{
		Name:    req.Name,
		Type:    domain.PlaceType(req.Type),
		Address: req.Address,
		Notes:   req.Notes,
		Rating:  req.Rating,
		Unit:    unit,
	})
	if err != nil {
		h.writePlaceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toPlaceResponse(p, unit))
}

// Update applies a partial edit. A changed address recomputes the distance.
func (h *PlaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePlaceID(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePlaceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req.Unit = strings.ToLower(strings.TrimSpace(req.Unit))
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	unit := h.unitOrDefault(req.Unit)
	p, err := h.Service.UpdatePlace(r.Context(), id, services.UpdatePlaceInput{
		Name:    req.Name,
		Address: req.Address,
		Notes:   req.Notes,
		Rating:  req.Rating,
		Unit:    unit,
	})
	if err != nil {
		h.writePlaceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlaceResponse(p, unit))
}

func (h *PlaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePlaceID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeletePlace(r.Context(), id); err != nil {
		h.writePlaceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PlaceHandler) ToggleVisited(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePlaceID(w, r)
	if !ok {
		return
	}

	unit, ok := queryUnit(w, r, h.DefaultUnit)
	if !ok {
		return
	}

	p, err := h.Service.ToggleVisited(r.Context(), id)
	if err != nil {
		h.writePlaceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlaceResponse(p, unit))
}

func (h *PlaceHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

func (h *PlaceHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *PlaceHandler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	id, ok := parsePlaceID(w, r)
	if !ok {
		return
	}

	unit, ok := queryUnit(w, r, h.DefaultUnit)
	if !ok {
		return
	}

	p, err := h.Service.SetArchived(r.Context(), id, archived)
	if err != nil {
		h.writePlaceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlaceResponse(p, unit))
}

// ArchiveTrip archives every active place. Trip dates are required.
func (h *PlaceHandler) ArchiveTrip(w http.ResponseWriter, r *http.Request) {
	var req dto.ArchiveTripRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	// Formats were checked by the datetime tag.
	start, _ := time.Parse(time.DateOnly, req.StartDate)
	end, _ := time.Parse(time.DateOnly, req.EndDate)

	n, err := h.Service.ArchiveAll(r.Context(), services.TripDates{Start: start, End: end})
	if err != nil {
		h.writePlaceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ArchiveTripResponse{Places: n})
}

// UnarchiveTrip restores every archived place.
func (h *PlaceHandler) UnarchiveTrip(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.UnarchiveAll(r.Context())
	if err != nil {
		h.writePlaceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ArchiveTripResponse{Places: n})
}

func (h *PlaceHandler) unitOrDefault(u string) domain.Unit {
	if parsed, err := domain.ParseUnit(u); err == nil {
		return parsed
	}
	return h.DefaultUnit
}

func (h *PlaceHandler) writePlaceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ports.ErrPlaceNotFound):
		writeError(w, r, http.StatusNotFound, "place not found")
	case errors.Is(err, services.ErrInvalidPlace), errors.Is(err, services.ErrInvalidTrip):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		h.Log.Error("place request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func parsePlaceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid place id")
		return uuid.Nil, false
	}
	return id, true
}

func toPlaceResponse(p *domain.Place, unit domain.Unit) dto.PlaceResponse {
	res := dto.PlaceResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Type:      string(p.Type),
		Address:   p.Address,
		Unit:      unit.String(),
		Notes:     p.Notes,
		Visited:   p.Visited,
		Rating:    p.Rating,
		Archived:  p.Archived,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if d, ok := p.DistanceIn(unit); ok {
		res.Distance = &d.Value
	}
	return res
}
