package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/api/models"
	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/planner"
	"github.com/fuelroute/fuelroute/internal/tripcache"
)

// TripPlanner produces a trip plan for a pair of endpoints.
type TripPlanner interface {
	Plan(ctx context.Context, req planner.PlanRequest) (*planner.TripPlan, error)
}

// TripHandler handles trip planning endpoints.
type TripHandler struct {
	planner TripPlanner
	cache   tripcache.Cache
	logger  zerolog.Logger
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(p TripPlanner, cache tripcache.Cache, logger zerolog.Logger) *TripHandler {
	return &TripHandler{
		planner: p,
		cache:   cache,
		logger:  logger.With().Str("component", "trip_handler").Logger(),
	}
}

// PlanTrip handles GET and POST /v1/trip/plan.
//
// GET reads start/finish from query parameters; POST reads a JSON body.
// Both accept the legacy start_coords/end/end_coords aliases.
func (h *TripHandler) PlanTrip(w http.ResponseWriter, r *http.Request) {
	req, fieldErrors := h.parseRequest(r)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "start and finish are required", fieldErrors)
		return
	}

	cacheKey := planner.CacheKey(req.Start, req.Finish, req.StartWithFullTank)
	if plan, ok := h.cachedPlan(r.Context(), cacheKey); ok {
		w.Header().Set("X-Cache", "HIT")
		response.JSON(w, r, http.StatusOK, models.NewTripPlanResponse(plan))
		return
	}

	plan, err := h.planner.Plan(r.Context(), req)
	if err != nil {
		h.writePlanError(w, r, err)
		return
	}

	if err := h.cache.Set(r.Context(), cacheKey, plan, tripcache.DefaultTTL); err != nil {
		h.logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("failed to cache trip plan")
	}

	w.Header().Set("X-Cache", "MISS")
	response.JSON(w, r, http.StatusOK, models.NewTripPlanResponse(plan))
}

// parseRequest extracts the plan request from query parameters or, for
// POST, the JSON body. Query parameters win when both are present.
func (h *TripHandler) parseRequest(r *http.Request) (planner.PlanRequest, []models.FieldError) {
	var body models.TripPlanRequest
	if r.Method == http.MethodPost && r.Body != nil {
		// A malformed or empty body is tolerated when the query string
		// carries the endpoints; validation below catches the rest.
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			body = models.TripPlanRequest{}
		}
	}

	query := r.URL.Query()

	start := firstNonEmpty(query.Get("start"), query.Get("start_coords"))
	if start == "" {
		if v, ok := body.StartInput(); ok {
			start = v
		}
	}

	finish := firstNonEmpty(query.Get("finish"), query.Get("end"), query.Get("end_coords"))
	if finish == "" {
		if v, ok := body.FinishInput(); ok {
			finish = v
		}
	}

	fullTank := false
	if raw := query.Get("start_with_full_tank"); raw != "" {
		fullTank = models.ParseBoolText(raw, false)
	} else if body.StartWithFullTank != nil {
		fullTank = bool(*body.StartWithFullTank)
	}

	var fieldErrors []models.FieldError
	if strings.TrimSpace(start) == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "start", Message: "required"})
	}
	if strings.TrimSpace(finish) == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "finish", Message: "required"})
	}
	if fieldErrors != nil {
		return planner.PlanRequest{}, fieldErrors
	}

	return planner.PlanRequest{
		Start:             start,
		Finish:            finish,
		StartWithFullTank: fullTank,
	}, nil
}

// cachedPlan looks the key up, treating cache errors as misses.
func (h *TripHandler) cachedPlan(ctx context.Context, key string) (*planner.TripPlan, bool) {
	plan, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn().Err(err).Str("cache_key", key).Msg("trip cache lookup failed")
		return nil, false
	}
	return plan, ok
}

// writePlanError maps a planning failure to its HTTP representation.
func (h *TripHandler) writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	var planErr *planner.PlanError
	if errors.As(err, &planErr) {
		switch planErr.Kind {
		case planner.ErrorKindClient:
			response.BadRequest(w, r, planErr.Message, nil)
			return
		case planner.ErrorKindDependency:
			h.logger.Error().Err(err).Msg("trip planning dependency failed")
			response.BadGateway(w, r, planErr.Message)
			return
		}
	}

	h.logger.Error().Err(err).Msg("trip planning failed")
	response.InternalError(w, r, "trip planning failed")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
