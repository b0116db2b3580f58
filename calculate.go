package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/enricosaito/nutri-macros-mobile-sub000/nutrition"
	"github.com/gin-gonic/gin"
)

// calculate runs the macro engine on the posted profile without saving anything.
// POST /api/calculate (public).
func (h *Handler) calculate(c *gin.Context) {
	calc, ok := h.runEngine(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newCalculationResponse(calc))
}

// runEngine binds a profileRequest, runs the engine and records metrics.
// On failure it writes the error response and returns ok=false.
func (h *Handler) runEngine(c *gin.Context) (nutrition.Calculation, bool) {
	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return nutrition.Calculation{}, false
	}

	profile, err := body.toProfile()
	if err != nil {
		metrics.errors.WithLabelValues(errorKind(err)).Inc()
		apiError(c, http.StatusBadRequest, err.Error())
		return nutrition.Calculation{}, false
	}

	calc, err := h.engine.Calculate(profile)
	if err != nil {
		metrics.errors.WithLabelValues(errorKind(err)).Inc()
		if errors.Is(err, nutrition.ErrInvalidEnum) || errors.Is(err, nutrition.ErrOutOfRange) {
			apiError(c, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("[runEngine] unexpected engine error: %v", err)
			apiError(c, http.StatusInternalServerError, "calculation failed")
		}
		return nutrition.Calculation{}, false
	}

	metrics.calculations.WithLabelValues(string(calc.Profile.Goal)).Inc()
	if !calc.Macros.Feasible() {
		metrics.infeasible.Inc()
	}
	return calc, true
}

// errorKind maps engine errors to a metrics label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, nutrition.ErrInvalidEnum):
		return "invalid_enum"
	case errors.Is(err, nutrition.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, errMissingFields):
		return "missing_field"
	default:
		return "other"
	}
}

type activityOption struct {
	Value      nutrition.ActivityLevel `json:"value"`
	Multiplier float64                 `json:"multiplier"`
}

type goalOption struct {
	Value nutrition.Goal `json:"value"`
	nutrition.GoalPolicy
}

// getOptions returns the closed sets the client's pickers offer, with the
// multipliers and policies behind them.
// GET /api/options (public).
func (h *Handler) getOptions(c *gin.Context) {
	activities := []activityOption{}
	for _, a := range nutrition.ActivityLevels() {
		m, _ := a.Multiplier()
		activities = append(activities, activityOption{Value: a, Multiplier: m})
	}
	goals := []goalOption{}
	for _, g := range nutrition.Goals() {
		p, _ := g.Policy()
		goals = append(goals, goalOption{Value: g, GoalPolicy: p})
	}

	c.JSON(http.StatusOK, gin.H{
		"sexes":           nutrition.Sexes(),
		"activity_levels": activities,
		"goals":           goals,
		"units":           []nutrition.Units{nutrition.Metric, nutrition.Imperial},
		"range_policy":    h.engine.Policy.String(),
		"ranges": gin.H{
			"age":       nutrition.AgeRange,
			"weight_kg": nutrition.WeightRange,
			"height_cm": nutrition.HeightRange,
		},
	})
}
