package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/enricosaito/nutri-macros-mobile-sub000/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validThemes is the set of allowed values for user_preferences.theme.
var validThemes = map[string]bool{
	"light":  true,
	"dark":   true,
	"system": true,
}

// getPreferences returns the preferences for the authenticated user.
// GET /api/preferences.
func (h *Handler) getPreferences(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[userPreferences](h.db, c,
		"SELECT * FROM user_preferences WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "preferences not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch preferences")
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// patchPreferences updates only the provided preference fields.
// PATCH /api/preferences. Nil fields in the body are left unchanged.
func (h *Handler) patchPreferences(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchPreferencesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	setClauses, args, err := body.setClauses()
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}
	args["userID"] = userID

	query := "UPDATE user_preferences SET " +
		strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE user_id = @userID RETURNING *"

	p, err := queryOne[userPreferences](h.db, c, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "preferences not found")
			return
		}
		log.Printf("[patchPreferences] update failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update preferences")
		return
	}

	c.JSON(http.StatusOK, p)
}

// setClauses validates the provided fields and builds the SET clause pieces.
// Values are normalized with the same parsers the engine input goes through,
// so stored defaults are always usable as calculation input.
func (r patchPreferencesRequest) setClauses() ([]string, pgx.NamedArgs, error) {
	setClauses := []string{}
	args := pgx.NamedArgs{}

	if r.Units != nil {
		u, err := nutrition.ParseUnits(*r.Units)
		if err != nil || strings.TrimSpace(*r.Units) == "" {
			return nil, nil, errors.New("units must be one of: metric, imperial")
		}
		setClauses = append(setClauses, "units = @units")
		args["units"] = string(u)
	}
	if r.Theme != nil {
		theme := strings.ToLower(strings.TrimSpace(*r.Theme))
		if !validThemes[theme] {
			return nil, nil, errors.New("theme must be one of: light, dark, system")
		}
		setClauses = append(setClauses, "theme = @theme")
		args["theme"] = theme
	}
	if r.DefaultActivityLevel != nil {
		a, err := nutrition.ParseActivityLevel(*r.DefaultActivityLevel)
		if err != nil {
			return nil, nil, err
		}
		setClauses = append(setClauses, "default_activity_level = @activityLevel")
		args["activityLevel"] = string(a)
	}
	if r.DefaultGoal != nil {
		g, err := nutrition.ParseGoal(*r.DefaultGoal)
		if err != nil {
			return nil, nil, err
		}
		setClauses = append(setClauses, "default_goal = @goal")
		args["goal"] = string(g)
	}

	return setClauses, args, nil
}
