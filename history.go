package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// createCalculation runs the engine on the posted profile and saves the result
// to the user's history. The engine runs first; nothing is stored for a
// rejected profile.
// POST /api/calculations. Returns 201 with the stored record.
func (h *Handler) createCalculation(c *gin.Context) {
	userID := c.GetInt("user_id")

	calc, ok := h.runEngine(c)
	if !ok {
		return
	}
	p, m := calc.Profile, calc.Macros

	rec, err := queryOne[calculationRecord](h.db, c,
		`INSERT INTO calculations
			(user_id, sex, age, weight_kg, height_cm, activity_level, goal,
			 bmr, tdee, calories, protein_g, carbs_g, fat_g, infeasible)
		 VALUES
			(@userID, @sex, @age, @weightKg, @heightCm, @activityLevel, @goal,
			 @bmr, @tdee, @calories, @proteinG, @carbsG, @fatG, @infeasible)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "sex": string(p.Sex), "age": p.Age,
			"weightKg": p.WeightKg, "heightCm": p.HeightCm,
			"activityLevel": string(p.ActivityLevel), "goal": string(p.Goal),
			"bmr": round1(calc.BMR), "tdee": round1(calc.TDEE),
			"calories": m.Calories, "proteinG": m.ProteinG,
			"carbsG": m.CarbsG, "fatG": m.FatG, "infeasible": !m.Feasible(),
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save calculation")
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// listCalculations returns the user's saved calculations, newest first.
// GET /api/calculations?limit=N (1..200, default 50).
// Returns an empty array (not null) if there is no history.
func (h *Handler) listCalculations(c *gin.Context) {
	userID := c.GetInt("user_id")

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	records, err := queryMany[calculationRecord](h.db, c,
		`SELECT * FROM calculations
		 WHERE user_id = @userID
		 ORDER BY created_at DESC, id DESC
		 LIMIT @limit`,
		pgx.NamedArgs{"userID": userID, "limit": limit})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch calculations")
		return
	}
	// Ensure empty array (not null) in JSON
	if records == nil {
		records = []calculationRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// getCalculation returns one saved calculation.
// GET /api/calculations/:id. 404 if it doesn't exist or belongs to another user.
func (h *Handler) getCalculation(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid id")
		return
	}

	rec, err := queryOne[calculationRecord](h.db, c,
		"SELECT * FROM calculations WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "calculation not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch calculation")
		}
		return
	}

	c.JSON(http.StatusOK, rec)
}

// deleteCalculation removes a saved calculation by ID.
// DELETE /api/calculations/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteCalculation(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid id")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM calculations WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete calculation")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "calculation not found")
		return
	}

	c.Status(http.StatusNoContent)
}

var errInvalidLimit = errors.New("limit must be an integer between 1 and 200")

// parseLimit parses the ?limit query param, defaulting when empty.
func parseLimit(s string) (int, error) {
	if s == "" {
		return defaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxHistoryLimit {
		return 0, errInvalidLimit
	}
	return n, nil
}
