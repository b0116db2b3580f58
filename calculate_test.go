package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/enricosaito/nutri-macros-mobile-sub000/nutrition"
	"github.com/gin-gonic/gin"
)

// setupRouter builds the full route table with no database attached. Every
// route that needs storage answers 503, everything else works normally.
func setupRouter(policy nutrition.RangePolicy) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{
		engine:       nutrition.Engine{Policy: policy},
		loginLimiter: newRateLimiter(3, time.Minute),
	}
	router := gin.New()
	h.registerRoutes(router)
	return router
}

// doRequest sends a request with an optional JSON body.
func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeCalculation(t *testing.T, w *httptest.ResponseRecorder) calculationResponse {
	t.Helper()
	var resp calculationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v (%s)", err, w.Body.String())
	}
	return resp
}

/* ─── POST /api/calculate ────────────────────────────────────────────── */

// TestCalculate_MetricScenario verifies the 30 year old, 70kg, 170cm male
// scenario end to end, including one-decimal BMR/TDEE and empty arrays.
func TestCalculate_MetricScenario(t *testing.T) {
	router := setupRouter(nutrition.Clamp)

	w := doRequest(router, "POST", "/api/calculate",
		`{"sex":"male","age":30,"weight":70,"height":170,"activity_level":"moderate","goal":"maintain"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeCalculation(t, w)
	if resp.Calories != 2507 || resp.ProteinG != 126 || resp.FatG != 70 || resp.CarbsG != 343 {
		t.Errorf("unexpected macros: %+v", resp)
	}
	if resp.BMR != 1617.5 || resp.TDEE != 2507.1 {
		t.Errorf("bmr/tdee = %v/%v, want 1617.5/2507.1", resp.BMR, resp.TDEE)
	}
	if len(resp.AdjustedFields) != 0 || len(resp.Warnings) != 0 {
		t.Errorf("expected no adjustments or warnings, got %v %v", resp.AdjustedFields, resp.Warnings)
	}
	// Arrays must be [] rather than null for the client.
	if !strings.Contains(w.Body.String(), `"warnings":[]`) {
		t.Errorf("expected empty warnings array in %s", w.Body.String())
	}
}

// TestCalculate_ImperialUnits verifies lbs/inches are converted before the
// engine runs: 154.3234 lbs = 70 kg and 66.929 in ≈ 170 cm.
func TestCalculate_ImperialUnits(t *testing.T) {
	router := setupRouter(nutrition.Clamp)

	w := doRequest(router, "POST", "/api/calculate",
		`{"sex":"Male","age":30,"weight":154.3234,"height":66.92913,"activity_level":"moderate","goal":"maintain","units":"imperial"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeCalculation(t, w)
	if resp.Calories != 2507 || resp.ProteinG != 126 {
		t.Errorf("imperial input should match the metric scenario, got %+v", resp)
	}
}

// TestCalculate_ClampReportsAdjustedFields verifies the default policy answers
// 200 and names what it clamped.
func TestCalculate_ClampReportsAdjustedFields(t *testing.T) {
	router := setupRouter(nutrition.Clamp)

	w := doRequest(router, "POST", "/api/calculate",
		`{"sex":"female","age":12,"weight":60,"height":300,"activity_level":"light","goal":"maintain"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeCalculation(t, w)
	if !reflect.DeepEqual(resp.AdjustedFields, []string{"age", "height_cm"}) {
		t.Errorf("adjusted_fields = %v, want [age height_cm]", resp.AdjustedFields)
	}
	if resp.Profile.Age != 15 || resp.Profile.HeightCm != 250 {
		t.Errorf("profile not clamped: %+v", resp.Profile)
	}
}

// TestCalculate_RejectPolicy verifies the strict policy turns out-of-range
// input into a 400.
func TestCalculate_RejectPolicy(t *testing.T) {
	router := setupRouter(nutrition.Reject)

	w := doRequest(router, "POST", "/api/calculate",
		`{"sex":"female","age":12,"weight":60,"height":165,"activity_level":"light","goal":"maintain"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "age") {
		t.Errorf("error should name the field, got %s", w.Body.String())
	}
}

// TestCalculate_InfeasibleWarning verifies the negative-carbs case is a 200
// with carbs 0 and a macro_infeasible warning.
func TestCalculate_InfeasibleWarning(t *testing.T) {
	router := setupRouter(nutrition.Clamp)

	w := doRequest(router, "POST", "/api/calculate",
		`{"sex":"female","age":100,"weight":250,"height":100,"activity_level":"sedentary","goal":"lose_weight"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeCalculation(t, w)
	if resp.CarbsG != 0 {
		t.Errorf("carbs = %d, want 0", resp.CarbsG)
	}
	if !reflect.DeepEqual(resp.Warnings, []nutrition.Warning{nutrition.WarnMacroInfeasible}) {
		t.Errorf("warnings = %v, want [macro_infeasible]", resp.Warnings)
	}
}

// TestCalculate_BadInput verifies malformed bodies and values outside the
// closed sets are rejected with 400 rather than defaulted.
func TestCalculate_BadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"unknown sex", `{"sex":"x","age":30,"weight":70,"height":170,"activity_level":"moderate","goal":"maintain"}`},
		{"unknown activity", `{"sex":"male","age":30,"weight":70,"height":170,"activity_level":"very_active","goal":"maintain"}`},
		{"missing goal", `{"sex":"male","age":30,"weight":70,"height":170,"activity_level":"moderate"}`},
		{"unknown units", `{"sex":"male","age":30,"weight":70,"height":170,"activity_level":"moderate","goal":"maintain","units":"stone"}`},
	}
	router := setupRouter(nutrition.Clamp)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/api/calculate", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

// TestCalculate_MissingNumbers verifies omitted age, weight or height is a 400
// naming the missing fields instead of a clamped, invented profile.
func TestCalculate_MissingNumbers(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"all missing", `{"sex":"male","activity_level":"moderate","goal":"maintain"}`, "age, weight, height"},
		{"age missing", `{"sex":"male","weight":70,"height":170,"activity_level":"moderate","goal":"maintain"}`, "age"},
		{"height null", `{"sex":"male","age":30,"weight":70,"height":null,"activity_level":"moderate","goal":"maintain"}`, "height"},
	}
	router := setupRouter(nutrition.Clamp)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/api/calculate", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var resp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}
			if !strings.Contains(resp.Error, "missing required fields: "+tc.want) {
				t.Errorf("error = %q, want it to name %q", resp.Error, tc.want)
			}
		})
	}
}

// TestProfileRequest_ExplicitZeroIsClamped verifies a zero that was actually
// sent is treated as an out-of-range value, not as a missing one.
func TestProfileRequest_ExplicitZeroIsClamped(t *testing.T) {
	router := setupRouter(nutrition.Clamp)

	w := doRequest(router, "POST", "/api/calculate",
		`{"sex":"male","age":30,"weight":0,"height":170,"activity_level":"moderate","goal":"maintain"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeCalculation(t, w)
	if !reflect.DeepEqual(resp.AdjustedFields, []string{"weight_kg"}) {
		t.Errorf("adjusted_fields = %v, want [weight_kg]", resp.AdjustedFields)
	}
}

/* ─── GET /api/options ───────────────────────────────────────────────── */

// TestGetOptions verifies the closed sets, their multipliers and policies, and
// the active range policy are exposed for the client's pickers.
func TestGetOptions(t *testing.T) {
	router := setupRouter(nutrition.Reject)

	w := doRequest(router, "GET", "/api/options", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		ActivityLevels []activityOption `json:"activity_levels"`
		Goals          []struct {
			Value         string  `json:"value"`
			CalorieFactor float64 `json:"calorie_factor"`
			ProteinPerKg  float64 `json:"protein_g_per_kg"`
		} `json:"goals"`
		RangePolicy string `json:"range_policy"`
		Ranges      map[string]nutrition.Range
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(resp.ActivityLevels) != 5 || resp.ActivityLevels[4].Multiplier != 1.9 {
		t.Errorf("unexpected activity levels: %+v", resp.ActivityLevels)
	}
	if len(resp.Goals) != 3 || resp.Goals[0].Value != "lose_weight" || resp.Goals[0].ProteinPerKg != 2.2 {
		t.Errorf("unexpected goals: %+v", resp.Goals)
	}
	if resp.RangePolicy != "reject" {
		t.Errorf("range_policy = %q, want reject", resp.RangePolicy)
	}
	if resp.Ranges["age"] != nutrition.AgeRange {
		t.Errorf("age range = %+v", resp.Ranges["age"])
	}
}
