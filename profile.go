package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getProfile returns the user's nutrition profile together with the goals
// currently in effect (stored override, or a fresh estimate when goals_auto).
// GET /api/nutrition/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[nutritionProfile](h.db, c,
		"SELECT * FROM nutrition_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": p, "goals": p.effectiveGoals()})
}

// getGoals returns just the effective goals for the authenticated user.
// GET /api/nutrition/goals.
func (h *Handler) getGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[nutritionProfile](h.db, c,
		"SELECT * FROM nutrition_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	c.JSON(http.StatusOK, p.effectiveGoals())
}

// patchProfile updates only the provided profile fields.
// PATCH /api/nutrition/profile. Uses pointer fields in the request body to
// distinguish "not provided" from zero — only non-nil fields get updated.
// Writing any goal target flips goals_auto off: an explicit override must not
// be silently recomputed afterwards. While goals_auto is on, the stored
// targets are refreshed from the body profile after every patch so they track
// weight/height/age/activity changes.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate activity_level before saving — an unknown level would silently
	// fall back to the moderate multiplier with no visible error.
	if body.ActivityLevel != nil {
		if _, ok := activityMultipliers[*body.ActivityLevel]; !ok {
			apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active")
			return
		}
	}

	// Build SET clause dynamically — only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if body.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *body.WeightKG
	}
	if body.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *body.HeightCM
	}
	if body.Age != nil {
		setClauses = append(setClauses, "age = @age")
		args["age"] = *body.Age
	}
	if body.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = *body.ActivityLevel
	}
	if body.KcalTarget != nil {
		setClauses = append(setClauses, "kcal_target = @kcalTarget")
		args["kcalTarget"] = *body.KcalTarget
	}
	if body.ProteinTargetG != nil {
		setClauses = append(setClauses, "protein_target_g = @proteinTargetG")
		args["proteinTargetG"] = *body.ProteinTargetG
	}
	if body.CarbsTargetG != nil {
		setClauses = append(setClauses, "carbs_target_g = @carbsTargetG")
		args["carbsTargetG"] = *body.CarbsTargetG
	}
	if body.FatTargetG != nil {
		setClauses = append(setClauses, "fat_target_g = @fatTargetG")
		args["fatTargetG"] = *body.FatTargetG
	}
	if body.SetupComplete != nil {
		setClauses = append(setClauses, "setup_complete = @setupComplete")
		args["setupComplete"] = *body.SetupComplete
	}

	// Sending a goal target is an explicit override.
	if body.KcalTarget != nil || body.ProteinTargetG != nil ||
		body.CarbsTargetG != nil || body.FatTargetG != nil {
		setClauses = append(setClauses, "goals_auto = FALSE")
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE nutrition_profiles SET " +
		strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"

	p, err := queryOne[nutritionProfile](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	// While goals are auto, persist the re-estimated targets so other readers
	// (log back-fill, chat prompt) see the same numbers.
	if p.GoalsAuto {
		if updated, err := h.persistEstimatedGoals(c, &p); err != nil {
			log.Printf("[patchProfile] goal refresh failed for user %d: %v", userID, err)
		} else {
			p = *updated
		}
	}

	c.JSON(http.StatusOK, gin.H{"profile": p, "goals": p.effectiveGoals()})
}

// reEstimateGoals discards a manual override and recomputes targets from the
// body profile. POST /api/nutrition/goals/re-estimate. This is the only way
// back to auto goals once the user has overridden them.
func (h *Handler) reEstimateGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[nutritionProfile](h.db, c,
		"UPDATE nutrition_profiles SET goals_auto = TRUE WHERE user_id = @userID RETURNING *",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	updated, err := h.persistEstimatedGoals(c, &p)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save goals")
		return
	}

	c.JSON(http.StatusOK, updated.effectiveGoals())
}

// persistEstimatedGoals recomputes goals from the row's body profile and
// writes the four targets back, returning the updated row.
func (h *Handler) persistEstimatedGoals(c *gin.Context, p *nutritionProfile) (*nutritionProfile, error) {
	g := estimateGoals(p.bodyProfile())
	updated, err := queryOne[nutritionProfile](h.db, c,
		`UPDATE nutrition_profiles SET
			kcal_target      = @kcal,
			protein_target_g = @proteinG,
			carbs_target_g   = @carbsG,
			fat_target_g     = @fatG
		 WHERE user_id = @userID RETURNING *`,
		pgx.NamedArgs{
			"kcal": g.Kcal, "proteinG": g.ProteinG,
			"carbsG": g.CarbsG, "fatG": g.FatG,
			"userID": p.UserID,
		})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
