package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// latestLog fetches the most recent stored daily log for the user as an
// engine snapshot. Returns a zeroed log for today when the user has never
// logged anything (lazy creation — nothing is written until the first add).
func (h *Handler) latestLog(c *gin.Context, userID int, today string) (dailyLog, error) {
	row, err := queryOne[dailyLogRow](h.db, c,
		`SELECT * FROM nutrition_daily_logs
		 WHERE user_id = @userID
		 ORDER BY date DESC LIMIT 1`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resetLog(today), nil
		}
		return dailyLog{}, err
	}
	return row.toLog(), nil
}

// saveLog upserts the snapshot produced by the aggregator. Full replace of
// the day's totals: the engine already merged the record, so last write wins
// if two sessions race (reconciling that differently is a persistence-layer
// policy, not the engine's).
func (h *Handler) saveLog(c *gin.Context, userID int, l dailyLog) (dailyLog, error) {
	row, err := queryOne[dailyLogRow](h.db, c,
		`INSERT INTO nutrition_daily_logs (user_id, date, kcal, protein_g, carbs_g, fat_g)
		 VALUES (@userID, @date, @kcal, @proteinG, @carbsG, @fatG)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			kcal       = EXCLUDED.kcal,
			protein_g  = EXCLUDED.protein_g,
			carbs_g    = EXCLUDED.carbs_g,
			fat_g      = EXCLUDED.fat_g,
			updated_at = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": l.DateKey,
			"kcal": l.Kcal, "proteinG": l.ProteinG,
			"carbsG": l.CarbsG, "fatG": l.FatG,
		})
	if err != nil {
		return dailyLog{}, err
	}
	return row.toLog(), nil
}

// getDailyLog returns today's running totals. A stored log from a previous
// day is stale and reads as a fresh zeroed log; the stale row itself is left
// in place as the archive.
// GET /api/nutrition/log.
func (h *Handler) getDailyLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	today := todayKey()

	current, err := h.latestLog(c, userID, today)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch log")
		return
	}
	if current.DateKey != today {
		current = resetLog(today)
	}

	c.JSON(http.StatusOK, current)
}

// logFromText extracts nutrition quantities from a free-text span and folds
// them into today's log. POST /api/nutrition/log. Body: { "text": "..." }.
// When the text contains no recognizable pattern the response is 200 with
// {"error": "no_data_found"} — nothing to log is not a fault.
func (h *Handler) logFromText(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body logTextRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		apiError(c, http.StatusBadRequest, "text is required")
		return
	}

	p, err := queryOne[nutritionProfile](h.db, c,
		"SELECT * FROM nutrition_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	record := extractNutrients(body.Text, p.effectiveGoals())
	if record == nil {
		c.JSON(http.StatusOK, gin.H{"error": "no_data_found"})
		return
	}

	today := todayKey()
	current, err := h.latestLog(c, userID, today)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch log")
		return
	}

	updated, err := h.saveLog(c, userID, addToLog(current, *record, today))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save log")
		return
	}

	c.JSON(http.StatusOK, logResponse{Log: updated, Record: *record})
}

// resetDailyLog zeroes today's totals on explicit user request.
// POST /api/nutrition/log/reset.
func (h *Handler) resetDailyLog(c *gin.Context) {
	userID := c.GetInt("user_id")

	saved, err := h.saveLog(c, userID, resetLog(todayKey()))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to reset log")
		return
	}

	c.JSON(http.StatusOK, saved)
}

// getLogHistory returns archived day rows for an arbitrary date range.
// GET /api/nutrition/log/history?start=YYYY-MM-DD&end=YYYY-MM-DD. Both
// params required. Only days with stored rows are returned (no gap-filling —
// the frontend handles that).
func (h *Handler) getLogHistory(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	rows, err := queryMany[dailyLogRow](h.db, c,
		`SELECT * FROM nutrition_daily_logs
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch history")
		return
	}
	// Ensure empty array (not null) in JSON
	if rows == nil {
		rows = []dailyLogRow{}
	}

	c.JSON(http.StatusOK, rows)
}
