package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Engine value types ─────────────────────────────────────────────── */

// userProfile is the body-profile snapshot the goal estimator consumes.
// All fields are optional; estimateGoals substitutes documented defaults
// for anything missing, so a zero-value profile is still valid input.
type userProfile struct {
	WeightKG      *float64 `json:"weight_kg"`
	HeightCM      *float64 `json:"height_cm"`
	Age           *int     `json:"age"`
	ActivityLevel *string  `json:"activity_level"`
}

// goals is a daily calorie target decomposed into macro gram targets.
// The decomposition basis is proteinG*4 + fatG*9 <= kcal, with carbs
// filling the remainder. All values are whole units.
type goals struct {
	Kcal     int `json:"kcal"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// nutrientRecord is one extracted nutrition quantity, fully populated
// (no partial records leave the extractor) and rounded to whole units.
// It is transient: it exists only to be folded into a dailyLog.
type nutrientRecord struct {
	Kcal     int `json:"kcal"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// dailyLog holds the running totals for one calendar day. DateKey is the
// local-timezone date ("2025-06-01"); a log whose DateKey is not today is
// stale and must be treated as zero by the aggregator.
type dailyLog struct {
	DateKey  string `json:"date"`
	Kcal     int    `json:"kcal"`
	ProteinG int    `json:"protein_g"`
	CarbsG   int    `json:"carbs_g"`
	FatG     int    `json:"fat_g"`
}

/* ─── Database row structs ───────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// nutritionProfile maps to nutrition_profiles. One row per user holding the
// body profile plus the persisted goal targets. GoalsAuto distinguishes
// estimated targets (kept in sync with the profile) from a user override
// (never silently recomputed).
type nutritionProfile struct {
	UserID        int      `json:"user_id"        db:"user_id"`
	WeightKG      *float64 `json:"weight_kg"      db:"weight_kg"`
	HeightCM      *float64 `json:"height_cm"      db:"height_cm"`
	Age           *int     `json:"age"            db:"age"`
	ActivityLevel *string  `json:"activity_level" db:"activity_level"`

	GoalsAuto      bool `json:"goals_auto"       db:"goals_auto"`
	KcalTarget     int  `json:"kcal_target"      db:"kcal_target"`
	ProteinTargetG int  `json:"protein_target_g" db:"protein_target_g"`
	CarbsTargetG   int  `json:"carbs_target_g"   db:"carbs_target_g"`
	FatTargetG     int  `json:"fat_target_g"     db:"fat_target_g"`
	SetupComplete  bool `json:"setup_complete"   db:"setup_complete"`
}

// bodyProfile returns the engine-facing snapshot of the row.
func (p *nutritionProfile) bodyProfile() userProfile {
	return userProfile{
		WeightKG:      p.WeightKG,
		HeightCM:      p.HeightCM,
		Age:           p.Age,
		ActivityLevel: p.ActivityLevel,
	}
}

// effectiveGoals returns the goals the rest of the system should use:
// the stored override when the user has set one, otherwise a fresh
// estimate from the current body profile.
func (p *nutritionProfile) effectiveGoals() goals {
	if !p.GoalsAuto && p.KcalTarget > 0 {
		return goals{
			Kcal:     p.KcalTarget,
			ProteinG: p.ProteinTargetG,
			CarbsG:   p.CarbsTargetG,
			FatG:     p.FatTargetG,
		}
	}
	return estimateGoals(p.bodyProfile())
}

// dailyLogRow maps to nutrition_daily_logs. One row per (user, date);
// rollover never mutates stale rows — they are the archive.
type dailyLogRow struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	Kcal      int        `json:"kcal" db:"kcal"`
	ProteinG  int        `json:"protein_g" db:"protein_g"`
	CarbsG    int        `json:"carbs_g" db:"carbs_g"`
	FatG      int        `json:"fat_g" db:"fat_g"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// toLog converts a stored row into the engine's dailyLog value.
func (r *dailyLogRow) toLog() dailyLog {
	return dailyLog{
		DateKey:  r.Date.Time.Format("2006-01-02"),
		Kcal:     r.Kcal,
		ProteinG: r.ProteinG,
		CarbsG:   r.CarbsG,
		FatG:     r.FatG,
	}
}

// weightEntry maps to weight_log. One weigh-in per (user, date).
type weightEntry struct {
	ID       int      `json:"id" db:"id"`
	UserID   int      `json:"user_id" db:"user_id"`
	Date     DateOnly `json:"date" db:"date"`
	WeightKG float64  `json:"weight_kg" db:"weight_kg"`
}

/* ─── Request / response bodies ──────────────────────────────────────── */

// patchProfileRequest is the request body for PATCH /api/nutrition/profile.
// All fields are pointers — only non-nil fields get written to the database.
// Writing any of the four goal targets turns goals_auto off (explicit override).
type patchProfileRequest struct {
	WeightKG      *float64 `json:"weight_kg"`
	HeightCM      *float64 `json:"height_cm"`
	Age           *int     `json:"age"`
	ActivityLevel *string  `json:"activity_level"`

	KcalTarget     *int  `json:"kcal_target"`
	ProteinTargetG *int  `json:"protein_target_g"`
	CarbsTargetG   *int  `json:"carbs_target_g"`
	FatTargetG     *int  `json:"fat_target_g"`
	SetupComplete  *bool `json:"setup_complete"`
}

// logTextRequest is the request body for POST /api/nutrition/log.
type logTextRequest struct {
	Text string `json:"text"`
}

// logResponse pairs the updated daily log with the record that was just
// folded into it, so the client can show "added X kcal" feedback.
type logResponse struct {
	Log    dailyLog       `json:"log"`
	Record nutrientRecord `json:"record"`
}

// chatRequest is the request body for POST /api/chat. When Log is true a
// successfully extracted record is folded into today's log immediately.
type chatRequest struct {
	Message string `json:"message"`
	Log     bool   `json:"log"`
}

// chatResponse carries the assistant reply plus whatever the extractor
// found in the exchange. Record is nil when neither side of the exchange
// contained a recognizable nutrition pattern.
type chatResponse struct {
	Reply  string          `json:"reply"`
	Record *nutrientRecord `json:"record,omitempty"`
	Log    *dailyLog       `json:"log,omitempty"`
}
