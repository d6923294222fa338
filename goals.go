package main

import "math"

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used for
// input validation in patchProfile.
var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
}

// Defaults substituted for missing profile fields so estimateGoals is total:
// it never fails and never produces a non-positive kcal target for sane input.
const (
	defaultWeightKG   = 70
	defaultHeightCM   = 170
	defaultAge        = 30
	defaultMultiplier = 1.55 // moderate; also used for unrecognized levels
)

// estimateGoals derives a daily calorie and macro target from a body profile.
//
// BMR uses Mifflin-St Jeor with a single non-gendered +5 constant. The macro
// split ordering is deliberate policy, not derivable: protein comes from
// bodyweight (1.6 g/kg) when weight is known, fat takes 25% of calories, and
// carbs fill whatever calories remain. There is no single correct split; this
// one is authoritative for the whole system so that planned goals and
// back-filled log entries share the same mix.
func estimateGoals(p userProfile) goals {
	weight := float64(defaultWeightKG)
	weightKnown := false
	if p.WeightKG != nil {
		weight = *p.WeightKG
		weightKnown = true
	}
	height := float64(defaultHeightCM)
	if p.HeightCM != nil {
		height = *p.HeightCM
	}
	age := defaultAge
	if p.Age != nil {
		age = *p.Age
	}

	bmr := 10*weight + 6.25*height - 5*float64(age) + 5

	mult := float64(defaultMultiplier)
	if p.ActivityLevel != nil {
		if m, ok := activityMultipliers[*p.ActivityLevel]; ok {
			mult = m
		}
	}
	kcal := int(math.Round(bmr * mult))

	var proteinG int
	if weightKnown {
		proteinG = int(math.Round(weight * 1.6))
	} else {
		proteinG = int(math.Round(float64(kcal) * 0.25 / 4))
	}
	fatG := int(math.Round(float64(kcal) * 0.25 / 9))

	// Carbs take the calories left after protein and fat. A huge bodyweight
	// relative to kcal can make the remainder non-positive; fall back to a
	// flat 45% so carbs are never negative or absurdly small.
	carbsG := int(math.Round(float64(kcal) * 0.45 / 4))
	if remainder := float64(kcal) - float64(proteinG)*4 - float64(fatG)*9; remainder > 0 {
		carbsG = int(math.Round(remainder / 4))
	}

	return goals{Kcal: kcal, ProteinG: proteinG, CarbsG: carbsG, FatG: fatG}
}

// calorieShares returns each macro's fraction of the goal's calories.
// Protein and fat shares are taken directly against the kcal target; carbs
// get the remaining fraction, matching the "carbs fill the remainder"
// decomposition basis. Degenerate goals (kcal <= 0) fall back to the goals
// of an empty profile so callers always get a usable split.
func (g goals) calorieShares() (protein, carbs, fat float64) {
	if g.Kcal <= 0 {
		return estimateGoals(userProfile{}).calorieShares()
	}
	protein = float64(g.ProteinG) * 4 / float64(g.Kcal)
	fat = float64(g.FatG) * 9 / float64(g.Kcal)
	carbs = 1 - protein - fat
	if carbs < 0 {
		carbs = 0
	}
	return protein, carbs, fat
}
