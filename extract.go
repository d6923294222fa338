package main

import (
	"math"
	"regexp"
	"strconv"
)

// Patterns for pulling nutrition quantities out of free text (user messages
// or assistant replies). A gram quantity is only assigned to a macro when a
// protein/carb/fat keyword sits adjacent to it, in either order — a bare
// "40g" is ambiguous and would otherwise feed all three fields the same
// number, so it is ignored.
var (
	kcalPattern = regexp.MustCompile(`(?i)\b(\d{2,5})\s*kcal\b`)

	proteinGramsNum = regexp.MustCompile(`(?i)\b(\d{1,4})\s*g(?:rams?)?\s*(?:of\s+)?protein\b`)
	proteinGramsKey = regexp.MustCompile(`(?i)\bprotein[:\s]\s*(\d{1,4})\s*g\b`)
	carbGramsNum    = regexp.MustCompile(`(?i)\b(\d{1,4})\s*g(?:rams?)?\s*(?:of\s+)?carb(?:s|ohydrates?)?\b`)
	carbGramsKey    = regexp.MustCompile(`(?i)\bcarb(?:s|ohydrates?)?[:\s]\s*(\d{1,4})\s*g\b`)
	fatGramsNum     = regexp.MustCompile(`(?i)\b(\d{1,4})\s*g(?:rams?)?\s*(?:of\s+)?fats?\b`)
	fatGramsKey     = regexp.MustCompile(`(?i)\bfats?[:\s]\s*(\d{1,4})\s*g\b`)
)

// firstNumber returns the first captured integer in text as a float64.
func firstNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// matchGrams tries the number-first form ("30g protein") then the
// keyword-first form ("protein: 30g").
func matchGrams(text string, numFirst, keyFirst *regexp.Regexp) (float64, bool) {
	if v, ok := firstNumber(numFirst, text); ok {
		return v, true
	}
	return firstNumber(keyFirst, text)
}

// extractNutrients parses one text span into a fully-populated nutrient
// record, inferring whatever the text leaves unstated from the macro mix
// implied by the supplied goals. Returns nil only when the text contains no
// recognizable nutrition pattern at all — "nothing to log", not a fault.
//
// Inference policy, in order:
//   - calories stated, no macros: split kcal by the goal's calorie shares
//     (carbs absorb the remainder so the breakdown sums back to kcal);
//   - macros stated, no calories: kcal = protein*4 + carbs*4 + fat*9 with
//     unstated macros counted as zero (and left at zero — nothing is
//     fabricated beyond that sum);
//   - calories plus some macros: the calories not accounted for by the
//     stated macros are spread across the missing ones in proportion to
//     their goal shares, renormalized over the missing set only. The final
//     macro calories therefore never exceed the stated kcal.
//
// This back-fill is deliberately a separate policy from the goal split in
// estimateGoals; the two share only the goals value so either can change
// without breaking the other.
func extractNutrients(text string, g goals) *nutrientRecord {
	kcal, kcalOK := firstNumber(kcalPattern, text)
	protein, proteinOK := matchGrams(text, proteinGramsNum, proteinGramsKey)
	carbs, carbsOK := matchGrams(text, carbGramsNum, carbGramsKey)
	fat, fatOK := matchGrams(text, fatGramsNum, fatGramsKey)

	if !kcalOK && !proteinOK && !carbsOK && !fatOK {
		return nil
	}

	proteinShare, carbShare, fatShare := g.calorieShares()

	if kcalOK && !proteinOK && !carbsOK && !fatOK {
		proteinCal := kcal * proteinShare
		fatCal := kcal * fatShare
		carbCal := kcal - proteinCal - fatCal
		if carbCal < 0 {
			carbCal = 0
		}
		return roundedRecord(kcal, proteinCal/4, carbCal/4, fatCal/9)
	}

	if !kcalOK {
		kcal = 0
		if proteinOK {
			kcal += protein * 4
		}
		if carbsOK {
			kcal += carbs * 4
		}
		if fatOK {
			kcal += fat * 9
		}
	}

	var used float64
	if proteinOK {
		used += protein * 4
	}
	if carbsOK {
		used += carbs * 4
	}
	if fatOK {
		used += fat * 9
	}
	remaining := kcal - used
	if remaining < 0 {
		remaining = 0
	}

	var missingShare float64
	missing := 0
	if !proteinOK {
		missingShare += proteinShare
		missing++
	}
	if !carbsOK {
		missingShare += carbShare
		missing++
	}
	if !fatOK {
		missingShare += fatShare
		missing++
	}

	if missing > 0 {
		// Renormalize the goal shares over just the missing macros. If those
		// shares sum to zero (degenerate goals) split the remainder evenly
		// rather than dropping it.
		shareOf := func(s float64) float64 {
			if missingShare > 0 {
				return s / missingShare
			}
			return 1 / float64(missing)
		}
		if !proteinOK {
			protein = remaining * shareOf(proteinShare) / 4
		}
		if !carbsOK {
			carbs = remaining * shareOf(carbShare) / 4
		}
		if !fatOK {
			fat = remaining * shareOf(fatShare) / 9
		}
	}

	return roundedRecord(kcal, protein, carbs, fat)
}

// roundedRecord rounds every field to the nearest whole unit and clamps
// negatives to zero. No partially-populated record ever leaves the extractor.
func roundedRecord(kcal, protein, carbs, fat float64) *nutrientRecord {
	clamp := func(v float64) int {
		if v < 0 {
			return 0
		}
		return int(math.Round(v))
	}
	return &nutrientRecord{
		Kcal:     clamp(kcal),
		ProteinG: clamp(protein),
		CarbsG:   clamp(carbs),
		FatG:     clamp(fat),
	}
}
