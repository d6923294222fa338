package main

import "testing"

// goalsFixture is the reference target mix used across extractor tests:
// protein share 600/2000 = 0.30, fat share 504/2000 = 0.252, carbs take the
// remaining 0.448.
var goalsFixture = goals{Kcal: 2000, ProteinG: 150, CarbsG: 200, FatG: 56}

/* ─── No-data outcomes ───────────────────────────────────────────────── */

// TestExtractNutrients_NoData verifies the nil ("nothing to log") outcome for
// text with no recognizable nutrition pattern. A bare gram figure with no
// adjacent macro keyword is deliberately ignored — without a keyword it could
// be any of the three macros.
func TestExtractNutrients_NoData(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"plain chat", "what should I eat for dinner?"},
		{"empty", ""},
		{"bare grams no keyword", "I had about 40g of it"},
		{"number without unit", "I walked 10000 steps today"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := extractNutrients(tc.text, goalsFixture); rec != nil {
				t.Errorf("extractNutrients(%q) = %+v, want nil", tc.text, rec)
			}
		})
	}
}

/* ─── Inference from calories only ───────────────────────────────────── */

// TestExtractNutrients_CaloriesOnly verifies the goal-share split when only
// calories are stated: 420 kcal at shares 0.30/0.448/0.252 gives
// protein = 420*0.30/4 = 31.5 → 32g, fat = 420*0.252/9 = 11.76 → 12g, and
// carbs absorb the remaining calories: (420-126-105.84)/4 = 47.04 → 47g.
func TestExtractNutrients_CaloriesOnly(t *testing.T) {
	rec := extractNutrients("grabbed a pastry, maybe 420 kcal", goalsFixture)
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	want := nutrientRecord{Kcal: 420, ProteinG: 32, CarbsG: 47, FatG: 12}
	if *rec != want {
		t.Errorf("record = %+v, want %+v", *rec, want)
	}
}

/* ─── Inference from macros only ─────────────────────────────────────── */

// TestExtractNutrients_ProteinOnly verifies that a lone macro derives
// calories (30*4 = 120) and that the other macros stay at zero: the derived
// 120 kcal is fully accounted for by the stated protein, so there is nothing
// left to back-fill — unstated macros are never fabricated.
func TestExtractNutrients_ProteinOnly(t *testing.T) {
	rec := extractNutrients("post-workout shake with 30g protein", goalsFixture)
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	want := nutrientRecord{Kcal: 120, ProteinG: 30, CarbsG: 0, FatG: 0}
	if *rec != want {
		t.Errorf("record = %+v, want %+v", *rec, want)
	}
}

// TestExtractNutrients_TwoMacrosNoCalories verifies the kcal sum over several
// stated macros: 20g carbs + 10g fat = 80 + 90 = 170 kcal, protein zero.
func TestExtractNutrients_TwoMacrosNoCalories(t *testing.T) {
	rec := extractNutrients("a handful of crisps, 20g carbs and 10g fat", goalsFixture)
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	want := nutrientRecord{Kcal: 170, ProteinG: 0, CarbsG: 20, FatG: 10}
	if *rec != want {
		t.Errorf("record = %+v, want %+v", *rec, want)
	}
}

/* ─── Partial back-fill ──────────────────────────────────────────────── */

// TestExtractNutrients_PartialMacros verifies the renormalized back-fill:
// 500 kcal with 40g protein leaves 500-160 = 340 kcal for carbs and fat.
// Their goal shares (0.448 and 0.252) renormalize to 0.64/0.36, giving
// carbs = 340*0.64/4 = 54.4 → 54g and fat = 340*0.36/9 = 13.6 → 14g.
func TestExtractNutrients_PartialMacros(t *testing.T) {
	rec := extractNutrients("chicken bowl, 500 kcal, 40g protein", goalsFixture)
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	want := nutrientRecord{Kcal: 500, ProteinG: 40, CarbsG: 54, FatG: 14}
	if *rec != want {
		t.Errorf("record = %+v, want %+v", *rec, want)
	}
}

// TestExtractNutrients_MacrosExceedCalories verifies the clamp when stated
// macros already account for more than the stated calories: the remainder is
// zero, missing macros stay zero, and nothing goes negative.
func TestExtractNutrients_MacrosExceedCalories(t *testing.T) {
	rec := extractNutrients("10 kcal but 100g protein (typo)", goalsFixture)
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	want := nutrientRecord{Kcal: 10, ProteinG: 100, CarbsG: 0, FatG: 0}
	if *rec != want {
		t.Errorf("record = %+v, want %+v", *rec, want)
	}
}

/* ─── Fully stated input ─────────────────────────────────────────────── */

// TestExtractNutrients_AllStated verifies that fully specified text passes
// through with no inference at all.
func TestExtractNutrients_AllStated(t *testing.T) {
	rec := extractNutrients("burrito: 650 kcal, 35g protein, 60g carbs, 28g fat", goalsFixture)
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	want := nutrientRecord{Kcal: 650, ProteinG: 35, CarbsG: 60, FatG: 28}
	if *rec != want {
		t.Errorf("record = %+v, want %+v", *rec, want)
	}
}

/* ─── Pattern variants ───────────────────────────────────────────────── */

// TestExtractNutrients_KeywordFirst verifies the keyword-before-number form
// ("protein: 30g"). Both stated macros survive, calories sum to 300, and the
// missing fat gets nothing because the sum leaves no remainder.
func TestExtractNutrients_KeywordFirst(t *testing.T) {
	rec := extractNutrients("macros were protein: 30g, carbs: 45g", goalsFixture)
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	want := nutrientRecord{Kcal: 300, ProteinG: 30, CarbsG: 45, FatG: 0}
	if *rec != want {
		t.Errorf("record = %+v, want %+v", *rec, want)
	}
}

// TestExtractNutrients_CaseAndSpelling verifies case-insensitivity and the
// longer keyword spellings.
func TestExtractNutrients_CaseAndSpelling(t *testing.T) {
	rec := extractNutrients("Roughly 300 KCAL with 12 grams of Carbohydrates", goalsFixture)
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	if rec.Kcal != 300 {
		t.Errorf("kcal = %d, want 300", rec.Kcal)
	}
	if rec.CarbsG != 12 {
		t.Errorf("carbs = %d, want 12", rec.CarbsG)
	}
}

/* ─── Property tests ─────────────────────────────────────────────────── */

// TestExtractNutrients_Idempotent verifies that re-running extraction on the
// same inputs yields an identical record — no hidden randomness or clock.
func TestExtractNutrients_Idempotent(t *testing.T) {
	text := "dinner was 820 kcal with 45g protein"
	first := extractNutrients(text, goalsFixture)
	if first == nil {
		t.Fatal("expected a record, got nil")
	}
	for i := 0; i < 5; i++ {
		got := extractNutrients(text, goalsFixture)
		if got == nil || *got != *first {
			t.Fatalf("run %d returned %+v, first run returned %+v", i+2, got, first)
		}
	}
}

// TestExtractNutrients_ZeroGoalsDegrade verifies that degenerate goals fall
// back to the empty-profile split rather than dividing by zero. With the
// default mix (157/312/70 over 2507 kcal) a 400 kcal entry splits to
// 25g protein, 50g carbs, 11g fat.
func TestExtractNutrients_ZeroGoalsDegrade(t *testing.T) {
	rec := extractNutrients("snack, 400 kcal", goals{})
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	want := nutrientRecord{Kcal: 400, ProteinG: 25, CarbsG: 50, FatG: 11}
	if *rec != want {
		t.Errorf("record = %+v, want %+v", *rec, want)
	}
}

// TestExtractNutrients_NonNegativeFields sweeps assorted inputs and checks
// the invariant every caller relies on: nil or four non-negative fields.
func TestExtractNutrients_NonNegativeFields(t *testing.T) {
	texts := []string{
		"1 kcal",
		"999999 kcal has too many digits to match",
		"0g protein",
		"0 kcal",
		"5g fat 5g fat 5g fat",
		"protein 1g carbs 1g fat 1g",
	}
	for _, text := range texts {
		rec := extractNutrients(text, goalsFixture)
		if rec == nil {
			continue
		}
		if rec.Kcal < 0 || rec.ProteinG < 0 || rec.CarbsG < 0 || rec.FatG < 0 {
			t.Errorf("extractNutrients(%q) produced a negative field: %+v", text, rec)
		}
	}
}
