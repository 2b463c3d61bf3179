package detect

import (
	"reflect"
	"testing"
)

func TestDetect_EmptyQuery(t *testing.T) {
	d := New()
	for _, q := range []string{"", "   ", "\t\n"} {
		res := d.Detect(q)
		if !res.Ambiguous {
			t.Errorf("Detect(%q).Ambiguous = false, want true", q)
		}
		if res.Score != 1.0 {
			t.Errorf("Detect(%q).Score = %v, want 1.0", q, res.Score)
		}
		if !reflect.DeepEqual(res.Factors, []Factor{FactorEmptyQuery}) {
			t.Errorf("Detect(%q).Factors = %v, want [empty_query]", q, res.Factors)
		}
	}
}

func TestDetect_CleanQuery(t *testing.T) {
	d := New()
	res := d.Detect("Open a savings account at my local branch")
	if res.Ambiguous {
		t.Errorf("expected unambiguous, got factors %v", res.Factors)
	}
	if res.Score != 0 {
		t.Errorf("Score = %v, want 0", res.Score)
	}
}

func TestDetect_RecommendScenario(t *testing.T) {
	d := New()
	res := d.Detect("Find me the best bank account")

	if !res.Ambiguous {
		t.Fatal("expected ambiguous")
	}
	if !hasFactor(res.Factors, FactorCriteriaMissing) {
		t.Errorf("expected criteria_missing in %v", res.Factors)
	}
	if !hasFactor(res.Factors, FactorRegionMissing) {
		t.Errorf("expected region_missing in %v", res.Factors)
	}
	if hasFactor(res.Factors, FactorAudienceMissing) {
		t.Errorf("audience_missing should not fire for %v", res.Factors)
	}
}

func TestDetect_SummarizeComplete(t *testing.T) {
	d := New()
	res := d.Detect("Summarize this document for experts in 300 words")

	if hasFactor(res.Factors, FactorAudienceMissing) {
		t.Errorf("audience phrase present, got %v", res.Factors)
	}
	if hasFactor(res.Factors, FactorLengthMissing) {
		t.Errorf("length phrase present, got %v", res.Factors)
	}
	// "document" anchors the pronoun.
	if hasFactor(res.Factors, FactorReferentMissing) {
		t.Errorf("referent is anchored, got %v", res.Factors)
	}
}

func TestDetect_SummarizeBare(t *testing.T) {
	d := New()
	res := d.Detect("Summarize the paper")

	if hasFactor(res.Factors, FactorReferentMissing) {
		t.Errorf("no pronoun in query, got %v", res.Factors)
	}
	if !hasFactor(res.Factors, FactorAudienceMissing) {
		t.Errorf("expected audience_missing in %v", res.Factors)
	}
	if !hasFactor(res.Factors, FactorLengthMissing) {
		t.Errorf("expected length_missing in %v", res.Factors)
	}
}

func TestDetect_ReferentMissing(t *testing.T) {
	d := New()
	res := d.Detect("Fix it please")
	if !hasFactor(res.Factors, FactorReferentMissing) {
		t.Errorf("expected referent_missing in %v", res.Factors)
	}
}

func TestDetect_TranslateLanguage(t *testing.T) {
	d := New()

	res := d.Detect("Translate the paragraph")
	if !hasFactor(res.Factors, FactorLanguageMissing) {
		t.Errorf("expected language_missing in %v", res.Factors)
	}

	res = d.Detect("Translate the paragraph into spanish")
	if hasFactor(res.Factors, FactorLanguageMissing) {
		t.Errorf("target language given, got %v", res.Factors)
	}
}

func TestDetect_ScoreBounds(t *testing.T) {
	d := New()
	queries := []string{
		"",
		"Find me the best bank account",
		"Summarize that",
		"translate this and recommend the best and cheapest thing",
		"hello world",
	}
	for _, q := range queries {
		res := d.Detect(q)
		if res.Score < 0 || res.Score > 1 {
			t.Errorf("Detect(%q).Score = %v out of [0,1]", q, res.Score)
		}
		if res.Ambiguous != (len(res.Factors) > 0) {
			t.Errorf("Detect(%q): ambiguous=%v but %d factors", q, res.Ambiguous, len(res.Factors))
		}
	}
}

func TestDetect_ScoreFormula(t *testing.T) {
	d := New()
	// One factor: 0.3 + 0.2 = 0.5.
	res := d.Detect("Fix it now")
	if len(res.Factors) != 1 {
		t.Fatalf("expected exactly one factor, got %v", res.Factors)
	}
	if res.Score != 0.5 {
		t.Errorf("Score = %v, want 0.5", res.Score)
	}
}

func TestDetect_Deterministic(t *testing.T) {
	d := New()
	q := "Find me the best bank account"
	first := d.Detect(q)
	for i := 0; i < 10; i++ {
		if got := d.Detect(q); !reflect.DeepEqual(got, first) {
			t.Fatalf("call %d: %+v != %+v", i, got, first)
		}
	}
}

func hasFactor(factors []Factor, want Factor) bool {
	for _, f := range factors {
		if f == want {
			return true
		}
	}
	return false
}
