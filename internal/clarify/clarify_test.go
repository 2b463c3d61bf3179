package clarify

import (
	"fmt"
	"testing"

	"github.com/ziadkadry99/uire/internal/detect"
)

func sequentialIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("q%d", n)
	}
}

func TestGenerate_Empty(t *testing.T) {
	g := New()
	if qs := g.Generate("anything", nil); len(qs) != 0 {
		t.Errorf("expected no questions, got %d", len(qs))
	}
}

func TestGenerate_RecommendFactors(t *testing.T) {
	g := NewWithIDs(sequentialIDs())
	qs := g.Generate("Find me the best bank account", []detect.Factor{
		detect.FactorCriteriaMissing,
		detect.FactorRegionMissing,
	})

	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Question != "What matters most?" || qs[0].Default != "fees" {
		t.Errorf("first question = %q default %q", qs[0].Question, qs[0].Default)
	}
	if qs[1].Question != "Which region?" || qs[1].Default != "IN" {
		t.Errorf("second question = %q default %q", qs[1].Question, qs[1].Default)
	}
	if qs[0].ID == qs[1].ID {
		t.Error("question IDs must be unique within a call")
	}
}

func TestGenerate_CapAtTwo(t *testing.T) {
	g := New()
	qs := g.Generate("summarize it", []detect.Factor{
		detect.FactorAudienceMissing,
		detect.FactorLengthMissing,
		detect.FactorCriteriaMissing,
		detect.FactorRegionMissing,
	})
	if len(qs) != MaxQuestions {
		t.Fatalf("expected %d questions, got %d", MaxQuestions, len(qs))
	}
	if qs[0].Question != "Who is the audience?" {
		t.Errorf("questions must follow factor order, got %q first", qs[0].Question)
	}
}

func TestGenerate_UnmappedFactorsSkipped(t *testing.T) {
	g := New()
	qs := g.Generate("", []detect.Factor{
		detect.FactorEmptyQuery,
		detect.FactorReferentMissing,
		detect.Factor("made_up"),
		detect.FactorLanguageMissing,
	})
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
	if qs[0].Question != "Target language?" {
		t.Errorf("got %q", qs[0].Question)
	}
}

func TestGenerate_DefaultIsAnOption(t *testing.T) {
	g := New()
	all := []detect.Factor{
		detect.FactorCriteriaMissing,
		detect.FactorRegionMissing,
		detect.FactorAudienceMissing,
		detect.FactorLengthMissing,
		detect.FactorLanguageMissing,
	}
	// Two at a time so every template is exercised.
	for i := 0; i < len(all); i++ {
		qs := g.Generate("q", all[i:])
		for _, q := range qs {
			if len(q.Options) == 0 {
				t.Fatalf("%q has no options", q.Question)
			}
			found := false
			for _, o := range q.Options {
				if o.ID == q.Default {
					found = true
				}
			}
			if !found {
				t.Errorf("%q default %q not among options", q.Question, q.Default)
			}
			if q.Type != "single_choice" {
				t.Errorf("%q type = %q", q.Question, q.Type)
			}
		}
	}
}

func TestGenerator_ImplementsPolicy(t *testing.T) {
	var _ Policy = New()
}
