// Package clarify turns ambiguity factors into at most two targeted
// clarification questions, each with a finite option set and a safe default.
package clarify

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ziadkadry99/uire/internal/detect"
)

// MaxQuestions caps how many clarifications a single call may return.
const MaxQuestions = 2

// Option is one selectable answer to a clarification question.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Question is a single-choice clarification prompt.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []Option `json:"options"`
	Default  string   `json:"default"`
}

// Policy decides which clarification questions to ask for a query. The
// default implementation is the static rule table below; a learned policy
// could be swapped in behind the same interface.
type Policy interface {
	Generate(query string, factors []detect.Factor) []Question
}

// template is a question body without an ID.
type template struct {
	question string
	options  []Option
	def      string
}

// questionTable maps each factor to its fixed question. Factors without an
// entry (empty_query, referent_missing, anything unrecognized) produce no
// question and do not consume a slot.
var questionTable = map[detect.Factor]template{
	detect.FactorCriteriaMissing: {
		question: "What matters most?",
		options: []Option{
			{ID: "fees", Label: "Lowest fees"},
			{ID: "speed", Label: "Fast process"},
			{ID: "trust", Label: "High trust/brand"},
		},
		def: "fees",
	},
	detect.FactorRegionMissing: {
		question: "Which region?",
		options: []Option{
			{ID: "IN", Label: "India"},
			{ID: "US", Label: "United States"},
			{ID: "EU", Label: "Europe"},
		},
		def: "IN",
	},
	detect.FactorAudienceMissing: {
		question: "Who is the audience?",
		options: []Option{
			{ID: "simple", Label: "Layperson"},
			{ID: "expert", Label: "Expert"},
			{ID: "kids", Label: "Kids"},
		},
		def: "simple",
	},
	detect.FactorLengthMissing: {
		question: "Preferred length?",
		options: []Option{
			{ID: "short", Label: "~150 words"},
			{ID: "medium", Label: "~300 words"},
			{ID: "long", Label: "~600 words"},
		},
		def: "short",
	},
	detect.FactorLanguageMissing: {
		question: "Target language?",
		options: []Option{
			{ID: "EN", Label: "English"},
			{ID: "HI", Label: "Hindi"},
			{ID: "ES", Label: "Spanish"},
			{ID: "UR", Label: "Urdu"},
		},
		def: "EN",
	},
}

// IDFunc supplies opaque question identifiers. IDs are unique per call and
// carry no meaning across calls.
type IDFunc func() string

// Generator is the rule-table Policy.
type Generator struct {
	newID IDFunc
}

// New returns a Generator using random question IDs.
func New() *Generator {
	return &Generator{newID: randomID}
}

// NewWithIDs returns a Generator with a caller-supplied ID source.
func NewWithIDs(fn IDFunc) *Generator {
	return &Generator{newID: fn}
}

// Generate walks the factors in input order, emits a question for each
// mapped factor, and stops once MaxQuestions have been produced.
func (g *Generator) Generate(query string, factors []detect.Factor) []Question {
	var qs []Question
	for _, f := range factors {
		tpl, ok := questionTable[f]
		if !ok {
			continue
		}
		qs = append(qs, Question{
			ID:       g.newID(),
			Question: tpl.question,
			Type:     "single_choice",
			Options:  append([]Option(nil), tpl.options...),
			Default:  tpl.def,
		})
		if len(qs) == MaxQuestions {
			break
		}
	}
	return qs
}

func randomID() string {
	return "q" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
