// Package detect implements the lexical ambiguity detector. It scores a
// raw natural-language query and tags the reasons it is underspecified.
// The rules are fixed keyword lists and regular expressions; there is no
// model and no runtime adaptation.
package detect

import (
	"math"
	"regexp"
	"strings"
)

// Factor tags a single reason a query is considered underspecified.
type Factor string

const (
	FactorEmptyQuery      Factor = "empty_query"
	FactorCriteriaMissing Factor = "criteria_missing"
	FactorReferentMissing Factor = "referent_missing"
	FactorAudienceMissing Factor = "audience_missing"
	FactorLengthMissing   Factor = "length_missing"
	FactorLanguageMissing Factor = "language_missing"
	FactorRegionMissing   Factor = "region_missing"
)

// Result is the detector's verdict for one query.
type Result struct {
	Ambiguous bool     `json:"ambiguous"`
	Score     float64  `json:"score"`
	Factors   []Factor `json:"factors"`
}

// Generic superlatives that suggest the decision criteria were left out.
var vagueTerms = []string{"best", "cheapest", "fastest", "quickest", "ideal", "perfect"}

// Regions a query can name to satisfy the recommendation rule.
var regionTerms = []string{"india", "us", "usa", "europe", "eu", "uk", "canada"}

var (
	pronounRe   = regexp.MustCompile(`\b(this|that|these|those|it|they)\b`)
	anchorRe    = regexp.MustCompile(`\b(file|document|text|paragraph|image|content|paper)\b`)
	summarizeRe = regexp.MustCompile(`\bsummar(ize|ise|y)\b`)
	audienceRe  = regexp.MustCompile(`for\s+(kids|children|adults|experts|beginners)`)
	lengthRe    = regexp.MustCompile(`\b(short|brief|medium|long|~?\d+ words?)\b`)
	languageRe  = regexp.MustCompile(`to\s+[a-z]+|into\s+[a-z]+`)
	recommendRe = regexp.MustCompile(`\b(recommend|best|suggest)\b`)
)

// Detector evaluates the fixed rule set. It is stateless and safe for
// concurrent use.
type Detector struct{}

// New returns a Detector.
func New() *Detector { return &Detector{} }

// Detect normalizes the query and evaluates each rule in a fixed order.
// An empty query short-circuits to the maximal score. Otherwise the score
// is 0.3 + 0.2 per factor, capped at 1.0 and rounded to two decimals.
func (d *Detector) Detect(query string) Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Result{Ambiguous: true, Score: 1.0, Factors: []Factor{FactorEmptyQuery}}
	}

	var factors []Factor

	if containsAny(q, vagueTerms) {
		factors = append(factors, FactorCriteriaMissing)
	}

	// A pronoun with no anchoring noun leaves the referent unresolved.
	if pronounRe.MatchString(q) && !anchorRe.MatchString(q) {
		factors = append(factors, FactorReferentMissing)
	}

	// Summarization tasks usually need an audience and a target length.
	if summarizeRe.MatchString(q) {
		if !audienceRe.MatchString(q) {
			factors = append(factors, FactorAudienceMissing)
		}
		if !lengthRe.MatchString(q) {
			factors = append(factors, FactorLengthMissing)
		}
	}

	if strings.Contains(q, "translate") && !languageRe.MatchString(q) {
		factors = append(factors, FactorLanguageMissing)
	}

	if recommendRe.MatchString(q) && !containsAny(q, regionTerms) {
		factors = append(factors, FactorRegionMissing)
	}

	factors = dedupe(factors)
	if len(factors) == 0 {
		return Result{Ambiguous: false, Score: 0, Factors: nil}
	}

	score := math.Min(1.0, 0.3+0.2*float64(len(factors)))
	score = math.Round(score*100) / 100

	return Result{Ambiguous: true, Score: score, Factors: factors}
}

func containsAny(q string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

// dedupe removes repeated factors, keeping first-seen order.
func dedupe(factors []Factor) []Factor {
	seen := make(map[Factor]bool, len(factors))
	out := factors[:0]
	for _, f := range factors {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
