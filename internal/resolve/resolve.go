// Package resolve merges stored preferences with clarification answers and
// the query itself into a structured, task-typed intent plus a rendered
// prompt string.
package resolve

import (
	"fmt"
	"regexp"
	"strings"
)

// Intent is the structured output of resolution.
type Intent struct {
	TaskType string `json:"task_type"`
	Criteria string `json:"criteria,omitempty"`
	Region   string `json:"region,omitempty"`
	Audience string `json:"audience,omitempty"`
	Length   string `json:"length,omitempty"`
	Language string `json:"language,omitempty"`
	Risk     string `json:"risk"`
}

// Result pairs the intent with its human-readable prompt.
type Result struct {
	Intent      Intent `json:"intent"`
	FinalPrompt string `json:"final_prompt"`
}

// Task types.
const (
	TaskGeneral   = "general"
	TaskTranslate = "translate"
	TaskSummarize = "summarize"
	TaskRecommend = "recommend"
)

// Risk tiers.
const (
	RiskLow  = "low"
	RiskHigh = "high"
)

// Slot names a typed intent field in the merged key/value map.
type Slot string

const (
	SlotCriteria Slot = "criteria"
	SlotRegion   Slot = "region"
	SlotAudience Slot = "audience"
	SlotLength   Slot = "length"
	SlotLanguage Slot = "language"
)

// legacyAliases maps slots to the positional answer keys older clients send
// (answers keyed by question order instead of slot name). Kept as an
// explicit compatibility table.
var legacyAliases = map[Slot]string{
	SlotCriteria: "q1",
	SlotRegion:   "q2",
	SlotLanguage: "q3",
}

// regionAliases normalizes spelled-out region names; anything else passes
// through uppercased.
var regionAliases = map[string]string{
	"IN":     "IN",
	"INDIA":  "IN",
	"US":     "US",
	"USA":    "US",
	"EU":     "EU",
	"EUROPE": "EU",
}

var summarizeRe = regexp.MustCompile(`\bsummar(ize|ise|y)\b`)

// highRiskKeywords trigger the high risk tier. Risk is derived from the
// query text only, never from answers.
var highRiskKeywords = []string{"medical", "finance", "legal"}

// lengthWords maps a length choice to the rendered word budget.
var lengthWords = map[string]string{
	"short":  "~150",
	"medium": "~300",
	"long":   "~600",
}

// criteriaLabels maps a criteria choice to its prompt phrase. Unmapped
// values pass through verbatim.
var criteriaLabels = map[string]string{
	"fees":  "lowest fees",
	"speed": "fast process",
	"trust": "high trust/brand",
}

// Resolver builds intents. Stateless and safe for concurrent use.
type Resolver struct{}

// New returns a Resolver.
func New() *Resolver { return &Resolver{} }

// Resolve overlays answers onto stored preferences (answers win), derives
// the task type and risk tier from the query, normalizes slot values and
// renders the task-specific prompt. Missing fields fall back to defaults;
// nothing here fails.
func (r *Resolver) Resolve(query string, answers, prefs map[string]string) Result {
	merged := make(map[string]string, len(prefs)+len(answers))
	for k, v := range prefs {
		merged[k] = v
	}
	for k, v := range answers {
		merged[k] = v
	}

	task := InferTask(query)

	region := lookup(merged, SlotRegion)
	if region != "" {
		region = normalizeRegion(region)
	}

	intent := Intent{
		TaskType: task,
		Criteria: lookup(merged, SlotCriteria),
		Region:   region,
		Audience: lookup(merged, SlotAudience),
		Length:   lookup(merged, SlotLength),
		Language: lookup(merged, SlotLanguage),
		Risk:     RiskTier(query),
	}

	return Result{Intent: intent, FinalPrompt: renderPrompt(query, intent)}
}

// InferTask classifies the query by keyword, independent of any answers.
func InferTask(query string) string {
	q := strings.ToLower(query)
	if strings.Contains(q, "translate") {
		return TaskTranslate
	}
	if summarizeRe.MatchString(q) {
		return TaskSummarize
	}
	for _, k := range []string{"best", "recommend", "suggest"} {
		if strings.Contains(q, k) {
			return TaskRecommend
		}
	}
	return TaskGeneral
}

// RiskTier returns "high" when the query touches a sensitive domain.
func RiskTier(query string) string {
	q := strings.ToLower(query)
	for _, k := range highRiskKeywords {
		if strings.Contains(q, k) {
			return RiskHigh
		}
	}
	return RiskLow
}

// lookup reads a slot from the merged map, falling back to its legacy
// positional alias. Empty values count as absent.
func lookup(merged map[string]string, slot Slot) string {
	if v := merged[string(slot)]; v != "" {
		return v
	}
	if alias, ok := legacyAliases[slot]; ok {
		return merged[alias]
	}
	return ""
}

func normalizeRegion(region string) string {
	up := strings.ToUpper(region)
	if norm, ok := regionAliases[up]; ok {
		return norm
	}
	return up
}

func renderPrompt(query string, intent Intent) string {
	switch intent.TaskType {
	case TaskSummarize:
		aud := intent.Audience
		if aud == "" {
			aud = "simple"
		}
		words, ok := lengthWords[intent.Length]
		if !ok {
			words = lengthWords["short"]
		}
		return fmt.Sprintf("Summarize the provided content for a %s audience in %s words with citations.", aud, words)
	case TaskTranslate:
		lang := intent.Language
		if lang == "" {
			lang = "EN"
		}
		return fmt.Sprintf("Translate the provided text into %s with natural tone and preserve formatting.", strings.ToUpper(lang))
	case TaskRecommend:
		criteria := intent.Criteria
		if criteria == "" {
			criteria = "fees"
		}
		label, ok := criteriaLabels[criteria]
		if !ok {
			label = criteria
		}
		region := intent.Region
		if region == "" {
			region = "IN"
		}
		return fmt.Sprintf("Recommend suitable options in %s optimised for %s. Explain trade-offs and assumptions.", region, label)
	default:
		return query
	}
}
