package morph

import "strings"

// Russian: dictionary-free fallback analyzer. It folds the most common
// Russian inflection suffixes back to a base form (verb past/present forms
// to the infinitive, plural and oblique noun cases to the stem). It is a
// stand-in for a full morphological dictionary behind the same interface.
type Russian struct{}

// NewRussian creates the default analyzer.
func NewRussian() *Russian { return &Russian{} }

// suffixRule rewrites a suffix when the remaining stem keeps enough body.
type suffixRule struct {
	suffix  string
	replace string
	minStem int // in runes, excluding the suffix
}

// Order matters: longest, most specific suffixes first.
var russianRules = []suffixRule{
	// reflexive verb past tense -> reflexive infinitive
	{suffix: "лись", replace: "ться", minStem: 3},
	{suffix: "лась", replace: "ться", minStem: 3},
	{suffix: "лось", replace: "ться", minStem: 3},
	{suffix: "лся", replace: "ться", minStem: 3},
	// verb past tense -> infinitive
	{suffix: "ла", replace: "ть", minStem: 3},
	{suffix: "ло", replace: "ть", minStem: 3},
	{suffix: "ли", replace: "ть", minStem: 3},
	// verb present tense (vowel-anchored to avoid mangling nouns)
	{suffix: "ует", replace: "овать", minStem: 3},
	{suffix: "уют", replace: "овать", minStem: 3},
	{suffix: "ает", replace: "ать", minStem: 3},
	{suffix: "ают", replace: "ать", minStem: 3},
	{suffix: "яет", replace: "ять", minStem: 3},
	{suffix: "яют", replace: "ять", minStem: 3},
	{suffix: "еет", replace: "еть", minStem: 3},
	{suffix: "еют", replace: "еть", minStem: 3},
	{suffix: "ишь", replace: "ить", minStem: 3},
	{suffix: "ешь", replace: "ать", minStem: 3},
	// adjective endings -> masculine nominative-ish stem
	{suffix: "ого", replace: "ый", minStem: 3},
	{suffix: "его", replace: "ий", minStem: 3},
	{suffix: "ому", replace: "ый", minStem: 3},
	{suffix: "ему", replace: "ий", minStem: 3},
	{suffix: "ыми", replace: "ый", minStem: 3},
	{suffix: "ими", replace: "ий", minStem: 3},
	// noun oblique plurals
	{suffix: "ами", replace: "а", minStem: 3},
	{suffix: "ями", replace: "я", minStem: 3},
	{suffix: "ов", replace: "", minStem: 3},
	{suffix: "ев", replace: "", minStem: 3},
	{suffix: "ах", replace: "а", minStem: 3},
	{suffix: "ях", replace: "я", minStem: 3},
	// verb past masculine (after the vowel+л forms above)
	{suffix: "л", replace: "ть", minStem: 4},
	// plural / genitive singles
	{suffix: "ы", replace: "", minStem: 4},
	{suffix: "и", replace: "", minStem: 4},
	{suffix: "у", replace: "", minStem: 4},
	{suffix: "ю", replace: "", minStem: 4},
}

// A few frequent irregulars the suffix rules cannot reach.
var russianExceptions = map[string]string{
	"люди":  "человек",
	"людей": "человек",
	"людям": "человек",
	"дети":  "ребенок",
	"детей": "ребенок",
	"шёл":   "идти",
	"шел":   "идти",
	"шла":   "идти",
	"шли":   "идти",
}

// NormalForm implements Analyzer. Unknown shapes come back unchanged.
func (r *Russian) NormalForm(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return ""
	}
	if base, ok := russianExceptions[token]; ok {
		return base
	}

	runes := []rune(token)
	for _, rule := range russianRules {
		suffix := []rune(rule.suffix)
		if len(runes) < len(suffix)+rule.minStem {
			continue
		}
		if string(runes[len(runes)-len(suffix):]) != rule.suffix {
			continue
		}
		return string(runes[:len(runes)-len(suffix)]) + rule.replace
	}
	return token
}
