package ats

import (
	"math"
	"regexp"
	"strings"
)

// SemanticOverlapBonus is added for every job keyword that is not an exact
// keyword match but still appears inside one of the document's sentences.
// The value is a tunable heuristic kept for compatibility with earlier scores.
const SemanticOverlapBonus = 2.0

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// scoreKeywordMatch rates how many job keywords the document covers
func scoreKeywordMatch(doc, job *KeywordSet, text string) float64 {
	if job.Len() == 0 {
		return 100
	}

	exact := 0
	for _, kw := range job.items {
		if doc.Has(kw) {
			exact++
		}
	}
	base := float64(exact) / float64(job.Len()) * 100

	sentences := sentenceSplit.Split(strings.ToLower(text), -1)
	bonus := 0.0
	for _, kw := range job.items {
		if doc.Has(kw) {
			continue
		}
		for _, s := range sentences {
			if strings.Contains(s, kw) {
				bonus += SemanticOverlapBonus
				break
			}
		}
	}

	return math.Min(100, base+bonus)
}

// scoreSkillsAlignment rates coverage of the curated skills the job mentions
func scoreSkillsAlignment(text, jobDescription string, skills []string) float64 {
	jobLower := strings.ToLower(jobDescription)
	textLower := strings.ToLower(text)

	wanted, found := 0, 0
	for _, skill := range skills {
		if !strings.Contains(jobLower, skill) {
			continue
		}
		wanted++
		if strings.Contains(textLower, skill) {
			found++
		}
	}

	if wanted == 0 {
		return 100
	}
	return float64(found) / float64(wanted) * 100
}

// splitKeywords partitions the job keywords into matched and missing
func splitKeywords(doc, job *KeywordSet) (matched, missing []string) {
	matched = make([]string, 0, job.Len())
	missing = make([]string, 0, job.Len())
	for _, kw := range job.items {
		if doc.Has(kw) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return matched, missing
}

// keywordDensity reports each job keyword's share of the document's words,
// as a percentage rounded to two decimals
func keywordDensity(text string, keywords *KeywordSet) map[string]float64 {
	lower := strings.ToLower(text)
	words := len(strings.Fields(lower))

	density := make(map[string]float64, keywords.Len())
	for _, kw := range keywords.items {
		if words == 0 {
			density[kw] = 0
			continue
		}
		// Literal, non-overlapping count; keyword text is never compiled as a pattern
		occurrences := strings.Count(lower, strings.ToLower(kw))
		density[kw] = round2(float64(occurrences) / float64(words) * 100)
	}
	return density
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
