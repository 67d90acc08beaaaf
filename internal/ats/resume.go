package ats

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	jobTitlePattern = regexp.MustCompile(`(?i)Job Title:?\s*([^\n]+)`)
	yearsPattern    = regexp.MustCompile(`(?i)(\d+)\+?\s*years?`)
)

const minResumeLength = 500

// scoreJobTitleMatch checks whether the posted job title appears in the resume
func scoreJobTitleMatch(text, jobDescription string) float64 {
	m := jobTitlePattern.FindStringSubmatch(jobDescription)
	if m == nil {
		return 100
	}

	title := strings.ToLower(strings.TrimSpace(m[1]))
	if strings.Contains(strings.ToLower(text), title) {
		return 100
	}
	return 50
}

// scoreExperienceRelevance compares the largest "N years" in the resume
// against the first requirement found in the job description
func scoreExperienceRelevance(text, jobDescription string) float64 {
	m := yearsPattern.FindStringSubmatch(jobDescription)
	if m == nil {
		return 100
	}
	required, err := strconv.Atoi(m[1])
	if err != nil {
		// Unparseable (overflowing) requirement, nothing sensible to compare against
		return 100
	}

	maxYears, found := -1, false
	for _, match := range yearsPattern.FindAllStringSubmatch(text, -1) {
		years, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		found = true
		if years > maxYears {
			maxYears = years
		}
	}

	if !found {
		return 50
	}
	if maxYears >= required {
		return 100
	}
	return float64(maxYears) / float64(required) * 100
}

// scoreFormatCompliance penalizes layout elements ATS parsers struggle with
// and documents too short to parse meaningfully
func scoreFormatCompliance(text string) float64 {
	score := 100.0
	if strings.Contains(text, "Table") || strings.Contains(text, "Chart") {
		score -= 20
	}
	if utf8.RuneCountInString(text) < minResumeLength {
		score -= 30
	}
	return max(0, score)
}

func (s *Scorer) scoreResume(text, jobDescription string, doc, job *KeywordSet) *Result {
	b := neutralBreakdown()
	b[FactorKeywordMatch] = scoreKeywordMatch(doc, job, text)
	b[FactorSkillsAlignment] = scoreSkillsAlignment(text, jobDescription, s.tables.SkillPhrases)
	b[FactorJobTitleMatch] = scoreJobTitleMatch(text, jobDescription)
	b[FactorExperienceRelevance] = scoreExperienceRelevance(text, jobDescription)
	b[FactorFormatCompliance] = scoreFormatCompliance(text)

	matched, missing := splitKeywords(doc, job)

	return &Result{
		DocumentType:    DocumentResume,
		Breakdown:       b,
		MatchedKeywords: matched,
		MissingKeywords: missing,
		Suggestions:     resumeSuggestions(b[FactorKeywordMatch], b[FactorSkillsAlignment]),
		KeywordDensity:  keywordDensity(text, job),
	}
}
