package ats

import (
	"regexp"
	"strings"
)

var (
	impactPattern      = regexp.MustCompile(`(?i)\d+%|\d+\+|increased|improved|reduced|generated`)
	companyLabel       = regexp.MustCompile(`(?i)Company:?\s*([^\n]+)`)
	companyAtPattern   = regexp.MustCompile(`\bat\s+([A-Z][a-zA-Z\s&]+?)[.,\s]`)
	salutationPattern  = regexp.MustCompile(`(?i)dear\s+[a-z]+`)
	valedictionPattern = regexp.MustCompile(`(?i)sincerely|regards|respectfully|best`)
)

// scoreNarrativeQuality rewards a well-paragraphed letter with measurable impact
func scoreNarrativeQuality(text string) float64 {
	score := 100.0

	paragraphs := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}
	if paragraphs < 3 {
		score -= 20
	}
	if paragraphs > 6 {
		score -= 10
	}

	if !impactPattern.MatchString(text) {
		score -= 15
	}
	return max(0, score)
}

// extractCompanyName finds the hiring company from a "Company:" label or an
// "at <Name>" phrase. Returns "" when neither is present.
func extractCompanyName(jobDescription string) string {
	if m := companyLabel.FindStringSubmatch(jobDescription); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := companyAtPattern.FindStringSubmatch(jobDescription); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// scorePersonalization penalizes letters that skip the company name or lean on boilerplate
func scorePersonalization(text, jobDescription string, genericPhrases []string) float64 {
	score := 100.0
	lower := strings.ToLower(text)

	if company := extractCompanyName(jobDescription); company != "" && !strings.Contains(lower, strings.ToLower(company)) {
		score -= 30
	}

	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) {
			score -= 10
		}
	}
	return max(0, score)
}

// scoreToneProfessionalism checks for a salutation and a valediction
func scoreToneProfessionalism(text string) float64 {
	score := 100.0
	if !salutationPattern.MatchString(text) {
		score -= 20
	}
	if !valedictionPattern.MatchString(text) {
		score -= 20
	}
	return max(0, score)
}

// scoreLengthCompliance is a step function over the word count
func scoreLengthCompliance(text string) float64 {
	words := len(strings.Fields(text))
	switch {
	case words >= 300 && words <= 400:
		return 100
	case words < 200:
		return 40
	default:
		return 70
	}
}

func detectCallToAction(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func (s *Scorer) scoreCoverLetter(text, jobDescription string, doc, job *KeywordSet) *Result {
	metrics := &CoverLetterMetrics{
		NarrativeQuality:     scoreNarrativeQuality(text),
		PersonalizationScore: scorePersonalization(text, jobDescription, s.tables.GenericPhrases),
		ToneProfessionalism:  scoreToneProfessionalism(text),
		LengthCompliance:     scoreLengthCompliance(text),
		CallToActionPresent:  detectCallToAction(text, s.tables.CallToActionPhrases),
	}

	b := neutralBreakdown()
	b[FactorKeywordMatch] = scoreKeywordMatch(doc, job, text)
	b[FactorSkillsAlignment] = scoreSkillsAlignment(text, jobDescription, s.tables.SkillPhrases)
	b[FactorNarrativeQuality] = metrics.NarrativeQuality
	b[FactorPersonalization] = metrics.PersonalizationScore
	b[FactorToneProfessionalism] = metrics.ToneProfessionalism

	matched, missing := splitKeywords(doc, job)

	return &Result{
		DocumentType:       DocumentCoverLetter,
		Breakdown:          b,
		MatchedKeywords:    matched,
		MissingKeywords:    missing,
		Suggestions:        coverLetterSuggestions(metrics.NarrativeQuality, metrics.PersonalizationScore, metrics.CallToActionPresent),
		KeywordDensity:     keywordDensity(text, job),
		CoverLetterMetrics: metrics,
	}
}
