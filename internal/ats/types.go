// Package ats scores resumes and cover letters against a job description
// using local lexical analysis only.
package ats

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDocumentType is returned for document types other than resume and cover letter
var ErrUnknownDocumentType = errors.New("unknown document type")

// DocumentType identifies which rule set is applied to a document
type DocumentType string

const (
	DocumentResume      DocumentType = "resume"
	DocumentCoverLetter DocumentType = "coverLetter"
)

// ParseDocumentType accepts the canonical names plus a few CLI-friendly aliases.
// An empty string means resume.
func ParseDocumentType(s string) (DocumentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "resume", "cv":
		return DocumentResume, nil
	case "coverletter", "cover-letter", "cover_letter", "cl":
		return DocumentCoverLetter, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, s)
	}
}

// Factor names a scoring dimension
type Factor string

const (
	FactorKeywordMatch        Factor = "keywordMatch"
	FactorSkillsAlignment     Factor = "skillsAlignment"
	FactorJobTitleMatch       Factor = "jobTitleMatch"
	FactorExperienceRelevance Factor = "experienceRelevance"
	FactorFormatCompliance    Factor = "formatCompliance"
	FactorNarrativeQuality    Factor = "narrativeQuality"
	FactorPersonalization     Factor = "personalization"
	FactorToneProfessionalism Factor = "toneProfessionalism"
)

// AllFactors lists every factor in display order
var AllFactors = []Factor{
	FactorKeywordMatch,
	FactorSkillsAlignment,
	FactorJobTitleMatch,
	FactorExperienceRelevance,
	FactorFormatCompliance,
	FactorNarrativeQuality,
	FactorPersonalization,
	FactorToneProfessionalism,
}

// Breakdown maps each factor to a 0-100 sub-score.
// Factors that do not apply to a document type are reported as 100.
type Breakdown map[Factor]float64

// Result is the outcome of scoring one document against one job description
type Result struct {
	DocumentType    DocumentType       `json:"documentType"`
	OverallScore    int                `json:"overallScore"`
	Breakdown       Breakdown          `json:"breakdown"`
	MatchedKeywords []string           `json:"matchedKeywords"`
	MissingKeywords []string           `json:"missingKeywords"`
	Suggestions     []string           `json:"suggestions"`
	KeywordDensity  map[string]float64 `json:"keywordDensity"`

	// Set for cover letters only
	*CoverLetterMetrics
}

// CoverLetterMetrics holds the cover-letter specific diagnostics
type CoverLetterMetrics struct {
	NarrativeQuality     float64 `json:"narrativeQuality"`
	PersonalizationScore float64 `json:"personalizationScore"`
	ToneProfessionalism  float64 `json:"toneProfessionalism"`
	LengthCompliance     float64 `json:"lengthCompliance"`
	CallToActionPresent  bool    `json:"callToActionPresent"`
}

// IsCoverLetter reports whether the result carries cover-letter metrics
func (r *Result) IsCoverLetter() bool {
	return r.CoverLetterMetrics != nil
}

func neutralBreakdown() Breakdown {
	b := make(Breakdown, len(AllFactors))
	for _, f := range AllFactors {
		b[f] = 100
	}
	return b
}
