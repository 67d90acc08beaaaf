package ats

import (
	"fmt"
	"math"
)

// Scorer computes ATS compatibility scores.
// A Scorer is immutable once built and safe for concurrent use.
type Scorer struct {
	extractor *Extractor
	tables    Tables
}

// Option configures a Scorer
type Option func(*scorerOptions)

type scorerOptions struct {
	tagger Tagger
	tables Tables
}

// WithTagger replaces the part-of-speech tagger
func WithTagger(t Tagger) Option {
	return func(o *scorerOptions) {
		o.tagger = t
	}
}

// WithTables replaces the lexical tables
func WithTables(t Tables) Option {
	return func(o *scorerOptions) {
		o.tables = t
	}
}

// New creates a Scorer. Without options it uses the prose tagger and DefaultTables.
func New(opts ...Option) *Scorer {
	o := scorerOptions{
		tagger: ProseTagger{},
		tables: DefaultTables(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	tables := o.tables.normalized()
	return &Scorer{
		extractor: NewExtractor(o.tagger, tables.StopWords),
		tables:    tables,
	}
}

// Tables returns a copy of the tables in use
func (s *Scorer) Tables() Tables {
	return Tables{
		SkillPhrases:        append([]string(nil), s.tables.SkillPhrases...),
		StopWords:           append([]string(nil), s.tables.StopWords...),
		CallToActionPhrases: append([]string(nil), s.tables.CallToActionPhrases...),
		GenericPhrases:      append([]string(nil), s.tables.GenericPhrases...),
	}
}

// CalculateScore scores documentText against jobDescription using the rules
// for docType. An empty docType is treated as a resume.
func (s *Scorer) CalculateScore(documentText, jobDescription string, docType DocumentType) (*Result, error) {
	if docType == "" {
		docType = DocumentResume
	}
	if docType != DocumentResume && docType != DocumentCoverLetter {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, docType)
	}

	jobKeywords, err := s.extractor.Extract(jobDescription)
	if err != nil {
		return nil, fmt.Errorf("extract job keywords: %w", err)
	}
	docKeywords, err := s.extractor.Extract(documentText)
	if err != nil {
		return nil, fmt.Errorf("extract document keywords: %w", err)
	}

	var result *Result
	if docType == DocumentCoverLetter {
		result = s.scoreCoverLetter(documentText, jobDescription, docKeywords, jobKeywords)
	} else {
		result = s.scoreResume(documentText, jobDescription, docKeywords, jobKeywords)
	}

	result.OverallScore = int(math.Round(aggregate(docType, result.Breakdown)))
	return result, nil
}
