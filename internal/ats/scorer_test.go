package ats

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateScoreMinimalResume(t *testing.T) {
	s := newTestScorer()

	res, err := s.CalculateScore(
		"I handled customer service",
		"Job Title: Support Agent. 2+ years customer service required.",
		DocumentResume,
	)
	require.NoError(t, err)

	assert.Equal(t, DocumentResume, res.DocumentType)
	assert.Equal(t, 50.0, res.Breakdown[FactorJobTitleMatch])
	assert.Equal(t, 50.0, res.Breakdown[FactorExperienceRelevance])
	assert.Equal(t, 100.0, res.Breakdown[FactorSkillsAlignment])
	assert.Equal(t, 70.0, res.Breakdown[FactorFormatCompliance])
	assert.Subset(t, res.MatchedKeywords, []string{"customer", "service"})
	assert.NotContains(t, res.MatchedKeywords, "agent")
	assert.Contains(t, res.MissingKeywords, "agent")
	assert.InDelta(t, 200.0/11.0, res.Breakdown[FactorKeywordMatch], 0.001)
	assert.Equal(t, 49, res.OverallScore)
	assert.Equal(t, []string{SuggestKeywords}, res.Suggestions)
	assert.False(t, res.IsCoverLetter())

	// Cover letter factors stay neutral for resumes
	assert.Equal(t, 100.0, res.Breakdown[FactorNarrativeQuality])
	assert.Equal(t, 100.0, res.Breakdown[FactorPersonalization])
	assert.Equal(t, 100.0, res.Breakdown[FactorToneProfessionalism])
}

func TestCalculateScoreCoverLetterWithoutCourtesies(t *testing.T) {
	s := newTestScorer()

	res, err := s.CalculateScore("I like the job. Thanks.", "Support role", DocumentCoverLetter)
	require.NoError(t, err)

	require.True(t, res.IsCoverLetter())
	assert.Equal(t, 60.0, res.ToneProfessionalism)
	assert.Equal(t, 60.0, res.Breakdown[FactorToneProfessionalism])
	assert.False(t, res.CallToActionPresent)
	assert.Contains(t, res.Suggestions, SuggestCallToAction)
	assert.Equal(t, 40.0, res.LengthCompliance)

	// Resume-only factors stay neutral
	assert.Equal(t, 100.0, res.Breakdown[FactorJobTitleMatch])
	assert.Equal(t, 100.0, res.Breakdown[FactorExperienceRelevance])
	assert.Equal(t, 100.0, res.Breakdown[FactorFormatCompliance])
}

func TestCalculateScoreCoverLetterComplete(t *testing.T) {
	s := newTestScorer()

	letter := "Dear Ms Jones,\n\n" +
		"I have followed Acme for years and admire the work.\n\n" +
		"At my last role I increased retention by 20%.\n\n" +
		"I look forward to discussing the role.\n\nSincerely, Sam"

	res, err := s.CalculateScore(letter, "Company: Acme\nWe need python", DocumentCoverLetter)
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.NarrativeQuality)
	assert.Equal(t, 100.0, res.PersonalizationScore)
	assert.Equal(t, 100.0, res.ToneProfessionalism)
	assert.True(t, res.CallToActionPresent)
	assert.NotContains(t, res.Suggestions, SuggestCallToAction)
	assert.NotContains(t, res.Suggestions, SuggestPersonalization)
	assert.NotContains(t, res.Suggestions, SuggestAchievements)
	// python is wanted but missing
	assert.Equal(t, 0.0, res.Breakdown[FactorSkillsAlignment])
}

func TestCalculateScoreDocumentType(t *testing.T) {
	s := newTestScorer()

	res, err := s.CalculateScore("text", "job", "")
	require.NoError(t, err)
	assert.Equal(t, DocumentResume, res.DocumentType)

	_, err = s.CalculateScore("text", "job", DocumentType("memo"))
	assert.True(t, errors.Is(err, ErrUnknownDocumentType))
}

func TestCalculateScoreIdempotent(t *testing.T) {
	s := newTestScorer()
	doc := "Built python services and led a strong team of engineers. 4 years experience."
	job := "Job Title: Engineer\nWe want python and docker, 3+ years."

	first, err := s.CalculateScore(doc, job, DocumentResume)
	require.NoError(t, err)
	second, err := s.CalculateScore(doc, job, DocumentResume)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculateScoreBounds(t *testing.T) {
	s := newTestScorer()
	inputs := []struct{ doc, job string }{
		{"", ""},
		{"Table Chart", "Job Title: x\n100 years"},
		{strings.Repeat("python docker sql ", 200), "python docker sql kubernetes aws"},
		{"to whom it may concern dear hiring manager i am writing to apply", "Company: Initech"},
	}

	for _, in := range inputs {
		for _, dt := range []DocumentType{DocumentResume, DocumentCoverLetter} {
			res, err := s.CalculateScore(in.doc, in.job, dt)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.OverallScore, 0)
			assert.LessOrEqual(t, res.OverallScore, 100)
			for f, v := range res.Breakdown {
				assert.GreaterOrEqual(t, v, 0.0, "factor %s", f)
				assert.LessOrEqual(t, v, 100.0, "factor %s", f)
			}
		}
	}
}

func TestKeywordMatchVacuous(t *testing.T) {
	s := newTestScorer()

	res, err := s.CalculateScore("anything at all", "", DocumentResume)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Breakdown[FactorKeywordMatch])
	assert.Equal(t, 100.0, res.Breakdown[FactorSkillsAlignment])
	assert.Empty(t, res.MatchedKeywords)
	assert.Empty(t, res.MissingKeywords)
}

func TestKeywordMatchMonotonic(t *testing.T) {
	s := newTestScorer()
	job := "python docker kubernetes"

	before, err := s.CalculateScore("python developer", job, DocumentResume)
	require.NoError(t, err)
	after, err := s.CalculateScore("python developer docker", job, DocumentResume)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, after.Breakdown[FactorKeywordMatch], before.Breakdown[FactorKeywordMatch])
}

func TestSemanticOverlapBonus(t *testing.T) {
	doc := NewKeywordSet("python")
	job := NewKeywordSet("python", "go")

	// "go" is not a document keyword but occurs inside a sentence
	got := scoreKeywordMatch(doc, job, "Python. Going places!")
	assert.Equal(t, 50+SemanticOverlapBonus, got)

	got = scoreKeywordMatch(NewKeywordSet("python", "go"), job, "")
	assert.Equal(t, 100.0, got)
}

func TestWithTables(t *testing.T) {
	s := newTestScorer(WithTables(Tables{
		SkillPhrases: []string{" GoLang "},
		StopWords:    []string{"role"},
	}))

	res, err := s.CalculateScore("I write rust", "golang role", DocumentResume)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Breakdown[FactorSkillsAlignment])
	assert.NotContains(t, res.MissingKeywords, "role")
	assert.Equal(t, []string{"golang"}, s.Tables().SkillPhrases)
}

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		in      string
		want    DocumentType
		wantErr bool
	}{
		{"", DocumentResume, false},
		{"Resume", DocumentResume, false},
		{"cv", DocumentResume, false},
		{"coverLetter", DocumentCoverLetter, false},
		{"cover-letter", DocumentCoverLetter, false},
		{"cl", DocumentCoverLetter, false},
		{"memo", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDocumentType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDocumentType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
