package ats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	e := NewExtractor(stubTagger{tags: testTags}, DefaultTables().StopWords)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace", "  \n\t ", []string{}},
		{"lowercases and orders by class", "I handled Customer Service", []string{"customer", "service", "customer service", "handled"}},
		{"drops short words", "it is ok", []string{}},
		{"drops stop words", "their team", []string{"team", "their team"}},
		{"drops numbers and punctuation", "node.js 2024 go-lang", []string{"node", "lang"}},
		{"collapses duplicates", "sales sales. sales", []string{"sales", "sales sales"}},
		{"adjectives last", "strong python", []string{"python", "strong"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Items())
		})
	}
}

type failingTagger struct{}

func (failingTagger) Tag(string) ([]Token, error) {
	return nil, errors.New("model not loaded")
}

func TestExtractTaggerError(t *testing.T) {
	e := NewExtractor(failingTagger{}, nil)

	_, err := e.Extract("some text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tag text")

	// Empty text never reaches the tagger
	set, err := e.Extract("   ")
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestKeywordSet(t *testing.T) {
	s := NewKeywordSet("go", "rust", "go")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("rust"))
	assert.False(t, s.Has("java"))

	items := s.Items()
	items[0] = "changed"
	assert.Equal(t, []string{"go", "rust"}, s.Items())
}

func TestProseTagger(t *testing.T) {
	tokens, err := ProseTagger{}.Tag("experienced engineer building services")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	for _, tok := range tokens {
		assert.NotEmpty(t, tok.Tag)
	}
}
