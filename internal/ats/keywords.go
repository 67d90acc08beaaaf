package ats

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

// Token is a word with its Penn Treebank part-of-speech tag
type Token struct {
	Text string
	Tag  string
}

// Tagger assigns part-of-speech tags to the tokens of a text
type Tagger interface {
	Tag(text string) ([]Token, error)
}

// ProseTagger tags text with the prose averaged-perceptron model.
// The model is loaded on first use and shared; tagging only reads it.
type ProseTagger struct{}

var proseModel = sync.OnceValue(func() *prose.Model {
	doc, err := prose.NewDocument("",
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil
	}
	return doc.Model
})

// Tag implements Tagger
func (ProseTagger) Tag(text string) ([]Token, error) {
	opts := []prose.DocOpt{
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	}
	if model := proseModel(); model != nil {
		opts = append(opts, prose.UsingModel(model))
	}
	doc, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, err
	}

	tokens := doc.Tokens()
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, Token{Text: tok.Text, Tag: tok.Tag})
	}
	return out, nil
}

// KeywordSet is a set of keywords that remembers insertion order
type KeywordSet struct {
	items []string
	index map[string]struct{}
}

// NewKeywordSet builds a set from the given words
func NewKeywordSet(words ...string) *KeywordSet {
	s := &KeywordSet{index: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add inserts a keyword; duplicates are ignored
func (s *KeywordSet) Add(word string) {
	if _, ok := s.index[word]; ok {
		return
	}
	s.index[word] = struct{}{}
	s.items = append(s.items, word)
}

// Has reports whether the keyword is in the set
func (s *KeywordSet) Has(word string) bool {
	_, ok := s.index[word]
	return ok
}

// Len returns the number of keywords
func (s *KeywordSet) Len() int {
	return len(s.items)
}

// Items returns the keywords in insertion order
func (s *KeywordSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

var keywordPattern = regexp.MustCompile(`^[a-z\s]+$`)

type wordClass int

const (
	classOther wordClass = iota
	classNoun
	classVerb
	classAdjective
)

func classify(tag string) wordClass {
	switch {
	case strings.HasPrefix(tag, "NN"):
		return classNoun
	case strings.HasPrefix(tag, "VB"):
		return classVerb
	case strings.HasPrefix(tag, "JJ"):
		return classAdjective
	default:
		return classOther
	}
}

// Extractor turns raw text into a KeywordSet
type Extractor struct {
	tagger    Tagger
	stopWords map[string]struct{}
}

// NewExtractor creates an Extractor using the given tagger and stop words
func NewExtractor(tagger Tagger, stopWords []string) *Extractor {
	sw := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		sw[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Extractor{tagger: tagger, stopWords: sw}
}

// Extract returns the nouns, verbs and adjectives of text as keywords.
// Consecutive nouns are also kept as a multi-word compound.
func (e *Extractor) Extract(text string) (*KeywordSet, error) {
	set := NewKeywordSet()
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return set, nil
	}

	tokens, err := e.tagger.Tag(lower)
	if err != nil {
		return nil, fmt.Errorf("tag text: %w", err)
	}

	var nouns, verbs, adjectives []string
	var run []string
	flush := func() {
		if len(run) > 1 {
			nouns = append(nouns, strings.Join(run, " "))
		}
		run = run[:0]
	}

	for _, tok := range tokens {
		switch classify(tok.Tag) {
		case classNoun:
			nouns = append(nouns, tok.Text)
			run = append(run, tok.Text)
			continue
		case classVerb:
			verbs = append(verbs, tok.Text)
		case classAdjective:
			adjectives = append(adjectives, tok.Text)
		}
		flush()
	}
	flush()

	for _, group := range [][]string{nouns, verbs, adjectives} {
		for _, word := range group {
			if word = strings.TrimSpace(word); e.keep(word) {
				set.Add(word)
			}
		}
	}
	return set, nil
}

func (e *Extractor) keep(word string) bool {
	if utf8.RuneCountInString(word) <= 2 {
		return false
	}
	if _, stop := e.stopWords[word]; stop {
		return false
	}
	return keywordPattern.MatchString(word)
}
