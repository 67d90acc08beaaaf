package ats

import (
	"regexp"
	"unicode"
)

var stubTokenPattern = regexp.MustCompile(`[a-z]+|\d+|[^\sa-z\d]`)

// stubTagger tags every alphabetic token as a noun unless overridden,
// digits as CD and punctuation as itself
type stubTagger struct {
	tags map[string]string
}

func (s stubTagger) Tag(text string) ([]Token, error) {
	var out []Token
	for _, w := range stubTokenPattern.FindAllString(text, -1) {
		tag := "NN"
		switch {
		case s.tags[w] != "":
			tag = s.tags[w]
		case unicode.IsDigit(rune(w[0])):
			tag = "CD"
		case !unicode.IsLetter(rune(w[0])):
			tag = w
		}
		out = append(out, Token{Text: w, Tag: tag})
	}
	return out, nil
}

var testTags = map[string]string{
	"i":        "PRP",
	"handled":  "VBD",
	"required": "VBN",
	"led":      "VBD",
	"built":    "VBD",
	"strong":   "JJ",
	"is":       "VBZ",
	"a":        "DT",
	"the":      "DT",
	"and":      "CC",
	"to":       "TO",
	"in":       "IN",
	"at":       "IN",
	"of":       "IN",
}

func newTestScorer(opts ...Option) *Scorer {
	return New(append([]Option{WithTagger(stubTagger{tags: testTags})}, opts...)...)
}
