package ats

import "strings"

// Tables holds the lexical data the scorers consult.
// It is configuration, not logic: callers may swap any list.
type Tables struct {
	SkillPhrases        []string // curated skills looked up in job descriptions
	StopWords           []string // words never treated as keywords
	CallToActionPhrases []string // phrases that count as a cover letter call to action
	GenericPhrases      []string // boilerplate that lowers personalization
}

// DefaultTables returns the built-in tables
func DefaultTables() Tables {
	return Tables{
		SkillPhrases: []string{
			"python", "javascript", "react", "typescript", "node.js", "sql", "aws", "docker", "kubernetes", "git",
			"communication", "leadership", "problem-solving", "teamwork", "agile", "scrum", "project management",
			"data analysis", "customer service", "sales", "marketing", "design", "ui/ux", "ndis", "trauma-informed",
		},
		StopWords: []string{
			"the", "and", "for", "with", "that", "this", "from", "your",
			"their", "will", "have", "been", "were", "was", "are", "has",
		},
		CallToActionPhrases: []string{
			"look forward to", "would welcome", "eager to discuss", "available for",
		},
		GenericPhrases: []string{
			"to whom it may concern", "dear hiring manager", "i am writing to apply",
		},
	}
}

// normalized returns a copy with every entry lowercased and trimmed, and
// empty entries removed
func (t Tables) normalized() Tables {
	return Tables{
		SkillPhrases:        normalizeList(t.SkillPhrases),
		StopWords:           normalizeList(t.StopWords),
		CallToActionPhrases: normalizeList(t.CallToActionPhrases),
		GenericPhrases:      normalizeList(t.GenericPhrases),
	}
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
