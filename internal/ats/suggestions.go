package ats

// Suggestion messages
const (
	SuggestKeywords        = "Add more keywords from the job description to improve match rate"
	SuggestSkills          = "Include specific technical skills mentioned in the job posting"
	SuggestAchievements    = "Add specific, quantifiable achievements"
	SuggestPersonalization = "Mention the company name and show research about their work/mission"
	SuggestCallToAction    = "Add a call to action expressing interest in an interview"
)

// Thresholds below which a suggestion is emitted
const (
	keywordSuggestionThreshold         = 60
	skillsSuggestionThreshold          = 70
	narrativeSuggestionThreshold       = 70
	personalizationSuggestionThreshold = 60
)

func resumeSuggestions(keywordScore, skillsScore float64) []string {
	suggestions := []string{}
	if keywordScore < keywordSuggestionThreshold {
		suggestions = append(suggestions, SuggestKeywords)
	}
	if skillsScore < skillsSuggestionThreshold {
		suggestions = append(suggestions, SuggestSkills)
	}
	return suggestions
}

func coverLetterSuggestions(narrativeScore, personalizationScore float64, hasCallToAction bool) []string {
	suggestions := []string{}
	if narrativeScore < narrativeSuggestionThreshold {
		suggestions = append(suggestions, SuggestAchievements)
	}
	if personalizationScore < personalizationSuggestionThreshold {
		suggestions = append(suggestions, SuggestPersonalization)
	}
	if !hasCallToAction {
		suggestions = append(suggestions, SuggestCallToAction)
	}
	return suggestions
}
