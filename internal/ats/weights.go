package ats

// Weights maps a factor to its fractional contribution to the overall score
type Weights map[Factor]float64

// weightEntry keeps the tables ordered so sums are computed in a stable order
type weightEntry struct {
	factor Factor
	weight float64
}

var resumeWeights = [...]weightEntry{
	{FactorKeywordMatch, 0.45},
	{FactorSkillsAlignment, 0.25},
	{FactorJobTitleMatch, 0.15},
	{FactorExperienceRelevance, 0.10},
	{FactorFormatCompliance, 0.05},
}

var coverLetterWeights = [...]weightEntry{
	{FactorKeywordMatch, 0.35},
	{FactorSkillsAlignment, 0.20},
	{FactorNarrativeQuality, 0.20},
	{FactorPersonalization, 0.15},
	{FactorToneProfessionalism, 0.10},
}

func weightTable(t DocumentType) []weightEntry {
	if t == DocumentCoverLetter {
		return coverLetterWeights[:]
	}
	return resumeWeights[:]
}

// WeightsFor returns a copy of the fixed weight table for a document type
func WeightsFor(t DocumentType) Weights {
	table := weightTable(t)
	w := make(Weights, len(table))
	for _, e := range table {
		w[e.factor] = e.weight
	}
	return w
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// aggregate combines sub-scores using the document type's weight table
func aggregate(t DocumentType, b Breakdown) float64 {
	total := 0.0
	for _, e := range weightTable(t) {
		total += b[e.factor] * e.weight
	}
	return total
}
