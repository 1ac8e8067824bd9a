package vector

// Hit is one raw result from the vector index. Distance is cosine distance,
// lower is better.
type Hit struct {
	SkillID  string
	Distance float64
}

// Match is one skill match after distance interpretation and floor filtering.
// Similarity is 1 - distance, clamped to [0, 1].
type Match struct {
	SkillID    string
	Similarity float64
}

// Strength breakpoints on similarity.
const (
	excellentSimilarity = 0.85
	strongSimilarity    = 0.70
	goodSimilarity      = 0.55
	moderateSimilarity  = 0.40
)

// StrengthLabel maps a similarity to its qualitative match strength.
func StrengthLabel(similarity float64) string {
	switch {
	case similarity >= excellentSimilarity:
		return "Excellent Match"
	case similarity >= strongSimilarity:
		return "Strong Match"
	case similarity >= goodSimilarity:
		return "Good Match"
	case similarity >= moderateSimilarity:
		return "Moderate Match"
	default:
		return "Weak Match"
	}
}
