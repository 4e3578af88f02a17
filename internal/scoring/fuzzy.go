package scoring

// SimilarityThreshold is the minimum similarity ratio accepted as a match.
const SimilarityThreshold = 0.8

// MatchResult explains a fuzzy comparison for review screens.
type MatchResult struct {
	Match             bool    `json:"match"`
	NormalizedUser    string  `json:"normalizedUser"`
	NormalizedCorrect string  `json:"normalizedCorrect"`
	Similarity        float64 `json:"similarity"`
}

// FuzzyMatch reports whether userText should be accepted for correctText.
func FuzzyMatch(userText, correctText string) bool {
	return Compare(userText, correctText).Match
}

// Compare normalizes both texts and decides the match: exact equality, then
// the definite-article tolerance, then the edit-distance ratio.
func Compare(userText, correctText string) MatchResult {
	res := MatchResult{
		NormalizedUser:    Normalize(userText),
		NormalizedCorrect: Normalize(correctText),
	}
	u, c := res.NormalizedUser, res.NormalizedCorrect

	if u == c || u == definiteArticle+c || definiteArticle+u == c {
		res.Match = true
		res.Similarity = 1
		return res
	}
	res.Similarity = Similarity(u, c)
	res.Match = res.Similarity >= SimilarityThreshold
	return res
}

// Similarity is 1 - distance/max(len(a), len(b)) over runes. Two empty
// strings are fully similar.
func Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := max(la, lb)
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(maxLen)
}

// Levenshtein returns the edit distance between a and b counted in runes,
// with unit cost for insertion, deletion and substitution.
func Levenshtein(a, b string) int {
	r1, r2 := []rune(a), []rune(b)
	cols := len(r2) + 1

	prev := make([]int, cols)
	curr := make([]int, cols)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[cols-1]
}
