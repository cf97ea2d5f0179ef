package text

// Similarity returns the Dice coefficient over adjacent-token bigrams of the
// two strings, in [0,1]. Both inputs are normalized and tokenized first, so
// the measure is case-, punctuation-, and order-of-separator-insensitive:
// "Abdomen/Pelvis" and "abdomen pelvis" score 1.
//
// Strings with fewer than two tokens have no bigrams and score 0 against
// everything, including themselves. Callers that need exact matching for
// single tokens must check equality separately.
func Similarity(a, b string) float64 {
	ba := bigrams(Tokens(a))
	bb := bigrams(Tokens(b))
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	var common int
	for g := range ba {
		if _, ok := bb[g]; ok {
			common++
		}
	}
	return 2 * float64(common) / float64(len(ba)+len(bb))
}

func bigrams(tokens []string) map[string]struct{} {
	if len(tokens) < 2 {
		return nil
	}
	set := make(map[string]struct{}, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		set[tokens[i]+" "+tokens[i+1]] = struct{}{}
	}
	return set
}
