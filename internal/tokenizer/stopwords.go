package tokenizer

// stopWords is the broad English stop-word set removed from indexed text.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "is": {}, "are": {},
	"am": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "by": {}, "about": {},
	"against": {}, "between": {}, "into": {}, "through": {},
	"during": {}, "before": {}, "after": {}, "above": {}, "below": {}, "from": {}, "up": {},
	"down": {}, "of": {}, "off": {}, "over": {}, "under": {},
	"again": {}, "further": {}, "then": {}, "once": {}, "here": {}, "there": {}, "when": {},
	"where": {}, "why": {}, "how": {}, "all": {}, "any": {},
	"both": {}, "each": {}, "few": {}, "more": {}, "most": {}, "other": {}, "some": {},
	"such": {}, "no": {}, "nor": {}, "not": {}, "only": {}, "own": {},
	"same": {}, "so": {}, "than": {}, "too": {}, "very": {}, "can": {}, "will": {},
	"just": {}, "should": {}, "now": {},
}

// queryStopWords is the small set removed from queries.
var queryStopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "in": {}, "on": {}, "at": {},
}

// IsStopWord reports whether token belongs to the broad stop-word set.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// RemoveStopWords filters the broad stop-word set out of tokens.
func RemoveStopWords(tokens []string) []string {
	return filterTokens(tokens, stopWords)
}

// RemoveQueryStopWords filters the query stop-word set out of tokens.
func RemoveQueryStopWords(tokens []string) []string {
	return filterTokens(tokens, queryStopWords)
}

func filterTokens(tokens []string, drop map[string]struct{}) []string {
	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isStop := drop[token]; !isStop {
			filtered = append(filtered, token)
		}
	}
	return filtered
}
