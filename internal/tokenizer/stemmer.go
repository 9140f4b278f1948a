package tokenizer

import "strings"

// Stem reduces word to an approximate root by a fixed sequence of suffix rules.
// Each rule runs once, on the output of the previous one:
//
//	Xies -> Xy, Xes -> Xe, Xs -> X   (X not a vowel)
//	eed -> ee, ed -> "", ing -> ""
//	ly -> ""
//	XX -> X                          (trailing doubled non-vowel)
//	ational -> ate, ization -> ize, ful -> ""
//
// The order is part of the output contract: "running" -> "runn" -> "run",
// but "flies" -> "fly" -> "f". Input is expected to be lowercase.
func Stem(word string) string {
	stemmed := word

	stemmed = replaceAfterNonVowel(stemmed, "ies", "y")
	stemmed = replaceAfterNonVowel(stemmed, "es", "e")
	stemmed = replaceAfterNonVowel(stemmed, "s", "")
	stemmed = replaceSuffix(stemmed, "eed", "ee")
	stemmed = replaceSuffix(stemmed, "ed", "")
	stemmed = replaceSuffix(stemmed, "ing", "")

	stemmed = replaceSuffix(stemmed, "ly", "")

	stemmed = collapseDoubledEnding(stemmed)

	stemmed = replaceSuffix(stemmed, "ational", "ate")
	stemmed = replaceSuffix(stemmed, "ization", "ize")
	stemmed = replaceSuffix(stemmed, "ful", "")

	return stemmed
}

// StemTokens applies Stem to every token, keeping order.
func StemTokens(tokens []string) []string {
	stemmed := make([]string, len(tokens))
	for i, token := range tokens {
		stemmed[i] = Stem(token)
	}
	return stemmed
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func replaceSuffix(word, suffix, replacement string) string {
	if strings.HasSuffix(word, suffix) {
		return word[:len(word)-len(suffix)] + replacement
	}
	return word
}

// replaceAfterNonVowel rewrites suffix only when a non-vowel character precedes it.
func replaceAfterNonVowel(word, suffix, replacement string) string {
	if len(word) <= len(suffix) || !strings.HasSuffix(word, suffix) {
		return word
	}
	if isVowel(word[len(word)-len(suffix)-1]) {
		return word
	}
	return word[:len(word)-len(suffix)] + replacement
}

func collapseDoubledEnding(word string) string {
	n := len(word)
	if n < 2 {
		return word
	}
	last := word[n-1]
	if last == word[n-2] && !isVowel(last) {
		return word[:n-1]
	}
	return word
}
