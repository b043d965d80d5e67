package aggregator

// stopwords are common English words never reported as recurring issues.
// Entries are in normalized form, so contractions appear without apostrophes.
var stopwords = toSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "has", "have", "been", "this",
	"that", "with", "from", "they", "them", "there", "their", "what", "when",
	"where", "which", "who", "will", "would", "could", "should", "very",
	"also", "into", "than", "then", "just", "about", "after", "again", "some",
	"such", "only", "own", "same", "too", "its", "your", "his", "she", "him",
	"were", "being", "because", "since", "while", "does", "did", "doing",
	"over", "under", "more", "most", "other", "these", "those", "each", "few",
	"how", "why", "off", "now", "get", "got", "still", "even", "much", "many",
	"please", "im", "ive", "dont", "cant", "isnt", "wasnt",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether word is excluded from recurring issues
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}
