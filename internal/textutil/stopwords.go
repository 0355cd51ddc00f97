package textutil

// StopWords are tokens that carry no search intent. Only words of three or
// more letters are listed since Tokenize drops anything shorter.
var StopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "you": {}, "your": {},
	"are": {}, "our": {}, "will": {}, "from": {}, "that": {}, "this": {},
	"have": {}, "has": {}, "not": {}, "but": {}, "all": {}, "can": {},
	"who": {}, "was": {}, "were": {}, "been": {}, "its": {}, "into": {},
	"they": {}, "them": {}, "their": {}, "there": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "about": {}, "also": {}, "any": {},
	"more": {}, "most": {}, "other": {}, "some": {}, "such": {}, "than": {},
	"then": {}, "these": {}, "those": {}, "very": {}, "just": {}, "over": {},
	"only": {}, "own": {}, "same": {}, "out": {}, "how": {}, "why": {},
	"job": {}, "jobs": {}, "role": {}, "work": {}, "working": {}, "looking": {},
	"position": {}, "team": {}, "etc": {}, "per": {}, "via": {}, "using": {},
	"including": {}, "across": {}, "within": {}, "able": {}, "well": {},
}

// IsStopWord reports whether tok is in StopWords.
func IsStopWord(tok string) bool {
	_, ok := StopWords[tok]
	return ok
}
