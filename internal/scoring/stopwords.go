package scoring

// stopWords are dropped when extracting significant title words for
// cross-source validation.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "can": {}, "shall": {},
	"to": {}, "of": {}, "in": {}, "for": {}, "on": {}, "with": {}, "at": {},
	"by": {}, "from": {}, "as": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {},
	"and": {}, "but": {}, "or": {}, "nor": {}, "not": {}, "so": {}, "yet": {},
	"both": {}, "either": {}, "neither": {}, "each": {}, "every": {},
	"all": {}, "any": {}, "few": {}, "more": {}, "most": {}, "other": {},
	"some": {}, "such": {}, "no": {}, "only": {}, "same": {}, "than": {},
	"too": {}, "very": {}, "just": {}, "because": {}, "how": {},
	"what": {}, "which": {}, "who": {}, "when": {}, "where": {}, "why": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "me": {}, "my": {}, "we": {}, "our": {}, "you": {}, "your": {},
	"it": {}, "its": {}, "they": {}, "them": {}, "their": {}, "he": {},
	"him": {}, "his": {}, "she": {}, "her": {}, "about": {}, "up": {},
	"out": {}, "if": {}, "then": {}, "new": {},
}
