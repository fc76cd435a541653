package scoring

import (
	"log/slog"
	"math"
	"strings"

	"infocurator/internal/domain"
	"infocurator/internal/source"
)

const (
	engagementCeiling = 30
	keywordCeiling    = 20
	crossCeiling      = 30

	// Fixed scores for dimensions that cannot be measured: sources without
	// an engagement concept and runs without a keyword theme score a
	// neutral 10 rather than being penalized.
	fixedEngagementScore = 10
	neutralKeywordScore  = 10
	defaultTrustScore    = 10

	keywordMatchValue = 5

	// Cross-validation: a title whose significant words overlap another
	// source's title by at least overlapThreshold earns crossBonus per
	// corroborating item, clamped to crossCeiling.
	crossBonus       = 15
	overlapThreshold = 0.3
)

// Engine assigns a reproducible four-dimensional quality score to raw
// items. It performs no I/O and never fails; missing fields score as zero.
type Engine struct {
	tuning map[string]source.Params
	logger *slog.Logger
}

func NewEngine(tuning map[string]source.Params, logger *slog.Logger) *Engine {
	if tuning == nil {
		tuning = map[string]source.Params{}
	}
	return &Engine{tuning: tuning, logger: logger}
}

// Score computes all sub-scores for every item. Keywords may be nil for
// unthemed (trending) runs. Each sub-score is rounded and clamped before
// summation, so totals are deterministic integers in [0,100].
func (e *Engine) Score(items []domain.RawItem, keywords []string) []domain.ScoredItem {
	cross := e.crossValidationScores(items)

	scored := make([]domain.ScoredItem, 0, len(items))
	for _, item := range items {
		s := domain.Scores{
			Engagement:      round(e.engagementScore(item)),
			Keyword:         round(keywordScore(item, keywords)),
			Trust:           round(e.trustScore(item)),
			CrossValidation: round(cross[item.ID]),
		}
		s.Total = s.Engagement + s.Keyword + s.Trust + s.CrossValidation
		scored = append(scored, domain.ScoredItem{RawItem: item, Scores: s})
	}

	if e.logger != nil {
		e.logger.Debug("scored items", "count", len(scored), "keywords", len(keywords))
	}
	return scored
}

// engagementScore normalizes raw counts against the per-source baseline so
// sources with wildly different popularity scales land on one footing.
func (e *Engine) engagementScore(item domain.RawItem) float64 {
	params, ok := e.tuning[item.Source]
	if !ok || params.FixedEngagement {
		return fixedEngagementScore
	}

	var primary float64
	if params.PrimaryBaseline > 0 {
		ratio := float64(item.EngagementPrimary) / params.PrimaryBaseline
		primary = math.Min(ratio*20, 20)
	}

	var secondary float64
	if params.SecondaryBaseline > 0 {
		ratio := float64(item.EngagementSecondary) / params.SecondaryBaseline
		secondary = math.Min(ratio*10, 10)
	}

	return math.Min(primary+secondary, engagementCeiling)
}

// keywordScore counts case-insensitive keyword occurrences across title and
// excerpt. No keyword list means "unknown but not penalized" relevance.
func keywordScore(item domain.RawItem, keywords []string) float64 {
	if len(keywords) == 0 {
		return neutralKeywordScore
	}

	text := strings.ToLower(item.Title + " " + item.BodyExcerpt)
	matches := 0
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		matches += strings.Count(text, keyword)
	}

	return math.Min(float64(matches*keywordMatchValue), keywordCeiling)
}

// trustScore is a static lookup by source, with an optional finer-grained
// override by sub-source (e.g. subreddit). Unknown sources default to 10.
func (e *Engine) trustScore(item domain.RawItem) float64 {
	params, ok := e.tuning[item.Source]
	if !ok {
		return defaultTrustScore
	}
	if item.SubSource != "" {
		if trust, ok := params.SubTrust[item.SubSource]; ok {
			return float64(trust)
		}
	}
	if params.Trust == 0 {
		return defaultTrustScore
	}
	return float64(params.Trust)
}

// crossValidationScores rewards items corroborated by other sources. The
// overlap ratio divides by the size of the current item's own word list,
// so the bonus is intentionally asymmetric between item pairs. Pairwise
// O(n²) is fine at the batch sizes this pipeline sees.
func (e *Engine) crossValidationScores(items []domain.RawItem) map[string]float64 {
	words := make([][]string, len(items))
	sets := make([]map[string]struct{}, len(items))
	for i := range items {
		words[i] = significantWords(items[i].Title)
		set := make(map[string]struct{}, len(words[i]))
		for _, w := range words[i] {
			set[w] = struct{}{}
		}
		sets[i] = set
	}

	scores := make(map[string]float64, len(items))
	for i := range items {
		var cross float64
		for j := range items {
			if i == j || items[i].Source == items[j].Source {
				continue
			}
			overlap := 0
			for _, w := range words[i] {
				if _, ok := sets[j][w]; ok {
					overlap++
				}
			}
			denom := len(words[i])
			if denom == 0 {
				denom = 1
			}
			if float64(overlap)/float64(denom) >= overlapThreshold {
				cross += crossBonus
			}
		}
		scores[items[i].ID] = math.Min(cross, crossCeiling)
	}

	return scores
}

// significantWords lower-cases the title, strips non-alphanumeric runes,
// and drops stop words and words of three characters or fewer.
func significantWords(title string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '\t' {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

func round(v float64) int {
	return int(math.Round(v))
}
