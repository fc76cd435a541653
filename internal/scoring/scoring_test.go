package scoring

import (
	"testing"

	"infocurator/internal/domain"
	"infocurator/internal/source"
)

func testTuning() map[string]source.Params {
	return map[string]source.Params{
		"hackernews": {PrimaryBaseline: 100, SecondaryBaseline: 50, Trust: 18},
		"reddit": {
			PrimaryBaseline:   500,
			SecondaryBaseline: 100,
			Trust:             14,
			SubTrust:          map[string]int{"r/MachineLearning": 19},
		},
		"arxiv": {FixedEngagement: true, Trust: 19},
	}
}

func TestEngagementScoreNormalization(t *testing.T) {
	t.Parallel()

	e := NewEngine(testTuning(), nil)

	// At exactly the baselines both components saturate: 20 + 10.
	got := e.engagementScore(domain.RawItem{
		Source: "hackernews", EngagementPrimary: 100, EngagementSecondary: 50,
	})
	if got != 30 {
		t.Fatalf("expected 30 at baseline, got %v", got)
	}

	// Half the baselines yields half the points.
	got = e.engagementScore(domain.RawItem{
		Source: "hackernews", EngagementPrimary: 50, EngagementSecondary: 25,
	})
	if got != 15 {
		t.Fatalf("expected 15 at half baseline, got %v", got)
	}

	// Counts above baseline stay clamped at 30.
	got = e.engagementScore(domain.RawItem{
		Source: "hackernews", EngagementPrimary: 10000, EngagementSecondary: 10000,
	})
	if got != 30 {
		t.Fatalf("expected clamp at 30, got %v", got)
	}
}

func TestEngagementScoreFixedSources(t *testing.T) {
	t.Parallel()

	e := NewEngine(testTuning(), nil)

	if got := e.engagementScore(domain.RawItem{Source: "arxiv"}); got != 10 {
		t.Fatalf("fixed-engagement source: expected 10, got %v", got)
	}
	if got := e.engagementScore(domain.RawItem{Source: "unknown"}); got != 10 {
		t.Fatalf("unknown source: expected 10, got %v", got)
	}
}

func TestKeywordScoreCountsOccurrences(t *testing.T) {
	t.Parallel()

	item := domain.RawItem{Title: "GPT launch and GPT pricing"}

	if got := keywordScore(item, []string{"GPT"}); got != 10 {
		t.Fatalf("two occurrences should score 10, got %v", got)
	}

	// Matching is plain substring search: "again" contains "ai".
	item.Title = "AI breakthrough AI again"
	if got := keywordScore(item, []string{"AI"}); got != 15 {
		t.Fatalf("substring matches count too, expected 15, got %v", got)
	}

	// More matches than the ceiling allows stay clamped at 20.
	item.Title = "AI AI AI AI AI AI"
	if got := keywordScore(item, []string{"ai"}); got != 20 {
		t.Fatalf("expected clamp at 20, got %v", got)
	}

	// No keyword list means neutral, not zero.
	if got := keywordScore(item, nil); got != 10 {
		t.Fatalf("unthemed run should score 10, got %v", got)
	}
}

func TestTrustScoreSubSourceOverride(t *testing.T) {
	t.Parallel()

	e := NewEngine(testTuning(), nil)

	got := e.trustScore(domain.RawItem{Source: "reddit", SubSource: "r/MachineLearning"})
	if got != 19 {
		t.Fatalf("sub-source override: expected 19, got %v", got)
	}

	got = e.trustScore(domain.RawItem{Source: "reddit", SubSource: "r/unknown"})
	if got != 14 {
		t.Fatalf("unknown sub-source falls back to source trust: expected 14, got %v", got)
	}

	if got := e.trustScore(domain.RawItem{Source: "nowhere"}); got != 10 {
		t.Fatalf("unknown source defaults to 10, got %v", got)
	}
}

func TestCrossValidationBonusAcrossSources(t *testing.T) {
	t.Parallel()

	e := NewEngine(testTuning(), nil)

	items := []domain.RawItem{
		{ID: "a", Source: "hackernews", Title: "OpenAI releases new GPT model"},
		{ID: "b", Source: "reddit", Title: "OpenAI announces GPT model update"},
		{ID: "c", Source: "arxiv", Title: "Quantum error correction milestone"},
	}

	scores := e.crossValidationScores(items)

	if scores["a"] != 15 {
		t.Fatalf("item a should earn the cross bonus, got %v", scores["a"])
	}
	if scores["b"] != 15 {
		t.Fatalf("item b should earn the cross bonus, got %v", scores["b"])
	}
	if scores["c"] != 0 {
		t.Fatalf("uncorroborated item should score 0, got %v", scores["c"])
	}
}

func TestCrossValidationIgnoresSameSource(t *testing.T) {
	t.Parallel()

	e := NewEngine(testTuning(), nil)

	items := []domain.RawItem{
		{ID: "a", Source: "hackernews", Title: "Rust compiler speedup announced today"},
		{ID: "b", Source: "hackernews", Title: "Rust compiler speedup announced today"},
	}

	scores := e.crossValidationScores(items)
	if scores["a"] != 0 || scores["b"] != 0 {
		t.Fatalf("same-source duplicates must not corroborate: got %v and %v",
			scores["a"], scores["b"])
	}
}

func TestCrossValidationClamped(t *testing.T) {
	t.Parallel()

	e := NewEngine(testTuning(), nil)

	// Three corroborating sources would give 45; the ceiling holds it at 30.
	items := []domain.RawItem{
		{ID: "a", Source: "hackernews", Title: "Linux kernel vulnerability patched"},
		{ID: "b", Source: "reddit", Title: "Linux kernel vulnerability patched"},
		{ID: "c", Source: "arxiv", Title: "Linux kernel vulnerability patched"},
		{ID: "d", Source: "lobsters", Title: "Linux kernel vulnerability patched"},
	}

	scores := e.crossValidationScores(items)
	if scores["a"] != 30 {
		t.Fatalf("expected clamp at 30, got %v", scores["a"])
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	t.Parallel()

	e := NewEngine(testTuning(), nil)
	items := []domain.RawItem{
		{ID: "a", Source: "hackernews", Title: "AI model sets new benchmark",
			EngagementPrimary: 80, EngagementSecondary: 40},
		{ID: "b", Source: "reddit", SubSource: "r/MachineLearning",
			Title: "New AI model benchmark results", EngagementPrimary: 300},
	}
	keywords := []string{"AI", "benchmark"}

	first := e.Score(items, keywords)
	second := e.Score(items, keywords)

	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Scores != second[i].Scores {
			t.Fatalf("item %d scored differently: %+v vs %+v",
				i, first[i].Scores, second[i].Scores)
		}
	}
}

func TestScoreTotalsWithinBounds(t *testing.T) {
	t.Parallel()

	e := NewEngine(testTuning(), nil)
	items := []domain.RawItem{
		{ID: "a", Source: "hackernews", Title: "AI AI AI AI AI breakthrough",
			EngagementPrimary: 100000, EngagementSecondary: 100000},
		{ID: "b", Source: "unknown", Title: ""},
	}

	for _, item := range e.Score(items, []string{"AI"}) {
		s := item.Scores
		if s.Total != s.Engagement+s.Keyword+s.Trust+s.CrossValidation {
			t.Fatalf("total %d is not the sum of its parts: %+v", s.Total, s)
		}
		if s.Total < 0 || s.Total > 100 {
			t.Fatalf("total out of range: %d", s.Total)
		}
	}
}

func TestSignificantWordsFiltering(t *testing.T) {
	t.Parallel()

	got := significantWords("The AI-powered Model, a new era!")
	want := []string{"aipowered", "model", "era"} // "the", "a", "new" are stop words

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
