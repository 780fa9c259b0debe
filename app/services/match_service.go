package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/product-matcher/app/models"
	"github.com/product-matcher/helpers/utils"
	"github.com/product-matcher/internal/keyword"
	"github.com/product-matcher/internal/matcher"
	"github.com/product-matcher/internal/normalizer"
	"github.com/product-matcher/internal/similarity"
	"go.uber.org/zap"
)

// ICandidateSearcher preselects catalog candidates for a title.
type ICandidateSearcher interface {
	SearchCandidates(ctx context.Context, query string, limit int) ([]models.CatalogProduct, error)
}

// MatchOptions bounds the extra output of MatchTitle.
type MatchOptions struct {
	CandidateLimit      int
	AlternativeLimit    int
	SuggestionLimit     int
	SuggestionThreshold float64
	SimilarityThreshold float64
}

// MatchService answers match requests. Searcher and cache are optional.
type MatchService struct {
	engine      *matcher.Engine
	categorizer *keyword.Categorizer
	searcher    ICandidateSearcher
	cache       ICacheService
	opts        MatchOptions
	logger      *zap.Logger

	dictionary []string // folded brand and vitola names for spelling hints
}

func NewMatchService(engine *matcher.Engine, searcher ICandidateSearcher, cache ICacheService, opts MatchOptions, logger *zap.Logger) *MatchService {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = 50
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = similarity.DefaultThreshold
	}

	vocab := engine.Normalizer().Vocabulary()
	seen := make(map[string]struct{})
	var dictionary []string
	addWord := func(s string) {
		for _, w := range strings.Fields(normalizer.Fold(s)) {
			if len(w) < 3 || normalizer.HasChineseCharacters(w) {
				continue
			}
			if _, ok := seen[w]; !ok {
				seen[w] = struct{}{}
				dictionary = append(dictionary, w)
			}
		}
	}
	for _, b := range vocab.Brands {
		addWord(b.Name)
		for _, a := range b.Aliases {
			addWord(a)
		}
	}
	for _, v := range vocab.Vitolas {
		addWord(v)
	}

	return &MatchService{
		engine:      engine,
		categorizer: keyword.NewCategorizer(vocab),
		searcher:    searcher,
		cache:       cache,
		opts:        opts,
		logger:      logger,
		dictionary:  dictionary,
	}
}

// Engine exposes the engine for the title analysis endpoints.
func (ms *MatchService) Engine() *matcher.Engine {
	return ms.engine
}

// MatchTitle finds the best catalog product for title. Without candidates the
// catalog index is searched; without an index the title cannot match.
func (ms *MatchService) MatchTitle(ctx context.Context, title string, candidates []models.CatalogProduct) (*models.MatchOutcome, error) {
	if strings.TrimSpace(title) == "" {
		return nil, models.ErrEmptyTitle
	}

	key := matchCacheKey(title, candidates)
	if ms.cache != nil {
		if cached, found, err := ms.cache.Get(ctx, key); err != nil {
			ms.logger.Warn("Match cache read failed", zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	if len(candidates) == 0 && ms.searcher != nil {
		query := ms.engine.Normalizer().NormalizeTitle(title)
		found, err := ms.searcher.SearchCandidates(ctx, query, ms.opts.CandidateLimit)
		if err != nil {
			return nil, err
		}
		candidates = found
	}

	outcome := ms.buildOutcome(title, candidates)
	outcome.Fingerprint = key

	if ms.cache != nil {
		if err := ms.cache.Set(ctx, key, outcome); err != nil {
			ms.logger.Warn("Match cache write failed", zap.Error(err))
		}
	}

	ms.logger.Debug("Matched title",
		zap.String("title", title),
		zap.Int("candidates", len(candidates)),
		zap.Bool("matched", outcome.Matched),
		zap.Int("score", outcome.Score))
	return outcome, nil
}

func matchCacheKey(title string, candidates []models.CatalogProduct) string {
	parts := make([]string, 0, 1+len(candidates))
	parts = append(parts, strings.TrimSpace(title))
	for _, c := range candidates {
		parts = append(parts, c.SKU+"|"+c.Title+"|"+c.Brand+"|"+c.SeatRow+"|"+c.SeatNumber)
	}
	return utils.Fingerprint(parts...)
}

func (ms *MatchService) buildOutcome(title string, candidates []models.CatalogProduct) *models.MatchOutcome {
	tn := ms.engine.Normalizer()
	info := ms.engine.ExtractSupplierInfo(title, matcher.CandidateBrands(candidates)...)

	outcome := &models.MatchOutcome{
		Title:        title,
		Normalized:   tn.NormalizeTitle(title),
		Terms:        tn.ExtractTerms(title),
		SupplierInfo: info,
		ProductType:  ms.engine.DetectProductType(title, ""),
		Packaging:    ms.engine.ExtractPackagingInfo(title),
		MatchedTerms: []models.CategorizedTerm{},
		CreatedAt:    time.Now(),
	}

	best := ms.engine.GetBestMatch(title, candidates)
	if best.Product == nil {
		outcome.Suggestions = ms.suggest(outcome.Normalized, candidates)
		outcome.Similar = ms.similarTerms(outcome.Terms)
		return outcome
	}

	product := *best.Product
	outcome.Matched = true
	outcome.Product = &product
	outcome.Score = best.Score

	pctx := &keyword.ProductContext{Brand: product.Brand, Vitola: info.Vitola}
	if pctx.Brand == "" {
		pctx.Brand = info.Brand
	}
	for _, t := range best.MatchedTerms {
		outcome.MatchedTerms = append(outcome.MatchedTerms, models.CategorizedTerm{
			Term:     t.String(),
			Category: ms.categorizer.Categorize(t, pctx),
		})
	}

	if ms.opts.AlternativeLimit > 0 {
		for _, r := range ms.engine.RankCandidates(title, candidates, ms.opts.AlternativeLimit+1) {
			if r.Product == best.Product || len(outcome.Alternatives) == ms.opts.AlternativeLimit {
				continue
			}
			outcome.Alternatives = append(outcome.Alternatives, r)
		}
	}
	return outcome
}

// suggest ranks candidate titles by Jaro-Winkler similarity to the normalized title.
func (ms *MatchService) suggest(normalized string, candidates []models.CatalogProduct) []models.Suggestion {
	if ms.opts.SuggestionLimit <= 0 || normalized == "" {
		return nil
	}

	tn := ms.engine.Normalizer()
	var suggestions []models.Suggestion
	for _, c := range candidates {
		score := similarity.JaroWinkler(normalized, tn.NormalizeTitle(c.Title))
		if score >= ms.opts.SuggestionThreshold {
			suggestions = append(suggestions, models.Suggestion{SKU: c.SKU, Title: c.Title, Score: score})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > ms.opts.SuggestionLimit {
		suggestions = suggestions[:ms.opts.SuggestionLimit]
	}
	return suggestions
}

// similarTerms proposes brand or vitola spellings close to terms that are not known words.
func (ms *MatchService) similarTerms(terms []string) []similarity.Match {
	var out []similarity.Match
	seen := make(map[string]struct{})
	for _, t := range terms {
		word := normalizer.Fold(t)
		if strings.Contains(word, " ") || normalizer.HasChineseCharacters(word) {
			continue
		}
		for _, m := range similarity.FindSimilarWords(word, ms.dictionary, ms.opts.SimilarityThreshold) {
			if m.Similarity >= 1 {
				break
			}
			if _, ok := seen[m.Word]; ok {
				continue
			}
			seen[m.Word] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// ClearCache empties the match cache.
func (ms *MatchService) ClearCache(ctx context.Context) error {
	if ms.cache == nil {
		return nil
	}
	return ms.cache.Clear(ctx)
}

// CacheStats returns nil stats when caching is disabled.
func (ms *MatchService) CacheStats(ctx context.Context) (*CacheStats, error) {
	if ms.cache == nil {
		return nil, nil
	}
	return ms.cache.GetStats(ctx)
}
