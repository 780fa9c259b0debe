package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/product-matcher/app/models"
	"github.com/product-matcher/helpers/utils"
	"github.com/product-matcher/internal/dimension"
	"github.com/product-matcher/internal/keyword"
	"github.com/product-matcher/internal/matcher"
	"go.uber.org/zap"
)

// KeywordService builds and persists the keyword row of every catalog product.
type KeywordService struct {
	engine      *matcher.Engine
	categorizer *keyword.Categorizer
	source      ICatalogSource
	store       IKeywordStore
	pageSize    int
	logger      *zap.Logger

	mu       sync.RWMutex
	jobs     map[string]*models.KeywordJob // pending or running
	finished *expirable.LRU[string, *models.KeywordJob]
}

const (
	maxFinishedJobs = 100
	finishedJobTTL  = time.Hour
)

func NewKeywordService(engine *matcher.Engine, source ICatalogSource, store IKeywordStore, pageSize int, logger *zap.Logger) *KeywordService {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &KeywordService{
		engine:      engine,
		categorizer: keyword.NewCategorizer(engine.Normalizer().Vocabulary()),
		source:      source,
		store:       store,
		pageSize:    pageSize,
		logger:      logger,
		jobs:        make(map[string]*models.KeywordJob),
		finished:    expirable.NewLRU[string, *models.KeywordJob](maxFinishedJobs, nil, finishedJobTTL),
	}
}

// BuildKeywords derives the tagged and extracted keywords of p, each with its category.
func (ks *KeywordService) BuildKeywords(p models.CatalogProduct) *models.ProductKeywords {
	info := ks.engine.ExtractSupplierInfo(p.Title, p.Brand)
	packaging := ks.engine.ExtractPackagingInfo(p.Title)

	brand := info.Brand
	if brand == "" {
		brand = p.Brand
	}
	dims := dimension.FormatDimensions(p.SeatRow, p.SeatNumber)
	if dims == "" {
		dims = info.Dimensions.String()
	}

	var terms []keyword.Term
	add := func(tag, text string) {
		if text != "" {
			terms = append(terms, keyword.NewTerm(tag, text))
		}
	}
	add(keyword.TagBrand, brand)
	add(keyword.TagVitola, info.Vitola)
	add(keyword.TagDimension, dims)
	if packaging.Count > 0 {
		add(keyword.TagCount, strconv.Itoa(packaging.Count))
	}
	add(keyword.TagPackaging, packaging.Type)
	add(keyword.TagSpecial, ks.specialEdition(p.Title))
	if m := reTitleYear.FindStringSubmatch(p.Title); m != nil {
		add(keyword.TagYear, m[1])
	}
	for _, t := range ks.engine.Normalizer().ExtractTerms(p.Title) {
		add("", t)
	}
	terms = uniqueTerms(terms)

	pctx := &keyword.ProductContext{Brand: brand, Vitola: info.Vitola}
	categorized := make([]models.CategorizedTerm, len(terms))
	for i, t := range terms {
		categorized[i] = models.CategorizedTerm{
			Term:     t.String(),
			Category: ks.categorizer.Categorize(t, pctx),
		}
	}

	now := time.Now()
	return &models.ProductKeywords{
		SKU:         p.SKU,
		ProductID:   p.ID,
		Title:       p.Title,
		ProductType: ks.engine.DetectProductType(p.Title, ""),
		Keywords:    keyword.Strings(terms),
		Categorized: categorized,
		Packaging:   packaging,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

var reTitleYear = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)

// specialEdition returns the first special-edition vocabulary term found in title.
func (ks *KeywordService) specialEdition(title string) string {
	lower := strings.ToLower(title)
	for _, set := range ks.engine.Normalizer().Vocabulary().CategoryVocabularies {
		if set.Label != string(keyword.CategorySpecialEdition) {
			continue
		}
		for _, w := range set.Terms {
			if strings.Contains(lower, w) {
				return w
			}
		}
	}
	return ""
}

func uniqueTerms(terms []keyword.Term) []keyword.Term {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if _, ok := seen[t.Key()]; ok {
			continue
		}
		seen[t.Key()] = struct{}{}
		out = append(out, t)
	}
	return out
}

// processProduct builds and stores the row for p. A panic while building is returned as an error.
func (ks *KeywordService) processProduct(ctx context.Context, p models.CatalogProduct) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while building keywords: %v", r)
		}
	}()

	kw := ks.BuildKeywords(p)
	return ks.store.Upsert(ctx, kw)
}

// ProgressFunc receives batch progress after every page.
type ProgressFunc func(processed, failed, total int)

// RunBatch rebuilds keywords for the whole catalog. A failing product gets the
// fallback row and is counted as failed; only catalog or context errors stop the run.
func (ks *KeywordService) RunBatch(ctx context.Context, progress ProgressFunc) (*models.BatchStats, error) {
	start := time.Now()

	total, err := ks.source.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count catalog: %w", err)
	}
	stats := &models.BatchStats{Total: total}

	ks.logger.Info("Keyword batch started", zap.Int("total", total), zap.Int("page_size", ks.pageSize))

	for offset := 0; ; offset += ks.pageSize {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}

		products, err := ks.source.ListProducts(ctx, offset, ks.pageSize)
		if err != nil {
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("list catalog at offset %d: %w", offset, err)
		}
		if len(products) == 0 {
			break
		}

		for _, p := range products {
			if err := ks.processProduct(ctx, p); err != nil {
				stats.Failed++
				ks.logger.Warn("Keyword build failed, storing fallback",
					zap.String("sku", p.SKU),
					zap.String("title", p.Title),
					zap.Error(err))
				if err := ks.store.Upsert(ctx, models.FallbackKeywords(p)); err != nil {
					ks.logger.Error("Fallback keyword upsert failed", zap.String("sku", p.SKU), zap.Error(err))
				}
				continue
			}
			stats.Processed++
		}

		if progress != nil {
			progress(stats.Processed, stats.Failed, total)
		}
		if len(products) < ks.pageSize {
			break
		}
	}

	// The catalog may have grown while paging.
	if done := stats.Processed + stats.Failed; done > stats.Total {
		stats.Total = done
	}
	stats.Duration = time.Since(start)

	ks.logger.Info("Keyword batch finished",
		zap.Int("processed", stats.Processed),
		zap.Int("failed", stats.Failed),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

// StartJob runs the batch in the background and returns its initial status.
func (ks *KeywordService) StartJob() *models.KeywordJob {
	now := time.Now()
	job := &models.KeywordJob{
		JobID:     utils.GenerateUUID(),
		Status:    models.JobStatusPending,
		Message:   "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}

	ks.mu.Lock()
	ks.jobs[job.JobID] = job
	snapshot := *job
	ks.mu.Unlock()

	go ks.runJob(job.JobID)
	return &snapshot
}

func (ks *KeywordService) runJob(jobID string) {
	ks.updateJob(jobID, func(job *models.KeywordJob) {
		job.Status = models.JobStatusRunning
		job.Message = "building keywords"
	})

	stats, err := ks.RunBatch(context.Background(), func(processed, failed, total int) {
		ks.updateJob(jobID, func(job *models.KeywordJob) {
			job.Total = total
			job.Processed = processed
			job.Failed = failed
			if total > 0 {
				job.Progress = float64(processed+failed) / float64(total)
			}
		})
	})

	ks.finishJob(jobID, func(job *models.KeywordJob) {
		finished := time.Now()
		job.FinishedAt = &finished
		if stats != nil {
			job.Total = stats.Total
			job.Processed = stats.Processed
			job.Failed = stats.Failed
		}
		if err != nil {
			job.Status = models.JobStatusFailed
			job.Message = err.Error()
			return
		}
		job.Status = models.JobStatusDone
		job.Progress = 1
		job.Message = "completed"
	})

	if err != nil {
		ks.logger.Error("Keyword job failed", zap.String("job_id", jobID), zap.Error(err))
	}
}

func (ks *KeywordService) updateJob(jobID string, fn func(job *models.KeywordJob)) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	if job, ok := ks.jobs[jobID]; ok {
		fn(job)
		job.UpdatedAt = time.Now()
	}
}

// finishJob applies the final update and moves the job to the finished set,
// where it stays readable until it expires.
func (ks *KeywordService) finishJob(jobID string, fn func(job *models.KeywordJob)) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	job, ok := ks.jobs[jobID]
	if !ok {
		return
	}
	fn(job)
	job.UpdatedAt = time.Now()
	delete(ks.jobs, jobID)
	ks.finished.Add(jobID, job)
}

// GetJob returns a snapshot of the job status.
func (ks *KeywordService) GetJob(jobID string) (*models.KeywordJob, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	job, ok := ks.jobs[jobID]
	if !ok {
		if job, ok = ks.finished.Get(jobID); !ok {
			return nil, models.ErrJobNotFound
		}
	}
	snapshot := *job
	return &snapshot, nil
}

func (ks *KeywordService) GetKeywords(ctx context.Context, sku string) (*models.ProductKeywords, error) {
	return ks.store.Get(ctx, sku)
}

func (ks *KeywordService) CountKeywords(ctx context.Context) (int64, error) {
	return ks.store.Count(ctx)
}
