package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pressfolio/internal/logger"
	"pressfolio/internal/models"
	"pressfolio/internal/scraper"
)

// Gateway is the narrow persistence surface the aggregation run consumes.
// Absent rows are reported as nil (or ok=false), not as errors.
type Gateway interface {
	FindUserIDByEmail(ctx context.Context, email string) (int64, bool, error)
	CreateUser(ctx context.Context, email, passwordHash string) (int64, error)
	FindNewspaperByTitle(ctx context.Context, ownerID int64, title string) (*models.Newspaper, error)
	CreateNewspaper(ctx context.Context, ownerID int64, title, description string) (*models.Newspaper, error)
	FindArticleByURL(ctx context.Context, url string) (*models.Article, error)
	CreateArticle(ctx context.Context, ownerID, newspaperID int64, title, content, url string) (*models.Article, error)
	AttachArticle(ctx context.Context, articleID, newspaperID int64) error
}

// PasswordHasher hashes the system owner's password on lazy account creation.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Aggregator runs one sequential ingestion pass over its scrapers,
// reconciling every scraped article against persisted state. Articles are
// deduplicated by URL: a URL already persisted is attached to the current
// newspaper instead of being created again.
type Aggregator struct {
	gateway  Gateway
	hasher   PasswordHasher
	scrapers []scraper.Scraper

	ownerEmail    string
	ownerPassword string

	mu         sync.Mutex
	lastReport *RunReport
}

// RunReport summarizes one aggregation pass.
type RunReport struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
	Scrapers  []ScraperReport `json:"scrapers"`
}

// ScraperReport counts the outcome of one scraper within a run.
type ScraperReport struct {
	Title    string `json:"title"`
	Scraped  int    `json:"scraped"`
	Created  int    `json:"created"`
	Attached int    `json:"attached"`
	Failed   int    `json:"failed"`
	Error    string `json:"error,omitempty"`
}

func New(gateway Gateway, hasher PasswordHasher, ownerEmail, ownerPassword string, scrapers []scraper.Scraper) *Aggregator {
	return &Aggregator{
		gateway:       gateway,
		hasher:        hasher,
		scrapers:      scrapers,
		ownerEmail:    ownerEmail,
		ownerPassword: ownerPassword,
	}
}

// Run executes one aggregation pass. A failure in one scraper is logged and
// counted but never stops the remaining scrapers; only failing to resolve the
// system owner aborts the run.
func (a *Aggregator) Run(ctx context.Context) (*RunReport, error) {
	runID := uuid.NewString()
	log := logger.Get().With().Str("run_id", runID).Logger()

	report := &RunReport{RunID: runID, StartedAt: time.Now()}

	ownerID, err := a.ensureOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving system owner: %w", err)
	}

	log.Info().Int("scrapers", len(a.scrapers)).Msg("Starting aggregation run")
	for _, s := range a.scrapers {
		report.Scrapers = append(report.Scrapers, a.runScraper(ctx, &log, ownerID, s))
	}
	report.Duration = time.Since(report.StartedAt)

	a.mu.Lock()
	a.lastReport = report
	a.mu.Unlock()

	created, attached, failed := 0, 0, 0
	for _, sr := range report.Scrapers {
		created += sr.Created
		attached += sr.Attached
		failed += sr.Failed
	}
	log.Info().
		Int("created", created).
		Int("attached", attached).
		Int("failed", failed).
		Dur("duration", report.Duration).
		Msg("Finished aggregation run")

	return report, nil
}

// LastReport returns the report of the most recently completed run, or nil.
func (a *Aggregator) LastReport() *RunReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastReport
}

func (a *Aggregator) runScraper(ctx context.Context, log *zerolog.Logger, ownerID int64, s scraper.Scraper) ScraperReport {
	report := ScraperReport{Title: s.Title()}

	paper, err := a.ensureNewspaper(ctx, ownerID, s)
	if err != nil {
		report.Error = err.Error()
		log.Error().Err(err).Str("scraper", s.Title()).Msg("Resolving newspaper failed")
		return report
	}

	articles, err := s.Scrape(ctx)
	if err != nil {
		report.Error = err.Error()
		log.Warn().Err(err).Str("scraper", s.Title()).Msg("Scrape failed, continuing with remaining scrapers")
		return report
	}
	report.Scraped = len(articles)

	for _, article := range articles {
		created, err := a.reconcile(ctx, ownerID, paper.ID, article)
		if err != nil {
			report.Failed++
			log.Error().Err(err).Str("url", article.URL).Msg("Persisting article failed")
			continue
		}
		if created {
			report.Created++
		} else {
			report.Attached++
		}
	}

	log.Info().
		Str("scraper", s.Title()).
		Int("scraped", report.Scraped).
		Int("created", report.Created).
		Int("attached", report.Attached).
		Int("failed", report.Failed).
		Msg("Scraper processed")
	return report
}

// reconcile persists one scraped article: create when the URL is unseen,
// otherwise attach the existing article to the current newspaper.
func (a *Aggregator) reconcile(ctx context.Context, ownerID, newspaperID int64, article models.ScrapedArticle) (bool, error) {
	existing, err := a.gateway.FindArticleByURL(ctx, article.URL)
	if err != nil {
		return false, err
	}
	if existing == nil {
		if _, err := a.gateway.CreateArticle(ctx, ownerID, newspaperID, article.Title, article.Summary, article.URL); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, a.gateway.AttachArticle(ctx, existing.ID, newspaperID)
}

// ensureOwner resolves the system owner account, creating it on first run.
func (a *Aggregator) ensureOwner(ctx context.Context) (int64, error) {
	id, ok, err := a.gateway.FindUserIDByEmail(ctx, a.ownerEmail)
	if err != nil {
		return 0, err
	}
	if ok {
		return id, nil
	}

	hash, err := a.hasher.Hash(a.ownerPassword)
	if err != nil {
		return 0, err
	}
	return a.gateway.CreateUser(ctx, a.ownerEmail, hash)
}

func (a *Aggregator) ensureNewspaper(ctx context.Context, ownerID int64, s scraper.Scraper) (*models.Newspaper, error) {
	existing, err := a.gateway.FindNewspaperByTitle(ctx, ownerID, s.Title())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return a.gateway.CreateNewspaper(ctx, ownerID, s.Title(), s.Description())
}
