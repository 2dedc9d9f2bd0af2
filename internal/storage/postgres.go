package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pressfolio/internal/models"
)

// Postgres implements the persistence gateway the aggregation run talks to.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

// Ensure creates the tables the aggregator writes to if they do not exist.
func (s *Postgres) Ensure(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS newspapers (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			owner_id BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (owner_id, title)
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT,
			url TEXT NOT NULL UNIQUE,
			owner_id BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS newspaper_articles (
			newspaper_id BIGINT NOT NULL REFERENCES newspapers(id) ON DELETE CASCADE,
			article_id BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
			PRIMARY KEY (newspaper_id, article_id)
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}

type dbNewspaper struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	OwnerID     int64          `db:"owner_id"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (n dbNewspaper) toModel() *models.Newspaper {
	return &models.Newspaper{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description.String,
		OwnerID:     n.OwnerID,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

type dbArticle struct {
	ID           int64          `db:"id"`
	Title        string         `db:"title"`
	Content      sql.NullString `db:"content"`
	URL          string         `db:"url"`
	OwnerID      int64          `db:"owner_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	NewspaperIDs pq.Int64Array  `db:"newspaper_ids"`
}

func (a dbArticle) toModel() *models.Article {
	return &models.Article{
		ID:           a.ID,
		Title:        a.Title,
		Content:      a.Content.String,
		URL:          a.URL,
		OwnerID:      a.OwnerID,
		NewspaperIDs: a.NewspaperIDs,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (s *Postgres) FindUserIDByEmail(ctx context.Context, email string) (int64, bool, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT id FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("looking up user %s: %w", email, err)
	}
	return id, true, nil
}

func (s *Postgres) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("creating user %s: %w", email, err)
	}
	return id, nil
}

func (s *Postgres) FindNewspaperByTitle(ctx context.Context, ownerID int64, title string) (*models.Newspaper, error) {
	var row dbNewspaper
	err := s.db.GetContext(ctx, &row,
		`SELECT id, title, description, owner_id, created_at, updated_at
		 FROM newspapers
		 WHERE owner_id = $1 AND title = $2`,
		ownerID, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up newspaper %q: %w", title, err)
	}
	return row.toModel(), nil
}

func (s *Postgres) CreateNewspaper(ctx context.Context, ownerID int64, title, description string) (*models.Newspaper, error) {
	var row dbNewspaper
	err := s.db.GetContext(ctx, &row,
		`INSERT INTO newspapers (title, description, owner_id)
		 VALUES ($1, NULLIF($2, ''), $3)
		 RETURNING id, title, description, owner_id, created_at, updated_at`,
		title, description, ownerID)
	if err != nil {
		return nil, fmt.Errorf("creating newspaper %q: %w", title, err)
	}
	return row.toModel(), nil
}

func (s *Postgres) FindArticleByURL(ctx context.Context, url string) (*models.Article, error) {
	var row dbArticle
	err := s.db.GetContext(ctx, &row,
		`SELECT a.id, a.title, a.content, a.url, a.owner_id, a.created_at, a.updated_at,
		        COALESCE(array_agg(na.newspaper_id) FILTER (WHERE na.newspaper_id IS NOT NULL), '{}') AS newspaper_ids
		 FROM articles a
		 LEFT JOIN newspaper_articles na ON na.article_id = a.id
		 WHERE a.url = $1
		 GROUP BY a.id`,
		url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up article by url %s: %w", url, err)
	}
	return row.toModel(), nil
}

func (s *Postgres) CreateArticle(ctx context.Context, ownerID, newspaperID int64, title, content, url string) (*models.Article, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var row dbArticle
	err = tx.GetContext(ctx, &row,
		`INSERT INTO articles (title, content, url, owner_id)
		 VALUES ($1, NULLIF($2, ''), $3, $4)
		 RETURNING id, title, content, url, owner_id, created_at, updated_at`,
		title, content, url, ownerID)
	if err != nil {
		return nil, fmt.Errorf("creating article %s: %w", url, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO newspaper_articles (newspaper_id, article_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		newspaperID, row.ID); err != nil {
		return nil, fmt.Errorf("attaching article %d to newspaper %d: %w", row.ID, newspaperID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing article %s: %w", url, err)
	}

	row.NewspaperIDs = pq.Int64Array{newspaperID}
	return row.toModel(), nil
}

// AttachArticle links an existing article to a newspaper. Attaching an
// already-attached article is a no-op.
func (s *Postgres) AttachArticle(ctx context.Context, articleID, newspaperID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO newspaper_articles (newspaper_id, article_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		newspaperID, articleID)
	if err != nil {
		return fmt.Errorf("attaching article %d to newspaper %d: %w", articleID, newspaperID, err)
	}
	return nil
}
