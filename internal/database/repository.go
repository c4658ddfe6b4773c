package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nexusvision/studio/pkg/models"
)

// Repository provides database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Health checks the underlying connection
func (r *Repository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

// Users

// CreateUser creates a new user record. A duplicate email maps to
// models.ErrDuplicateEmail.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, name, email, credits_amount, credits_unlimited, plan, avatar, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING version, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Credits.Amount, user.Credits.Unlimited,
		user.Plan, user.Avatar, user.IsAdmin,
	).Scan(&user.Version, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, email, credits_amount, credits_unlimited, plan, avatar,
		       is_admin, version, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.Pool.QueryRow(ctx, query, id))
}

// GetUserByEmail retrieves a user by email. Emails are matched exactly as
// stored, case-sensitive.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, credits_amount, credits_unlimited, plan, avatar,
		       is_admin, version, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return r.scanUser(r.db.Pool.QueryRow(ctx, query, email))
}

// UpdateUser persists plan and credit changes with an optimistic version
// check. When another writer got there first the update matches no row and
// models.ErrVersionConflict is returned; callers reload and retry.
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $2, credits_amount = $3, credits_unlimited = $4, plan = $5,
		    avatar = $6, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $7
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		user.ID, user.Name, user.Credits.Amount, user.Credits.Unlimited,
		user.Plan, user.Avatar, user.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrVersionConflict
	}

	user.Version++
	return nil
}

func (r *Repository) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User

	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Credits.Amount,
		&user.Credits.Unlimited, &user.Plan, &user.Avatar, &user.IsAdmin,
		&user.Version, &user.CreatedAt, &user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Generation history

// InsertHistory appends an immutable generation record
func (r *Repository) InsertHistory(ctx context.Context, record *models.GenerationRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	concepts, err := json.Marshal(record.Concepts)
	if err != nil {
		return fmt.Errorf("failed to marshal concepts: %w", err)
	}

	query := `
		INSERT INTO generation_history (id, user_id, niche, theme, base_image_id, style_image_id, product_image_id, concepts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		record.ID, record.UserID, record.Niche, record.Theme,
		record.BaseImageID, record.StyleImageID, record.ProductImageID, concepts,
	).Scan(&record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}

	return nil
}

// ListHistoryByUser retrieves a user's generation history, most recent first
func (r *Repository) ListHistoryByUser(ctx context.Context, userID string) ([]*models.GenerationRecord, error) {
	query := `
		SELECT id, user_id, created_at, niche, theme, base_image_id,
		       style_image_id, product_image_id, concepts
		FROM generation_history
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []*models.GenerationRecord
	for rows.Next() {
		record, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// GetHistory retrieves a single generation record by ID
func (r *Repository) GetHistory(ctx context.Context, id string) (*models.GenerationRecord, error) {
	query := `
		SELECT id, user_id, created_at, niche, theme, base_image_id,
		       style_image_id, product_image_id, concepts
		FROM generation_history
		WHERE id = $1
	`

	rows, err := r.db.Pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get history record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, models.ErrHistoryNotFound
	}

	return scanHistory(rows)
}

func scanHistory(rows pgx.Rows) (*models.GenerationRecord, error) {
	var record models.GenerationRecord
	var concepts []byte

	err := rows.Scan(
		&record.ID, &record.UserID, &record.CreatedAt, &record.Niche,
		&record.Theme, &record.BaseImageID, &record.StyleImageID,
		&record.ProductImageID, &concepts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan history record: %w", err)
	}

	if err := json.Unmarshal(concepts, &record.Concepts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal concepts: %w", err)
	}

	return &record, nil
}

// Showcase

// CountShowcaseRow returns the number of items currently in a row
func (r *Repository) CountShowcaseRow(ctx context.Context, row models.ShowcaseRow) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM showcase_items WHERE row_name = $1`
	if err := r.db.Pool.QueryRow(ctx, query, row).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count showcase row: %w", err)
	}

	return count, nil
}

// InsertShowcaseItems inserts a batch of showcase items. The batch is stamped
// with a single created_at computed here rather than per-row NOW(), since
// each insert autocommits with its own clock reading; the shared timestamp is
// what lets batch_index keep the submission order within the batch.
func (r *Repository) InsertShowcaseItems(ctx context.Context, items []*models.ShowcaseItem) error {
	query := `
		INSERT INTO showcase_items (id, title, category, image_id, row_name, batch_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	stampBatch(items, time.Now())

	for _, item := range items {
		_, err := r.db.Pool.Exec(ctx, query,
			item.ID, item.Title, item.Category, item.ImageID, item.Row,
			item.BatchIndex, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert showcase item: %w", err)
		}
	}

	return nil
}

// stampBatch assigns fresh ids where missing and one shared created_at to
// every item in a batch, so `ORDER BY created_at DESC, batch_index ASC`
// lists the batch as a unit in submission order.
func stampBatch(items []*models.ShowcaseItem, now time.Time) {
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.CreatedAt = now
	}
}

// ListShowcase retrieves all showcase items, newest batch first
func (r *Repository) ListShowcase(ctx context.Context) ([]*models.ShowcaseItem, error) {
	query := `
		SELECT id, title, category, image_id, row_name, batch_index, created_at
		FROM showcase_items
		ORDER BY created_at DESC, batch_index ASC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list showcase items: %w", err)
	}
	defer rows.Close()

	var items []*models.ShowcaseItem
	for rows.Next() {
		var item models.ShowcaseItem
		err := rows.Scan(
			&item.ID, &item.Title, &item.Category, &item.ImageID,
			&item.Row, &item.BatchIndex, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan showcase item: %w", err)
		}
		items = append(items, &item)
	}

	return items, nil
}

// DeleteShowcaseItem removes a showcase item and returns the blob ID it
// referenced so the caller can reclaim it. Deleting an absent item is a no-op
// success returning an empty ID.
func (r *Repository) DeleteShowcaseItem(ctx context.Context, id string) (string, error) {
	query := `DELETE FROM showcase_items WHERE id = $1 RETURNING image_id`

	var imageID string
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&imageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to delete showcase item: %w", err)
	}

	return imageID, nil
}

// Hero example

// UpsertHeroExample overwrites the hero example singleton in place
func (r *Repository) UpsertHeroExample(ctx context.Context, hero *models.HeroExample) error {
	query := `
		INSERT INTO hero_example (singleton, image_id, input, prompt, caption, updated_at)
		VALUES (TRUE, $1, $2, $3, $4, NOW())
		ON CONFLICT (singleton)
		DO UPDATE SET image_id = $1, input = $2, prompt = $3, caption = $4, updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(ctx, query, hero.ImageID, hero.Input, hero.Prompt, hero.Caption)
	if err != nil {
		return fmt.Errorf("failed to upsert hero example: %w", err)
	}

	return nil
}

// GetHeroExample retrieves the hero example singleton; nil when it was never
// configured.
func (r *Repository) GetHeroExample(ctx context.Context) (*models.HeroExample, error) {
	var hero models.HeroExample

	query := `SELECT image_id, input, prompt, caption FROM hero_example WHERE singleton`

	err := r.db.Pool.QueryRow(ctx, query).Scan(&hero.ImageID, &hero.Input, &hero.Prompt, &hero.Caption)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hero example: %w", err)
	}

	return &hero, nil
}
