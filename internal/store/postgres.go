package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slidegenius/slidegenius/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Users ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, full_name, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, full_name, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

// --- Presentations ---

const presentationColumns = `id, user_id, title, markdown_input, markdown_content, theme,
	html_content, status, error_message, created_at, updated_at`

func scanPresentation(row pgx.Row) (*models.Presentation, error) {
	var p models.Presentation
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.MarkdownInput, &p.MarkdownContent,
		&p.Theme, &p.HTMLContent, &p.Status, &p.ErrorMessage, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) CreatePresentation(ctx context.Context, p *models.Presentation) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO presentations (id, user_id, title, markdown_input, theme, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.UserID, p.Title, p.MarkdownInput, p.Theme, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create presentation: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPresentation(ctx context.Context, id uuid.UUID) (*models.Presentation, error) {
	p, err := scanPresentation(s.pool.QueryRow(ctx,
		`SELECT `+presentationColumns+` FROM presentations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get presentation: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetPresentationForUser(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Presentation, error) {
	p, err := scanPresentation(s.pool.QueryRow(ctx,
		`SELECT `+presentationColumns+` FROM presentations WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get presentation for user: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListPresentations(ctx context.Context, userID uuid.UUID) ([]*models.Presentation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+presentationColumns+` FROM presentations
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	defer rows.Close()

	var out []*models.Presentation
	for rows.Next() {
		p, err := scanPresentation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindPresentationByTitle(ctx context.Context, userID uuid.UUID, title string) (*models.Presentation, error) {
	p, err := scanPresentation(s.pool.QueryRow(ctx,
		`SELECT `+presentationColumns+` FROM presentations
		 WHERE user_id = $1 AND title = $2
		 ORDER BY created_at DESC LIMIT 1`, userID, title))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find presentation by title: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindPendingPresentation(ctx context.Context, userID uuid.UUID, title string) (*models.Presentation, error) {
	p, err := scanPresentation(s.pool.QueryRow(ctx,
		`SELECT `+presentationColumns+` FROM presentations
		 WHERE user_id = $1 AND title = $2 AND status = $3
		 ORDER BY created_at DESC LIMIT 1`, userID, title, models.StatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find pending presentation: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ResetPresentationForRun(ctx context.Context, id uuid.UUID, markdownInput, theme string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE presentations SET
		   markdown_input = $2, theme = $3, markdown_content = NULL,
		   html_content = NULL, error_message = NULL, status = $4, updated_at = NOW()
		 WHERE id = $1`,
		id, markdownInput, theme, models.StatusPending)
	if err != nil {
		return fmt.Errorf("reset presentation for run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CommitGeneration(ctx context.Context, id uuid.UUID, markdownContent, htmlContent, theme string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE presentations SET
		   markdown_content = $2, html_content = $3, theme = $4,
		   status = $5, error_message = NULL, updated_at = NOW()
		 WHERE id = $1`,
		id, markdownContent, htmlContent, theme, models.StatusComplete)
	if err != nil {
		return fmt.Errorf("commit generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdatePresentationStatus(ctx context.Context, id uuid.UUID, status string, opts ...StatusOption) error {
	params := &statusParams{}
	for _, opt := range opts {
		opt(params)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE presentations SET status = $2,
		   error_message = COALESCE($3, error_message), updated_at = NOW()
		 WHERE id = $1`,
		id, status, params.ErrorMessage)
	if err != nil {
		return fmt.Errorf("update presentation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdatePresentationContent(ctx context.Context, id uuid.UUID, userID uuid.UUID, upd ContentUpdate) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE presentations SET
		   title = COALESCE($3, title),
		   markdown_content = COALESCE($4, markdown_content),
		   theme = COALESCE($5, theme),
		   updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		id, userID, upd.Title, upd.MarkdownContent, upd.Theme)
	if err != nil {
		return fmt.Errorf("update presentation content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeletePresentation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM presentations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete presentation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateKeyError reports whether err is a Postgres unique violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
