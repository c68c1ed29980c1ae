package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/slidegenius/slidegenius/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	CreatePresentation(ctx context.Context, p *models.Presentation) error
	GetPresentation(ctx context.Context, id uuid.UUID) (*models.Presentation, error)
	GetPresentationForUser(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Presentation, error)
	ListPresentations(ctx context.Context, userID uuid.UUID) ([]*models.Presentation, error)

	// FindPresentationByTitle returns the most recently created presentation
	// for (userID, title) regardless of status. Used to reuse the existing
	// record when a new generation run is requested for the same title.
	FindPresentationByTitle(ctx context.Context, userID uuid.UUID, title string) (*models.Presentation, error)

	// FindPendingPresentation returns the most recently created pending
	// presentation for (userID, title) — the natural key the pipeline uses
	// to locate its target when no id is carried.
	FindPendingPresentation(ctx context.Context, userID uuid.UUID, title string) (*models.Presentation, error)

	// ResetPresentationForRun overwrites the input fields of an existing
	// record and returns it to pending, clearing previous run output.
	ResetPresentationForRun(ctx context.Context, id uuid.UUID, markdownInput, theme string) error

	// CommitGeneration writes all pipeline outputs and the complete status in
	// a single all-or-nothing update.
	CommitGeneration(ctx context.Context, id uuid.UUID, markdownContent, htmlContent, theme string) error

	UpdatePresentationStatus(ctx context.Context, id uuid.UUID, status string, opts ...StatusOption) error
	UpdatePresentationContent(ctx context.Context, id uuid.UUID, userID uuid.UUID, upd ContentUpdate) error
	DeletePresentation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

// ContentUpdate holds the fields an explicit PUT may change. Nil means
// leave unchanged. The pipeline never uses this path.
type ContentUpdate struct {
	Title           *string
	MarkdownContent *string
	Theme           *string
}

type statusParams struct {
	ErrorMessage *string
}

type StatusOption func(*statusParams)

func WithErrorMessage(msg string) StatusOption {
	return func(p *statusParams) {
		p.ErrorMessage = &msg
	}
}
