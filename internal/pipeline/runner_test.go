package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidegenius/slidegenius/internal/ai/mock"
	"github.com/slidegenius/slidegenius/internal/generation"
	"github.com/slidegenius/slidegenius/internal/store"
	"github.com/slidegenius/slidegenius/pkg/models"
)

// mockStore implements store.Store in memory, recording the writes the
// pipeline makes.
type mockStore struct {
	presentations map[uuid.UUID]*models.Presentation

	commits      int
	statusWrites int
	lastStatus   string
	lastStatusID uuid.UUID
	sawOptions   bool
	commitPanic  bool
}

func newMockStore() *mockStore {
	return &mockStore{presentations: make(map[uuid.UUID]*models.Presentation)}
}

func (m *mockStore) seed(p *models.Presentation) *models.Presentation {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = models.StatusPending
	}
	m.presentations[p.ID] = p
	return p
}

func (m *mockStore) Ping(context.Context) error { return nil }

func (m *mockStore) CreateUser(context.Context, *models.User) error { return nil }
func (m *mockStore) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, store.ErrNotFound
}
func (m *mockStore) GetUserByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, store.ErrNotFound
}

func (m *mockStore) CreatePresentation(_ context.Context, p *models.Presentation) error {
	m.seed(p)
	return nil
}

func (m *mockStore) GetPresentation(_ context.Context, id uuid.UUID) (*models.Presentation, error) {
	p, ok := m.presentations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (m *mockStore) GetPresentationForUser(ctx context.Context, id, userID uuid.UUID) (*models.Presentation, error) {
	p, err := m.GetPresentation(ctx, id)
	if err != nil || p.UserID != userID {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (m *mockStore) ListPresentations(_ context.Context, userID uuid.UUID) ([]*models.Presentation, error) {
	var out []*models.Presentation
	for _, p := range m.presentations {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) FindPresentationByTitle(_ context.Context, userID uuid.UUID, title string) (*models.Presentation, error) {
	for _, p := range m.presentations {
		if p.UserID == userID && p.Title == title {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) FindPendingPresentation(_ context.Context, userID uuid.UUID, title string) (*models.Presentation, error) {
	for _, p := range m.presentations {
		if p.UserID == userID && p.Title == title && p.Status == models.StatusPending {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) ResetPresentationForRun(_ context.Context, id uuid.UUID, markdownInput, theme string) error {
	p, ok := m.presentations[id]
	if !ok {
		return store.ErrNotFound
	}
	p.MarkdownInput = markdownInput
	p.Theme = theme
	p.Status = models.StatusPending
	p.MarkdownContent = nil
	p.HTMLContent = nil
	p.ErrorMessage = nil
	return nil
}

func (m *mockStore) CommitGeneration(_ context.Context, id uuid.UUID, markdownContent, htmlContent, theme string) error {
	if m.commitPanic {
		panic("commit blew up")
	}
	p, ok := m.presentations[id]
	if !ok {
		return store.ErrNotFound
	}
	m.commits++
	p.MarkdownContent = &markdownContent
	p.HTMLContent = &htmlContent
	p.Theme = theme
	p.Status = models.StatusComplete
	p.ErrorMessage = nil
	return nil
}

func (m *mockStore) UpdatePresentationStatus(_ context.Context, id uuid.UUID, status string, opts ...store.StatusOption) error {
	p, ok := m.presentations[id]
	if !ok {
		return store.ErrNotFound
	}
	m.statusWrites++
	m.lastStatus = status
	m.lastStatusID = id
	m.sawOptions = len(opts) > 0
	p.Status = status
	return nil
}

func (m *mockStore) UpdatePresentationContent(context.Context, uuid.UUID, uuid.UUID, store.ContentUpdate) error {
	return nil
}

func (m *mockStore) DeletePresentation(context.Context, uuid.UUID, uuid.UUID) error { return nil }

var _ store.Store = (*mockStore)(nil)

// mockCache implements cache.Cache in memory.
type mockCache struct {
	statuses map[uuid.UUID]string
}

func newMockCache() *mockCache {
	return &mockCache{statuses: make(map[uuid.UUID]string)}
}

func (m *mockCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (m *mockCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (m *mockCache) Delete(context.Context, string) error                     { return nil }
func (m *mockCache) Ping(context.Context) error                               { return nil }

func (m *mockCache) SetPresentationStatus(_ context.Context, id uuid.UUID, status string, _ time.Duration) error {
	m.statuses[id] = status
	return nil
}

func (m *mockCache) GetPresentationStatus(_ context.Context, id uuid.UUID) (string, bool, error) {
	s, ok := m.statuses[id]
	return s, ok, nil
}

func (m *mockCache) IncrWithExpiry(context.Context, string, time.Duration) (int64, error) {
	return 1, nil
}

func newTestRunner(provider *mock.Provider, s *mockStore, c *mockCache) *Runner {
	return NewRunner(generation.NewClient(provider, time.Second), s, c)
}

func TestRun_HappyPath(t *testing.T) {
	st := newMockStore()
	ch := newMockCache()
	userID := uuid.New()
	rec := st.seed(&models.Presentation{
		UserID:        userID,
		Title:         "Go Basics",
		MarkdownInput: "# Go\n\n- fast\n- simple",
		Theme:         "black",
	})

	r := newTestRunner(mock.NewProvider(), st, ch)
	r.Run(State{
		PresentationID: rec.ID,
		UserID:         userID,
		Title:          rec.Title,
		MarkdownInput:  rec.MarkdownInput,
		Theme:          rec.Theme,
	})

	assert.Equal(t, 1, st.commits)
	assert.Equal(t, models.StatusComplete, rec.Status)
	require.NotNil(t, rec.MarkdownContent)
	assert.Contains(t, *rec.MarkdownContent, "Improved Presentation")
	require.NotNil(t, rec.HTMLContent)
	assert.True(t, strings.HasPrefix(*rec.HTMLContent, "<!DOCTYPE html>"))
	assert.Equal(t, models.StatusComplete, ch.statuses[rec.ID])
	assert.Equal(t, 0, st.statusWrites, "complete comes from the commit, not a status write")
}

func TestRun_ProviderFailureStillCompletes(t *testing.T) {
	st := newMockStore()
	ch := newMockCache()
	userID := uuid.New()
	input := "# Offline Deck\n\n- works without a model"
	rec := st.seed(&models.Presentation{
		UserID:        userID,
		Title:         "Offline Deck",
		MarkdownInput: input,
		Theme:         "night",
	})

	r := newTestRunner(mock.NewFailingProvider(nil), st, ch)
	r.Run(State{
		PresentationID: rec.ID,
		UserID:         userID,
		Title:          rec.Title,
		MarkdownInput:  input,
		Theme:          rec.Theme,
	})

	assert.Equal(t, models.StatusComplete, rec.Status)
	require.NotNil(t, rec.MarkdownContent)
	assert.Equal(t, input, *rec.MarkdownContent, "sentinel output falls back to the user's markdown")
	require.NotNil(t, rec.HTMLContent)
	assert.Contains(t, *rec.HTMLContent, "works without a model")
	assert.Contains(t, *rec.HTMLContent, revealThemes+"night.min.css")
}

func TestRun_NaturalKeyLookup(t *testing.T) {
	st := newMockStore()
	ch := newMockCache()
	userID := uuid.New()
	rec := st.seed(&models.Presentation{
		UserID:        userID,
		Title:         "Keyed Deck",
		MarkdownInput: "# Keyed\n\n- by title",
		Theme:         "white",
	})

	r := newTestRunner(mock.NewProvider(), st, ch)
	r.Run(State{
		UserID:        userID,
		Title:         "Keyed Deck",
		MarkdownInput: rec.MarkdownInput,
		Theme:         rec.Theme,
	})

	assert.Equal(t, 1, st.commits)
	assert.Equal(t, models.StatusComplete, rec.Status)
	assert.Equal(t, models.StatusComplete, ch.statuses[rec.ID])
}

func TestRun_EmptyInputMarksFailed(t *testing.T) {
	st := newMockStore()
	ch := newMockCache()
	userID := uuid.New()
	rec := st.seed(&models.Presentation{
		UserID: userID,
		Title:  "Empty",
		Theme:  "black",
	})

	r := newTestRunner(mock.NewProvider(), st, ch)
	r.Run(State{
		PresentationID: rec.ID,
		UserID:         userID,
		Title:          rec.Title,
		MarkdownInput:  "   ",
		Theme:          rec.Theme,
	})

	assert.Equal(t, 0, st.commits)
	assert.Equal(t, 1, st.statusWrites)
	assert.Equal(t, models.StatusFailed, rec.Status)
	assert.True(t, st.sawOptions, "failure status carries an error message")
	assert.Equal(t, models.StatusFailed, ch.statuses[rec.ID])
}

func TestRun_RecordVanishedIsSilent(t *testing.T) {
	st := newMockStore()
	ch := newMockCache()

	r := newTestRunner(mock.NewProvider(), st, ch)
	r.Run(State{
		UserID:        uuid.New(),
		Title:         "Gone",
		MarkdownInput: "# Gone\n\n- no record",
		Theme:         "black",
	})

	assert.Equal(t, 0, st.commits)
	assert.Equal(t, 0, st.statusWrites)
	assert.Empty(t, ch.statuses)
}

func TestRun_PanicBecomesFailedStatus(t *testing.T) {
	st := newMockStore()
	st.commitPanic = true
	ch := newMockCache()
	userID := uuid.New()
	rec := st.seed(&models.Presentation{
		UserID:        userID,
		Title:         "Boom",
		MarkdownInput: "# Boom\n\n- panics in persist",
		Theme:         "black",
	})

	r := newTestRunner(mock.NewProvider(), st, ch)
	r.Run(State{
		PresentationID: rec.ID,
		UserID:         userID,
		Title:          rec.Title,
		MarkdownInput:  rec.MarkdownInput,
		Theme:          rec.Theme,
	})

	assert.Equal(t, models.StatusFailed, rec.Status)
	assert.Equal(t, models.StatusFailed, ch.statuses[rec.ID])
}

func TestImprove_ResolvesSuggestedTheme(t *testing.T) {
	provider := &mock.Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, prompt string) (string, error) {
			if strings.Contains(prompt, "exactly one theme name") {
				return "I'd go with 'Night' theme.", nil
			}
			return "# Improved\n\n- better bullets all around", nil
		},
	}
	r := newTestRunner(provider, newMockStore(), newMockCache())

	out, err := r.Improve(context.Background(), State{
		Title:         "Deck",
		MarkdownInput: "# Raw\n\n- rough bullets",
		Theme:         models.ThemeAISuggest,
	})
	require.NoError(t, err)
	assert.Equal(t, "night", out.Theme)
	assert.Contains(t, out.ImprovedMarkdown, "better bullets")
}

func TestImprove_ExplicitThemeUntouched(t *testing.T) {
	r := newTestRunner(mock.NewProvider(), newMockStore(), newMockCache())

	out, err := r.Improve(context.Background(), State{
		Title:         "Deck",
		MarkdownInput: "# Raw\n\n- rough bullets",
		Theme:         "moon",
	})
	require.NoError(t, err)
	assert.Equal(t, "moon", out.Theme)
}

func TestRender_GarbageRestyleKeepsBaseline(t *testing.T) {
	r := newTestRunner(mock.NewStaticProvider("Sorry, here are some thoughts instead."), newMockStore(), newMockCache())

	out, err := r.Render(context.Background(), State{
		Title:            "Deck",
		MarkdownInput:    "# Raw",
		ImprovedMarkdown: "# Polished\n\n- a point",
		Theme:            "sky",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.HTMLContent, "<!DOCTYPE html>"))
	assert.Contains(t, out.HTMLContent, "Polished")
	assert.Contains(t, out.HTMLContent, revealThemes+"sky.min.css")
}
