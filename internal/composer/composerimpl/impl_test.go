package composerimpl

import (
	"context"
	"testing"
	"time"

	"github.com/davitran/stories-engine/internal/domain"
	storyRepo "github.com/davitran/stories-engine/internal/repositories/story"
	"github.com/davitran/stories-engine/internal/store/storeimpl"
	"github.com/davitran/stories-engine/pkg/config"
	"github.com/davitran/stories-engine/pkg/logger"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Engine.StoryTTL = 24 * time.Hour
	cfg.Engine.DefaultStoryDuration = 5 * time.Second
	cfg.Engine.MaxOverlays = 10
	cfg.Engine.ResponsePageMax = 100
	return cfg
}

func newTestComposer(t *testing.T) *Impl {
	t.Helper()

	log := logger.New(logger.Opts{Env: "test"})
	cfg := testConfig()
	st := storeimpl.New(storeimpl.Opts{
		StoryRepo: storyRepo.NewMemory(),
		Logger:    log,
		Config:    cfg,
		Clock:     clockwork.NewFakeClock(),
	})

	return New(Opts{
		Store:  st,
		Logger: log,
		Config: cfg,
	})
}

func validTextDraft() domain.StoryDraft {
	return domain.StoryDraft{
		AuthorID:        "author-1",
		Kind:            domain.StoryKindText,
		TextContent:     "hello",
		BackgroundStyle: "#667eea",
	}
}

func TestValidate_TextDraft(t *testing.T) {
	c := newTestComposer(t)

	validated, err := c.Validate(validTextDraft())
	require.NoError(t, err)
	assert.Equal(t, "hello", validated.Draft().TextContent)
	assert.Equal(t, domain.VisibilityFollowers, validated.Draft().Visibility)
}

func TestValidate_MediaAndTextAreExclusive(t *testing.T) {
	c := newTestComposer(t)

	cases := []struct {
		name  string
		draft domain.StoryDraft
	}{
		{"photo without media", domain.StoryDraft{AuthorID: "a", Kind: domain.StoryKindPhoto}},
		{"photo with text", domain.StoryDraft{AuthorID: "a", Kind: domain.StoryKindPhoto, MediaRef: "m", TextContent: "t"}},
		{"text without content", domain.StoryDraft{AuthorID: "a", Kind: domain.StoryKindText}},
		{"text with media", domain.StoryDraft{AuthorID: "a", Kind: domain.StoryKindText, TextContent: "t", MediaRef: "m"}},
		{"video without duration", domain.StoryDraft{AuthorID: "a", Kind: domain.StoryKindVideo, MediaRef: "m"}},
		{"unknown kind", domain.StoryDraft{AuthorID: "a", Kind: "boomerang"}},
		{"missing author", domain.StoryDraft{Kind: domain.StoryKindText, TextContent: "t"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Validate(tc.draft)
			assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestValidate_OverlayPositionBounds(t *testing.T) {
	c := newTestComposer(t)

	draft := validTextDraft()
	draft.Overlays = []domain.Overlay{
		&domain.Sticker{Content: "🔥", X: 150, Y: 50, Scale: 1},
	}

	_, err := c.Validate(draft)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	draft.Overlays = []domain.Overlay{
		&domain.Sticker{Content: "🔥", X: 100, Y: 0, Scale: 1},
	}
	_, err = c.Validate(draft)
	assert.NoError(t, err)
}

func TestValidate_PollRules(t *testing.T) {
	c := newTestComposer(t)

	poll := func(opts ...string) domain.StoryDraft {
		d := validTextDraft()
		d.Overlays = []domain.Overlay{
			&domain.Poll{Question: "A or B?", Options: opts, X: 50, Y: 50},
		}
		return d
	}

	_, err := c.Validate(poll("A"))
	assert.True(t, domain.IsValidation(err), "one option must fail")

	_, err = c.Validate(poll("A", "B", "C", "D", "E"))
	assert.True(t, domain.IsValidation(err), "five options must fail")

	_, err = c.Validate(poll("A", ""))
	assert.True(t, domain.IsValidation(err), "empty option must fail")

	_, err = c.Validate(poll("A", "A"))
	assert.True(t, domain.IsValidation(err), "duplicate option must fail")

	validated, err := c.Validate(poll("A", "B"))
	require.NoError(t, err)

	p, ok := validated.Draft().Overlays[0].(*domain.Poll)
	require.True(t, ok)
	assert.NotEmpty(t, p.ID, "poll gets an id during validation")
}

func TestValidate_QuestionNeedsPrompt(t *testing.T) {
	c := newTestComposer(t)

	draft := validTextDraft()
	draft.Overlays = []domain.Overlay{
		&domain.Question{Prompt: "   ", X: 50, Y: 70},
	}

	_, err := c.Validate(draft)
	assert.True(t, domain.IsValidation(err))
}

func TestValidate_OverlayCountCap(t *testing.T) {
	c := newTestComposer(t)

	draft := validTextDraft()
	for i := 0; i < 11; i++ {
		draft.Overlays = append(draft.Overlays, &domain.Sticker{Content: "⭐", X: 10, Y: 10, Scale: 1})
	}

	_, err := c.Validate(draft)
	assert.True(t, domain.IsValidation(err))
}

func TestPublish_CreatesStoredStory(t *testing.T) {
	c := newTestComposer(t)
	ctx := context.Background()

	draft := validTextDraft()
	draft.Overlays = []domain.Overlay{
		&domain.Poll{Question: "A or B?", Options: []string{"A", "B"}, X: 50, Y: 50},
	}

	validated, err := c.Validate(draft)
	require.NoError(t, err)

	story, err := c.Publish(ctx, validated)
	require.NoError(t, err)
	assert.NotEmpty(t, story.ID)

	got, err := c.Store.Get(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, got.Overlays, 1)
	_, ok := got.Overlays[0].(*domain.Poll)
	assert.True(t, ok)
}
