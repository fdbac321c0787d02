package usecase

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"moodrec/internal/domain"
	"moodrec/internal/port"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

var recommendPrompt = template.Must(template.ParseFS(promptTemplates, "templates/recommend_prompt.txt"))

// Picks is the number of titles the model is asked to recommend.
const Picks = 5

const noResultsText = "Sorry, I couldn't find suitable recommendations for your mood."

// DegradedText is shown when the generative model call fails.
func DegradedText(moodName string) string {
	return fmt.Sprintf("I understand you're feeling %s, but I'm having trouble accessing my recommendation engine right now. Please try again in a moment!", moodName)
}

// PromptData is the input to the recommendation prompt template.
type PromptData struct {
	MoodName string
	Query    string
	Context  string
	Picks    int
}

// RenderPrompt renders the recommendation prompt.
func RenderPrompt(data PromptData) (string, error) {
	if data.Picks <= 0 {
		data.Picks = Picks
	}
	var buf bytes.Buffer
	if err := recommendPrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

// MoodPrompt renders the recommendation prompt for mood grounded in hits.
func MoodPrompt(mood domain.Mood, hits []domain.SearchResult) (string, error) {
	return RenderPrompt(PromptData{
		MoodName: mood.PlainName,
		Query:    mood.QueryPhrase,
		Context:  BuildContext(hits),
		Picks:    Picks,
	})
}

// RecommendUseCase turns a mood into a recommendation narrative.
type RecommendUseCase struct {
	retrieve *RetrieveUseCase
	llm      port.LLM // nil when no credential is configured
	n        int
	log      zerolog.Logger
}

// NewRecommendUseCase creates a new recommend use case. llm may be nil, in
// which case every request reports domain.StatusNotConfigured. A
// non-positive n uses DefaultRecommendResults.
func NewRecommendUseCase(retrieve *RetrieveUseCase, llm port.LLM, n int, log zerolog.Logger) *RecommendUseCase {
	if n <= 0 {
		n = DefaultRecommendResults
	}
	return &RecommendUseCase{
		retrieve: retrieve,
		llm:      llm,
		n:        n,
		log:      log,
	}
}

// Ready reports whether a generative model is configured.
func (u *RecommendUseCase) Ready() bool {
	return u.llm != nil
}

// Recommend never returns an error: failures are reported through the
// result's Status and Err, with Text set to a message safe to display.
func (u *RecommendUseCase) Recommend(ctx context.Context, moodKey string) domain.Recommendation {
	mood := domain.ResolveMood(moodKey)
	rec := domain.Recommendation{
		RequestID: uuid.NewString(),
		Mood:      mood,
		Query:     mood.QueryPhrase,
	}
	log := u.log.With().Str("request_id", rec.RequestID).Str("mood", mood.ID).Logger()

	if u.llm == nil {
		rec.Status = domain.StatusNotConfigured
		rec.Err = domain.ErrNotConfigured
		rec.Text = domain.ErrNotConfigured.Error()
		log.Warn().Msg("recommendation requested without a configured model")
		return rec
	}

	rec.Hits = u.retrieve.SearchOrEmpty(ctx, rec.Query, u.n)
	if len(rec.Hits) == 0 {
		rec.Status = domain.StatusNoResults
		rec.Err = domain.ErrNoResults
		rec.Text = noResultsText
		log.Info().Msg("no catalog matches")
		return rec
	}

	prompt, err := MoodPrompt(mood, rec.Hits)
	if err != nil {
		return degrade(rec, err, log)
	}

	text, err := u.llm.Generate(ctx, prompt)
	if err != nil {
		return degrade(rec, err, log)
	}

	rec.Status = domain.StatusOK
	rec.Text = text
	log.Info().Int("hits", len(rec.Hits)).Str("model", u.llm.ModelName()).Msg("recommendation generated")
	return rec
}

func degrade(rec domain.Recommendation, err error, log zerolog.Logger) domain.Recommendation {
	rec.Status = domain.StatusDegraded
	rec.Err = err
	rec.Text = DegradedText(rec.Mood.PlainName)
	log.Error().Err(err).Msg("generation failed")
	return rec
}

// Prompt retrieves hits for moodKey and renders the prompt Recommend would
// send, without calling the model.
func (u *RecommendUseCase) Prompt(ctx context.Context, moodKey string) (string, []domain.SearchResult, error) {
	mood := domain.ResolveMood(moodKey)
	hits, err := u.retrieve.Search(ctx, mood.QueryPhrase, u.n)
	if err != nil {
		return "", nil, err
	}
	if len(hits) == 0 {
		return "", hits, domain.ErrNoResults
	}
	prompt, err := MoodPrompt(mood, hits)
	if err != nil {
		return "", nil, err
	}
	return prompt, hits, nil
}
