// Package genai implements the content generation capabilities on top of
// an LLM chat model: destination validation, follow-up question decks,
// full itinerary generation, per-slot alternatives, and day images. Every
// external call is attempted exactly once; retry policy belongs to the
// caller, not here.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/time/rate"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// DefaultMaxQuestions caps the follow-up deck size.
const DefaultMaxQuestions = 6

// ImageClient generates one image per prompt and returns its URL. An
// empty URL with a nil error means the backend produced nothing.
type ImageClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service implements the generation-facing capabilities over a chat
// model. The zero image client disables day images; the zero store skips
// persistence of generated sessions.
type Service struct {
	model        llms.Model
	images       ImageClient
	store        capability.SessionStore
	limiter      *rate.Limiter
	logger       *slog.Logger
	maxQuestions int
}

// Option configures a Service.
type Option func(*Service)

// WithImageClient enables day-image generation.
func WithImageClient(c ImageClient) Option {
	return func(s *Service) { s.images = c }
}

// WithStore persists generated sessions.
func WithStore(store capability.SessionStore) Option {
	return func(s *Service) { s.store = store }
}

// WithRateLimit caps outbound model calls at rps requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Service) { s.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxQuestions overrides the follow-up deck cap.
func WithMaxQuestions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxQuestions = n
		}
	}
}

// NewService creates a Service around the given chat model.
func NewService(model llms.Model, opts ...Option) *Service {
	s := &Service{
		model:        model,
		logger:       slog.Default(),
		maxQuestions: DefaultMaxQuestions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateDestination asks the model whether the free text names a real
// place. Transport and decode errors are returned as-is so callers can
// distinguish "unreachable" from "invalid".
func (s *Service) ValidateDestination(ctx context.Context, text string) (capability.ValidationResult, error) {
	raw, err := s.complete(ctx, validationPrompt(text), 0)
	if err != nil {
		return capability.ValidationResult{}, err
	}

	wire, err := DecodeJSON[struct {
		IsValid       bool   `json:"is_valid"`
		FormattedName string `json:"formatted_name"`
	}](raw)
	if err != nil {
		return capability.ValidationResult{}, err
	}
	return capability.ValidationResult{
		IsValid:       wire.IsValid,
		FormattedName: wire.FormattedName,
	}, nil
}

// FollowUpQuestions generates the swipe deck from the collected draft.
// The returned sequence may be empty.
func (s *Service) FollowUpQuestions(ctx context.Context, prefs *trip.PreferenceDraft) ([]trip.SmartQuestion, error) {
	raw, err := s.complete(ctx, questionsPrompt(prefs), 0.7)
	if err != nil {
		return nil, err
	}

	wire, err := DecodeJSON[[]trip.SmartQuestion](raw)
	if err != nil {
		return nil, err
	}
	if len(wire) > s.maxQuestions {
		wire = wire[:s.maxQuestions]
	}
	for i := range wire {
		if wire[i].ID == "" {
			wire[i].ID = fmt.Sprintf("q-%d", i+1)
		}
	}
	return wire, nil
}

// GenerateItinerary turns the frozen draft into a persisted session with
// stable activity IDs. Images start empty; hydration fills them later.
func (s *Service) GenerateItinerary(ctx context.Context, prefs *trip.PreferenceDraft) (capability.Session, error) {
	started := time.Now()
	raw, err := s.complete(ctx, itineraryPrompt(prefs), 0.8)
	if err != nil {
		return capability.Session{}, err
	}

	plan, err := DecodeJSON[*trip.Itinerary](raw)
	if err != nil {
		return capability.Session{}, err
	}
	if plan == nil || len(plan.Days) == 0 {
		return capability.Session{}, types.NewError(types.GENERATION_FAILED, "model returned an empty itinerary")
	}

	normalizePlan(prefs, plan)
	plan.EnsureActivityIDs()

	session := capability.Session{
		ID:        types.NewID(),
		Plan:      plan,
		TotalDays: len(plan.Days),
	}

	if s.store != nil {
		if err := s.store.Save(ctx, session); err != nil {
			return capability.Session{}, err
		}
	}

	s.logger.Info("itinerary generated",
		"session_id", session.ID,
		"days", session.TotalDays,
		"duration", time.Since(started))
	return session, nil
}

// AlternativeActivity produces one replacement suggestion for a slot.
func (s *Service) AlternativeActivity(ctx context.Context, prefs *trip.PreferenceDraft, current trip.Activity, rc capability.RegenContext, exclusions []string, instruction string) (trip.Activity, error) {
	raw, err := s.complete(ctx, alternativePrompt(prefs, current, rc, exclusions, instruction), 0.9)
	if err != nil {
		return trip.Activity{}, err
	}

	act, err := DecodeJSON[trip.Activity](raw)
	if err != nil {
		return trip.Activity{}, err
	}
	if act.Name == "" {
		return trip.Activity{}, types.NewError(types.GENERATION_FAILED, "model returned an unnamed activity")
	}
	act.ID = types.NewID()
	return act, nil
}

// DayImage generates one image for a day. Without an image client every
// day stays imageless.
func (s *Service) DayImage(ctx context.Context, dc capability.DayContext) (*capability.DayImage, error) {
	if s.images == nil {
		return nil, nil
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	url, err := s.images.Generate(ctx, dayImagePrompt(dc))
	if err != nil {
		return nil, err
	}
	if url == "" {
		return nil, nil
	}
	return &capability.DayImage{
		URL: url,
		Alt: fmt.Sprintf("Day %d in %s: %s", dc.DayNumber, dc.Destination, dc.Title),
	}, nil
}

func (s *Service) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	return llms.GenerateFromSinglePrompt(ctx, s.model, prompt,
		llms.WithTemperature(temperature))
}

func (s *Service) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// normalizePlan repairs the fields the model gets wrong most often:
// missing destination, non-contiguous day numbers, and absent dates.
func normalizePlan(prefs *trip.PreferenceDraft, plan *trip.Itinerary) {
	if plan.Destination == "" {
		plan.Destination = prefs.Destination
	}

	start, startErr := time.Parse(trip.DateLayout, prefs.StartDate)
	for i := range plan.Days {
		day := &plan.Days[i]
		day.DayNumber = i + 1
		if day.Date == "" && startErr == nil {
			day.Date = start.AddDate(0, 0, i).Format(trip.DateLayout)
		}
	}
}
