package service

import (
	"context"
	"time"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

// IAIService covers both AI call sites: the one-shot strict-JSON sign lookup
// and streamed completions for summaries and chat.
type IAIService interface {
	// LookupSigns asks the model for solar/vedic-moon/Chinese signs derived
	// from the profile summary. birthInstantUTC may be nil when the birth
	// moment could not be resolved; the model then works from civil text only.
	LookupSigns(ctx context.Context, profileSummary string, birthInstantUTC *time.Time) (*domain.AISigns, error)

	// StreamChat issues a streamed completion seeded with the system prompt
	// and history, invoking onToken for every content delta in arrival order.
	// A non-nil error from onToken stops the stream.
	StreamChat(ctx context.Context, system string, history []domain.ChatMessage, onToken func(token string) error) error
}
