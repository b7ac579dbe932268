package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	openaiAdapter "github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/openai"
	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/ports/service"
	"github.com/AmitAMahadik/ExAstra/internal/usecases/astrology/prompts"
)

// temperature 0 keeps the sign lookup as repeatable as a probabilistic
// source allows
var zeroTemperature = float64(0)

// Service implements IAIService over the chat-completions client.
type Service struct {
	client *openaiAdapter.Client
	Log    *slog.Logger
}

func New(client *openaiAdapter.Client, log *slog.Logger) service.IAIService {
	return &Service{
		client: client,
		Log:    log,
	}
}

// LookupSigns asks the model for the three signs as strict JSON and parses
// the result, falling back to balanced-brace extraction when the model wraps
// the object in prose.
func (s *Service) LookupSigns(ctx context.Context, profileSummary string, birthInstantUTC *time.Time) (*domain.AISigns, error) {
	instant := ""
	if birthInstantUTC != nil {
		instant = birthInstantUTC.UTC().Format(time.RFC3339)
	}

	messages := []openaiAdapter.Message{
		{Role: openaiAdapter.RoleSystem, Content: prompts.SignLookupSystem},
		{Role: openaiAdapter.RoleUser, Content: prompts.SignLookupUser(profileSummary, instant)},
	}

	content, err := s.client.CreateChatCompletion(ctx, messages, &zeroTemperature)
	if err != nil {
		return nil, fmt.Errorf("sign lookup failed: %w", err)
	}

	signs, err := parseSigns(content)
	if err != nil {
		s.Log.Debug("sign lookup output was not parsable",
			"content_preview", preview(content),
		)
		return nil, err
	}
	return signs, nil
}

// StreamChat forwards the streamed completion with no temperature override;
// conversational replies keep the model default.
func (s *Service) StreamChat(ctx context.Context, system string, history []domain.ChatMessage, onToken func(token string) error) error {
	messages := make([]openaiAdapter.Message, 0, len(history)+1)
	messages = append(messages, openaiAdapter.Message{Role: openaiAdapter.RoleSystem, Content: system})

	for _, m := range history {
		role := openaiAdapter.RoleUser
		if m.Role == domain.RoleAssistant {
			role = openaiAdapter.RoleAssistant
		}
		if m.Content == "" {
			continue // skip the in-progress placeholder
		}
		messages = append(messages, openaiAdapter.Message{Role: role, Content: m.Content})
	}

	return s.client.StreamChatCompletion(ctx, messages, nil, onToken)
}

func parseSigns(content string) (*domain.AISigns, error) {
	var signs domain.AISigns
	if err := json.Unmarshal([]byte(content), &signs); err == nil {
		return &signs, nil
	}

	candidate, ok := extractFirstJSONObject(content)
	if !ok {
		return nil, domain.WrapKind(domain.KindModelOutput, domain.ErrUnparsableModelOutput)
	}
	if err := json.Unmarshal([]byte(candidate), &signs); err != nil {
		return nil, domain.WrapKind(domain.KindModelOutput, domain.ErrUnparsableModelOutput)
	}
	return &signs, nil
}

func preview(s string) string {
	if len(s) <= 200 {
		return s
	}
	return s[:200] + "..."
}
