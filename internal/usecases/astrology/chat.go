package astrology

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/usecases/astrology/prompts"
)

// chatSession is a linear transcript. Append-only, except that the last
// assistant message mutates in place while its stream is running.
type chatSession struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
	lastErr  string
}

func (s *Service) session(profileID uuid.UUID) *chatSession {
	s.chatMu.Lock()
	defer s.chatMu.Unlock()

	sess, ok := s.sessions[profileID]
	if !ok {
		sess = &chatSession{
			messages: []domain.ChatMessage{
				domain.NewChatMessage(domain.RoleAssistant, prompts.ChatGreeting),
			},
		}
		s.sessions[profileID] = sess
	}
	return sess
}

func (s *Service) dropChatSession(profileID uuid.UUID) {
	s.chatMu.Lock()
	delete(s.sessions, profileID)
	s.chatMu.Unlock()
}

// Transcript returns a copy of the conversation, seeding the greeting on
// first access.
func (s *Service) Transcript(profileID uuid.UUID) ([]domain.ChatMessage, string) {
	sess := s.session(profileID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make([]domain.ChatMessage, len(sess.messages))
	copy(out, sess.messages)
	return out, sess.lastErr
}

// SendMessage appends the user message and an empty assistant placeholder,
// then streams tokens into the placeholder in arrival order. The full system
// context is re-sent on every call since no server-side model session is
// retained. A stream failure replaces the placeholder with a fixed apology
// and records a chat-scoped error string.
func (s *Service) SendMessage(ctx context.Context, id uuid.UUID, text string, onToken func(token string) error) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", domain.WrapKind(domain.KindValidation, domain.ErrEmptyMessage)
	}

	profile, err := s.ProfileRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	focusHint := ""
	if profile.FocusArea != nil {
		focusHint = profile.FocusArea.Hint()
	}
	system := prompts.ChatSystemContext(profile.Summary(), profile.Signs.SummaryContext(), focusHint)

	sess := s.session(id)

	sess.mu.Lock()
	sess.lastErr = ""
	sess.messages = append(sess.messages, domain.NewChatMessage(domain.RoleUser, trimmed))
	history := make([]domain.ChatMessage, len(sess.messages))
	copy(history, sess.messages)
	sess.messages = append(sess.messages, domain.NewChatMessage(domain.RoleAssistant, ""))
	placeholder := len(sess.messages) - 1
	sess.mu.Unlock()

	streamErr := s.AI.StreamChat(ctx, system, history, func(token string) error {
		// Stop appending the moment cancellation is observed; the check runs
		// before every write to the placeholder.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sess.mu.Lock()
		sess.messages[placeholder].Content += token
		sess.mu.Unlock()

		if onToken != nil {
			return onToken(token)
		}
		return nil
	})

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if streamErr != nil {
		if ctx.Err() != nil {
			// Canceled mid-stream: keep whatever was received.
			return sess.messages[placeholder].Content, streamErr
		}
		sess.messages[placeholder].Content = prompts.ChatApology
		sess.lastErr = streamErr.Error()
		s.Log.Error("chat stream failed", "error", streamErr, "profile_id", id)
		return prompts.ChatApology, streamErr
	}

	reply := strings.TrimSpace(sess.messages[placeholder].Content)
	if reply == "" {
		reply = prompts.ChatApology
	}
	sess.messages[placeholder].Content = reply
	return reply, nil
}
