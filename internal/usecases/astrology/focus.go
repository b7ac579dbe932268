package astrology

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/usecases/astrology/prompts"
)

// ErrSuperseded reports that a newer focus request took over while this one
// was waiting or streaming.
var ErrSuperseded = errors.New("superseded by a newer focus request")

type SummaryState string

const (
	SummaryUncached SummaryState = "uncached"
	SummaryPending  SummaryState = "pending"
	SummaryCached   SummaryState = "cached"
	SummaryFailed   SummaryState = "failed"
)

type focusKey struct {
	profileID uuid.UUID
	area      domain.FocusArea
}

type focusFlight struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// summaryEntry tracks one area's transient state. seq identifies the request
// that set a pending marker so a superseded request can clear only its own.
type summaryEntry struct {
	state   SummaryState
	seq     uint64
	errText string
}

// SummaryStatus returns the display state for one area plus its detail text:
// the cached summary when cached, the last failure message when failed.
func (s *Service) SummaryStatus(profileID uuid.UUID, area domain.FocusArea) (SummaryState, string) {
	if text, ok := s.SummaryCache.Get(profileID, area); ok && strings.TrimSpace(text) != "" {
		return SummaryCached, text
	}

	s.focusMu.Lock()
	defer s.focusMu.Unlock()
	if entry, ok := s.focusState[focusKey{profileID: profileID, area: area}]; ok {
		return entry.state, entry.errText
	}
	return SummaryUncached, ""
}

// RequestSummary serves the cached summary when one exists; otherwise it
// debounces 250ms of quiescence, supersedes any other in-flight summary
// (orchestrator-wide single-flight, cancel-and-await before the new stream
// may write), and streams the generation. onUpdate receives the accumulated
// text at a bounded rate plus one final flush.
func (s *Service) RequestSummary(ctx context.Context, id uuid.UUID, area domain.FocusArea, onUpdate func(text string) error) (string, error) {
	if !area.IsValid() {
		return "", domain.WrapKind(domain.KindValidation, fmt.Errorf("invalid focus area: %s", area))
	}

	key := focusKey{profileID: id, area: area}

	if text, ok := s.SummaryCache.Get(id, area); ok && strings.TrimSpace(text) != "" {
		s.setFocusState(key, SummaryCached)
		if onUpdate != nil {
			if err := onUpdate(text); err != nil {
				return "", err
			}
		}
		return text, nil
	}

	profile, err := s.ProfileRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	snapshot := profile.Revision

	// Claim the newest-request slot and cancel whatever is flying. The await
	// guarantees the superseded stream stops writing before this one starts.
	s.focusMu.Lock()
	s.focusSeq++
	mySeq := s.focusSeq
	prev := s.flight
	s.flight = nil
	s.focusState[key] = summaryEntry{state: SummaryPending, seq: mySeq}
	s.focusMu.Unlock()

	// No exit may strand a pending marker: a superseded or canceled request
	// drops its own back to uncached (a newer claim on the same area has a
	// different seq and is left alone).
	defer func() {
		s.focusMu.Lock()
		if entry, ok := s.focusState[key]; ok && entry.seq == mySeq && entry.state == SummaryPending {
			delete(s.focusState, key)
		}
		s.focusMu.Unlock()
	}()

	if prev != nil {
		prev.cancel()
		<-prev.done
	}

	timer := time.NewTimer(s.debounce)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	s.focusMu.Lock()
	if s.focusSeq != mySeq {
		s.focusMu.Unlock()
		return "", ErrSuperseded
	}
	flightCtx, cancel := context.WithCancel(ctx)
	flight := &focusFlight{cancel: cancel, done: make(chan struct{})}
	s.flight = flight
	s.focusMu.Unlock()

	defer func() {
		cancel()
		close(flight.done)
		s.focusMu.Lock()
		if s.flight == flight {
			s.flight = nil
		}
		s.focusMu.Unlock()
	}()

	text, err := s.streamSummary(flightCtx, profile, area, onUpdate)
	if err != nil {
		if errors.Is(err, context.Canceled) && s.currentFocusSeq() != mySeq {
			return "", ErrSuperseded
		}
		s.setFocusFailure(key, err)
		return "", err
	}

	// Discard if the profile was edited while streaming.
	current, err := s.ProfileRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if current.Revision != snapshot {
		return "", ErrSuperseded
	}

	s.SummaryCache.Set(id, area, text)
	s.setFocusState(key, SummaryCached)
	return text, nil
}

func (s *Service) streamSummary(ctx context.Context, profile *domain.Profile, area domain.FocusArea, onUpdate func(text string) error) (string, error) {
	lunar, solar, chinese := "Unknown", "Unknown", "Unknown"
	if profile.Signs != nil {
		if profile.Signs.Moon != nil {
			lunar = profile.Signs.Moon.Sign
		}
		if profile.Signs.AI != nil {
			if profile.Signs.AI.SolarSign != "" {
				solar = profile.Signs.AI.SolarSign
			}
			if profile.Signs.AI.ChineseSign != "" {
				chinese = profile.Signs.AI.ChineseSign
			}
		}
	}

	request := domain.ChatMessage{
		Role:    domain.RoleUser,
		Content: prompts.FocusUser(area.Display(), lunar, solar, chinese, profile.Summary()),
	}

	var acc strings.Builder
	lastFlush := time.Now()

	err := s.AI.StreamChat(ctx, prompts.FocusSystem, []domain.ChatMessage{request}, func(token string) error {
		acc.WriteString(token)
		// Flush at a bounded rate instead of per token.
		if onUpdate != nil && time.Since(lastFlush) >= s.flushEvery {
			lastFlush = time.Now()
			return onUpdate(acc.String())
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(acc.String())
	if text == "" {
		text = prompts.SummaryFallback
	}

	// Final flush so buffered tokens are never lost at stream end.
	if onUpdate != nil {
		if err := onUpdate(text); err != nil {
			return "", err
		}
	}
	return text, nil
}

func (s *Service) setFocusState(key focusKey, state SummaryState) {
	s.focusMu.Lock()
	s.focusState[key] = summaryEntry{state: state}
	s.focusMu.Unlock()
}

func (s *Service) setFocusFailure(key focusKey, err error) {
	s.focusMu.Lock()
	s.focusState[key] = summaryEntry{state: SummaryFailed, errText: err.Error()}
	s.focusMu.Unlock()
}

func (s *Service) clearFocusState(profileID uuid.UUID) {
	s.focusMu.Lock()
	for key := range s.focusState {
		if key.profileID == profileID {
			delete(s.focusState, key)
		}
	}
	s.focusMu.Unlock()
}

func (s *Service) currentFocusSeq() uint64 {
	s.focusMu.Lock()
	defer s.focusMu.Unlock()
	return s.focusSeq
}
