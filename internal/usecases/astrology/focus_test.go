package astrology

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/usecases/astrology/prompts"
)

func TestRequestSummary_StreamsAndCaches(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.ai.tokens = []string{"Your ", "career ", "outlook ", "is bright."}

	var updates []string
	text, err := env.svc.RequestSummary(context.Background(), id, domain.FocusCareer, func(text string) error {
		updates = append(updates, text)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Your career outlook is bright.", text)

	// The final flush always delivers the complete text.
	require.NotEmpty(t, updates)
	assert.Equal(t, text, updates[len(updates)-1])

	state, cached := env.svc.SummaryStatus(id, domain.FocusCareer)
	assert.Equal(t, SummaryCached, state)
	assert.Equal(t, text, cached)
}

func TestRequestSummary_CachedSummaryServedWithoutStreaming(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.svc.SummaryCache.Set(id, domain.FocusCareer, "cached summary")

	text, err := env.svc.RequestSummary(context.Background(), id, domain.FocusCareer, nil)
	require.NoError(t, err)
	assert.Equal(t, "cached summary", text)
	assert.Zero(t, env.ai.streamCount(), "a cache hit must not touch the model")
}

func TestRequestSummary_EmptyStreamFallsBack(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.ai.tokens = []string{"  ", "\n"}

	text, err := env.svc.RequestSummary(context.Background(), id, domain.FocusCareer, nil)
	require.NoError(t, err)
	assert.Equal(t, prompts.SummaryFallback, text)
}

func TestRequestSummary_FailureMarksState(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.ai.streamErr = errors.New("model unavailable")

	_, err := env.svc.RequestSummary(context.Background(), id, domain.FocusCareer, nil)
	require.Error(t, err)

	state, detail := env.svc.SummaryStatus(id, domain.FocusCareer)
	assert.Equal(t, SummaryFailed, state)
	assert.Contains(t, detail, "model unavailable", "the failure message must be inspectable after the stream ends")
}

func TestRequestSummary_RejectsUnknownArea(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.RequestSummary(context.Background(), uuid.New(), domain.FocusArea("gardening"), nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

// Rapid re-selection within the debounce window must produce exactly one
// model request, for the last area chosen.
func TestRequestSummary_DebounceCollapsesRapidSelection(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.ai.tokens = []string{"steady."}

	areas := []domain.FocusArea{domain.FocusCareer, domain.FocusWealth, domain.FocusHealth}

	var wg sync.WaitGroup
	results := make([]error, len(areas))
	for i, area := range areas {
		wg.Add(1)
		go func(i int, area domain.FocusArea) {
			defer wg.Done()
			_, results[i] = env.svc.RequestSummary(context.Background(), id, area, nil)
		}(i, area)
		time.Sleep(2 * time.Millisecond) // well inside the 10ms test debounce
	}
	wg.Wait()

	superseded := 0
	for _, err := range results {
		if errors.Is(err, ErrSuperseded) {
			superseded++
		}
	}
	assert.Equal(t, len(areas)-1, superseded, "all but the last request must be superseded")
	assert.Equal(t, 1, env.ai.streamCount(), "only one model request may leave the debounce window")

	// Superseded areas go back to uncached, not a pending marker that nothing
	// will ever resolve.
	for _, area := range areas[:len(areas)-1] {
		state, _ := env.svc.SummaryStatus(id, area)
		assert.Equal(t, SummaryUncached, state, "%s has nothing in flight", area)
	}
	state, _ := env.svc.SummaryStatus(id, areas[len(areas)-1])
	assert.Equal(t, SummaryCached, state)
}

// A new request while a stream is live cancels it and waits for it to stop
// before the replacement may write.
func TestRequestSummary_SingleFlightCancelsLiveStream(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.ai.tokens = []string{"one ", "two ", "three ", "four ", "five."}
	env.ai.streamDelay = 20 * time.Millisecond

	firstDone := make(chan error, 1)
	go func() {
		_, err := env.svc.RequestSummary(context.Background(), id, domain.FocusCareer, nil)
		firstDone <- err
	}()

	// Let the first stream pass its debounce and start emitting.
	time.Sleep(40 * time.Millisecond)

	env.ai.mu.Lock()
	env.ai.streamDelay = 0
	env.ai.mu.Unlock()

	text, err := env.svc.RequestSummary(context.Background(), id, domain.FocusWealth, nil)
	require.NoError(t, err)
	assert.Equal(t, "one two three four five.", text)

	assert.ErrorIs(t, <-firstDone, ErrSuperseded)

	state, _ := env.svc.SummaryStatus(id, domain.FocusWealth)
	assert.Equal(t, SummaryCached, state)

	// The canceled stream leaves no stranded pending state behind.
	state, _ = env.svc.SummaryStatus(id, domain.FocusCareer)
	assert.Equal(t, SummaryUncached, state)
}

// A profile edit during streaming must keep the finished summary out of the
// cache.
func TestRequestSummary_EditDuringStreamDiscardsResult(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.ai.tokens = []string{"stale ", "guidance."}

	edited := false
	_, err := env.svc.RequestSummary(context.Background(), id, domain.FocusCareer, func(string) error {
		if !edited {
			edited = true
			env.repo.bumpRevision(id)
		}
		return nil
	})
	require.ErrorIs(t, err, ErrSuperseded)

	_, ok := env.svc.SummaryCache.Get(id, domain.FocusCareer)
	assert.False(t, ok, "a summary for an edited profile must not be cached")
}
