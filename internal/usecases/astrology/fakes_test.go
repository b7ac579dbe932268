package astrology

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/storage/inmemory"
	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/pkg/civiltime"
)

// fakeRepo keeps profiles in memory and hands out copies the way a real
// row scan would, so usecase mutations never leak into stored state.
type fakeRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile
	updates  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func copyProfile(p *domain.Profile) *domain.Profile {
	out := *p
	if p.BirthDate != nil {
		d := *p.BirthDate
		out.BirthDate = &d
	}
	if p.BirthTime != nil {
		t := *p.BirthTime
		out.BirthTime = &t
	}
	if p.Location != nil {
		l := *p.Location
		out.Location = &l
	}
	if p.FocusArea != nil {
		a := *p.FocusArea
		out.FocusArea = &a
	}
	if p.Signs != nil {
		s := *p.Signs
		out.Signs = &s
	}
	return &out
}

func (r *fakeRepo) Create(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = copyProfile(profile)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return copyProfile(profile), nil
}

func (r *fakeRepo) Update(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	r.profiles[profile.ID] = copyProfile(profile)
	r.updates++
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(r.profiles, id)
	return nil
}

// bumpRevision simulates a concurrent invalidating edit.
func (r *fakeRepo) bumpRevision(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[id]; ok {
		p.Revision++
		p.Signs = nil
		p.Location = nil
	}
}

type fakeGeocoder struct {
	result *domain.PlaceResult
	err    error
	calls  int
}

func (g *fakeGeocoder) ValidatePlace(_ context.Context, _ string) (*domain.PlaceResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

type fakeEphemeris struct {
	mu     sync.Mutex
	moon   *domain.MoonInfo
	err    error
	calls  int
	resets int
	hook   func() // runs inside FetchMoonInfo, before returning
}

func (e *fakeEphemeris) FetchMoonInfo(_ context.Context, _ time.Time, _, _ float64, _ domain.ZodiacSystem) (*domain.MoonInfo, error) {
	e.mu.Lock()
	e.calls++
	hook := e.hook
	e.mu.Unlock()
	if hook != nil {
		hook()
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.moon, nil
}

func (e *fakeEphemeris) ResetSession() {
	e.mu.Lock()
	e.resets++
	e.mu.Unlock()
}

func (e *fakeEphemeris) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// fakeAI serves canned signs and streams canned tokens. streamDelay lets
// tests hold a stream open long enough to supersede it.
type fakeAI struct {
	mu          sync.Mutex
	signs       *domain.AISigns
	signsErr    error
	tokens      []string
	streamErr   error
	streamDelay time.Duration
	streams     int
}

func (a *fakeAI) LookupSigns(_ context.Context, _ string, _ *time.Time) (*domain.AISigns, error) {
	if a.signsErr != nil {
		return nil, a.signsErr
	}
	return a.signs, nil
}

func (a *fakeAI) StreamChat(ctx context.Context, _ string, _ []domain.ChatMessage, onToken func(token string) error) error {
	a.mu.Lock()
	a.streams++
	tokens := a.tokens
	delay := a.streamDelay
	streamErr := a.streamErr
	a.mu.Unlock()

	for _, token := range tokens {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := onToken(token); err != nil {
			return err
		}
	}
	return streamErr
}

func (a *fakeAI) streamCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.streams
}

var errCacheMiss = errors.New("cache miss")

// fakeKV is an in-memory stand-in for the shared Redis cache.
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (c *fakeKV) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.data[key]
	if !ok {
		return "", errCacheMiss
	}
	return value, nil
}

func (c *fakeKV) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *fakeKV) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeKV) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *fakeKV) Close() error { return nil }

type testEnv struct {
	svc       *Service
	repo      *fakeRepo
	geocoder  *fakeGeocoder
	ephemeris *fakeEphemeris
	ai        *fakeAI
	kv        *fakeKV
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:      newFakeRepo(),
		geocoder:  &fakeGeocoder{},
		ephemeris: &fakeEphemeris{},
		ai:        &fakeAI{},
		kv:        newFakeKV(),
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.svc = New(env.repo, env.geocoder, env.ephemeris, env.ai, env.kv, inmemory.NewSummaryCache(), nil, log)

	// Keep the orchestration timings short so tests stay fast.
	env.svc.debounce = 10 * time.Millisecond
	env.svc.flushEvery = time.Millisecond

	return env
}

// seedProfile stores a complete, place-validated profile.
func (env *testEnv) seedProfile(id uuid.UUID) *domain.Profile {
	profile := &domain.Profile{
		ID:           id,
		Name:         "Lena",
		Gender:       domain.GenderFemale,
		BirthDate:    &civiltime.Date{Year: 1992, Month: 3, Day: 14},
		BirthTime:    &civiltime.TimeOfDay{Hour: 4, Minute: 30},
		PlaceOfBirth: "Pune, Maharashtra, India",
		Location: &domain.BirthLocation{
			Latitude:   18.5204,
			Longitude:  73.8567,
			TimezoneID: "Asia/Kolkata",
		},
		Revision: 1,
	}
	_ = env.repo.Create(context.Background(), profile)
	return profile
}
