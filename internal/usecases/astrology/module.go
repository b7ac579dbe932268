package astrology

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/ports/cache"
	"github.com/AmitAMahadik/ExAstra/internal/ports/repository"
	"github.com/AmitAMahadik/ExAstra/internal/ports/service"
)

const (
	defaultDebounce   = 250 * time.Millisecond
	defaultFlushEvery = 50 * time.Millisecond // ~20 visible updates per second
	signsCacheTTL     = 24 * time.Hour
)

// Config holds the fixed astrology choices; none are user-configurable.
type Config struct {
	Zodiac domain.ZodiacSystem `envconfig:"ZODIAC" default:"sidereal_lahiri"`
}

// Service is the business logic of the guidance flow: profile state with
// atomic invalidation, place validation, concurrent sign resolution, and the
// focus-summary and chat orchestrators.
type Service struct {
	ProfileRepo  repository.IProfileRepo
	Geocoding    service.IGeocodingService
	Ephemeris    service.IEphemerisService
	AI           service.IAIService
	SignsCache   cache.Cache // shared, keyed by birth moment + coordinates
	SummaryCache cache.ISummaryCache
	Log          *slog.Logger

	zodiac     domain.ZodiacSystem
	debounce   time.Duration
	flushEvery time.Duration

	// focus orchestrator: single-flight across the whole orchestrator
	focusMu    sync.Mutex
	focusSeq   uint64
	flight     *focusFlight
	focusState map[focusKey]summaryEntry

	// chat sessions live for the process lifetime
	chatMu   sync.Mutex
	sessions map[uuid.UUID]*chatSession
}

func New(
	profileRepo repository.IProfileRepo,
	geocoding service.IGeocodingService,
	ephemeris service.IEphemerisService,
	ai service.IAIService,
	signsCache cache.Cache,
	summaryCache cache.ISummaryCache,
	cfg *Config,
	log *slog.Logger,
) *Service {
	zodiac := domain.ZodiacSiderealLahiri
	if cfg != nil && cfg.Zodiac.IsValid() {
		zodiac = cfg.Zodiac
	}

	return &Service{
		ProfileRepo:  profileRepo,
		Geocoding:    geocoding,
		Ephemeris:    ephemeris,
		AI:           ai,
		SignsCache:   signsCache,
		SummaryCache: summaryCache,
		Log:          log,
		zodiac:       zodiac,
		debounce:     defaultDebounce,
		flushEvery:   defaultFlushEvery,
		focusState:   make(map[focusKey]summaryEntry),
		sessions:     make(map[uuid.UUID]*chatSession),
	}
}
