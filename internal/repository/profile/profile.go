package profileRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/pkg/civiltime"
	"github.com/AmitAMahadik/ExAstra/internal/ports/persistence"
	ports "github.com/AmitAMahadik/ExAstra/internal/ports/repository"
)

const tableName = "profiles"

const allColumns = `id, name, gender,
	birth_year, birth_month, birth_day, birth_hour, birth_minute, birth_second,
	birth_place, birth_lat, birth_lon, birth_tz,
	focus_area, signs, revision, created_at, updated_at`

type Repository struct {
	db  persistence.Persistence
	Log *slog.Logger
}

func New(db persistence.Persistence, log *slog.Logger) ports.IProfileRepo {
	return &Repository{
		db:  db,
		Log: log,
	}
}

// profileRow is the flat scan target; civil components and location are
// nullable until entered/validated.
type profileRow struct {
	ID          uuid.UUID           `db:"id"`
	Name        string              `db:"name"`
	Gender      string              `db:"gender"`
	BirthYear   *int                `db:"birth_year"`
	BirthMonth  *int                `db:"birth_month"`
	BirthDay    *int                `db:"birth_day"`
	BirthHour   *int                `db:"birth_hour"`
	BirthMinute *int                `db:"birth_minute"`
	BirthSecond *int                `db:"birth_second"`
	BirthPlace  string              `db:"birth_place"`
	BirthLat    *float64            `db:"birth_lat"`
	BirthLon    *float64            `db:"birth_lon"`
	BirthTz     *string             `db:"birth_tz"`
	FocusArea   *string             `db:"focus_area"`
	Signs       *domain.SignsResult `db:"signs"`
	Revision    int64               `db:"revision"`
	CreatedAt   time.Time           `db:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"`
}

func (r *Repository) Create(ctx context.Context, profile *domain.Profile) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES
		(:id, :name, :gender,
		:birth_year, :birth_month, :birth_day, :birth_hour, :birth_minute, :birth_second,
		:birth_place, :birth_lat, :birth_lon, :birth_tz,
		:focus_area, :signs, :revision, :created_at, :updated_at)`,
		tableName, allColumns)

	if err := r.db.NamedExec(ctx, query, fromDomain(profile)); err != nil {
		r.Log.Error("failed to create profile", "error", err, "profile_id", profile.ID)
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, allColumns, tableName)

	var row profileRow
	err := r.db.Get(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		r.Log.Error("failed to get profile", "error", err, "profile_id", id)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return toDomain(&row), nil
}

func (r *Repository) Update(ctx context.Context, profile *domain.Profile) error {
	query := fmt.Sprintf(`UPDATE %s SET
		name = :name, gender = :gender,
		birth_year = :birth_year, birth_month = :birth_month, birth_day = :birth_day,
		birth_hour = :birth_hour, birth_minute = :birth_minute, birth_second = :birth_second,
		birth_place = :birth_place, birth_lat = :birth_lat, birth_lon = :birth_lon, birth_tz = :birth_tz,
		focus_area = :focus_area, signs = :signs, revision = :revision, updated_at = :updated_at
		WHERE id = :id`, tableName)

	affected, err := r.db.NamedExecWithResult(ctx, query, fromDomain(profile))
	if err != nil {
		r.Log.Error("failed to update profile", "error", err, "profile_id", profile.ID)
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if affected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, tableName)

	if err := r.db.Exec(ctx, query, id); err != nil {
		r.Log.Error("failed to delete profile", "error", err, "profile_id", id)
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func fromDomain(p *domain.Profile) *profileRow {
	row := &profileRow{
		ID:         p.ID,
		Name:       p.Name,
		Gender:     string(p.Gender),
		BirthPlace: p.PlaceOfBirth,
		Signs:      p.Signs,
		Revision:   p.Revision,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}

	if p.BirthDate != nil {
		row.BirthYear = &p.BirthDate.Year
		row.BirthMonth = &p.BirthDate.Month
		row.BirthDay = &p.BirthDate.Day
	}
	if p.BirthTime != nil {
		row.BirthHour = &p.BirthTime.Hour
		row.BirthMinute = &p.BirthTime.Minute
		row.BirthSecond = &p.BirthTime.Second
	}
	if p.Location != nil {
		row.BirthLat = &p.Location.Latitude
		row.BirthLon = &p.Location.Longitude
		row.BirthTz = &p.Location.TimezoneID
	}
	if p.FocusArea != nil {
		area := string(*p.FocusArea)
		row.FocusArea = &area
	}

	return row
}

func toDomain(row *profileRow) *domain.Profile {
	p := &domain.Profile{
		ID:           row.ID,
		Name:         row.Name,
		Gender:       domain.Gender(row.Gender),
		PlaceOfBirth: row.BirthPlace,
		Signs:        row.Signs,
		Revision:     row.Revision,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}

	if row.BirthYear != nil && row.BirthMonth != nil && row.BirthDay != nil {
		p.BirthDate = &civiltime.Date{Year: *row.BirthYear, Month: *row.BirthMonth, Day: *row.BirthDay}
	}
	if row.BirthHour != nil && row.BirthMinute != nil {
		second := 0
		if row.BirthSecond != nil {
			second = *row.BirthSecond
		}
		p.BirthTime = &civiltime.TimeOfDay{Hour: *row.BirthHour, Minute: *row.BirthMinute, Second: second}
	}
	if row.BirthLat != nil && row.BirthLon != nil && row.BirthTz != nil {
		p.Location = &domain.BirthLocation{
			Latitude:   *row.BirthLat,
			Longitude:  *row.BirthLon,
			TimezoneID: *row.BirthTz,
		}
	}
	if row.FocusArea != nil {
		area := domain.FocusArea(*row.FocusArea)
		p.FocusArea = &area
	}

	return p
}
