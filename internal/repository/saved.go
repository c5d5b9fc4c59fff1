package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/growthboard/growthboard-go/internal/model"
)

var ErrDuplicateCountry = errors.New("country already saved")

// SavedCountryRepository handles saved-country persistence operations.
// All operations are scoped to a user ID; callers must pass the identity
// verified from the session token, never a client-supplied one.
type SavedCountryRepository struct {
	db *DB
}

// NewSavedCountryRepository creates a new SavedCountryRepository.
func NewSavedCountryRepository(db *DB) *SavedCountryRepository {
	return &SavedCountryRepository{db: db}
}

// Save inserts a saved country and sets the generated ID on the struct.
// Only supplied metrics are written; absent ones stay NULL rather than zero.
// Against a legacy table without metric columns the insert degrades to the
// base columns instead of failing.
func (r *SavedCountryRepository) Save(ctx context.Context, sc *model.SavedCountry) error {
	if err := r.db.EnsureSchema(ctx); err != nil {
		return err
	}

	if sc.SavedAt == "" {
		sc.SavedAt = time.Now().UTC().Format(time.RFC3339)
	}

	columns := []string{"user_id", "country", "saved_at"}
	args := []any{sc.UserID, sc.Country, sc.SavedAt}

	if r.db.HasMetricColumns() {
		if sc.GrowthGDP != nil {
			columns = append(columns, "growth_gdp")
			args = append(args, *sc.GrowthGDP)
		}
		if sc.GrowthPopulation != nil {
			columns = append(columns, "growth_population")
			args = append(args, *sc.GrowthPopulation)
		}
		if sc.GrowthTotal != nil {
			columns = append(columns, "growth_total")
			args = append(args, *sc.GrowthTotal)
		}
	}

	query := "INSERT INTO saved_countries (" + strings.Join(columns, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateCountry
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	sc.ID = id
	return nil
}

// Unsave deletes the saved country if present. Deleting a country the user
// never saved is not an error.
func (r *SavedCountryRepository) Unsave(ctx context.Context, userID int64, country string) error {
	if err := r.db.EnsureSchema(ctx); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_countries WHERE user_id = ? AND country = ?`, userID, country)
	return err
}

// ListByUser retrieves all saved countries for a user, most recently saved
// first. Against a legacy table the metrics come back nil.
func (r *SavedCountryRepository) ListByUser(ctx context.Context, userID int64) ([]model.SavedCountry, error) {
	if err := r.db.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	if !r.db.HasMetricColumns() {
		return r.listBaseColumns(ctx, userID)
	}

	query := `SELECT id, user_id, country, growth_gdp, growth_population, growth_total, saved_at
		FROM saved_countries WHERE user_id = ? ORDER BY saved_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saved []model.SavedCountry
	for rows.Next() {
		var (
			sc              model.SavedCountry
			gdp, pop, total sql.NullFloat64
		)
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.Country, &gdp, &pop, &total, &sc.SavedAt); err != nil {
			return nil, err
		}
		sc.GrowthGDP = nullableFloat(gdp)
		sc.GrowthPopulation = nullableFloat(pop)
		sc.GrowthTotal = nullableFloat(total)
		saved = append(saved, sc)
	}

	return saved, rows.Err()
}

func (r *SavedCountryRepository) listBaseColumns(ctx context.Context, userID int64) ([]model.SavedCountry, error) {
	query := `SELECT id, user_id, country, saved_at
		FROM saved_countries WHERE user_id = ? ORDER BY saved_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saved []model.SavedCountry
	for rows.Next() {
		var sc model.SavedCountry
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.Country, &sc.SavedAt); err != nil {
			return nil, err
		}
		saved = append(saved, sc)
	}

	return saved, rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
