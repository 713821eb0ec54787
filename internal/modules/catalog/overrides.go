package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/pkg/normalizer"
)

// OverrideRepository owns the transactional-store tables that layer lab
// pricing and accreditation over the read-only catalog.
type OverrideRepository struct {
	db *gorm.DB
}

func NewOverrideRepository(db *gorm.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

func (r *OverrideRepository) ListAnalysisOverrides(ctx context.Context) ([]AnalysisOverride, error) {
	var rows []AnalysisOverride
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, subcontracted, base_price, accreditor_id, observations
		FROM analysis_overrides
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list analysis overrides: %w", err)
	}
	return rows, nil
}

func (r *OverrideRepository) AnalysisOverridesByIDs(ctx context.Context, ids []int64) ([]AnalysisOverride, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []AnalysisOverride
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, subcontracted, base_price, accreditor_id, observations
		FROM analysis_overrides
		WHERE id IN ?
	`, ids).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("analysis overrides by ids: %w", err)
	}
	return rows, nil
}

func (r *OverrideRepository) AnalysisOverridesByNames(ctx context.Context, names []string) ([]AnalysisOverride, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var rows []AnalysisOverride
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, subcontracted, base_price, accreditor_id, observations
		FROM analysis_overrides
		WHERE name IN ?
	`, names).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("analysis overrides by names: %w", err)
	}
	return rows, nil
}

// SaveAnalysisOverride upserts price/accreditor data: update by id when
// known, otherwise by name, otherwise insert a fresh row.
func (r *OverrideRepository) SaveAnalysisOverride(ctx context.Context, ov AnalysisOverride) error {
	db := r.db.WithContext(ctx)

	id := ov.ID
	if id == 0 && ov.Name != "" {
		var found []struct {
			ID int64 `gorm:"column:id"`
		}
		err := db.Raw(`
			SELECT id FROM analysis_overrides WHERE name = @name LIMIT 1
		`, map[string]interface{}{"name": ov.Name}).Scan(&found).Error
		if err != nil {
			return fmt.Errorf("resolve analysis override by name: %w", err)
		}
		if len(found) > 0 {
			id = found[0].ID
		}
	}

	if id != 0 {
		err := db.Exec(`
			UPDATE analysis_overrides
			SET base_price = @price, accreditor_id = @accreditor
			WHERE id = @id
		`, map[string]interface{}{
			"price":      ov.BasePrice,
			"accreditor": ov.AccreditorID,
			"id":         id,
		}).Error
		if err != nil {
			return fmt.Errorf("update analysis override: %w", err)
		}
		return nil
	}

	if ov.Name == "" {
		return fmt.Errorf("%w: analysis override needs an id or a name", ErrValidation)
	}
	err := db.Exec(`
		INSERT INTO analysis_overrides (name, subcontracted, base_price, accreditor_id)
		VALUES (@name, @subcontracted, @price, @accreditor)
	`, map[string]interface{}{
		"name":          ov.Name,
		"subcontracted": ov.Subcontracted,
		"price":         ov.BasePrice,
		"accreditor":    ov.AccreditorID,
	}).Error
	if err != nil {
		return fmt.Errorf("insert analysis override: %w", err)
	}
	return nil
}

func (r *OverrideRepository) ListProfileOverrides(ctx context.Context) ([]ProfileOverride, error) {
	var rows []ProfileOverride
	err := r.db.WithContext(ctx).Raw(`
		SELECT TRIM(profile_key) AS profile_key, name, base_price
		FROM profile_overrides
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list profile overrides: %w", err)
	}
	return rows, nil
}

// SaveProfilePrice upserts the surrogate price for a profile, keyed by the
// canonical profile key so zero-padded and trimmed codes land on one row.
func (r *OverrideRepository) SaveProfilePrice(ctx context.Context, rawProfileCode, name string, price *float64) error {
	key := normalizer.CanonicalKey(rawProfileCode)
	if key == "" {
		return fmt.Errorf("%w: profile code is empty", ErrValidation)
	}
	db := r.db.WithContext(ctx)

	res := db.Exec(`
		UPDATE profile_overrides
		SET base_price = @price,
		    name = CASE WHEN @name <> '' THEN @name ELSE name END
		WHERE TRIM(profile_key) = @key
	`, map[string]interface{}{"price": price, "name": name, "key": key})
	if res.Error != nil {
		return fmt.Errorf("update profile price: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	err := db.Exec(`
		INSERT INTO profile_overrides (profile_key, name, base_price)
		VALUES (@key, @name, @price)
	`, map[string]interface{}{"key": key, "name": name, "price": price}).Error
	if err != nil {
		return fmt.Errorf("insert profile price: %w", err)
	}
	return nil
}

func (r *OverrideRepository) ListAccreditors(ctx context.Context) ([]Accreditor, error) {
	var rows []Accreditor
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name FROM accreditors ORDER BY name
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list accreditors: %w", err)
	}
	return rows, nil
}

func (r *OverrideRepository) AccreditorsByIDs(ctx context.Context, ids []int64) ([]Accreditor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []Accreditor
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name FROM accreditors WHERE id IN ?
	`, ids).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("accreditors by ids: %w", err)
	}
	return rows, nil
}
