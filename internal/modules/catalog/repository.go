package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository reads the external corporate catalog. Every method issues a
// single query; callers decide whether a failure is fatal or cosmetic.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListAnalyses(ctx context.Context) ([]Analysis, error) {
	var rows []Analysis
	err := r.db.WithContext(ctx).Raw(`
		SELECT code, name, section, technique, method_code,
		       detection_limit, quantification_limit
		FROM catalog_analyses
		WHERE retired = false
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return rows, nil
}

func (r *Repository) AnalysesByCodes(ctx context.Context, codes []string) ([]Analysis, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var rows []Analysis
	err := r.db.WithContext(ctx).Raw(`
		SELECT code, name, section, technique, method_code,
		       detection_limit, quantification_limit
		FROM catalog_analyses
		WHERE retired = false AND TRIM(code) IN ?
	`, codes).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("analyses by codes: %w", err)
	}
	return rows, nil
}

// AnalysesByNames serves the name-keyed hop of line enrichment: override
// rows know the analysis name, the catalog is keyed by code, and the two
// stores share no id space.
func (r *Repository) AnalysesByNames(ctx context.Context, names []string) ([]Analysis, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var rows []Analysis
	err := r.db.WithContext(ctx).Raw(`
		SELECT code, name, section, technique, method_code,
		       detection_limit, quantification_limit
		FROM catalog_analyses
		WHERE retired = false AND name IN ?
	`, names).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("analyses by names: %w", err)
	}
	return rows, nil
}

func (r *Repository) ListProfiles(ctx context.Context) ([]Profile, error) {
	var rows []Profile
	err := r.db.WithContext(ctx).Raw(`
		SELECT TRIM(code) AS code, name, notes
		FROM catalog_profiles
		ORDER BY name
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return rows, nil
}

func (r *Repository) ProfilesByCodes(ctx context.Context, codes []string) ([]Profile, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var rows []Profile
	err := r.db.WithContext(ctx).Raw(`
		SELECT TRIM(code) AS code, name, notes
		FROM catalog_profiles
		WHERE TRIM(code) IN ?
	`, codes).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("profiles by codes: %w", err)
	}
	return rows, nil
}

// ProfileAnalysisCounts reports how many assays each profile bundles.
func (r *Repository) ProfileAnalysisCounts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Code  string `gorm:"column:code"`
		Total int    `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT TRIM(profile_code) AS code, COUNT(*) AS total
		FROM catalog_profile_assays
		GROUP BY TRIM(profile_code)
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("profile analysis counts: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Code] = row.Total
	}
	return counts, nil
}

// ProfileAssays lists the assays bundled in a profile, joined with their
// catalog names. Callers pass every format variant of the profile code.
func (r *Repository) ProfileAssays(ctx context.Context, profileKeys []string) ([]ProfileAssay, error) {
	if len(profileKeys) == 0 {
		return nil, nil
	}
	var rows []ProfileAssay
	err := r.db.WithContext(ctx).Raw(`
		SELECT TRIM(pa.assay_code) AS code, COALESCE(a.name, '') AS name
		FROM catalog_profile_assays pa
		LEFT JOIN catalog_analyses a ON TRIM(a.code) = TRIM(pa.assay_code)
		WHERE TRIM(pa.profile_code) IN ?
		ORDER BY a.name
	`, profileKeys).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("profile assays: %w", err)
	}
	return rows, nil
}

func (r *Repository) ListMatrices(ctx context.Context) ([]Matrix, error) {
	var rows []Matrix
	err := r.db.WithContext(ctx).Raw(`
		SELECT code, name FROM catalog_matrices ORDER BY name
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list matrices: %w", err)
	}
	return rows, nil
}

func (r *Repository) MatricesByKeys(ctx context.Context, keys []string) ([]Matrix, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var rows []Matrix
	err := r.db.WithContext(ctx).Raw(`
		SELECT code, name FROM catalog_matrices WHERE TRIM(code) IN ?
	`, keys).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("matrices by keys: %w", err)
	}
	return rows, nil
}

func (r *Repository) MatricesForAssay(ctx context.Context, assayCode string) ([]Matrix, error) {
	var rows []Matrix
	err := r.db.WithContext(ctx).Raw(`
		SELECT am.matrix_code AS code, m.name
		FROM catalog_assay_matrices am
		LEFT JOIN catalog_matrices m ON m.code = am.matrix_code
		WHERE am.assay_code = @assay
		ORDER BY m.name
	`, map[string]interface{}{"assay": assayCode}).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("matrices for assay: %w", err)
	}
	return rows, nil
}

func (r *Repository) ListProcedures(ctx context.Context) ([]Procedure, error) {
	var rows []Procedure
	err := r.db.WithContext(ctx).Raw(`
		SELECT TRIM(code) AS code, description FROM catalog_procedures
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list procedures: %w", err)
	}
	return rows, nil
}

func (r *Repository) ProceduresByCodes(ctx context.Context, codes []string) ([]Procedure, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var rows []Procedure
	err := r.db.WithContext(ctx).Raw(`
		SELECT TRIM(code) AS code, description
		FROM catalog_procedures
		WHERE TRIM(code) IN ?
	`, codes).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("procedures by codes: %w", err)
	}
	return rows, nil
}

func (r *Repository) ListClients(ctx context.Context) ([]Client, error) {
	var rows []Client
	err := r.db.WithContext(ctx).Raw(`
		SELECT code, name, trade_name, tax_id, address
		FROM catalog_clients
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return rows, nil
}

func (r *Repository) ClientByCode(ctx context.Context, code string) (*Client, error) {
	var rows []Client
	err := r.db.WithContext(ctx).Raw(`
		SELECT code, name, trade_name, tax_id, address
		FROM catalog_clients
		WHERE TRIM(code) = @code
		LIMIT 1
	`, map[string]interface{}{"code": code}).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("client by code: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *Repository) ContactsByClient(ctx context.Context, clientCode string) ([]ClientContact, error) {
	var rows []ClientContact
	err := r.db.WithContext(ctx).Raw(`
		SELECT code, client_code, name, role, email, phone
		FROM catalog_client_contacts
		WHERE client_code = @client
		ORDER BY name
	`, map[string]interface{}{"client": clientCode}).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("contacts by client: %w", err)
	}
	return rows, nil
}

func (r *Repository) ContactByCode(ctx context.Context, code string) (*ClientContact, error) {
	var rows []ClientContact
	err := r.db.WithContext(ctx).Raw(`
		SELECT code, client_code, name, role, email, phone
		FROM catalog_client_contacts
		WHERE code = @code
		LIMIT 1
	`, map[string]interface{}{"code": code}).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("contact by code: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
