package quotation

import (
	"context"
	"log"
	"sync"

	"gorm.io/gorm"
)

// ProfileLineSchema describes which optional columns the profile-line
// table actually carries. Deployments differ: older databases predate
// the matrix column and name the price column differently.
type ProfileLineSchema struct {
	PriceColumn string // "" when no price column exists
	HasMatrix   bool
}

// SelectExpr builds the column list for reading profile lines. Missing
// columns are synthesized so callers always scan the same shape.
func (s ProfileLineSchema) SelectExpr() string {
	expr := "quotation_id, profile_ref, name, quantity"
	if s.PriceColumn != "" {
		expr += ", " + s.PriceColumn + " AS unit_price"
	} else {
		expr += ", 0 AS unit_price"
	}
	if s.HasMatrix {
		expr += ", matrix_code"
	} else {
		expr += ", '' AS matrix_code"
	}
	return expr
}

// InsertColumns returns the writable column list in the order matching
// InsertValues.
func (s ProfileLineSchema) InsertColumns() string {
	cols := "quotation_id, profile_ref, name, quantity"
	if s.PriceColumn != "" {
		cols += ", " + s.PriceColumn
	}
	if s.HasMatrix {
		cols += ", matrix_code"
	}
	return cols
}

// InsertValues returns the values for one line, ordered per InsertColumns.
func (s ProfileLineSchema) InsertValues(l ProfileLine) []interface{} {
	vals := []interface{}{l.QuotationID, l.ProfileRef, l.Name, l.Quantity}
	if s.PriceColumn != "" {
		vals = append(vals, l.UnitPrice)
	}
	if s.HasMatrix {
		vals = append(vals, l.MatrixCode)
	}
	return vals
}

// SchemaProbe inspects the profile-line table once per process and
// caches the result. A failed probe degrades to the zero schema (no
// price, no matrix) so reads still work.
type SchemaProbe struct {
	db *gorm.DB

	once   sync.Once
	cached ProfileLineSchema
}

func NewSchemaProbe(db *gorm.DB) *SchemaProbe {
	return &SchemaProbe{db: db}
}

// Resolve returns the detected schema.
func (p *SchemaProbe) Resolve(ctx context.Context) ProfileLineSchema {
	p.once.Do(func() {
		cols, err := p.columns(ctx)
		if err != nil {
			log.Printf("quotation: profile line schema probe failed, assuming minimal schema: %v", err)
			return
		}
		p.cached = detectSchema(cols)
	})
	return p.cached
}

func (p *SchemaProbe) columns(ctx context.Context) ([]string, error) {
	var cols []string
	var err error
	if p.db.Dialector.Name() == "sqlite" {
		err = p.db.WithContext(ctx).
			Raw("SELECT name FROM pragma_table_info('quotation_profile_lines')").
			Scan(&cols).Error
	} else {
		err = p.db.WithContext(ctx).
			Raw("SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = 'quotation_profile_lines'").
			Scan(&cols).Error
	}
	return cols, err
}

// detectSchema picks the price column by precedence and flags the matrix
// column when present.
func detectSchema(cols []string) ProfileLineSchema {
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	var s ProfileLineSchema
	for _, candidate := range []string{"base_price", "price", "unit_price"} {
		if have[candidate] {
			s.PriceColumn = candidate
			break
		}
	}
	s.HasMatrix = have["matrix_code"]
	return s
}
