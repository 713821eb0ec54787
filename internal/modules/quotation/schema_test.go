package quotation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// registers the cgo-free "sqlite" driver used below
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: ":memory:"}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	return db
}

func TestDetectSchemaVariants(t *testing.T) {
	cases := []struct {
		name string
		cols []string
		want ProfileLineSchema
	}{
		{
			name: "minimal",
			cols: []string{"quotation_id", "profile_ref", "name", "quantity"},
			want: ProfileLineSchema{},
		},
		{
			name: "price only",
			cols: []string{"quotation_id", "profile_ref", "name", "quantity", "price"},
			want: ProfileLineSchema{PriceColumn: "price"},
		},
		{
			name: "matrix only",
			cols: []string{"quotation_id", "profile_ref", "name", "quantity", "matrix_code"},
			want: ProfileLineSchema{HasMatrix: true},
		},
		{
			name: "full",
			cols: []string{"quotation_id", "profile_ref", "name", "quantity", "base_price", "matrix_code"},
			want: ProfileLineSchema{PriceColumn: "base_price", HasMatrix: true},
		},
		{
			name: "price precedence",
			cols: []string{"base_price", "price", "unit_price"},
			want: ProfileLineSchema{PriceColumn: "base_price"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, detectSchema(tc.cols))
		})
	}
}

func TestSchemaSelectExprSynthesizesMissingColumns(t *testing.T) {
	minimal := ProfileLineSchema{}
	assert.Contains(t, minimal.SelectExpr(), "0 AS unit_price")
	assert.Contains(t, minimal.SelectExpr(), "'' AS matrix_code")

	full := ProfileLineSchema{PriceColumn: "base_price", HasMatrix: true}
	assert.Contains(t, full.SelectExpr(), "base_price AS unit_price")
	assert.Contains(t, full.SelectExpr(), "matrix_code")
}

func TestSchemaInsertColumnsMatchValues(t *testing.T) {
	line := ProfileLine{QuotationID: 1, ProfileRef: "12", Name: "BTEX", UnitPrice: 80, Quantity: 2, MatrixCode: "AG"}

	minimal := ProfileLineSchema{}
	assert.Len(t, minimal.InsertValues(line), 4)
	assert.Equal(t, "quotation_id, profile_ref, name, quantity", minimal.InsertColumns())

	full := ProfileLineSchema{PriceColumn: "unit_price", HasMatrix: true}
	vals := full.InsertValues(line)
	require.Len(t, vals, 6)
	assert.Equal(t, 80.0, vals[4])
	assert.Equal(t, "AG", vals[5])
}

func TestSchemaProbeAgainstSQLite(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE quotation_profile_lines (
		quotation_id INTEGER,
		profile_ref TEXT,
		name TEXT,
		quantity REAL,
		base_price REAL,
		matrix_code TEXT
	)`).Error)

	probe := NewSchemaProbe(db)
	got := probe.Resolve(context.Background())
	assert.Equal(t, ProfileLineSchema{PriceColumn: "base_price", HasMatrix: true}, got)

	// cached on first resolve
	require.NoError(t, db.Exec(`DROP TABLE quotation_profile_lines`).Error)
	assert.Equal(t, got, probe.Resolve(context.Background()))
}

func TestSchemaProbeDegradesWhenTableMissing(t *testing.T) {
	db := openTestDB(t)

	probe := NewSchemaProbe(db)
	assert.Equal(t, ProfileLineSchema{}, probe.Resolve(context.Background()))
}
