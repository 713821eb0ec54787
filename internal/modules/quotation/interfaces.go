package quotation

import (
	"context"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/modules/catalog"
)

// Store is the persistence surface the service drives.
type Store interface {
	List(ctx context.Context) ([]ListRow, error)
	Header(ctx context.Context, id int64) (*Quotation, error)
	AnalysisLines(ctx context.Context, quotationID int64) ([]AnalysisLine, error)
	ProfileLines(ctx context.Context, quotationID int64) ([]ProfileLine, error)
	Create(ctx context.Context, q Quotation, lines []AnalysisLine, profiles []ProfileLine) (int64, error)
	Update(ctx context.Context, q Quotation, lines []AnalysisLine, profiles []ProfileLine) error
	Approve(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// Enricher is the slice of the catalog resolver the views consume.
// Every method is best-effort; missing data comes back as absent map
// entries or zero values, never an error.
type Enricher interface {
	AnalysisInfo(ctx context.Context, ids []int64) map[int64]catalog.AnalysisInfo
	MatrixNames(ctx context.Context, rawCodes []string) map[string]string
	ProfileNames(ctx context.Context, codes []string) map[string]string
	ResolveClient(ctx context.Context, raw string) catalog.ClientInfo
	ClientDisplayIndex(ctx context.Context) func(raw string) string
	ContactName(ctx context.Context, code string) string
}
