package catalog

import "context"

// CatalogReader is the read-store surface the resolver needs.
type CatalogReader interface {
	ListAnalyses(ctx context.Context) ([]Analysis, error)
	AnalysesByCodes(ctx context.Context, codes []string) ([]Analysis, error)
	AnalysesByNames(ctx context.Context, names []string) ([]Analysis, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	ProfilesByCodes(ctx context.Context, codes []string) ([]Profile, error)
	ProfileAnalysisCounts(ctx context.Context) (map[string]int, error)
	ProfileAssays(ctx context.Context, profileKeys []string) ([]ProfileAssay, error)
	ListMatrices(ctx context.Context) ([]Matrix, error)
	MatricesByKeys(ctx context.Context, keys []string) ([]Matrix, error)
	MatricesForAssay(ctx context.Context, assayCode string) ([]Matrix, error)
	ListProcedures(ctx context.Context) ([]Procedure, error)
	ProceduresByCodes(ctx context.Context, codes []string) ([]Procedure, error)
	ListClients(ctx context.Context) ([]Client, error)
	ClientByCode(ctx context.Context, code string) (*Client, error)
	ContactsByClient(ctx context.Context, clientCode string) ([]ClientContact, error)
	ContactByCode(ctx context.Context, code string) (*ClientContact, error)
}

// OverrideStore is the transactional-store surface the resolver needs.
type OverrideStore interface {
	ListAnalysisOverrides(ctx context.Context) ([]AnalysisOverride, error)
	AnalysisOverridesByIDs(ctx context.Context, ids []int64) ([]AnalysisOverride, error)
	AnalysisOverridesByNames(ctx context.Context, names []string) ([]AnalysisOverride, error)
	SaveAnalysisOverride(ctx context.Context, ov AnalysisOverride) error
	ListProfileOverrides(ctx context.Context) ([]ProfileOverride, error)
	SaveProfilePrice(ctx context.Context, rawProfileCode, name string, price *float64) error
	ListAccreditors(ctx context.Context) ([]Accreditor, error)
	AccreditorsByIDs(ctx context.Context, ids []int64) ([]Accreditor, error)
}
