package catalog

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/pkg/normalizer"
)

// Resolver joins the two stores into the enriched shapes the quotation
// views need. Enrichment is cosmetic: every lookup degrades to whatever
// could be resolved instead of failing the caller.
type Resolver struct {
	catalog   CatalogReader
	overrides OverrideStore
}

func NewResolver(catalog CatalogReader, overrides OverrideStore) *Resolver {
	return &Resolver{catalog: catalog, overrides: overrides}
}

// AnalysisInfo is the per-line enrichment assembled from both stores.
type AnalysisInfo struct {
	Name                string
	DetectionLimit      string
	QuantificationLimit string
	Method              string
	Accreditor          string
}

// AnalysisInfo resolves enrichment for the given analysis override ids.
// The join is two-hop and name-keyed: override id -> override name ->
// catalog row (limits, method code) -> procedure description, plus
// override accreditor id -> accreditor name. Partial results are normal;
// ids with no resolution are simply absent from the map.
func (r *Resolver) AnalysisInfo(ctx context.Context, ids []int64) map[int64]AnalysisInfo {
	info := make(map[int64]AnalysisInfo)
	if len(ids) == 0 {
		return info
	}

	overrides, err := r.overrides.AnalysisOverridesByIDs(ctx, ids)
	if err != nil {
		log.Printf("analysis enrichment: override lookup failed: %v", err)
		return info
	}
	for _, ov := range overrides {
		info[ov.ID] = AnalysisInfo{Name: ov.Name}
	}

	accreditorNames := r.accreditorNames(ctx, overrides)

	names := make([]string, 0, len(overrides))
	seen := make(map[string]struct{}, len(overrides))
	for _, ov := range overrides {
		if ov.Name == "" {
			continue
		}
		if _, ok := seen[ov.Name]; ok {
			continue
		}
		seen[ov.Name] = struct{}{}
		names = append(names, ov.Name)
	}

	byName := make(map[string]Analysis)
	if len(names) > 0 {
		catalogRows, err := r.catalog.AnalysesByNames(ctx, names)
		if err != nil {
			log.Printf("analysis enrichment: catalog lookup failed: %v", err)
		}
		for _, row := range catalogRows {
			// duplicate names are a data-quality issue; first row wins
			if _, ok := byName[row.Name]; !ok {
				byName[row.Name] = row
			}
		}
	}

	methodNames := r.methodDescriptions(ctx, byName)

	for _, ov := range overrides {
		entry := AnalysisInfo{Name: ov.Name}
		if ov.AccreditorID != nil {
			entry.Accreditor = accreditorNames[*ov.AccreditorID]
		}
		if row, ok := byName[ov.Name]; ok {
			entry.DetectionLimit = row.DetectionLimit
			entry.QuantificationLimit = row.QuantificationLimit
			entry.Method = methodDisplay(row, methodNames)
		}
		info[ov.ID] = entry
	}
	return info
}

func (r *Resolver) accreditorNames(ctx context.Context, overrides []AnalysisOverride) map[int64]string {
	ids := make([]int64, 0, len(overrides))
	seen := make(map[int64]struct{}, len(overrides))
	for _, ov := range overrides {
		if ov.AccreditorID == nil {
			continue
		}
		if _, ok := seen[*ov.AccreditorID]; ok {
			continue
		}
		seen[*ov.AccreditorID] = struct{}{}
		ids = append(ids, *ov.AccreditorID)
	}
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	rows, err := r.overrides.AccreditorsByIDs(ctx, ids)
	if err != nil {
		log.Printf("analysis enrichment: accreditor lookup failed: %v", err)
		return names
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names
}

func (r *Resolver) methodDescriptions(ctx context.Context, byName map[string]Analysis) map[string]string {
	codes := make([]string, 0, len(byName))
	seen := make(map[string]struct{}, len(byName))
	for _, row := range byName {
		code := strings.TrimSpace(row.MethodCode)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	descriptions := make(map[string]string, len(codes))
	if len(codes) == 0 {
		return descriptions
	}
	rows, err := r.catalog.ProceduresByCodes(ctx, codes)
	if err != nil {
		log.Printf("analysis enrichment: procedure lookup failed: %v", err)
		return descriptions
	}
	for _, row := range rows {
		descriptions[strings.TrimSpace(row.Code)] = row.Description
	}
	return descriptions
}

// methodDisplay prefers the resolved procedure description, then the raw
// method code, then the catalog technique.
func methodDisplay(row Analysis, methods map[string]string) string {
	code := strings.TrimSpace(row.MethodCode)
	if code != "" {
		if desc, ok := methods[code]; ok && desc != "" {
			return desc
		}
		return code
	}
	return row.Technique
}

// MatrixNames resolves matrix display names for a batch of raw matrix
// codes. The result map is keyed by every format variant of every code so
// lookups succeed regardless of how the caller's rows spell the id. An
// empty batch result falls back to the full (small) matrix catalog rather
// than failing.
func (r *Resolver) MatrixNames(ctx context.Context, rawCodes []string) map[string]string {
	names := make(map[string]string)
	keys := make([]string, 0, len(rawCodes)*3)
	seen := make(map[string]struct{})
	for _, raw := range rawCodes {
		for _, k := range normalizer.MatrixKeys(raw) {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return names
	}

	rows, err := r.catalog.MatricesByKeys(ctx, keys)
	if err != nil {
		log.Printf("matrix enrichment: batch lookup failed: %v", err)
		rows = nil
	}
	if len(rows) == 0 {
		rows, err = r.catalog.ListMatrices(ctx)
		if err != nil {
			log.Printf("matrix enrichment: full catalog fallback failed: %v", err)
			return names
		}
	}

	for _, row := range rows {
		for _, k := range normalizer.MatrixKeys(row.Code) {
			names[k] = row.Name
		}
	}
	return names
}

// MatrixName picks the display name for one raw code out of a MatrixNames
// result, trying each format variant. Missing codes resolve to "".
func MatrixName(names map[string]string, rawCode string) string {
	for _, k := range normalizer.MatrixKeys(rawCode) {
		if name, ok := names[k]; ok {
			return name
		}
	}
	return ""
}

// PricedProfile is a catalog profile with its lab price override, when one
// exists. A nil price means "no price set", which is distinct from zero.
type PricedProfile struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Notes         string   `json:"notes,omitempty"`
	BasePrice     *float64 `json:"base_price"`
	AnalysisCount int      `json:"analysis_count,omitempty"`
}

// PricedProfiles joins the catalog profile list with the transactional
// price overrides via canonical keys.
func (r *Resolver) PricedProfiles(ctx context.Context) ([]PricedProfile, error) {
	base, err := r.catalog.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	priceByKey := make(map[string]*float64)
	overrides, err := r.overrides.ListProfileOverrides(ctx)
	if err != nil {
		log.Printf("profile enrichment: override lookup failed: %v", err)
	}
	for _, ov := range overrides {
		if key := normalizer.CanonicalKey(ov.ProfileKey); key != "" {
			priceByKey[key] = ov.BasePrice
		}
	}

	profiles := make([]PricedProfile, 0, len(base))
	for _, p := range base {
		code := strings.TrimSpace(p.Code)
		if code == "" {
			continue
		}
		entry := PricedProfile{Code: code, Name: p.Name, Notes: p.Notes}
		if price, ok := priceByKey[normalizer.CanonicalKey(code)]; ok {
			entry.BasePrice = price
		}
		profiles = append(profiles, entry)
	}
	return profiles, nil
}

// ProfilesWithStats adds per-profile assay counts for the catalog screen.
func (r *Resolver) ProfilesWithStats(ctx context.Context) ([]PricedProfile, error) {
	profiles, err := r.PricedProfiles(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := r.catalog.ProfileAnalysisCounts(ctx)
	if err != nil {
		log.Printf("profile enrichment: assay counts failed: %v", err)
		counts = nil
	}
	for i := range profiles {
		profiles[i].AnalysisCount = counts[normalizer.CanonicalKey(profiles[i].Code)]
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

// ProfileAssays lists the assays bundled in one profile. The lookup tries
// every format variant of the code, like the other canonical-key joins.
func (r *Resolver) ProfileAssays(ctx context.Context, rawCode string) ([]ProfileAssay, error) {
	keys := normalizer.ProfileKeys(rawCode)
	if len(keys) == 0 {
		return nil, nil
	}
	return r.catalog.ProfileAssays(ctx, keys)
}

// ProfileNames resolves display names for profile refs whose persisted
// snapshot is blank (rows written before the name column was filled).
func (r *Resolver) ProfileNames(ctx context.Context, codes []string) map[string]string {
	names := make(map[string]string)
	if len(codes) == 0 {
		return names
	}
	rows, err := r.catalog.ProfilesByCodes(ctx, codes)
	if err != nil {
		log.Printf("profile enrichment: name backfill failed: %v", err)
		return names
	}
	for _, row := range rows {
		names[normalizer.CanonicalKey(row.Code)] = row.Name
	}
	return names
}

// CombinedAnalysis is one row of the unified analysis catalog: read-store
// master data overlaid with the lab's pricing/externality complement.
type CombinedAnalysis struct {
	OverrideID          *int64   `json:"analysis_id"`
	Code                string   `json:"code"`
	Name                string   `json:"name"`
	Section             string   `json:"section"`
	Method              string   `json:"method"`
	Company             string   `json:"company"`
	Price               *float64 `json:"price"`
	DetectionLimit      string   `json:"detection_limit"`
	QuantificationLimit string   `json:"quantification_limit"`
	AccreditorID        *int64   `json:"accreditor_id,omitempty"`
	Observations        string   `json:"observations,omitempty"`
}

// CombinedAnalyses merges the full catalog with overrides, optionally
// filtered by a free-text query over code, name and company.
func (r *Resolver) CombinedAnalyses(ctx context.Context, query string) ([]CombinedAnalysis, error) {
	rows, err := r.catalog.ListAnalyses(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := r.overrides.ListAnalysisOverrides(ctx)
	if err != nil {
		log.Printf("analysis catalog: override list failed: %v", err)
		overrides = nil
	}
	procedures, err := r.catalog.ListProcedures(ctx)
	if err != nil {
		log.Printf("analysis catalog: procedure list failed: %v", err)
		procedures = nil
	}
	return combineAnalyses(rows, overrides, procedures, query), nil
}

// AnalysesByCodes is the builder's targeted variant of CombinedAnalyses.
func (r *Resolver) AnalysesByCodes(ctx context.Context, codes []string) ([]CombinedAnalysis, error) {
	rows, err := r.catalog.AnalysesByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Name != "" {
			names = append(names, row.Name)
		}
	}
	overrides, err := r.overrides.AnalysisOverridesByNames(ctx, names)
	if err != nil {
		log.Printf("analysis lookup: override lookup failed: %v", err)
		overrides = nil
	}
	return combineAnalyses(rows, overrides, nil, ""), nil
}

func combineAnalyses(rows []Analysis, overrides []AnalysisOverride, procedures []Procedure, query string) []CombinedAnalysis {
	overrideByName := make(map[string]AnalysisOverride, len(overrides))
	for _, ov := range overrides {
		if _, ok := overrideByName[ov.Name]; !ok {
			overrideByName[ov.Name] = ov
		}
	}
	procByCode := make(map[string]string, len(procedures))
	for _, p := range procedures {
		procByCode[strings.TrimSpace(p.Code)] = p.Description
	}

	q := strings.ToLower(strings.TrimSpace(query))
	combined := make([]CombinedAnalysis, 0, len(rows))
	for _, row := range rows {
		entry := CombinedAnalysis{
			Code:                row.Code,
			Name:                row.Name,
			Section:             row.Section,
			Method:              methodDisplay(row, procByCode),
			Company:             "Interno",
			DetectionLimit:      row.DetectionLimit,
			QuantificationLimit: row.QuantificationLimit,
		}
		if ov, ok := overrideByName[row.Name]; ok {
			id := ov.ID
			entry.OverrideID = &id
			entry.Company = ov.Company()
			entry.Price = ov.BasePrice
			entry.AccreditorID = ov.AccreditorID
			entry.Observations = ov.Observations
		}
		if q != "" {
			haystack := strings.ToLower(entry.Code + " " + entry.Name + " " + entry.Company)
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		combined = append(combined, entry)
	}
	return combined
}

// ClientInfo is the resolved client block on quotation views.
type ClientInfo struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
}

// ResolveClient turns the header's free-text client reference into catalog
// client data. Unresolvable references keep the raw text as the name so a
// view never loses the client entirely.
func (r *Resolver) ResolveClient(ctx context.Context, raw string) ClientInfo {
	ref := ParseClientRef(raw)
	if ref.IsZero() {
		return ClientInfo{}
	}
	cli, err := r.catalog.ClientByCode(ctx, ref.Code)
	if err != nil {
		log.Printf("client enrichment: lookup failed: %v", err)
		cli = nil
	}
	if cli != nil {
		return ClientInfo{Code: cli.Code, Name: cli.Display(), TaxID: cli.TaxID, Address: cli.Address}
	}
	name := ref.Name
	if name == "" {
		name = strings.TrimSpace(raw)
	}
	return ClientInfo{Code: ref.Code, Name: name}
}

// ClientDisplayIndex builds a raw-reference -> display-name function from
// one catalog read, for enriching whole quotation listings without a
// per-row query.
func (r *Resolver) ClientDisplayIndex(ctx context.Context) func(raw string) string {
	clients, err := r.catalog.ListClients(ctx)
	if err != nil {
		log.Printf("client enrichment: list failed: %v", err)
	}
	byCode := make(map[string]string, len(clients))
	byName := make(map[string]string, len(clients))
	for _, c := range clients {
		display := c.Display()
		if code := strings.TrimSpace(c.Code); code != "" {
			byCode[code] = display
		}
		if display != "" {
			byName[strings.ToUpper(display)] = display
		}
	}
	return func(raw string) string {
		ref := ParseClientRef(raw)
		if ref.IsZero() {
			return ""
		}
		if display, ok := byCode[ref.Code]; ok {
			return display
		}
		if display, ok := byName[strings.ToUpper(ref.Name)]; ok {
			return display
		}
		if ref.Name != "" {
			return ref.Name
		}
		return strings.TrimSpace(raw)
	}
}

// ContactName resolves a contact code to its display name, best-effort.
func (r *Resolver) ContactName(ctx context.Context, code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}
	contact, err := r.catalog.ContactByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		log.Printf("contact enrichment: lookup failed: %v", err)
		return ""
	}
	if contact == nil {
		return ""
	}
	return contact.Name
}
