package quotation

import (
	"context"
	"fmt"
	"time"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/modules/catalog"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/pkg/currency"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/pkg/normalizer"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/pkg/validator"
)

// View modes. Request views go to external parties and must not carry
// prices.
const (
	ModeDetail  = "detail"
	ModePrint   = "print"
	ModeRequest = "request"
)

// Service orchestrates resolution, pricing and persistence for the
// quotation aggregate.
type Service struct {
	store    Store
	enricher Enricher
}

func NewService(store Store, enricher Enricher) *Service {
	return &Service{store: store, enricher: enricher}
}

// List returns all quotations newest-first with the client display name
// resolved from one catalog read.
func (s *Service) List(ctx context.Context) ([]ListRow, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	display := s.enricher.ClientDisplayIndex(ctx)
	for i := range rows {
		rows[i].ClientDisplay = display(rows[i].ClientRef)
	}
	return rows, nil
}

// View assembles the enriched view-model for the given mode. Request
// mode suppresses every monetary field.
func (s *Service) View(ctx context.Context, id int64, mode string) (*View, error) {
	switch mode {
	case ModeDetail, ModePrint, ModeRequest:
	default:
		return nil, fmt.Errorf("unknown view mode %q: %w", mode, ErrValidation)
	}

	header, lines, profiles, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.AnalysisID)
	}
	info := s.enricher.AnalysisInfo(ctx, ids)

	rawMatrixCodes := make([]string, 0, len(lines)+len(profiles))
	for _, l := range lines {
		rawMatrixCodes = append(rawMatrixCodes, l.MatrixCode)
	}
	for _, p := range profiles {
		rawMatrixCodes = append(rawMatrixCodes, p.MatrixCode)
	}
	matrixNames := s.enricher.MatrixNames(ctx, rawMatrixCodes)

	withPrices := mode != ModeRequest

	view := &View{
		ID:              header.ID,
		Mode:            mode,
		Date:            header.Date.Format(dateLayout),
		Description:     header.Description,
		Client:          s.enricher.ResolveClient(ctx, header.ClientRef),
		ContactName:     s.enricher.ContactName(ctx, header.ContactCode),
		DiscountPercent: header.DiscountPercent,
		Currency:        currency.Describe(header.Currency, header.ExchangeRate),
		Approved:        header.Approved,
		Lines:           make([]LineView, 0, len(lines)),
		Profiles:        make([]ProfileView, 0, len(profiles)),
	}

	for _, l := range lines {
		lv := LineView{
			AnalysisID: l.AnalysisID,
			Company:    l.Company,
			MatrixName: catalog.MatrixName(matrixNames, l.MatrixCode),
			Quantity:   l.Quantity,
		}
		if enriched, ok := info[l.AnalysisID]; ok {
			lv.Name = enriched.Name
			lv.Method = enriched.Method
			lv.DetectionLimit = enriched.DetectionLimit
			lv.QuantificationLimit = enriched.QuantificationLimit
			lv.Accreditor = enriched.Accreditor
		}
		if withPrices {
			price := l.UnitPrice
			lv.UnitPrice = &price
		}
		view.Lines = append(view.Lines, lv)
	}

	profileNames := s.profileNameBackfill(ctx, profiles)
	for _, p := range profiles {
		pv := ProfileView{
			ProfileRef: p.ProfileRef,
			Name:       p.Name,
			MatrixName: catalog.MatrixName(matrixNames, p.MatrixCode),
			Quantity:   p.Quantity,
		}
		if pv.Name == "" {
			pv.Name = profileNames[normalizer.CanonicalKey(p.ProfileRef)]
		}
		if withPrices {
			price := p.UnitPrice
			pv.UnitPrice = &price
		}
		view.Profiles = append(view.Profiles, pv)
	}

	for _, e := range FilterExtras(header.Extras()) {
		ev := ExtraView{Key: e.Key, Description: e.Description}
		if withPrices {
			amount := e.Amount
			ev.Amount = &amount
		}
		view.Extras = append(view.Extras, ev)
	}

	if withPrices {
		totals := ComputeTotals(lines, profiles, header.Extras(), header.DiscountPercent)
		view.Totals = &totals
	}
	return view, nil
}

// LoadForEdit returns the raw persisted snapshots for the edit form.
// Approved quotations cannot be edited, so prefill is rejected too.
func (s *Service) LoadForEdit(ctx context.Context, id int64) (*EditView, error) {
	header, lines, profiles, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if header.Approved {
		return nil, fmt.Errorf("quotation %d: %w", id, ErrApproved)
	}

	names := s.profileNameBackfill(ctx, profiles)
	for i := range profiles {
		if profiles[i].Name == "" {
			profiles[i].Name = names[normalizer.CanonicalKey(profiles[i].ProfileRef)]
		}
	}

	return &EditView{
		ID:              header.ID,
		Date:            header.Date.Format(dateLayout),
		Description:     header.Description,
		ClientRef:       header.ClientRef,
		ContactCode:     header.ContactCode,
		DiscountPercent: header.DiscountPercent,
		Currency:        header.Currency,
		ExchangeRate:    header.ExchangeRate,
		Extras:          header.Extras(),
		Lines:           lines,
		Profiles:        profiles,
	}, nil
}

// Create persists a new draft quotation owned by the acting employee.
func (s *Service) Create(ctx context.Context, employeeID int64, req SaveRequest) (int64, error) {
	if employeeID <= 0 {
		return 0, fmt.Errorf("acting employee required: %w", ErrValidation)
	}
	lines, profiles := req.AnalysisLines(), req.ParseProfileLines()
	if err := validateLines(lines, profiles); err != nil {
		return 0, err
	}
	header := req.Header()
	header.EmployeeID = employeeID
	header.Approved = false
	return s.store.Create(ctx, header, lines, profiles)
}

// Edit replaces the header and both line collections wholesale. Approved
// quotations are immutable.
func (s *Service) Edit(ctx context.Context, id, employeeID int64, req SaveRequest) error {
	if employeeID <= 0 {
		return fmt.Errorf("acting employee required: %w", ErrValidation)
	}
	current, err := s.store.Header(ctx, id)
	if err != nil {
		return err
	}
	if current.Approved {
		return fmt.Errorf("quotation %d: %w", id, ErrApproved)
	}

	lines, profiles := req.AnalysisLines(), req.ParseProfileLines()
	if err := validateLines(lines, profiles); err != nil {
		return err
	}
	header := req.Header()
	header.ID = id
	header.EmployeeID = employeeID
	return s.store.Update(ctx, header, lines, profiles)
}

// Approve marks the quotation approved. Idempotent: re-approving an
// approved quotation succeeds without effect.
func (s *Service) Approve(ctx context.Context, id int64) error {
	return s.store.Approve(ctx, id)
}

// Duplicate copies the header and every line into a new draft dated
// today. Price snapshots are copied verbatim, never re-resolved. The
// copy belongs to the acting employee, or to the source's owner when no
// actor is supplied.
func (s *Service) Duplicate(ctx context.Context, id, employeeID int64) (int64, error) {
	header, lines, profiles, err := s.load(ctx, id)
	if err != nil {
		return 0, err
	}

	copyHeader := *header
	copyHeader.ID = 0
	copyHeader.Date = time.Now()
	copyHeader.Approved = false
	if employeeID > 0 {
		copyHeader.EmployeeID = employeeID
	}
	return s.store.Create(ctx, copyHeader, lines, profiles)
}

// Delete removes the quotation and its lines regardless of state.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) load(ctx context.Context, id int64) (*Quotation, []AnalysisLine, []ProfileLine, error) {
	header, err := s.store.Header(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	lines, err := s.store.AnalysisLines(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	profiles, err := s.store.ProfileLines(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	return header, lines, profiles, nil
}

// validateLines enforces the quantity invariant on submitted lines before
// anything touches the store.
func validateLines(lines []AnalysisLine, profiles []ProfileLine) error {
	for _, l := range lines {
		if err := validator.Check(l); err != nil {
			return fmt.Errorf("analysis line %d: %v: %w", l.AnalysisID, err, ErrValidation)
		}
	}
	for _, p := range profiles {
		if err := validator.Check(p); err != nil {
			return fmt.Errorf("profile line %q: %v: %w", p.ProfileRef, err, ErrValidation)
		}
	}
	return nil
}

func (s *Service) profileNameBackfill(ctx context.Context, profiles []ProfileLine) map[string]string {
	codes := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if p.Name == "" && p.ProfileRef != "" {
			codes = append(codes, p.ProfileRef)
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return s.enricher.ProfileNames(ctx, codes)
}
