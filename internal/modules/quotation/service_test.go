package quotation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/modules/catalog"
)

// Mock store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) List(ctx context.Context) ([]ListRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ListRow), args.Error(1)
}

func (m *MockStore) Header(ctx context.Context, id int64) (*Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Quotation), args.Error(1)
}

func (m *MockStore) AnalysisLines(ctx context.Context, quotationID int64) ([]AnalysisLine, error) {
	args := m.Called(ctx, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AnalysisLine), args.Error(1)
}

func (m *MockStore) ProfileLines(ctx context.Context, quotationID int64) ([]ProfileLine, error) {
	args := m.Called(ctx, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ProfileLine), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, q Quotation, lines []AnalysisLine, profiles []ProfileLine) (int64, error) {
	args := m.Called(ctx, q, lines, profiles)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, q Quotation, lines []AnalysisLine, profiles []ProfileLine) error {
	args := m.Called(ctx, q, lines, profiles)
	return args.Error(0)
}

func (m *MockStore) Approve(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock enricher
type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) AnalysisInfo(ctx context.Context, ids []int64) map[int64]catalog.AnalysisInfo {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return map[int64]catalog.AnalysisInfo{}
	}
	return args.Get(0).(map[int64]catalog.AnalysisInfo)
}

func (m *MockEnricher) MatrixNames(ctx context.Context, rawCodes []string) map[string]string {
	args := m.Called(ctx, rawCodes)
	if args.Get(0) == nil {
		return map[string]string{}
	}
	return args.Get(0).(map[string]string)
}

func (m *MockEnricher) ProfileNames(ctx context.Context, codes []string) map[string]string {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return map[string]string{}
	}
	return args.Get(0).(map[string]string)
}

func (m *MockEnricher) ResolveClient(ctx context.Context, raw string) catalog.ClientInfo {
	args := m.Called(ctx, raw)
	return args.Get(0).(catalog.ClientInfo)
}

func (m *MockEnricher) ClientDisplayIndex(ctx context.Context) func(raw string) string {
	args := m.Called(ctx)
	return args.Get(0).(func(raw string) string)
}

func (m *MockEnricher) ContactName(ctx context.Context, code string) string {
	args := m.Called(ctx, code)
	return args.String(0)
}

func draftHeader(id int64) *Quotation {
	return &Quotation{
		ID:              id,
		Date:            time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:     "Monitoreo de agua",
		EmployeeID:      7,
		ClientRef:       "C042 Minera Andina",
		DiscountPercent: 10,
		Currency:        "USD",
		ExchangeRate:    3.7,
		ReportDesc:      "Informe",
		ReportAmount:    30,
	}
}

func TestCreateRequiresActingEmployee(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, new(MockEnricher))

	_, err := svc.Create(context.Background(), 0, SaveRequest{Description: "x"})

	assert.ErrorIs(t, err, ErrValidation)
	store.AssertNotCalled(t, "Create")
}

func TestEditRequiresActingEmployee(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, new(MockEnricher))

	err := svc.Edit(context.Background(), 5, 0, SaveRequest{})

	assert.ErrorIs(t, err, ErrValidation)
	store.AssertNotCalled(t, "Header")
}

func TestCreateAlwaysYieldsDraft(t *testing.T) {
	store := new(MockStore)
	store.On("Create", mock.Anything, mock.MatchedBy(func(q Quotation) bool {
		return !q.Approved && q.EmployeeID == 7
	}), mock.Anything, mock.Anything).Return(int64(41), nil)
	svc := NewService(store, new(MockEnricher))

	id, err := svc.Create(context.Background(), 7, SaveRequest{
		Date:        "2026-03-10",
		Description: "Monitoreo",
		Lines:       `[{"id":12,"company":"Interno","price":200,"quantity":2}]`,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(41), id)
	store.AssertExpectations(t)
}

func TestEditRejectsApprovedQuotation(t *testing.T) {
	store := new(MockStore)
	header := draftHeader(5)
	header.Approved = true
	store.On("Header", mock.Anything, int64(5)).Return(header, nil)
	svc := NewService(store, new(MockEnricher))

	err := svc.Edit(context.Background(), 5, 7, SaveRequest{Description: "nuevo"})

	assert.ErrorIs(t, err, ErrApproved)
	store.AssertNotCalled(t, "Update")
}

func TestEditReplacesLinesWholesale(t *testing.T) {
	store := new(MockStore)
	store.On("Header", mock.Anything, int64(5)).Return(draftHeader(5), nil)
	store.On("Update", mock.Anything, mock.MatchedBy(func(q Quotation) bool {
		return q.ID == 5 && q.EmployeeID == 9
	}), mock.MatchedBy(func(lines []AnalysisLine) bool {
		return len(lines) == 1 && lines[0].AnalysisID == 33
	}), mock.MatchedBy(func(profiles []ProfileLine) bool {
		return len(profiles) == 1 && profiles[0].ProfileRef == "12"
	})).Return(nil)
	svc := NewService(store, new(MockEnricher))

	err := svc.Edit(context.Background(), 5, 9, SaveRequest{
		Lines:        `[{"id":33,"company":"Interno","price":80,"quantity":1}]`,
		ProfileLines: `[{"code":"12","name":"BTEX","price":150,"quantity":2}]`,
	})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestLoadForEditRejectsApproved(t *testing.T) {
	store := new(MockStore)
	header := draftHeader(5)
	header.Approved = true
	store.On("Header", mock.Anything, int64(5)).Return(header, nil)
	store.On("AnalysisLines", mock.Anything, int64(5)).Return([]AnalysisLine{}, nil)
	store.On("ProfileLines", mock.Anything, int64(5)).Return([]ProfileLine{}, nil)
	svc := NewService(store, new(MockEnricher))

	_, err := svc.LoadForEdit(context.Background(), 5)

	assert.ErrorIs(t, err, ErrApproved)
}

func TestDuplicateCopiesSnapshotsIntoFreshDraft(t *testing.T) {
	store := new(MockStore)
	source := draftHeader(5)
	source.Approved = true
	lines := []AnalysisLine{
		{QuotationID: 5, AnalysisID: 1, Company: "Interno", UnitPrice: 200, Quantity: 2},
		{QuotationID: 5, AnalysisID: 2, Company: "Subcontratado", UnitPrice: 75, Quantity: 1},
	}
	profiles := []ProfileLine{
		{QuotationID: 5, ProfileRef: "12", Name: "BTEX", UnitPrice: 150, Quantity: 1},
	}
	store.On("Header", mock.Anything, int64(5)).Return(source, nil)
	store.On("AnalysisLines", mock.Anything, int64(5)).Return(lines, nil)
	store.On("ProfileLines", mock.Anything, int64(5)).Return(profiles, nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(q Quotation) bool {
		sameDay := q.Date.Format("2006-01-02") == time.Now().Format("2006-01-02")
		return q.ID == 0 && !q.Approved && sameDay && q.EmployeeID == 7 &&
			q.Description == source.Description && q.ReportAmount == 30
	}), lines, profiles).Return(int64(88), nil)
	svc := NewService(store, new(MockEnricher))

	// no acting employee: ownership falls back to the source header's
	id, err := svc.Duplicate(context.Background(), 5, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(88), id)
	store.AssertExpectations(t)
}

func TestViewRequestModeSuppressesPrices(t *testing.T) {
	store := new(MockStore)
	store.On("Header", mock.Anything, int64(5)).Return(draftHeader(5), nil)
	store.On("AnalysisLines", mock.Anything, int64(5)).Return([]AnalysisLine{
		{AnalysisID: 1, Company: "Interno", UnitPrice: 200, Quantity: 2},
	}, nil)
	store.On("ProfileLines", mock.Anything, int64(5)).Return([]ProfileLine{
		{ProfileRef: "12", Name: "BTEX", UnitPrice: 50, Quantity: 1},
	}, nil)

	enricher := new(MockEnricher)
	enricher.On("AnalysisInfo", mock.Anything, []int64{1}).Return(map[int64]catalog.AnalysisInfo{
		1: {Name: "Plomo total", Method: "EPA 200.8"},
	})
	enricher.On("MatrixNames", mock.Anything, mock.Anything).Return(map[string]string{})
	enricher.On("ResolveClient", mock.Anything, "C042 Minera Andina").Return(catalog.ClientInfo{Code: "C042", Name: "Minera Andina"})
	enricher.On("ContactName", mock.Anything, "").Return("")

	svc := NewService(store, enricher)
	view, err := svc.View(context.Background(), 5, ModeRequest)

	require.NoError(t, err)
	assert.Nil(t, view.Totals)
	require.Len(t, view.Lines, 1)
	assert.Nil(t, view.Lines[0].UnitPrice)
	assert.Equal(t, "Plomo total", view.Lines[0].Name)
	require.Len(t, view.Profiles, 1)
	assert.Nil(t, view.Profiles[0].UnitPrice)
	require.Len(t, view.Extras, 1)
	assert.Nil(t, view.Extras[0].Amount)
	assert.Equal(t, 2.0, view.Lines[0].Quantity)
}

func TestViewDetailModeCarriesTotalsAndCurrency(t *testing.T) {
	store := new(MockStore)
	store.On("Header", mock.Anything, int64(5)).Return(draftHeader(5), nil)
	store.On("AnalysisLines", mock.Anything, int64(5)).Return([]AnalysisLine{
		{AnalysisID: 1, Company: "Interno", UnitPrice: 200, Quantity: 2},
	}, nil)
	store.On("ProfileLines", mock.Anything, int64(5)).Return([]ProfileLine{
		{ProfileRef: "12", Name: "BTEX", UnitPrice: 50, Quantity: 1},
	}, nil)

	enricher := new(MockEnricher)
	enricher.On("AnalysisInfo", mock.Anything, []int64{1}).Return(nil)
	enricher.On("MatrixNames", mock.Anything, mock.Anything).Return(nil)
	enricher.On("ResolveClient", mock.Anything, mock.Anything).Return(catalog.ClientInfo{})
	enricher.On("ContactName", mock.Anything, "").Return("")

	svc := NewService(store, enricher)
	view, err := svc.View(context.Background(), 5, ModeDetail)

	require.NoError(t, err)
	require.NotNil(t, view.Totals)
	assert.InDelta(t, 400, view.Totals.SubtotalAnalyses, 1e-9)
	assert.InDelta(t, 513.3, view.Totals.TotalWithTax, 1e-9)
	assert.Equal(t, "US$", view.Currency.Symbol)
	assert.InDelta(t, 1/3.7, view.Currency.Factor, 1e-12)
}

func TestViewUnknownModeIsValidationError(t *testing.T) {
	svc := NewService(new(MockStore), new(MockEnricher))

	_, err := svc.View(context.Background(), 5, "summary")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestViewNotFoundPropagates(t *testing.T) {
	store := new(MockStore)
	store.On("Header", mock.Anything, int64(99)).Return(nil, ErrNotFound)
	svc := NewService(store, new(MockEnricher))

	_, err := svc.View(context.Background(), 99, ModeDetail)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListResolvesClientDisplay(t *testing.T) {
	store := new(MockStore)
	store.On("List", mock.Anything).Return([]ListRow{
		{ID: 2, ClientRef: "C042 Minera Andina"},
		{ID: 1, ClientRef: "Cliente Libre"},
	}, nil)
	enricher := new(MockEnricher)
	enricher.On("ClientDisplayIndex", mock.Anything).Return(func(raw string) string {
		if raw == "C042 Minera Andina" {
			return "Minera Andina S.A.C."
		}
		return raw
	})
	svc := NewService(store, enricher)

	rows, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Minera Andina S.A.C.", rows[0].ClientDisplay)
	assert.Equal(t, "Cliente Libre", rows[1].ClientDisplay)
}

func TestMalformedLinePayloadsDegradeToEmpty(t *testing.T) {
	req := SaveRequest{
		Lines:        `{"not":"an array"`,
		ProfileLines: `[{"code": 12}]`,
	}

	assert.Empty(t, req.AnalysisLines())
	assert.Empty(t, req.ParseProfileLines())

	ok := SaveRequest{Lines: `[{"id":3,"company":" Interno ","price":10,"quantity":1}]`}
	lines := ok.AnalysisLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Interno", lines[0].Company)
}

func TestSaveRequestHeaderDateFallsBackToToday(t *testing.T) {
	q := SaveRequest{Date: "10/03/2026"}.Header()
	assert.Equal(t, time.Now().Format("2006-01-02"), q.Date.Format("2006-01-02"))

	q = SaveRequest{Date: "2026-03-10"}.Header()
	assert.Equal(t, "2026-03-10", q.Date.Format("2006-01-02"))
}

func TestNegativeQuantityIsRejectedBeforeTheStore(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, new(MockEnricher))

	_, err := svc.Create(context.Background(), 7, SaveRequest{
		Lines: `[{"id":3,"company":"Interno","price":10,"quantity":-1}]`,
	})

	assert.ErrorIs(t, err, ErrValidation)
	store.AssertNotCalled(t, "Create")
}

func TestStoreErrorsSurfaceOnWritePaths(t *testing.T) {
	store := new(MockStore)
	boom := errors.New("connection reset")
	store.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), boom)
	svc := NewService(store, new(MockEnricher))

	_, err := svc.Create(context.Background(), 7, SaveRequest{})

	assert.ErrorIs(t, err, boom)
}
