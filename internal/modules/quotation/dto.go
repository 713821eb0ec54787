package quotation

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/modules/catalog"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/pkg/currency"
)

const dateLayout = "2006-01-02"

// SaveRequest is the create/edit payload. The line collections arrive as
// JSON-serialized arrays inside string fields; malformed serializations
// degrade to empty collections instead of failing the request.
type SaveRequest struct {
	Date            string  `json:"date"`
	Description     string  `json:"description"`
	ClientRef       string  `json:"client_ref"`
	ContactCode     string  `json:"contact_code"`
	DiscountPercent float64 `json:"discount_percent"`
	Currency        string  `json:"currency"`
	ExchangeRate    float64 `json:"exchange_rate"`

	PersonnelDesc        string  `json:"personnel_desc"`
	PersonnelAmount      float64 `json:"personnel_amount"`
	OperationalDesc      string  `json:"operational_desc"`
	OperationalAmount    float64 `json:"operational_amount"`
	ConsiderationsDesc   string  `json:"considerations_desc"`
	ConsiderationsAmount float64 `json:"considerations_amount"`
	ReportDesc           string  `json:"report_desc"`
	ReportAmount         float64 `json:"report_amount"`
	OtherDesc            string  `json:"other_desc"`
	OtherAmount          float64 `json:"other_amount"`

	Lines        string `json:"lines"`
	ProfileLines string `json:"profile_lines"`
}

// Header builds the quotation header from the request. An unparseable or
// empty date falls back to today.
func (r SaveRequest) Header() Quotation {
	date, err := time.Parse(dateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		date = time.Now()
	}
	return Quotation{
		Date:                 date,
		Description:          strings.TrimSpace(r.Description),
		ClientRef:            strings.TrimSpace(r.ClientRef),
		ContactCode:          strings.TrimSpace(r.ContactCode),
		DiscountPercent:      r.DiscountPercent,
		Currency:             strings.TrimSpace(r.Currency),
		ExchangeRate:         r.ExchangeRate,
		PersonnelDesc:        r.PersonnelDesc,
		PersonnelAmount:      r.PersonnelAmount,
		OperationalDesc:      r.OperationalDesc,
		OperationalAmount:    r.OperationalAmount,
		ConsiderationsDesc:   r.ConsiderationsDesc,
		ConsiderationsAmount: r.ConsiderationsAmount,
		ReportDesc:           r.ReportDesc,
		ReportAmount:         r.ReportAmount,
		OtherDesc:            r.OtherDesc,
		OtherAmount:          r.OtherAmount,
	}
}

type submittedAnalysisLine struct {
	ID       int64   `json:"id"`
	Company  string  `json:"company"`
	Matrix   string  `json:"matrix"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

type submittedProfileLine struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Matrix   string  `json:"matrix"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// AnalysisLines decodes the serialized analysis-line array.
func (r SaveRequest) AnalysisLines() []AnalysisLine {
	raw := strings.TrimSpace(r.Lines)
	if raw == "" {
		return nil
	}
	var submitted []submittedAnalysisLine
	if err := json.Unmarshal([]byte(raw), &submitted); err != nil {
		log.Printf("quotation: discarding malformed analysis lines: %v", err)
		return nil
	}
	lines := make([]AnalysisLine, 0, len(submitted))
	for _, s := range submitted {
		lines = append(lines, AnalysisLine{
			AnalysisID: s.ID,
			Company:    strings.TrimSpace(s.Company),
			MatrixCode: strings.TrimSpace(s.Matrix),
			UnitPrice:  s.Price,
			Quantity:   s.Quantity,
		})
	}
	return lines
}

// ParseProfileLines decodes the serialized profile-line array.
func (r SaveRequest) ParseProfileLines() []ProfileLine {
	raw := strings.TrimSpace(r.ProfileLines)
	if raw == "" {
		return nil
	}
	var submitted []submittedProfileLine
	if err := json.Unmarshal([]byte(raw), &submitted); err != nil {
		log.Printf("quotation: discarding malformed profile lines: %v", err)
		return nil
	}
	lines := make([]ProfileLine, 0, len(submitted))
	for _, s := range submitted {
		lines = append(lines, ProfileLine{
			ProfileRef: strings.TrimSpace(s.Code),
			Name:       strings.TrimSpace(s.Name),
			MatrixCode: strings.TrimSpace(s.Matrix),
			UnitPrice:  s.Price,
			Quantity:   s.Quantity,
		})
	}
	return lines
}

// ListRow is one quotation in the listing, joined with the owning
// employee's name.
type ListRow struct {
	ID           int64     `json:"id" gorm:"column:id"`
	Date         time.Time `json:"date" gorm:"column:date"`
	Description  string    `json:"description" gorm:"column:description"`
	ClientRef    string    `json:"-" gorm:"column:client_ref"`
	EmployeeName string    `json:"employee" gorm:"column:employee_name"`
	Approved     bool      `json:"approved" gorm:"column:approved"`

	ClientDisplay string `json:"client" gorm:"-"`
}

// LineView is one enriched analysis line on a view. Monetary fields are
// pointers so request-mode views drop them from the payload entirely.
type LineView struct {
	AnalysisID          int64    `json:"analysis_id"`
	Name                string   `json:"name"`
	Method              string   `json:"method,omitempty"`
	DetectionLimit      string   `json:"detection_limit,omitempty"`
	QuantificationLimit string   `json:"quantification_limit,omitempty"`
	Accreditor          string   `json:"accreditor,omitempty"`
	Company             string   `json:"company"`
	MatrixName          string   `json:"matrix"`
	UnitPrice           *float64 `json:"unit_price,omitempty"`
	Quantity            float64  `json:"quantity"`
}

// ProfileView is one enriched profile line on a view.
type ProfileView struct {
	ProfileRef string   `json:"profile_ref"`
	Name       string   `json:"name"`
	MatrixName string   `json:"matrix"`
	UnitPrice  *float64 `json:"unit_price,omitempty"`
	Quantity   float64  `json:"quantity"`
}

// ExtraView is one surviving extra slot on a view.
type ExtraView struct {
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Amount      *float64 `json:"amount,omitempty"`
}

// View is the denormalized quotation consumed by the detail, print and
// request renderings. Totals is nil in request mode.
type View struct {
	ID              int64              `json:"id"`
	Mode            string             `json:"mode"`
	Date            string             `json:"date"`
	Description     string             `json:"description"`
	Client          catalog.ClientInfo `json:"client"`
	ContactName     string             `json:"contact_name,omitempty"`
	DiscountPercent float64            `json:"discount_percent"`
	Currency        currency.Info      `json:"currency"`
	Approved        bool               `json:"approved"`
	Lines           []LineView         `json:"lines"`
	Profiles        []ProfileView      `json:"profiles"`
	Extras          []ExtraView        `json:"extras"`
	Totals          *Totals            `json:"totals,omitempty"`
}

// EditView is the edit-prefill payload: raw persisted snapshots, no
// enrichment beyond profile name backfill.
type EditView struct {
	ID              int64          `json:"id"`
	Date            string         `json:"date"`
	Description     string         `json:"description"`
	ClientRef       string         `json:"client_ref"`
	ContactCode     string         `json:"contact_code"`
	DiscountPercent float64        `json:"discount_percent"`
	Currency        string         `json:"currency"`
	ExchangeRate    float64        `json:"exchange_rate"`
	Extras          []Extra        `json:"extras"`
	Lines           []AnalysisLine `json:"lines"`
	Profiles        []ProfileLine  `json:"profiles"`
}
