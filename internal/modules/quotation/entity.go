package quotation

import (
	"strings"
	"time"
)

// Quotation is the priced-document header. Amounts are always stored in
// the base currency; the currency code and exchange rate only drive
// display. Once Approved flips to true the header and its lines are
// immutable except through duplication.
type Quotation struct {
	ID              int64     `gorm:"column:id"`
	Date            time.Time `gorm:"column:date"`
	Description     string    `gorm:"column:description"`
	EmployeeID      int64     `gorm:"column:employee_id"`
	ClientRef       string    `gorm:"column:client_ref"` // catalog client code or free text, denormalized
	ContactCode     string    `gorm:"column:contact_code"`
	DiscountPercent float64   `gorm:"column:discount_percent"`
	Currency        string    `gorm:"column:currency"`
	ExchangeRate    float64   `gorm:"column:exchange_rate"`

	// The five named extra-cost slots.
	PersonnelDesc        string  `gorm:"column:personnel_desc"`
	PersonnelAmount      float64 `gorm:"column:personnel_amount"`
	OperationalDesc      string  `gorm:"column:operational_desc"`
	OperationalAmount    float64 `gorm:"column:operational_amount"`
	ConsiderationsDesc   string  `gorm:"column:considerations_desc"`
	ConsiderationsAmount float64 `gorm:"column:considerations_amount"`
	ReportDesc           string  `gorm:"column:report_desc"`
	ReportAmount         float64 `gorm:"column:report_amount"`
	OtherDesc            string  `gorm:"column:other_desc"`
	OtherAmount          float64 `gorm:"column:other_amount"`

	Approved bool `gorm:"column:approved"`
}

func (Quotation) TableName() string { return "quotations" }

// Extra is one free-form cost entry on the header.
type Extra struct {
	Key         string  `json:"key"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Extras returns the five slots in their fixed display order, unfiltered.
func (q *Quotation) Extras() []Extra {
	return []Extra{
		{Key: "Personal", Description: q.PersonnelDesc, Amount: q.PersonnelAmount},
		{Key: "Gastos Operativos", Description: q.OperationalDesc, Amount: q.OperationalAmount},
		{Key: "Consideraciones", Description: q.ConsiderationsDesc, Amount: q.ConsiderationsAmount},
		{Key: "Informe", Description: q.ReportDesc, Amount: q.ReportAmount},
		{Key: "Otros generales", Description: q.OtherDesc, Amount: q.OtherAmount},
	}
}

// AnalysisLine is one priced analysis on a quotation. UnitPrice is a
// snapshot taken when the line was written; later catalog price changes
// never touch it.
type AnalysisLine struct {
	QuotationID int64   `json:"-" gorm:"column:quotation_id"`
	AnalysisID  int64   `json:"id" gorm:"column:analysis_id"`
	Company     string  `json:"company" gorm:"column:company"` // "Interno" or "Subcontratado", free text
	MatrixCode  string  `json:"matrix" gorm:"column:matrix_code"`
	UnitPrice   float64 `json:"price" gorm:"column:unit_price"`
	Quantity    float64 `json:"quantity" gorm:"column:quantity" validate:"gte=0"`
}

// Internal reports whether the line's company classifier normalizes to
// the in-house marker. Subcontracted lines are excluded from the
// discount base.
func (l AnalysisLine) Internal() bool {
	return strings.EqualFold(strings.TrimSpace(l.Company), "interno")
}

// ProfileLine is one priced test-profile selection. ProfileRef holds the
// numeric form of the profile code when one is derivable, otherwise the
// raw string. Name and UnitPrice are snapshots like analysis lines.
type ProfileLine struct {
	QuotationID int64   `json:"-" gorm:"column:quotation_id"`
	ProfileRef  string  `json:"code" gorm:"column:profile_ref"`
	Name        string  `json:"name" gorm:"column:name"`
	UnitPrice   float64 `json:"price" gorm:"column:unit_price"`
	Quantity    float64 `json:"quantity" gorm:"column:quantity" validate:"gte=0"`
	MatrixCode  string  `json:"matrix" gorm:"column:matrix_code"`
}
