package catalog

// Read-store rows. The corporate catalog is external master data; this
// service only ever selects from it.

type Analysis struct {
	Code                string `gorm:"column:code" json:"code"`
	Name                string `gorm:"column:name" json:"name"`
	Section             string `gorm:"column:section" json:"section"`
	Technique           string `gorm:"column:technique" json:"technique"`
	MethodCode          string `gorm:"column:method_code" json:"method_code"`
	DetectionLimit      string `gorm:"column:detection_limit" json:"detection_limit"`
	QuantificationLimit string `gorm:"column:quantification_limit" json:"quantification_limit"`
	Retired             bool   `gorm:"column:retired" json:"-"`
}

func (Analysis) TableName() string { return "catalog_analyses" }

type Profile struct {
	Code  string `gorm:"column:code" json:"code"`
	Name  string `gorm:"column:name" json:"name"`
	Notes string `gorm:"column:notes" json:"notes"`
}

func (Profile) TableName() string { return "catalog_profiles" }

type Matrix struct {
	Code string `gorm:"column:code" json:"code"`
	Name string `gorm:"column:name" json:"name"`
}

func (Matrix) TableName() string { return "catalog_matrices" }

// ProfileAssay is one assay bundled in a test profile, joined with its
// catalog name.
type ProfileAssay struct {
	Code string `gorm:"column:code" json:"code"`
	Name string `gorm:"column:name" json:"name"`
}

type Procedure struct {
	Code        string `gorm:"column:code"`
	Description string `gorm:"column:description"`
}

func (Procedure) TableName() string { return "catalog_procedures" }

type Client struct {
	Code      string `gorm:"column:code" json:"code"`
	Name      string `gorm:"column:name" json:"name"`
	TradeName string `gorm:"column:trade_name" json:"trade_name"`
	TaxID     string `gorm:"column:tax_id" json:"tax_id"`
	Address   string `gorm:"column:address" json:"address"`
}

func (Client) TableName() string { return "catalog_clients" }

// Display is the name shown in selectors: trade name when present.
func (c Client) Display() string {
	if c.TradeName != "" {
		return c.TradeName
	}
	return c.Name
}

type ClientContact struct {
	Code       string `gorm:"column:code" json:"code"`
	ClientCode string `gorm:"column:client_code" json:"-"`
	Name       string `gorm:"column:name" json:"name"`
	Role       string `gorm:"column:role" json:"role"`
	Email      string `gorm:"column:email" json:"email"`
	Phone      string `gorm:"column:phone" json:"phone"`
}

func (ClientContact) TableName() string { return "catalog_client_contacts" }

// Transactional-store rows layering lab-owned data over the catalog.

type AnalysisOverride struct {
	ID            int64    `gorm:"column:id;primaryKey"`
	Name          string   `gorm:"column:name"`
	Subcontracted bool     `gorm:"column:subcontracted"`
	BasePrice     *float64 `gorm:"column:base_price"`
	AccreditorID  *int64   `gorm:"column:accreditor_id"`
	Observations  string   `gorm:"column:observations"`
}

func (AnalysisOverride) TableName() string { return "analysis_overrides" }

// Company is the classifier persisted on quotation lines.
func (o AnalysisOverride) Company() string {
	if o.Subcontracted {
		return "Subcontratado"
	}
	return "Interno"
}

type ProfileOverride struct {
	ProfileKey string   `gorm:"column:profile_key;primaryKey"`
	Name       string   `gorm:"column:name"`
	BasePrice  *float64 `gorm:"column:base_price"`
}

func (ProfileOverride) TableName() string { return "profile_overrides" }

type Accreditor struct {
	ID   int64  `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

func (Accreditor) TableName() string { return "accreditors" }
