package catalog

// SaveAnalysisOverrideRequest updates the lab complement (price,
// accreditor) for one catalog analysis. Either the override id or the
// catalog name identifies the row.
type SaveAnalysisOverrideRequest struct {
	AnalysisID   int64    `json:"analysis_id"`
	Name         string   `json:"name"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	AccreditorID *int64   `json:"accreditor_id"`
}

type SaveProfilePriceRequest struct {
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
	Name  string   `json:"name"`
}
