package domain

type DamageReport struct {
	Metadata
	RentalID    int32  `json:"rental_id"`
	VehicleID   int32  `json:"vehicle_id"`
	Description string `json:"description"`
	RepairCost  Money  `json:"repair_cost_cents"`
	Notes       string `json:"notes"`
	ReportedBy  string `json:"reported_by"`
}
