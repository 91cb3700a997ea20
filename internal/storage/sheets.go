package storage

import "time"

// CollectionRow is one restaurant visit on the assignment sheet. Plate is
// empty while the visit is unassigned (its window never closed); Serial,
// CollectedAt and SalesContract are filled later by the sync stage.
type CollectionRow struct {
	Restaurant

	Barrels     int    `json:"barrels"`
	Plate       string `json:"plate,omitempty"`
	WindowTotal int    `json:"window_total,omitempty"`

	Serial        string     `json:"serial,omitempty"`
	CollectedAt   *time.Time `json:"collected_at,omitempty"`
	SalesContract string     `json:"sales_contract,omitempty"`
}

// Assigned reports whether the visit landed in a closed window.
func (r CollectionRow) Assigned() bool { return r.Plate != "" }

// BalanceRow is one settlement line: a vehicle's closed window collapsed
// to a single weighed delivery.
type BalanceRow struct {
	District    string  `json:"district"`
	Plate       string  `json:"plate"`
	WindowTotal int     `json:"window_total"`
	NetWeight   float64 `json:"net_weight"`

	CargoType string `json:"cargo_type"`
	Transport string `json:"transport"`
	Serial    string `json:"serial"`
	DocNo     string `json:"doc_no"`

	DeliveryDate time.Time `json:"delivery_date"`
	Contract     string    `json:"contract,omitempty"`
}
