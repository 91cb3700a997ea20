package storage

import "time"

// LedgerRow is one line of the running master ledger. Processed is nonzero
// only on the last row of its date, where it equals the date's net-weight
// sum; EndingStock chains over the whole ledger.
type LedgerRow struct {
	Date      time.Time `json:"date"`
	Plate     string    `json:"plate"`
	NetWeight float64   `json:"net_weight"`
	DocNo     string    `json:"doc_no"`
	District  string    `json:"district"`

	Processed   float64 `json:"processed"`
	RawStock    float64 `json:"raw_stock"`
	DayEnd      bool    `json:"day_end"`
	Coefficient int     `json:"coefficient"`
	Output      float64 `json:"output"`
	Sold        float64 `json:"sold"`
	EndingStock float64 `json:"ending_stock"`

	Contract string `json:"contract,omitempty"`
}

// ReceiptRow is a simulated weighbridge ticket. Weight is the recorded
// weight in tonnes; Net/Gross/Tare are kilograms.
type ReceiptRow struct {
	PickupDate time.Time `json:"pickup_date"`
	Name       string    `json:"name"`
	Plate      string    `json:"plate"`
	Weight     float64   `json:"weight"`
	Driver     string    `json:"driver"`
	DocNo      string    `json:"doc_no"`
	Gross      float64   `json:"gross"`
	Tare       float64   `json:"tare"`
	Net        float64   `json:"net"`
	Variance   float64   `json:"variance"`
	Unloaded   float64   `json:"unloaded"`
}
