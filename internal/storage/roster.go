package storage

// Restaurant is one source point of the collection roster. Rows come from
// the roster sheet or the DB; the pipeline never mutates them.
type Restaurant struct {
	ChineseName    string  `json:"chinese_name"`
	EnglishName    string  `json:"english_name"`
	ChineseAddress string  `json:"chinese_address"`
	EnglishAddress string  `json:"english_address"`
	Coordinates    string  `json:"coordinates"`
	ContactPerson  string  `json:"contact_person"`
	Phone          string  `json:"phone"`
	DistanceKM     float64 `json:"distance_km"`
	Street         string  `json:"street"`
	District       string  `json:"district"`
	Type           string  `json:"type"`
}

type Vehicle struct {
	Plate      string  `json:"plate"`
	Driver     string  `json:"driver"`
	VType      string  `json:"vtype"`
	District   string  `json:"district"`
	MaxBarrels int     `json:"max_barrels"`
	TareKG     float64 `json:"tare_kg"`
}
