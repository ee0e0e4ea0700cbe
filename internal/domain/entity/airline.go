package entity

// Airline represents an airline record.
type Airline struct {
	ID          int    `json:"ID"`
	Type        Kind   `json:"Type"`
	CompanyName string `json:"Company_Name"`
}

func (a *Airline) RecordID() int {
	return a.ID
}

func (a *Airline) RecordKind() Kind {
	return KindAirline
}
