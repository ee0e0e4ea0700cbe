package entity

import (
	"time"
)

// Flight represents a booked flight. Client_ID and Airline_ID reference
// existing Client and Airline records; the references are checked when the
// flight is written, not afterwards, so a later delete can orphan them.
type Flight struct {
	ID        int       `json:"ID"`
	Type      Kind      `json:"Type"`
	ClientID  int       `json:"Client_ID"`
	AirlineID int       `json:"Airline_ID"`
	Date      time.Time `json:"Date"`
	StartCity string    `json:"Start_City"`
	EndCity   string    `json:"End_City"`
}

func (f *Flight) RecordID() int {
	return f.ID
}

func (f *Flight) RecordKind() Kind {
	return KindFlight
}
