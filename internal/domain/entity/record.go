package entity

// Kind discriminates the three stored record types. It is written to the
// data file under the "Type" field.
type Kind string

const (
	KindClient  Kind = "Client"
	KindAirline Kind = "Airline"
	KindFlight  Kind = "Flight"
)

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindClient, KindAirline, KindFlight:
		return true
	}
	return false
}

// Record is the tagged union over Client, Airline and Flight. Identifiers
// are unique per kind, so (kind, id) is the key for every record.
type Record interface {
	RecordID() int
	RecordKind() Kind
}
