package entity

// Client represents a travel agency client record. Field tags match the
// stable names used in the data file; Address_Line_2, Address_Line_3 and
// State are optional, everything else is required.
type Client struct {
	ID           int    `json:"ID"`
	Type         Kind   `json:"Type"`
	Name         string `json:"Name"`
	AddressLine1 string `json:"Address_Line_1"`
	AddressLine2 string `json:"Address_Line_2"`
	AddressLine3 string `json:"Address_Line_3"`
	City         string `json:"City"`
	State        string `json:"State"`
	ZipCode      string `json:"Zip_Code"`
	Country      string `json:"Country"`
	PhoneNumber  string `json:"Phone_Number"`
}

func (c *Client) RecordID() int {
	return c.ID
}

func (c *Client) RecordKind() Kind {
	return KindClient
}
