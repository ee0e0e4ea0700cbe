package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travelbook-service/internal/domain/entity"
	"travelbook-service/internal/domain/repository"
	"travelbook-service/pkg/logger"
	"travelbook-service/pkg/metrics"
)

// ClientInput carries the editable fields of a client record.
type ClientInput struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	AddressLine3 string
	City         string
	State        string
	ZipCode      string
	Country      string
	PhoneNumber  string
}

// AirlineInput carries the editable fields of an airline record.
type AirlineInput struct {
	CompanyName string
}

// FlightInput carries the editable fields of a flight record.
type FlightInput struct {
	ClientID  int
	AirlineID int
	Date      time.Time
	StartCity string
	EndCity   string
}

// RecordService owns validation, identifier assignment and search over the
// record collection. All mutations validate before touching the repository,
// so a rejected request never changes stored state.
type RecordService struct {
	records repository.RecordRepository
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewRecordService creates a new record service.
func NewRecordService(records repository.RecordRepository, log logger.Logger, m *metrics.Metrics) *RecordService {
	return &RecordService{
		records: records,
		logger:  log,
		metrics: m,
	}
}

// AddClient validates and stores a new client record.
func (s *RecordService) AddClient(ctx context.Context, input ClientInput) (*entity.Client, error) {
	client := clientFromInput(input)
	if err := validateClient(client); err != nil {
		return nil, err
	}
	if err := s.records.Insert(ctx, client); err != nil {
		return nil, err
	}
	s.metrics.RecordsCreated.WithLabelValues(string(entity.KindClient)).Inc()
	s.logger.Info("client created", "id", client.ID, "name", client.Name)
	return client, nil
}

// UpdateClient validates and replaces an existing client record.
func (s *RecordService) UpdateClient(ctx context.Context, id int, input ClientInput) (*entity.Client, error) {
	if _, err := s.records.Get(ctx, entity.KindClient, id); err != nil {
		return nil, err
	}
	client := clientFromInput(input)
	client.ID = id
	if err := validateClient(client); err != nil {
		return nil, err
	}
	if err := s.records.Update(ctx, client); err != nil {
		return nil, err
	}
	s.metrics.RecordsUpdated.WithLabelValues(string(entity.KindClient)).Inc()
	s.logger.Info("client updated", "id", client.ID)
	return client, nil
}

// AddAirline validates and stores a new airline record.
func (s *RecordService) AddAirline(ctx context.Context, input AirlineInput) (*entity.Airline, error) {
	airline := airlineFromInput(input)
	if err := validateAirline(airline); err != nil {
		return nil, err
	}
	if err := s.records.Insert(ctx, airline); err != nil {
		return nil, err
	}
	s.metrics.RecordsCreated.WithLabelValues(string(entity.KindAirline)).Inc()
	s.logger.Info("airline created", "id", airline.ID, "company", airline.CompanyName)
	return airline, nil
}

// UpdateAirline validates and replaces an existing airline record.
func (s *RecordService) UpdateAirline(ctx context.Context, id int, input AirlineInput) (*entity.Airline, error) {
	if _, err := s.records.Get(ctx, entity.KindAirline, id); err != nil {
		return nil, err
	}
	airline := airlineFromInput(input)
	airline.ID = id
	if err := validateAirline(airline); err != nil {
		return nil, err
	}
	if err := s.records.Update(ctx, airline); err != nil {
		return nil, err
	}
	s.metrics.RecordsUpdated.WithLabelValues(string(entity.KindAirline)).Inc()
	s.logger.Info("airline updated", "id", airline.ID)
	return airline, nil
}

// AddFlight validates and stores a new flight record. The referenced client
// and airline must exist at the time of the call.
func (s *RecordService) AddFlight(ctx context.Context, input FlightInput) (*entity.Flight, error) {
	flight := flightFromInput(input)
	if err := s.validateFlight(ctx, flight); err != nil {
		return nil, err
	}
	if err := s.records.Insert(ctx, flight); err != nil {
		return nil, err
	}
	s.metrics.RecordsCreated.WithLabelValues(string(entity.KindFlight)).Inc()
	s.logger.Info("flight created",
		"id", flight.ID,
		"client_id", flight.ClientID,
		"airline_id", flight.AirlineID)
	return flight, nil
}

// UpdateFlight validates and replaces an existing flight record,
// re-checking its references.
func (s *RecordService) UpdateFlight(ctx context.Context, id int, input FlightInput) (*entity.Flight, error) {
	if _, err := s.records.Get(ctx, entity.KindFlight, id); err != nil {
		return nil, err
	}
	flight := flightFromInput(input)
	flight.ID = id
	if err := s.validateFlight(ctx, flight); err != nil {
		return nil, err
	}
	if err := s.records.Update(ctx, flight); err != nil {
		return nil, err
	}
	s.metrics.RecordsUpdated.WithLabelValues(string(entity.KindFlight)).Inc()
	s.logger.Info("flight updated", "id", flight.ID)
	return flight, nil
}

// Delete removes the record with the given kind and identifier. Flights
// referencing a deleted client or airline are left in place.
func (s *RecordService) Delete(ctx context.Context, kind entity.Kind, id int) error {
	if err := s.records.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.metrics.RecordsDeleted.WithLabelValues(string(kind)).Inc()
	s.logger.Info("record deleted", "kind", kind, "id", id)
	return nil
}

// Get returns a single record by kind and identifier.
func (s *RecordService) Get(ctx context.Context, kind entity.Kind, id int) (entity.Record, error) {
	return s.records.Get(ctx, kind, id)
}

// List returns all records of the given kind in insertion order.
func (s *RecordService) List(ctx context.Context, kind entity.Kind) ([]entity.Record, error) {
	return s.records.List(ctx, kind)
}

// Search returns the records of the given kind whose fields contain the
// query as a case-insensitive substring; identifier fields match on their
// exact decimal form. An empty query returns every record of the kind.
func (s *RecordService) Search(ctx context.Context, kind entity.Kind, query string) ([]entity.Record, error) {
	records, err := s.records.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	s.metrics.SearchesRun.Inc()

	query = strings.TrimSpace(query)
	if query == "" {
		return records, nil
	}

	lowered := strings.ToLower(query)
	var matched []entity.Record
	for _, rec := range records {
		if recordMatches(rec, lowered, query) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

func clientFromInput(input ClientInput) *entity.Client {
	return &entity.Client{
		Type:         entity.KindClient,
		Name:         strings.TrimSpace(input.Name),
		AddressLine1: strings.TrimSpace(input.AddressLine1),
		AddressLine2: strings.TrimSpace(input.AddressLine2),
		AddressLine3: strings.TrimSpace(input.AddressLine3),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		ZipCode:      strings.TrimSpace(input.ZipCode),
		Country:      strings.TrimSpace(input.Country),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
	}
}

func airlineFromInput(input AirlineInput) *entity.Airline {
	return &entity.Airline{
		Type:        entity.KindAirline,
		CompanyName: strings.TrimSpace(input.CompanyName),
	}
}

func flightFromInput(input FlightInput) *entity.Flight {
	return &entity.Flight{
		Type:      entity.KindFlight,
		ClientID:  input.ClientID,
		AirlineID: input.AirlineID,
		Date:      input.Date,
		StartCity: strings.TrimSpace(input.StartCity),
		EndCity:   strings.TrimSpace(input.EndCity),
	}
}

// validateClient checks the required client fields. State and the second
// and third address lines are optional; postal code and phone number are
// stored as text and only checked for presence.
func validateClient(c *entity.Client) error {
	required := []struct {
		field string
		value string
	}{
		{"Name", c.Name},
		{"Address_Line_1", c.AddressLine1},
		{"City", c.City},
		{"Zip_Code", c.ZipCode},
		{"Country", c.Country},
		{"Phone_Number", c.PhoneNumber},
	}
	for _, f := range required {
		if f.value == "" {
			return &entity.ValidationError{Field: f.field, Reason: "is required"}
		}
	}
	return nil
}

func validateAirline(a *entity.Airline) error {
	if a.CompanyName == "" {
		return &entity.ValidationError{Field: "Company_Name", Reason: "is required"}
	}
	return nil
}

// validateFlight checks required fields and that both references resolve
// against the current collection.
func (s *RecordService) validateFlight(ctx context.Context, f *entity.Flight) error {
	if f.Date.IsZero() {
		return &entity.ValidationError{Field: "Date", Reason: "is required"}
	}
	if f.StartCity == "" {
		return &entity.ValidationError{Field: "Start_City", Reason: "is required"}
	}
	if f.EndCity == "" {
		return &entity.ValidationError{Field: "End_City", Reason: "is required"}
	}
	if _, err := s.records.Get(ctx, entity.KindClient, f.ClientID); err != nil {
		return &entity.ValidationError{
			Field:  "Client_ID",
			Reason: fmt.Sprintf("client %d does not exist", f.ClientID),
		}
	}
	if _, err := s.records.Get(ctx, entity.KindAirline, f.AirlineID); err != nil {
		return &entity.ValidationError{
			Field:  "Airline_ID",
			Reason: fmt.Sprintf("airline %d does not exist", f.AirlineID),
		}
	}
	return nil
}

// recordMatches dispatches on the record kind: text fields match by
// case-insensitive substring, identifier fields by exact decimal value.
func recordMatches(rec entity.Record, lowered, raw string) bool {
	text, ids := searchFields(rec)
	for _, v := range text {
		if strings.Contains(strings.ToLower(v), lowered) {
			return true
		}
	}
	for _, id := range ids {
		if raw == strconv.Itoa(id) {
			return true
		}
	}
	return false
}

func searchFields(rec entity.Record) (text []string, ids []int) {
	switch r := rec.(type) {
	case *entity.Client:
		return []string{
			r.Name, r.AddressLine1, r.AddressLine2, r.AddressLine3,
			r.City, r.State, r.ZipCode, r.Country, r.PhoneNumber,
		}, []int{r.ID}
	case *entity.Airline:
		return []string{r.CompanyName}, []int{r.ID}
	case *entity.Flight:
		return []string{
			r.StartCity, r.EndCity, r.Date.Format(time.RFC3339),
		}, []int{r.ID, r.ClientID, r.AirlineID}
	}
	return nil, nil
}
