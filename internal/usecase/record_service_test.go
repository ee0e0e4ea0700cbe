package usecase

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"travelbook-service/internal/domain/entity"
	"travelbook-service/internal/infrastructure/persistence"
	fileRepo "travelbook-service/internal/interface/repository"
	"travelbook-service/pkg/logger"
	"travelbook-service/pkg/metrics"
)

type RecordServiceSuite struct {
	suite.Suite
	service *RecordService
	ctx     context.Context
}

func (s *RecordServiceSuite) SetupTest() {
	path := filepath.Join(s.T().TempDir(), "records.jsonl")
	log := logger.NewNop()
	m := metrics.NewMetrics("test", prometheus.NewRegistry())

	repo, err := fileRepo.NewFileRecordRepository(persistence.NewRecordFile(path, log), log, m)
	s.Require().NoError(err)

	s.service = NewRecordService(repo, log, m)
	s.ctx = context.Background()
}

func TestRecordServiceSuite(t *testing.T) {
	suite.Run(t, new(RecordServiceSuite))
}

func (s *RecordServiceSuite) newClientInput(name string) ClientInput {
	return ClientInput{
		Name:         name,
		AddressLine1: "1 High Street",
		City:         "Leeds",
		State:        "West Yorkshire",
		ZipCode:      "LS1 1AA",
		Country:      "United Kingdom",
		PhoneNumber:  "+44 113 496 0000",
	}
}

func (s *RecordServiceSuite) addFlightFixtures() (*entity.Client, *entity.Airline) {
	client, err := s.service.AddClient(s.ctx, s.newClientInput("Jane Doe"))
	s.Require().NoError(err)
	airline, err := s.service.AddAirline(s.ctx, AirlineInput{CompanyName: "Atlas Air"})
	s.Require().NoError(err)
	return client, airline
}

func (s *RecordServiceSuite) TestAddAssignsSequentialIDs() {
	s.Run("first record of a kind gets ID 1", func() {
		client, err := s.service.AddClient(s.ctx, s.newClientInput("Jane Doe"))
		s.Require().NoError(err)
		s.Equal(1, client.ID)

		records, err := s.service.List(s.ctx, entity.KindClient)
		s.Require().NoError(err)
		s.Len(records, 1)
	})

	s.Run("second record increments within the kind", func() {
		client, err := s.service.AddClient(s.ctx, s.newClientInput("John Roe"))
		s.Require().NoError(err)
		s.Equal(2, client.ID)
	})

	s.Run("kinds keep independent sequences", func() {
		airline, err := s.service.AddAirline(s.ctx, AirlineInput{CompanyName: "Atlas Air"})
		s.Require().NoError(err)
		s.Equal(1, airline.ID)
	})
}

func (s *RecordServiceSuite) TestAddNeverReusesIDs() {
	first, err := s.service.AddAirline(s.ctx, AirlineInput{CompanyName: "Atlas Air"})
	s.Require().NoError(err)
	second, err := s.service.AddAirline(s.ctx, AirlineInput{CompanyName: "Borealis"})
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, entity.KindAirline, second.ID))

	third, err := s.service.AddAirline(s.ctx, AirlineInput{CompanyName: "Cirrus"})
	s.Require().NoError(err)
	s.Greater(third.ID, second.ID)
	s.Greater(third.ID, first.ID)
}

func (s *RecordServiceSuite) TestDelete() {
	s.Run("deleted record is gone", func() {
		client, err := s.service.AddClient(s.ctx, s.newClientInput("Jane Doe"))
		s.Require().NoError(err)

		s.Require().NoError(s.service.Delete(s.ctx, entity.KindClient, client.ID))

		_, err = s.service.Get(s.ctx, entity.KindClient, client.ID)
		var notFound *entity.NotFoundError
		s.Require().ErrorAs(err, &notFound)
		s.Equal(entity.KindClient, notFound.Kind)
	})

	s.Run("deleting an unknown id fails", func() {
		err := s.service.Delete(s.ctx, entity.KindClient, 99)
		var notFound *entity.NotFoundError
		s.Require().ErrorAs(err, &notFound)
	})

	s.Run("deleting a referenced client orphans the flight", func() {
		client, airline := s.addFlightFixtures()
		flight, err := s.service.AddFlight(s.ctx, FlightInput{
			ClientID:  client.ID,
			AirlineID: airline.ID,
			Date:      time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC),
			StartCity: "Leeds",
			EndCity:   "Lisbon",
		})
		s.Require().NoError(err)

		s.Require().NoError(s.service.Delete(s.ctx, entity.KindClient, client.ID))

		// No cascade: the flight stays, its reference just stops resolving.
		kept, err := s.service.Get(s.ctx, entity.KindFlight, flight.ID)
		s.Require().NoError(err)
		s.Equal(client.ID, kept.(*entity.Flight).ClientID)
	})
}

func (s *RecordServiceSuite) TestUpdate() {
	s.Run("preserves id and kind without duplicating", func() {
		client, err := s.service.AddClient(s.ctx, s.newClientInput("Jane Doe"))
		s.Require().NoError(err)

		input := s.newClientInput("Jane Doe")
		input.City = "York"
		updated, err := s.service.UpdateClient(s.ctx, client.ID, input)
		s.Require().NoError(err)
		s.Equal(client.ID, updated.ID)
		s.Equal(entity.KindClient, updated.RecordKind())
		s.Equal("York", updated.City)

		records, err := s.service.List(s.ctx, entity.KindClient)
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal("York", records[0].(*entity.Client).City)
	})

	s.Run("unknown id fails with not found", func() {
		_, err := s.service.UpdateClient(s.ctx, 42, s.newClientInput("Nobody"))
		var notFound *entity.NotFoundError
		s.Require().ErrorAs(err, &notFound)
	})

	s.Run("re-validates fields", func() {
		client, err := s.service.AddClient(s.ctx, s.newClientInput("Jane Doe"))
		s.Require().NoError(err)

		input := s.newClientInput("")
		_, err = s.service.UpdateClient(s.ctx, client.ID, input)
		var validation *entity.ValidationError
		s.Require().ErrorAs(err, &validation)
		s.Equal("Name", validation.Field)
	})

	s.Run("flight update re-checks references", func() {
		client, airline := s.addFlightFixtures()
		flight, err := s.service.AddFlight(s.ctx, FlightInput{
			ClientID:  client.ID,
			AirlineID: airline.ID,
			Date:      time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC),
			StartCity: "Leeds",
			EndCity:   "Lisbon",
		})
		s.Require().NoError(err)

		_, err = s.service.UpdateFlight(s.ctx, flight.ID, FlightInput{
			ClientID:  99,
			AirlineID: airline.ID,
			Date:      flight.Date,
			StartCity: "Leeds",
			EndCity:   "Lisbon",
		})
		var validation *entity.ValidationError
		s.Require().ErrorAs(err, &validation)
		s.Equal("Client_ID", validation.Field)
	})
}

func (s *RecordServiceSuite) TestValidation() {
	s.Run("rejects missing required fields", func() {
		input := s.newClientInput("Jane Doe")
		input.PhoneNumber = "   "
		_, err := s.service.AddClient(s.ctx, input)
		var validation *entity.ValidationError
		s.Require().ErrorAs(err, &validation)
		s.Equal("Phone_Number", validation.Field)
	})

	s.Run("state and extra address lines are optional", func() {
		input := s.newClientInput("Jane Doe")
		input.State = ""
		input.AddressLine2 = ""
		input.AddressLine3 = ""
		_, err := s.service.AddClient(s.ctx, input)
		s.Require().NoError(err)
	})

	s.Run("rejects empty airline name", func() {
		_, err := s.service.AddAirline(s.ctx, AirlineInput{CompanyName: " "})
		var validation *entity.ValidationError
		s.Require().ErrorAs(err, &validation)
	})

	s.Run("rejected add leaves the collection untouched", func() {
		client, airline := s.addFlightFixtures()
		_, err := s.service.AddFlight(s.ctx, FlightInput{
			ClientID:  client.ID + 100,
			AirlineID: airline.ID,
			Date:      time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC),
			StartCity: "Leeds",
			EndCity:   "Lisbon",
		})
		var validation *entity.ValidationError
		s.Require().ErrorAs(err, &validation)
		s.Equal("Client_ID", validation.Field)

		flights, err := s.service.List(s.ctx, entity.KindFlight)
		s.Require().NoError(err)
		s.Empty(flights)
	})

	s.Run("rejects flight without a date", func() {
		client, airline := s.addFlightFixtures()
		_, err := s.service.AddFlight(s.ctx, FlightInput{
			ClientID:  client.ID,
			AirlineID: airline.ID,
			StartCity: "Leeds",
			EndCity:   "Lisbon",
		})
		var validation *entity.ValidationError
		s.Require().ErrorAs(err, &validation)
		s.Equal("Date", validation.Field)
	})
}

func (s *RecordServiceSuite) TestSearch() {
	s.Run("empty query returns everything of the kind", func() {
		_, err := s.service.AddClient(s.ctx, s.newClientInput("Jane Doe"))
		s.Require().NoError(err)
		_, err = s.service.AddClient(s.ctx, s.newClientInput("John Roe"))
		s.Require().NoError(err)

		all, err := s.service.List(s.ctx, entity.KindClient)
		s.Require().NoError(err)
		found, err := s.service.Search(s.ctx, entity.KindClient, "")
		s.Require().NoError(err)
		s.Equal(all, found)
	})

	s.Run("matches case-insensitive substrings", func() {
		input := s.newClientInput("Ada Lovelace")
		input.City = "London"
		_, err := s.service.AddClient(s.ctx, input)
		s.Require().NoError(err)

		found, err := s.service.Search(s.ctx, entity.KindClient, "lon")
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal("London", found[0].(*entity.Client).City)
	})

	s.Run("matches identifier fields by exact value", func() {
		client, airline := s.addFlightFixtures()
		flight, err := s.service.AddFlight(s.ctx, FlightInput{
			ClientID:  client.ID,
			AirlineID: airline.ID,
			Date:      time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC),
			StartCity: "Leeds",
			EndCity:   "Lisbon",
		})
		s.Require().NoError(err)

		found, err := s.service.Search(s.ctx, entity.KindFlight, "1")
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal(flight.ID, found[0].RecordID())

		// "11" is a substring of nothing stored and equals no identifier.
		found, err = s.service.Search(s.ctx, entity.KindFlight, "11")
		s.Require().NoError(err)
		s.Empty(found)

		found, err = s.service.Search(s.ctx, entity.KindFlight, "Narnia")
		s.Require().NoError(err)
		s.Empty(found)
	})

	s.Run("only searches the requested kind", func() {
		input := s.newClientInput("Atlas Holdings")
		_, err := s.service.AddClient(s.ctx, input)
		s.Require().NoError(err)

		found, err := s.service.Search(s.ctx, entity.KindAirline, "holdings")
		s.Require().NoError(err)
		s.Empty(found)

		found, err = s.service.Search(s.ctx, entity.KindClient, "holdings")
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal(entity.KindClient, found[0].RecordKind())
	})
}

// TestLifecycleScenario walks the full flow: two clients, a delete, and a
// flight referencing the deleted client.
func (s *RecordServiceSuite) TestLifecycleScenario() {
	jane, err := s.service.AddClient(s.ctx, s.newClientInput("Jane Doe"))
	s.Require().NoError(err)
	s.Equal(1, jane.ID)

	john, err := s.service.AddClient(s.ctx, s.newClientInput("John Roe"))
	s.Require().NoError(err)
	s.Equal(2, john.ID)

	s.Require().NoError(s.service.Delete(s.ctx, entity.KindClient, jane.ID))

	clients, err := s.service.List(s.ctx, entity.KindClient)
	s.Require().NoError(err)
	s.Require().Len(clients, 1)
	s.Equal(2, clients[0].RecordID())

	airline, err := s.service.AddAirline(s.ctx, AirlineInput{CompanyName: "Atlas Air"})
	s.Require().NoError(err)

	_, err = s.service.AddFlight(s.ctx, FlightInput{
		ClientID:  jane.ID,
		AirlineID: airline.ID,
		Date:      time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC),
		StartCity: "Leeds",
		EndCity:   "Lisbon",
	})
	var validation *entity.ValidationError
	s.Require().ErrorAs(err, &validation)
	s.Equal("Client_ID", validation.Field)
}
