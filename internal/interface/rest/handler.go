package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"travelbook-service/internal/domain/entity"
	"travelbook-service/internal/domain/repository"
	"travelbook-service/internal/usecase"
	"travelbook-service/pkg/logger"
)

// RecordService defines the interface for record operations consumed by
// the HTTP layer.
type RecordService interface {
	AddClient(ctx context.Context, input usecase.ClientInput) (*entity.Client, error)
	UpdateClient(ctx context.Context, id int, input usecase.ClientInput) (*entity.Client, error)
	AddAirline(ctx context.Context, input usecase.AirlineInput) (*entity.Airline, error)
	UpdateAirline(ctx context.Context, id int, input usecase.AirlineInput) (*entity.Airline, error)
	AddFlight(ctx context.Context, input usecase.FlightInput) (*entity.Flight, error)
	UpdateFlight(ctx context.Context, id int, input usecase.FlightInput) (*entity.Flight, error)
	Delete(ctx context.Context, kind entity.Kind, id int) error
	Get(ctx context.Context, kind entity.Kind, id int) (entity.Record, error)
	List(ctx context.Context, kind entity.Kind) ([]entity.Record, error)
	Search(ctx context.Context, kind entity.Kind, query string) ([]entity.Record, error)
}

// Handler exposes the record store and the reference data lists over HTTP.
// It holds no business logic; every route delegates to the record service
// and renders the result or the mapped error.
type Handler struct {
	logger  logger.Logger
	records RecordService
	refdata repository.RefDataRepository
}

// NewHandler creates a new REST handler.
func NewHandler(records RecordService, refdata repository.RefDataRepository, log logger.Logger) *Handler {
	return &Handler{
		logger:  log,
		records: records,
		refdata: refdata,
	}
}

// Register registers all record and refdata routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.listRecords(entity.KindClient))
		r.Post("/", h.createClient)
		r.Get("/{id}", h.getRecord(entity.KindClient))
		r.Put("/{id}", h.updateClient)
		r.Delete("/{id}", h.deleteRecord(entity.KindClient))
	})
	r.Route("/airlines", func(r chi.Router) {
		r.Get("/", h.listRecords(entity.KindAirline))
		r.Post("/", h.createAirline)
		r.Get("/{id}", h.getRecord(entity.KindAirline))
		r.Put("/{id}", h.updateAirline)
		r.Delete("/{id}", h.deleteRecord(entity.KindAirline))
	})
	r.Route("/flights", func(r chi.Router) {
		r.Get("/", h.listRecords(entity.KindFlight))
		r.Post("/", h.createFlight)
		r.Get("/{id}", h.getRecord(entity.KindFlight))
		r.Put("/{id}", h.updateFlight)
		r.Delete("/{id}", h.deleteRecord(entity.KindFlight))
	})
	r.Get("/refdata/countries", h.listCountries)
	r.Get("/refdata/cities", h.listCities)
}

// clientRequest mirrors the stable field names of the record file.
type clientRequest struct {
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

func (req clientRequest) toInput() usecase.ClientInput {
	return usecase.ClientInput{
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		AddressLine3: req.AddressLine3,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Country:      req.Country,
		PhoneNumber:  req.PhoneNumber,
	}
}

type airlineRequest struct {
	CompanyName string `json:"Company_Name"`
}

type flightRequest struct {
	ClientID  int       `json:"Client_ID"`
	AirlineID int       `json:"Airline_ID"`
	Date      time.Time `json:"Date"`
	StartCity string    `json:"Start_City"`
	EndCity   string    `json:"End_City"`
}

func (req flightRequest) toInput() usecase.FlightInput {
	return usecase.FlightInput{
		ClientID:  req.ClientID,
		AirlineID: req.AirlineID,
		Date:      req.Date,
		StartCity: req.StartCity,
		EndCity:   req.EndCity,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	client, err := h.records.AddClient(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, client)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	client, err := h.records.UpdateClient(r.Context(), id, req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, client)
}

func (h *Handler) createAirline(w http.ResponseWriter, r *http.Request) {
	var req airlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	airline, err := h.records.AddAirline(r.Context(), usecase.AirlineInput{CompanyName: req.CompanyName})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, airline)
}

func (h *Handler) updateAirline(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	var req airlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	airline, err := h.records.UpdateAirline(r.Context(), id, usecase.AirlineInput{CompanyName: req.CompanyName})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, airline)
}

func (h *Handler) createFlight(w http.ResponseWriter, r *http.Request) {
	var req flightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	flight, err := h.records.AddFlight(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, flight)
}

func (h *Handler) updateFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	var req flightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	flight, err := h.records.UpdateFlight(r.Context(), id, req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, flight)
}

// listRecords serves both plain listing and search: a "q" query parameter
// switches the route to substring search.
func (h *Handler) listRecords(kind entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			records []entity.Record
			err     error
		)
		if r.URL.Query().Has("q") {
			records, err = h.records.Search(r.Context(), kind, r.URL.Query().Get("q"))
		} else {
			records, err = h.records.List(r.Context(), kind)
		}
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if records == nil {
			records = []entity.Record{}
		}
		h.writeJSON(w, http.StatusOK, records)
	}
}

func (h *Handler) getRecord(kind entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.recordID(w, r)
		if !ok {
			return
		}
		rec, err := h.records.Get(r.Context(), kind, id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, rec)
	}
}

func (h *Handler) deleteRecord(kind entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.recordID(w, r)
		if !ok {
			return
		}
		if err := h.records.Delete(r.Context(), kind, id); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) listCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.refdata.Countries(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if countries == nil {
		countries = []string{}
	}
	h.writeJSON(w, http.StatusOK, countries)
}

func (h *Handler) listCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.refdata.Cities(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if cities == nil {
		cities = []string{}
	}
	h.writeJSON(w, http.StatusOK, cities)
}

func (h *Handler) recordID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid record id"})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors onto HTTP statuses: validation failures to
// 400, missing records to 404, everything else to 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *entity.ValidationError
		notFoundErr   *entity.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
	case errors.As(err, &notFoundErr):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: notFoundErr.Error()})
	default:
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
