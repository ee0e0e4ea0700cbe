package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"travelbook-service/internal/domain/repository"
	"travelbook-service/pkg/logger"
)

// CSVRefDataRepository implements RefDataRepository over the static lookup
// files shipped with the application: countries.csv and cities.csv, each a
// header row plus one value per line. Lists are loaded once at startup; a
// missing file leaves its list empty with a warning.
type CSVRefDataRepository struct {
	countries []string
	cities    []string
}

// NewCSVRefDataRepository loads the lookup lists from the given directory.
func NewCSVRefDataRepository(dir string, log logger.Logger) *CSVRefDataRepository {
	r := &CSVRefDataRepository{}

	var err error
	r.countries, err = loadColumn(filepath.Join(dir, "countries.csv"), "country_name")
	if err != nil {
		log.Warn("country list unavailable", "dir", dir, "error", err)
	}
	r.cities, err = loadColumn(filepath.Join(dir, "cities.csv"), "city_name")
	if err != nil {
		log.Warn("city list unavailable", "dir", dir, "error", err)
	}
	return r
}

var _ repository.RefDataRepository = (*CSVRefDataRepository)(nil)

// Countries returns the country names for dropdown population.
func (r *CSVRefDataRepository) Countries(ctx context.Context) ([]string, error) {
	return r.countries, nil
}

// Cities returns the city names for dropdown population.
func (r *CSVRefDataRepository) Cities(ctx context.Context) ([]string, error) {
	return r.cities, nil
}

// loadColumn reads one named column out of a headed CSV file.
func loadColumn(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	idx := -1
	for i, name := range header {
		if name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in %s", column, path)
	}

	var values []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if idx < len(row) {
			values = append(values, row[idx])
		}
	}
	return values, nil
}
