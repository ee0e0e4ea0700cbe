package persistence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelbook-service/internal/domain/entity"
	"travelbook-service/pkg/logger"
)

func testRecords() []entity.Record {
	return []entity.Record{
		&entity.Client{
			ID:           1,
			Type:         entity.KindClient,
			Name:         "Jane Doe",
			AddressLine1: "1 High Street",
			City:         "Leeds",
			State:        "West Yorkshire",
			ZipCode:      "LS1 1AA",
			Country:      "United Kingdom",
			PhoneNumber:  "+44 113 496 0000",
		},
		&entity.Airline{
			ID:          1,
			Type:        entity.KindAirline,
			CompanyName: "Atlas Air",
		},
		&entity.Flight{
			ID:        1,
			Type:      entity.KindFlight,
			ClientID:  1,
			AirlineID: 1,
			Date:      time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC),
			StartCity: "Leeds",
			EndCity:   "Lisbon",
		},
	}
}

func TestRoundTrip(t *testing.T) {
	file := NewRecordFile(filepath.Join(t.TempDir(), "records.jsonl"), logger.NewNop())
	records := testRecords()

	require.NoError(t, file.Store(records))

	loaded, err := file.Load()
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	file := NewRecordFile(filepath.Join(t.TempDir(), "absent.jsonl"), logger.NewNop())

	loaded, err := file.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	content := strings.Join([]string{
		`{"ID":1,"Type":"Airline","Company_Name":"Atlas Air"}`,
		`{not json at all`,
		`{"ID":1,"Type":"Spaceship"}`,
		``,
		`{"ID":2,"Type":"Airline","Company_Name":"Borealis"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := NewRecordFile(path, logger.NewNop()).Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Atlas Air", loaded[0].(*entity.Airline).CompanyName)
	assert.Equal(t, "Borealis", loaded[1].(*entity.Airline).CompanyName)
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	line := `{"ID":3,"Type":"Airline","Company_Name":"Atlas Air","Fleet_Size":42}`
	require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0o644))

	loaded, err := NewRecordFile(path, logger.NewNop()).Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 3, loaded[0].RecordID())
}

func TestStoreReplacesPreviousContents(t *testing.T) {
	file := NewRecordFile(filepath.Join(t.TempDir(), "records.jsonl"), logger.NewNop())

	require.NoError(t, file.Store(testRecords()))
	require.NoError(t, file.Store([]entity.Record{
		&entity.Airline{ID: 7, Type: entity.KindAirline, CompanyName: "Cirrus"},
	}))

	loaded, err := file.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 7, loaded[0].RecordID())
}

func TestStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	file := NewRecordFile(filepath.Join(dir, "records.jsonl"), logger.NewNop())
	require.NoError(t, file.Store(testRecords()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "records.jsonl", entries[0].Name())
}

func TestUnmarshalRecordRejectsUnknownKind(t *testing.T) {
	_, err := UnmarshalRecord([]byte(`{"ID":1,"Type":"Spaceship"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Spaceship")
}
