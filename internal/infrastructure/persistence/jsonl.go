package persistence

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"travelbook-service/internal/domain/entity"
	"travelbook-service/pkg/logger"
)

// RecordFile reads and writes the line-delimited record file. Each line is
// one self-contained JSON object carrying the "Type" discriminator, so
// lines decode independently and a bad line never poisons the rest.
type RecordFile struct {
	path   string
	logger logger.Logger
}

// NewRecordFile creates a record file codec for the given path.
func NewRecordFile(path string, log logger.Logger) *RecordFile {
	return &RecordFile{
		path:   path,
		logger: log,
	}
}

// Path returns the backing file path.
func (f *RecordFile) Path() string {
	return f.path
}

// Load reads the whole file. A missing file is a first run and yields an
// empty collection; a line that fails to decode is logged and skipped.
func (f *RecordFile) Load() ([]entity.Record, error) {
	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &entity.PersistenceError{Op: "open record file", Err: err}
	}
	defer file.Close()

	var records []entity.Record
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := UnmarshalRecord(line)
		if err != nil {
			f.logger.Warn("skipping malformed record line",
				"file", f.path,
				"line", lineNo,
				"error", err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &entity.PersistenceError{Op: "read record file", Err: err}
	}
	return records, nil
}

// Store rewrites the whole file from the given collection. The new content
// goes to a temp file in the same directory and is renamed over the target,
// so a crash mid-write never truncates the previous state.
func (f *RecordFile) Store(records []entity.Record) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &entity.PersistenceError{Op: "create record directory", Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp")
	if err != nil {
		return &entity.PersistenceError{Op: "create temp record file", Err: err}
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			tmp.Close()
			return &entity.PersistenceError{Op: "encode record", Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return &entity.PersistenceError{Op: "write record file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &entity.PersistenceError{Op: "close record file", Err: err}
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return &entity.PersistenceError{Op: "replace record file", Err: err}
	}
	return nil
}

// UnmarshalRecord decodes one line into its concrete record type based on
// the "Type" discriminator. Unknown fields are ignored.
func UnmarshalRecord(data []byte) (entity.Record, error) {
	var head struct {
		Type entity.Kind `json:"Type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case entity.KindClient:
		var c entity.Client
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	case entity.KindAirline:
		var a entity.Airline
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		return &a, nil
	case entity.KindFlight:
		var fl entity.Flight
		if err := json.Unmarshal(data, &fl); err != nil {
			return nil, err
		}
		return &fl, nil
	default:
		return nil, fmt.Errorf("unknown record type %q", head.Type)
	}
}
