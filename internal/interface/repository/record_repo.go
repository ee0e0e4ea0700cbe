package repository

import (
	"context"
	"sync"
	"time"

	"travelbook-service/internal/domain/entity"
	"travelbook-service/internal/domain/repository"
	"travelbook-service/internal/infrastructure/persistence"
	"travelbook-service/pkg/logger"
	"travelbook-service/pkg/metrics"
)

// FileRecordRepository implements RecordRepository over the JSONL record
// file. The collection lives in memory and is rewritten to disk on every
// mutation; the in-memory slice is swapped only after the write succeeds,
// so a failed write leaves memory and disk at the previous state.
type FileRecordRepository struct {
	mu      sync.RWMutex
	records []entity.Record
	seq     map[entity.Kind]int
	file    *persistence.RecordFile
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewFileRecordRepository loads the record file and returns a repository
// over its contents. A missing file starts an empty collection.
func NewFileRecordRepository(file *persistence.RecordFile, log logger.Logger, m *metrics.Metrics) (*FileRecordRepository, error) {
	records, err := file.Load()
	if err != nil {
		return nil, err
	}
	log.Info("record file loaded", "path", file.Path(), "records", len(records))

	seq := make(map[entity.Kind]int)
	for _, rec := range records {
		if rec.RecordID() > seq[rec.RecordKind()] {
			seq[rec.RecordKind()] = rec.RecordID()
		}
	}

	return &FileRecordRepository{
		records: records,
		seq:     seq,
		file:    file,
		logger:  log,
		metrics: m,
	}, nil
}

var _ repository.RecordRepository = (*FileRecordRepository)(nil)

// Insert assigns a fresh identifier, one past the highest the record's
// kind has seen, and appends the record. Identifiers are not reused after
// a delete.
func (r *FileRecordRepository) Insert(ctx context.Context, rec entity.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.seq[rec.RecordKind()] + 1
	setRecordID(rec, id)

	next := make([]entity.Record, 0, len(r.records)+1)
	next = append(next, r.records...)
	next = append(next, rec)

	if err := r.persist(next); err != nil {
		return err
	}
	r.records = next
	r.seq[rec.RecordKind()] = id
	return nil
}

// Update replaces the stored record with the same kind and identifier.
func (r *FileRecordRepository) Update(ctx context.Context, rec entity.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(rec.RecordKind(), rec.RecordID())
	if idx < 0 {
		return &entity.NotFoundError{Kind: rec.RecordKind(), ID: rec.RecordID()}
	}

	next := make([]entity.Record, len(r.records))
	copy(next, r.records)
	next[idx] = rec

	if err := r.persist(next); err != nil {
		return err
	}
	r.records = next
	return nil
}

// Delete removes the record with the given kind and identifier. Dependent
// flights are left alone; their references simply stop resolving.
func (r *FileRecordRepository) Delete(ctx context.Context, kind entity.Kind, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(kind, id)
	if idx < 0 {
		return &entity.NotFoundError{Kind: kind, ID: id}
	}

	next := make([]entity.Record, 0, len(r.records)-1)
	next = append(next, r.records[:idx]...)
	next = append(next, r.records[idx+1:]...)

	if err := r.persist(next); err != nil {
		return err
	}
	r.records = next
	return nil
}

// Get returns the record with the given kind and identifier.
func (r *FileRecordRepository) Get(ctx context.Context, kind entity.Kind, id int) (entity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexLocked(kind, id)
	if idx < 0 {
		return nil, &entity.NotFoundError{Kind: kind, ID: id}
	}
	return r.records[idx], nil
}

// List returns all records of the given kind in insertion order.
func (r *FileRecordRepository) List(ctx context.Context, kind entity.Kind) ([]entity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entity.Record
	for _, rec := range r.records {
		if rec.RecordKind() == kind {
			out = append(out, rec)
		}
	}
	return out, nil
}

// All returns every record in insertion order.
func (r *FileRecordRepository) All(ctx context.Context) ([]entity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Record, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *FileRecordRepository) indexLocked(kind entity.Kind, id int) int {
	for i, rec := range r.records {
		if rec.RecordKind() == kind && rec.RecordID() == id {
			return i
		}
	}
	return -1
}

func (r *FileRecordRepository) persist(records []entity.Record) error {
	start := time.Now()
	if err := r.file.Store(records); err != nil {
		r.metrics.ErrorsCount.WithLabelValues("persist").Inc()
		r.logger.Error("record file write failed", "path", r.file.Path(), "error", err)
		return err
	}
	r.metrics.PersistDuration.Observe(time.Since(start).Seconds())
	return nil
}

func setRecordID(rec entity.Record, id int) {
	switch v := rec.(type) {
	case *entity.Client:
		v.ID = id
	case *entity.Airline:
		v.ID = id
	case *entity.Flight:
		v.ID = id
	}
}
