package repository

import (
	"context"

	"travelbook-service/internal/domain/entity"
)

// RecordRepository defines the interface for record storage operations.
// Implementations keep records in stable insertion order and persist the
// whole collection after every mutation.
type RecordRepository interface {
	// Insert assigns the next free identifier for the record's kind and
	// appends the record to the collection.
	Insert(ctx context.Context, rec entity.Record) error
	// Update replaces the record with the same kind and identifier.
	Update(ctx context.Context, rec entity.Record) error
	// Delete removes the record with the given kind and identifier.
	Delete(ctx context.Context, kind entity.Kind, id int) error
	// Get returns the record with the given kind and identifier.
	Get(ctx context.Context, kind entity.Kind, id int) (entity.Record, error)
	// List returns all records of the given kind in insertion order.
	List(ctx context.Context, kind entity.Kind) ([]entity.Record, error)
	// All returns every record in insertion order.
	All(ctx context.Context) ([]entity.Record, error)
}
