// Package service orchestrates validation, warranty evaluation and
// persistence for item records. Handlers call it instead of composing the
// pieces themselves, so create and update always keep the derived fields
// consistent with the end date.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Zlatonn/warranty-checker/internal/model"
	"github.com/Zlatonn/warranty-checker/internal/store"
	"github.com/Zlatonn/warranty-checker/internal/warranty"
)

// ErrNotFound is returned when an operation targets an item that does not
// exist. Distinct from validation failure so callers can pick a different
// response.
var ErrNotFound = errors.New("item not found")

// CreateItem validates the candidate, evaluates its warranty as of now,
// and stores the record. Validation failures come back as
// model.ValidationErrors; use errors.As to distinguish them from faults.
func CreateItem(ctx context.Context, db *sql.DB, c model.Candidate, now time.Time) (*model.Item, error) {
	if errs := c.Validate(); errs != nil {
		return nil, errs
	}

	endDate, err := time.Parse(model.DateLayout, c.EndDate)
	if err != nil {
		// Validate already checks the format, so this is a programming error.
		return nil, fmt.Errorf("parsing end date: %w", err)
	}

	daysLeft, state := warranty.Evaluate(now, endDate)

	item, err := store.CreateItem(ctx, db, c, daysLeft, state)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem fetches a single item. Returns ErrNotFound if the id does not
// resolve to a stored item.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// ListItems returns all items, newest first. A non-empty query filters by
// name or serial number.
func ListItems(ctx context.Context, db *sql.DB, query string) ([]model.Item, error) {
	return store.ListItems(ctx, db, query)
}

// UpdateItem replaces all fields of an existing item with the candidate
// and re-evaluates the warranty as of now. Returns ErrNotFound if the id
// does not resolve to a stored item; nothing is written in that case.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, c model.Candidate, now time.Time) (*model.Item, error) {
	if _, err := GetItem(ctx, db, id); err != nil {
		return nil, err
	}

	if errs := c.Validate(); errs != nil {
		return nil, errs
	}

	endDate, err := time.Parse(model.DateLayout, c.EndDate)
	if err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}

	daysLeft, state := warranty.Evaluate(now, endDate)

	if err := store.UpdateItem(ctx, db, id, c, daysLeft, state); err != nil {
		return nil, err
	}
	return store.GetItem(ctx, db, id)
}

// DeleteItem removes an item, returning the record as it was before
// deletion. Returns ErrNotFound if the id does not exist.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	existing, err := GetItem(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if err := store.DeleteItem(ctx, db, id); err != nil {
		return nil, err
	}
	return existing, nil
}
