package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Zlatonn/warranty-checker/internal/model"
)

// CreateItem inserts a fully evaluated item and returns the stored record.
func CreateItem(ctx context.Context, db *sql.DB, c model.Candidate, remainDays int, state string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (item_name, serial_number, end_date, notes, remain_days, warranty_state)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ItemName, c.SerialNumber, c.EndDate, c.Notes, remainDays, state,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it doesn't exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var receiptMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, item_name, serial_number, end_date, notes, remain_days, warranty_state,
		        receipt_mime, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.ItemName, &item.SerialNumber, &item.EndDate, &item.Notes,
		&item.RemainDays, &item.WarrantyState, &receiptMime, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.ReceiptMime = receiptMime.String
	return item, nil
}

// ListItems returns all items, optionally filtered by a search query
// matched against name and serial number.
func ListItems(ctx context.Context, db *sql.DB, query string) ([]model.Item, error) {
	var rows *sql.Rows
	var err error

	const cols = `id, item_name, serial_number, end_date, notes, remain_days, warranty_state,
	              receipt_mime, created_at, updated_at`

	if query != "" {
		pattern := "%" + query + "%"
		rows, err = db.QueryContext(ctx,
			`SELECT `+cols+` FROM items
			 WHERE item_name LIKE ? OR serial_number LIKE ? ORDER BY id`,
			pattern, pattern,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT `+cols+` FROM items ORDER BY id`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var receiptMime sql.NullString
		if err := rows.Scan(&item.ID, &item.ItemName, &item.SerialNumber, &item.EndDate, &item.Notes,
			&item.RemainDays, &item.WarrantyState, &receiptMime, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.ReceiptMime = receiptMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem replaces all mutable fields of an item with the re-evaluated
// candidate. Partial updates are not supported.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, c model.Candidate, remainDays int, state string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET item_name = ?, serial_number = ?, end_date = ?, notes = ?,
		        remain_days = ?, warranty_state = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		c.ItemName, c.SerialNumber, c.EndDate, c.Notes, remainDays, state, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// SetItemReceipt stores an item's receipt image.
func SetItemReceipt(ctx context.Context, db *sql.DB, id int64, data []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET receipt = ?, receipt_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		data, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item receipt: %w", err)
	}
	return nil
}

// GetItemReceipt returns an item's receipt image data and MIME type.
func GetItemReceipt(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT receipt, receipt_mime FROM items WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item receipt: %w", err)
	}
	return data, mime.String, nil
}
