package store

import (
	"context"
	"database/sql"
	"fmt"

	"groupadmin/internal/model"
)

// CreateItem inserts a new item record.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, name, price, category) VALUES (?, ?, ?, ?)`,
		item.ID, item.Name, item.Price, item.Category,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, item.ID)
}

// GetItem returns an item by ID, or nil when none exists.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, price, category FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Category)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns up to limit items, optionally filtered by category.
// Pagination is keyed on the item ID: pass the previous page's last ID as
// lastKey to continue. The returned key is empty when the result set is
// exhausted. sortBy ("name" or "price") reorders an unpaginated listing;
// continuation always scans in ID order.
func ListItems(ctx context.Context, db *sql.DB, category, sortBy string, limit int, lastKey string) ([]model.Item, string, error) {
	if limit <= 0 {
		limit = 25
	}

	where := "1=1"
	args := []any{}
	if category != "" {
		where += " AND category = ?"
		args = append(args, category)
	}
	if lastKey != "" {
		where += " AND id > ?"
		args = append(args, lastKey)
	}

	order := "id"
	if lastKey == "" {
		switch sortBy {
		case "name":
			order = "name, id"
		case "price":
			order = "price, id"
		}
	}

	args = append(args, limit+1)
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, price, category FROM items WHERE `+where+` ORDER BY `+order+` LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, "", fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category); err != nil {
			return nil, "", fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var nextKey string
	if len(items) > limit {
		items = items[:limit]
		nextKey = items[limit-1].ID
	}
	return items, nextKey, nil
}

// UpdateItem applies a partial update and returns the updated record, or
// nil when the item does not exist.
func UpdateItem(ctx context.Context, db *sql.DB, id string, patch model.ItemPatch) (*model.Item, error) {
	set := ""
	args := []any{}
	if patch.Name != nil {
		set += "name = ?"
		args = append(args, *patch.Name)
	}
	if patch.Price != nil {
		if set != "" {
			set += ", "
		}
		set += "price = ?"
		args = append(args, *patch.Price)
	}
	if patch.Category != nil {
		if set != "" {
			set += ", "
		}
		set += "category = ?"
		args = append(args, *patch.Category)
	}
	if set == "" {
		return GetItem(ctx, db, id)
	}

	args = append(args, id)
	result, err := db.ExecContext(ctx, `UPDATE items SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}

	return GetItem(ctx, db, id)
}

// DeleteItem removes an item. Returns false when no such item exists.
func DeleteItem(ctx context.Context, db *sql.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
