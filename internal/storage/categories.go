package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
)

// ListCategories returns all categories ordered by name.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategory returns category id or common.ErrNotFound.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id int) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	var cat model.Category
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = ?`, id).Scan(&cat.ID, &cat.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// CreateCategory creates a category. Names are unique; a duplicate returns
// common.ErrDuplicateEntry.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	cat := model.Category{Name: strings.TrimSpace(name)}
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, cat.Name)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("category %q: %w", cat.Name, common.ErrDuplicateEntry)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category id: %w", err)
	}
	cat.ID = int(id)

	slog.Info("created category", "id", cat.ID, "name", cat.Name)
	return &cat, nil
}

// UpdateCategory renames category id.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id int, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	cat := model.Category{ID: id, Name: strings.TrimSpace(name)}
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, cat.Name, id)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("category %q: %w", cat.Name, common.ErrDuplicateEntry)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if err := requireAffected(result, "category", id); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory removes category id together with its transactions, reversing their
// effect on card balances and limits.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT card_id, direction, amount_cents FROM transactions WHERE category_id = ? AND card_id IS NOT NULL`, id)
		if err != nil {
			return fmt.Errorf("failed to query category transactions: %w", err)
		}

		var effects []storedEffect
		for rows.Next() {
			var e storedEffect
			var direction string
			if err := rows.Scan(&e.cardID, &direction, &e.cents); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan transaction: %w", err)
			}
			e.direction = model.Direction(direction)
			effects = append(effects, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating transactions: %w", err)
		}

		for _, e := range effects {
			cardID := e.cardID
			if err := reverseEffect(ctx, tx, &cardID, e.direction, e.cents); err != nil {
				return err
			}
		}

		deleted, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE category_id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete category transactions: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		if err := requireAffected(result, "category", id); err != nil {
			return err
		}

		n, _ := deleted.RowsAffected()
		slog.Info("deleted category", "id", id, "transactions", n)
		return nil
	})
}

type storedEffect struct {
	direction model.Direction
	cardID    int
	cents     int64
}
