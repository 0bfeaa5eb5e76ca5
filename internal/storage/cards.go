package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
)

const cardColumns = `id, name, kind, limit_cents, balance_cents`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*model.Card, error) {
	var (
		card    model.Card
		kind    string
		limit   sql.NullInt64
		balance sql.NullInt64
	)
	if err := row.Scan(&card.ID, &card.Name, &kind, &limit, &balance); err != nil {
		return nil, err
	}
	card.Kind = model.CardKind(kind)
	if limit.Valid {
		amount := model.AmountFromCents(limit.Int64)
		card.Limit = &amount
	}
	if balance.Valid {
		amount := model.AmountFromCents(balance.Int64)
		card.Balance = &amount
	}
	return &card, nil
}

func nullCents(a *model.Amount) sql.NullInt64 {
	if a == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: a.Cents(), Valid: true}
}

// ListCards returns all cards ordered by name.
func (s *SQLiteStorage) ListCards(ctx context.Context) ([]model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards := []model.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	slog.Debug("retrieved cards", "count", len(cards))
	return cards, nil
}

// GetCard returns card id or common.ErrNotFound.
func (s *SQLiteStorage) GetCard(ctx context.Context, id int) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	return getCardTx(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getCardTx(ctx context.Context, q querier, id int) (*model.Card, error) {
	card, err := scanCard(q.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query card: %w", err)
	}
	return card, nil
}

// CreateCard stores a new card after normalizing it for its kind.
func (s *SQLiteStorage) CreateCard(ctx context.Context, card model.Card) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	card = card.Normalize()
	if err := card.Validate(); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO cards (name, kind, limit_cents, balance_cents) VALUES (?, ?, ?, ?)`,
		card.Name, string(card.Kind), nullCents(card.Limit), nullCents(card.Balance))
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get card id: %w", err)
	}
	card.ID = int(id)

	slog.Info("created card", "id", card.ID, "name", card.Name, "kind", card.Kind)
	return &card, nil
}

// UpdateCard replaces card id. Its type cannot change while transactions reference it.
func (s *SQLiteStorage) UpdateCard(ctx context.Context, id int, card model.Card) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	card = card.Normalize()
	if err := card.Validate(); err != nil {
		return nil, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getCardTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Kind != card.Kind {
			var linked int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM transactions WHERE card_id = ?`, id).Scan(&linked); err != nil {
				return fmt.Errorf("failed to count card transactions: %w", err)
			}
			if linked > 0 {
				return fmt.Errorf("card %d has %d transactions: %w", id, linked, ErrCardKindLocked)
			}
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE cards SET name = ?, kind = ?, limit_cents = ?, balance_cents = ? WHERE id = ?`,
			card.Name, string(card.Kind), nullCents(card.Limit), nullCents(card.Balance), id)
		if err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		return requireAffected(result, "card", id)
	})
	if err != nil {
		return nil, err
	}

	card.ID = id
	return &card, nil
}

// DeleteCard removes card id. Its transactions are kept without a card.
func (s *SQLiteStorage) DeleteCard(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE transactions SET card_id = NULL WHERE card_id = ?`, id); err != nil {
			return fmt.Errorf("failed to detach transactions: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
		return requireAffected(result, "card", id)
	})
}

func requireAffected(result sql.Result, entity string, id int) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, common.ErrNotFound)
	}
	return nil
}
