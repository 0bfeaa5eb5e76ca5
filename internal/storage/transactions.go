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

const transactionSelect = `
	SELECT t.id, t.description, t.amount_cents, t.date, t.direction,
	       t.card_id, COALESCE(c.name, ''), t.category_id, cat.name
	FROM transactions t
	LEFT JOIN cards c ON c.id = t.card_id
	JOIN categories cat ON cat.id = t.category_id`

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		tx        model.Transaction
		cents     int64
		date      string
		direction string
		cardID    sql.NullInt64
	)
	if err := row.Scan(&tx.ID, &tx.Description, &cents, &date, &direction,
		&cardID, &tx.CardName, &tx.CategoryID, &tx.CategoryName); err != nil {
		return nil, err
	}

	parsed, err := model.ParseDate(date)
	if err != nil {
		return nil, err
	}
	tx.Date = parsed
	tx.Amount = model.AmountFromCents(cents)
	tx.Direction = model.Direction(direction)
	if cardID.Valid {
		tx.CardID = model.IntPtr(int(cardID.Int64))
	}
	return &tx, nil
}

// ListTransactions returns one window of transactions, newest first, and the total count.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, offset, limit int) ([]model.Transaction, int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		offset = 0
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := transactionSelect + ` ORDER BY t.date DESC, t.id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, count, nil
}

// GetTransaction returns transaction id or common.ErrNotFound.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id int) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	return getTransactionTx(ctx, s.db, id)
}

func getTransactionTx(ctx context.Context, q querier, id int) (*model.Transaction, error) {
	tx, err := scanTransaction(q.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return tx, nil
}

// CreateTransaction records a transaction and applies it to its card: a credit outflow
// consumes limit, a debit inflow or outflow moves the balance. Credit inflows and outflows
// above the remaining limit are rejected.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, in model.TransactionInput) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}

	var created *model.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := applyEffect(ctx, tx, in.CardID, in.Direction, in.Amount.Cents()); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (description, amount_cents, date, direction, card_id, category_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			strings.TrimSpace(in.Description), in.Amount.Cents(), model.FormatDate(in.Date),
			string(in.Direction), nullID(in.CardID), in.CategoryID)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category %d: %w", in.CategoryID, ErrUnknownCategory)
		}
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get transaction id: %w", err)
		}
		created, err = getTransactionTx(ctx, tx, int(id))
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("created transaction", "id", created.ID, "amount", created.Amount.String(), "direction", created.Direction)
	return created, nil
}

// UpdateTransaction replaces transaction id, reversing its old card effect before
// applying the new one.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, id int, in model.TransactionInput) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}

	var updated *model.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getTransactionTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := reverseEffect(ctx, tx, old.CardID, old.Direction, old.Amount.Cents()); err != nil {
			return err
		}
		if err := applyEffect(ctx, tx, in.CardID, in.Direction, in.Amount.Cents()); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE transactions
			 SET description = ?, amount_cents = ?, date = ?, direction = ?, card_id = ?, category_id = ?
			 WHERE id = ?`,
			strings.TrimSpace(in.Description), in.Amount.Cents(), model.FormatDate(in.Date),
			string(in.Direction), nullID(in.CardID), in.CategoryID, id)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category %d: %w", in.CategoryID, ErrUnknownCategory)
		}
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		updated, err = getTransactionTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction removes transaction id and reverses its card effect.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getTransactionTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := reverseEffect(ctx, tx, old.CardID, old.Direction, old.Amount.Cents()); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return requireAffected(result, "transaction", id)
	})
}

// SpendingByCategory totals outflows per category name, largest first.
func (s *SQLiteStorage) SpendingByCategory(ctx context.Context) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT cat.name, SUM(t.amount_cents) AS total
		FROM transactions t
		JOIN categories cat ON cat.id = t.category_id
		WHERE t.direction = ?
		GROUP BY cat.name
		ORDER BY total DESC, cat.name`, string(model.DirectionOut))
	if err != nil {
		return nil, fmt.Errorf("failed to query spending: %w", err)
	}
	defer rows.Close()

	totals := []model.CategoryTotal{}
	for rows.Next() {
		var (
			name  string
			cents int64
		)
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan spending: %w", err)
		}
		totals = append(totals, model.CategoryTotal{Category: name, Total: model.AmountFromCents(cents)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spending: %w", err)
	}
	return totals, nil
}

func nullID(id *int) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

// applyEffect moves the card's limit or balance for a new transaction.
func applyEffect(ctx context.Context, tx *sql.Tx, cardID *int, direction model.Direction, cents int64) error {
	if cardID == nil {
		return nil
	}
	card, err := getCardTx(ctx, tx, *cardID)
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("card %d: %w", *cardID, ErrUnknownCard)
	}
	if err != nil {
		return err
	}

	if card.IsCredit() {
		if direction == model.DirectionIn {
			return ErrCreditInflow
		}
		if card.Available().Cents() < cents {
			return fmt.Errorf("%w: available %s", ErrInsufficientLimit, card.Available().BRL())
		}
		return adjustCard(ctx, tx, card, -cents)
	}

	if direction == model.DirectionIn {
		return adjustCard(ctx, tx, card, cents)
	}
	return adjustCard(ctx, tx, card, -cents)
}

// reverseEffect undoes applyEffect. A card that no longer exists has nothing to undo.
func reverseEffect(ctx context.Context, tx *sql.Tx, cardID *int, direction model.Direction, cents int64) error {
	if cardID == nil {
		return nil
	}
	card, err := getCardTx(ctx, tx, *cardID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if card.IsCredit() {
		if direction == model.DirectionIn {
			return nil
		}
		return adjustCard(ctx, tx, card, cents)
	}

	if direction == model.DirectionIn {
		return adjustCard(ctx, tx, card, -cents)
	}
	return adjustCard(ctx, tx, card, cents)
}

func adjustCard(ctx context.Context, tx *sql.Tx, card *model.Card, delta int64) error {
	column := "balance_cents"
	if card.IsCredit() {
		column = "limit_cents"
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE cards SET `+column+` = COALESCE(`+column+`, 0) + ? WHERE id = ?`, delta, card.ID)
	if err != nil {
		return fmt.Errorf("failed to update card %d: %w", card.ID, err)
	}
	return nil
}
