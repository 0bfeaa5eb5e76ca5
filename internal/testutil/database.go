// Package testutil provides test helpers for building seeded databases.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/storage"
)

// TestDB is a migrated database in a temporary directory.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated database that is removed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	food := db.MustCreateCategory("Food")
//	visa := db.MustCreateCard(testutil.CreditCard("Visa", "1000"))
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "planilha.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{Storage: store, t: t}
}

// MustCreateCategory seeds a category or fails the test.
func (db *TestDB) MustCreateCategory(name string) model.Category {
	db.t.Helper()
	cat, err := db.Storage.CreateCategory(context.Background(), name)
	if err != nil {
		db.t.Fatalf("failed to seed category %q: %v", name, err)
	}
	return *cat
}

// MustCreateCard seeds a card or fails the test.
func (db *TestDB) MustCreateCard(card model.Card) model.Card {
	db.t.Helper()
	created, err := db.Storage.CreateCard(context.Background(), card)
	if err != nil {
		db.t.Fatalf("failed to seed card %q: %v", card.Name, err)
	}
	return *created
}

// MustCreateTransaction seeds a transaction or fails the test.
func (db *TestDB) MustCreateTransaction(in model.TransactionInput) model.Transaction {
	db.t.Helper()
	created, err := db.Storage.CreateTransaction(context.Background(), in)
	if err != nil {
		db.t.Fatalf("failed to seed transaction %q: %v", in.Description, err)
	}
	return *created
}

// CreditCard builds a credit card with the given limit.
func CreditCard(name, limit string) model.Card {
	l := model.MustAmount(limit)
	return model.Card{Name: name, Kind: model.CardKindCredit, Limit: &l}
}

// DebitCard builds a debit card with the given balance.
func DebitCard(name, balance string) model.Card {
	b := model.MustAmount(balance)
	return model.Card{Name: name, Kind: model.CardKindDebit, Balance: &b}
}
