package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used on the wire.
const DateLayout = "2006-01-02"

// Direction is the flow of money for a transaction.
type Direction string

const (
	// DirectionIn is money received.
	DirectionIn Direction = "entrada"
	// DirectionOut is money spent.
	DirectionOut Direction = "saida"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Label returns a display name for the direction.
func (d Direction) Label() string {
	switch d {
	case DirectionIn:
		return "In"
	case DirectionOut:
		return "Out"
	default:
		return string(d)
	}
}

// Transaction is a single money movement as returned by the API.
type Transaction struct {
	Date         time.Time
	CardID       *int
	Description  string
	CardName     string
	CategoryName string
	Direction    Direction
	Amount       Amount
	ID           int
	CategoryID   int
}

// Input returns the write payload that reproduces t.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Description: t.Description,
		Amount:      t.Amount,
		Date:        t.Date,
		Direction:   t.Direction,
		CardID:      t.CardID,
		CategoryID:  t.CategoryID,
	}
}

// SignedAmount is negative for outflows.
func (t Transaction) SignedAmount() Amount {
	if t.Direction == DirectionOut {
		return t.Amount.Neg()
	}
	return t.Amount
}

type transactionJSON struct {
	Amount       Amount          `json:"valor"`
	Card         json.RawMessage `json:"cartao"`
	Category     json.RawMessage `json:"categoria"`
	Description  string          `json:"descricao"`
	Date         string          `json:"data"`
	Direction    Direction       `json:"tipo"`
	CardName     string          `json:"cartao_nome,omitempty"`
	CategoryName string          `json:"categoria_nome,omitempty"`
	ID           int             `json:"id"`
}

// MarshalJSON encodes foreign keys as plain ids alongside their display names.
func (t Transaction) MarshalJSON() ([]byte, error) {
	card := json.RawMessage("null")
	if t.CardID != nil {
		card = json.RawMessage(strconv.Itoa(*t.CardID))
	}
	return json.Marshal(transactionJSON{
		ID:           t.ID,
		Description:  t.Description,
		Amount:       t.Amount,
		Date:         FormatDate(t.Date),
		Direction:    t.Direction,
		Card:         card,
		Category:     json.RawMessage(strconv.Itoa(t.CategoryID)),
		CardName:     t.CardName,
		CategoryName: t.CategoryName,
	})
}

// UnmarshalJSON accepts cartao and categoria as ids, numeric strings, null or nested
// objects carrying id and nome.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	date, err := ParseDate(raw.Date)
	if err != nil {
		return fmt.Errorf("transaction %d: %w", raw.ID, err)
	}

	cardID, cardName, err := decodeRef(raw.Card)
	if err != nil {
		return fmt.Errorf("transaction %d cartao: %w", raw.ID, err)
	}
	categoryID, categoryName, err := decodeRef(raw.Category)
	if err != nil {
		return fmt.Errorf("transaction %d categoria: %w", raw.ID, err)
	}

	*t = Transaction{
		ID:           raw.ID,
		Description:  raw.Description,
		Amount:       raw.Amount,
		Date:         date,
		Direction:    raw.Direction,
		CardID:       cardID,
		CardName:     firstNonEmpty(raw.CardName, cardName),
		CategoryName: firstNonEmpty(raw.CategoryName, categoryName),
	}
	if categoryID != nil {
		t.CategoryID = *categoryID
	}
	return nil
}

func decodeRef(raw json.RawMessage) (*int, string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, "", nil
	}

	switch raw[0] {
	case '{':
		var nested struct {
			Name string `json:"nome"`
			ID   int    `json:"id"`
		}
		if err := json.Unmarshal(raw, &nested); err != nil {
			return nil, "", err
		}
		return &nested.ID, nested.Name, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, "", err
		}
		if s == "" {
			return nil, "", nil
		}
		id, err := strconv.Atoi(s)
		if err != nil {
			return nil, "", fmt.Errorf("invalid reference %q", s)
		}
		return &id, "", nil
	default:
		var id int
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, "", err
		}
		return &id, "", nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// TransactionInput is the payload for creating or updating a transaction.
type TransactionInput struct {
	Date        time.Time
	CardID      *int
	Description string
	Direction   Direction
	Amount      Amount
	CategoryID  int
}

// MarshalJSON encodes the input with the wire field names.
func (in TransactionInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount      Amount    `json:"valor"`
		CardID      *int      `json:"cartao"`
		Description string    `json:"descricao"`
		Date        string    `json:"data"`
		Direction   Direction `json:"tipo"`
		CategoryID  int       `json:"categoria"`
	}{
		Description: in.Description,
		Amount:      in.Amount,
		Date:        FormatDate(in.Date),
		Direction:   in.Direction,
		CardID:      in.CardID,
		CategoryID:  in.CategoryID,
	})
}

// ParseDate parses a calendar date. Timestamps with a 'T' or space separator are
// truncated to their date part; any other trailing text is rejected.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) && (s[len(DateLayout)] == 'T' || s[len(DateLayout)] == ' ') {
		s = s[:len(DateLayout)]
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// FormatDate renders a calendar date, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
