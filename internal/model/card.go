package model

import "strings"

// CardKind distinguishes credit from debit cards.
type CardKind string

const (
	// CardKindCredit cards carry a spending limit and never accept inflows.
	CardKindCredit CardKind = "credito"
	// CardKindDebit cards carry a balance.
	CardKindDebit CardKind = "debito"
)

// Valid reports whether k is a known card kind.
func (k CardKind) Valid() bool {
	return k == CardKindCredit || k == CardKindDebit
}

// Label returns a display name for the kind.
func (k CardKind) Label() string {
	switch k {
	case CardKindCredit:
		return "Credit"
	case CardKindDebit:
		return "Debit"
	default:
		return string(k)
	}
}

// Card is a payment instrument. Exactly one of Limit (credit) or Balance (debit) is set.
type Card struct {
	Limit   *Amount  `json:"limite"`
	Balance *Amount  `json:"saldo"`
	Name    string   `json:"nome"`
	Kind    CardKind `json:"tipo"`
	ID      int      `json:"id"`
}

// IsCredit reports whether the card is a credit card.
func (c Card) IsCredit() bool {
	return c.Kind == CardKindCredit
}

// Normalize clears the field that does not apply to the card's kind. A debit card without
// a balance starts at zero.
func (c Card) Normalize() Card {
	c.Name = strings.TrimSpace(c.Name)
	switch c.Kind {
	case CardKindCredit:
		c.Balance = nil
	case CardKindDebit:
		c.Limit = nil
		if c.Balance == nil {
			zero := Amount{}
			c.Balance = &zero
		}
	}
	return c
}

// Validate checks a normalized card.
func (c Card) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ValidationError{Field: "nome", Message: "card name is required"}
	}
	if len([]rune(name)) > MaxNameLength {
		return &ValidationError{Field: "nome", Message: "card name must be at most 100 characters"}
	}
	if !c.Kind.Valid() {
		return &ValidationError{Field: "tipo", Message: "card type must be credito or debito"}
	}
	if c.IsCredit() {
		if c.Limit == nil || !c.Limit.IsPositive() {
			return &ValidationError{Field: "limite", Message: "credit cards need a limit greater than zero"}
		}
		if c.Balance != nil {
			return &ValidationError{Field: "saldo", Message: "credit cards do not carry a balance"}
		}
		return nil
	}
	if c.Limit != nil {
		return &ValidationError{Field: "limite", Message: "debit cards do not carry a limit"}
	}
	return nil
}

// Available returns the limit for credit cards and the balance for debit cards.
func (c Card) Available() Amount {
	if c.IsCredit() && c.Limit != nil {
		return *c.Limit
	}
	if c.Balance != nil {
		return *c.Balance
	}
	return Amount{}
}

// FindCard returns the card with the given id.
func FindCard(cards []Card, id int) (Card, bool) {
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}
