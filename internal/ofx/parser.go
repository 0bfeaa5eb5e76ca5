// Package ofx reads OFX/QFX bank and credit-card statements into transaction drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/aclindsa/ofxgo"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Draft is one statement line not yet assigned a category.
type Draft struct {
	Date        time.Time
	FitID       string
	AccountID   string
	Description string
	Direction   model.Direction
	Amount      model.Amount
	// CreditCard is set for lines from a credit card statement.
	CreditCard bool
}

// Values turns the draft into transaction form values for categoryID and an optional card.
func (d Draft) Values(categoryID int, cardID *int) engine.FormValues {
	v := engine.FormValues{
		Description: d.Description,
		Amount:      d.Amount.String(),
		Date:        model.FormatDate(d.Date),
		Direction:   string(d.Direction),
		CategoryID:  strconv.Itoa(categoryID),
	}
	if cardID != nil {
		v.CardID = strconv.Itoa(*cardID)
	}
	return v
}

func (d Draft) key() string {
	if d.FitID != "" {
		return d.AccountID + "|" + d.FitID
	}
	return strings.Join([]string{d.AccountID, model.FormatDate(d.Date), d.Amount.String(), string(d.Direction), d.Description}, "|")
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Close SGML opening tags that end a line without '>'
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file into drafts in statement order. Zero-amount lines are
// dropped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Draft, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var drafts []Draft
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			drafts = append(drafts, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID), false)...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			drafts = append(drafts, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID), true)...)
		}
	}

	slog.InfoContext(ctx, "Parsed OFX file",
		"total_transactions", len(drafts),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return drafts, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID string, creditCard bool) []Draft {
	if list == nil {
		return nil
	}

	drafts := make([]Draft, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		d, err := p.convertTransaction(ofxTx, accountID, creditCard)
		if err != nil {
			slog.Warn("Skipping OFX transaction", "fitid", string(ofxTx.FiTID), "error", err)
			continue
		}
		if d.Amount.IsZero() {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts
}

// convertTransaction maps an OFX line to a draft. OFX signs debits negative; the sign
// becomes the direction and the amount is kept positive.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string, creditCard bool) (Draft, error) {
	amount, err := model.ParseAmount(ofxTx.TrnAmt.Rat.FloatString(2))
	if err != nil {
		return Draft{}, fmt.Errorf("invalid amount: %w", err)
	}

	direction := model.DirectionIn
	if amount.Decimal().IsNegative() {
		direction = model.DirectionOut
		amount = amount.Neg()
	}

	posted := ofxTx.DtPosted.Time
	return Draft{
		FitID:       string(ofxTx.FiTID),
		AccountID:   accountID,
		Date:        time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC),
		Description: p.extractMerchantName(ofxTx),
		Direction:   direction,
		Amount:      amount,
		CreditCard:  creditCard,
	}, nil
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && (isGenericDescription(name) || strings.TrimSpace(name) == "") {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
		"COMPRA CARTAO ",
		"COMPRA COM CARTAO ",
		"PIX ENVIADO ",
		"PIX RECEBIDO ",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "DD/MM " date
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
		"PIX",
		"TED",
		"DOC",
	}

	upperName := strings.ToUpper(strings.TrimSpace(name))
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}

// Dedupe drops repeated lines, keeping the first. Lines match on account and FITID, or
// on their content when the bank omits FITID.
func Dedupe(drafts []Draft) []Draft {
	seen := make(map[string]bool, len(drafts))
	out := make([]Draft, 0, len(drafts))
	for _, d := range drafts {
		k := d.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}

// GetAccounts extracts unique account IDs from the OFX file.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	add := func(id ofxgo.String) {
		if id != "" && !seen[string(id)] {
			seen[string(id)] = true
			accounts = append(accounts, string(id))
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(stmt.BankAcctFrom.AcctID)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(stmt.CCAcctFrom.AcctID)
		}
	}

	return accounts, nil
}
