// Package sheets exports spending reports and the transaction ledger to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/common"
)

// DefaultSpreadsheetName titles spreadsheets created by an export.
const DefaultSpreadsheetName = "Planilha Financeira"

// ErrNoCredentials means neither a refresh token nor a service account key is configured.
var ErrNoCredentials = errors.New("no google credentials configured; run `planilha auth sheets` or set sheets.service_account_path")

// Credentials identifies how the writer authenticates with Google.
type Credentials int

const (
	CredentialsNone Credentials = iota
	CredentialsRefreshToken
	CredentialsServiceAccount
)

func (c Credentials) String() string {
	switch c {
	case CredentialsRefreshToken:
		return "oauth2 refresh token"
	case CredentialsServiceAccount:
		return "service account"
	default:
		return "none"
	}
}

// Config describes where a report goes and how to reach it.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TokenFile          string

	// TimeZone is the spreadsheet locale zone; ledger dates are plain calendar days.
	TimeZone string
	// RowsPerRequest caps the rows sent in one values.update call.
	RowsPerRequest int
	Attempts       int
	Backoff        time.Duration
	// Format applies currency and header formatting after writing.
	Format bool
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName: DefaultSpreadsheetName,
		TimeZone:        "America/Sao_Paulo",
		RowsPerRequest:  500,
		Attempts:        3,
		Backoff:         time.Second,
		Format:          true,
	}
}

// Credentials reports which authentication mode the config selects. Refresh
// tokens need the client pair that issued them.
func (c Config) Credentials() Credentials {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	switch {
	case oauth && c.ServiceAccountPath != "":
		return CredentialsNone
	case oauth:
		return CredentialsRefreshToken
	case c.ServiceAccountPath != "":
		return CredentialsServiceAccount
	default:
		return CredentialsNone
	}
}

// Validate rejects configs the writer cannot run with. Errors wrap
// common.ErrMissingConfig or common.ErrInvalidConfig.
func (c Config) Validate() error {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	if oauth && c.ServiceAccountPath != "" {
		return fmt.Errorf("%w: both a refresh token and a service account are configured, keep one", common.ErrInvalidConfig)
	}
	if c.Credentials() == CredentialsNone {
		return fmt.Errorf("%w: %w", common.ErrMissingConfig, ErrNoCredentials)
	}
	if c.RowsPerRequest <= 0 {
		return fmt.Errorf("%w: rows per request must be positive", common.ErrInvalidConfig)
	}
	if c.Attempts < 0 || c.Backoff < 0 {
		return fmt.Errorf("%w: retry settings cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}
