package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/server"
	"github.com/GRBadas/Planilha-Django/internal/sheets"
	"github.com/GRBadas/Planilha-Django/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend serves the REST API over a fresh database.
func backend(t *testing.T) (*testutil.TestDB, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	srv := httptest.NewServer(server.New(db.Storage, server.DefaultConfig()).Handler())
	t.Cleanup(srv.Close)
	return db, srv.URL + "/api/"
}

// run executes the CLI against baseURL with stdin and returns everything it printed.
func run(t *testing.T, baseURL, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLANILHA_API_BASE_URL", baseURL)
	t.Setenv("PLANILHA_API_READ_ATTEMPTS", "1")
	t.Setenv("PLANILHA_LOGGING_LEVEL", "error")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func subcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"cards", "categories", "transactions", "spending", "dashboard", "serve", "import-ofx", "export", "auth", "version"} {
		assert.NotNil(t, subcommand(root, name), "missing %s command", name)
	}
	for _, name := range []string{"list", "add", "update", "delete"} {
		assert.NotNil(t, subcommand(subcommand(root, "transactions"), name), "missing transactions %s", name)
	}
	assert.NotNil(t, subcommand(subcommand(root, "auth"), "sheets"))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "http://localhost:1/api/", "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "planilha dev")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "http://localhost:1/api/", "", "version", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestDotEnvIsLoaded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLANILHA_TEST_DOTENV=loaded\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(func() { _ = os.Unsetenv("PLANILHA_TEST_DOTENV") })

	_, err = run(t, "http://localhost:1/api/", "", "version")
	require.NoError(t, err)
	assert.Equal(t, "loaded", os.Getenv("PLANILHA_TEST_DOTENV"))
	assert.Equal(t, "loaded", viper.GetString("test.dotenv"))
}

func TestCards_AddListUpdateDelete(t *testing.T) {
	db, url := backend(t)

	out, err := run(t, url, "", "cards", "add", "Visa", "--type", "credito", "--limit", "1500")
	require.NoError(t, err)
	assert.Contains(t, out, `Created card "Visa"`)

	out, err = run(t, url, "", "cards", "add", "Nubank", "--type", "debito")
	require.NoError(t, err)
	assert.Contains(t, out, `Created card "Nubank"`)

	out, err = run(t, url, "", "cards", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Visa")
	assert.Contains(t, out, "R$ 1.500,00")
	assert.Contains(t, out, "Nubank")

	cards, err := db.Storage.ListCards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)
	visa, ok := findByName(cards, "Visa")
	require.True(t, ok)

	_, err = run(t, url, "", "cards", "update", itoa(visa.ID), "--limit", "2000,50")
	require.NoError(t, err)
	updated, err := db.Storage.GetCard(context.Background(), visa.ID)
	require.NoError(t, err)
	assert.Equal(t, "2000.50", updated.Limit.String())
	assert.Equal(t, "Visa", updated.Name)

	out, err = run(t, url, "n\n", "cards", "delete", itoa(visa.ID))
	require.NoError(t, err)
	assert.Contains(t, out, `Delete card "Visa"?`)
	assert.Contains(t, out, "Nothing was deleted.")

	out, err = run(t, url, "", "cards", "delete", itoa(visa.ID), "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Card deleted.")
	cards, err = db.Storage.ListCards(context.Background())
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestCards_CreditNeedsLimit(t *testing.T) {
	db, url := backend(t)

	_, err := run(t, url, "", "cards", "add", "Visa", "--type", "credito")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credit cards need a limit greater than zero")

	cards, err := db.Storage.ListCards(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCategories_AddRenameDelete(t *testing.T) {
	db, url := backend(t)

	_, err := run(t, url, "", "categories", "add", "Lazer")
	require.NoError(t, err)

	_, err = run(t, url, "", "categories", "add", "Lazer")
	require.Error(t, err, "names are unique")

	categories, err := db.Storage.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	id := itoa(categories[0].ID)

	_, err = run(t, url, "", "categories", "rename", id, "Lazer e Cultura")
	require.NoError(t, err)

	out, err := run(t, url, "", "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lazer e Cultura")

	out, err = run(t, url, "s\n", "categories", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Category deleted.")
}

func TestTransactions_Lifecycle(t *testing.T) {
	db, url := backend(t)
	food := db.MustCreateCategory("Alimentação")
	debit := db.MustCreateCard(testutil.DebitCard("Nubank", "100"))

	out, err := run(t, url, "", "transactions", "add",
		"--description", "Padaria", "--amount", "12,50", "--date", "2024-05-01",
		"--card", itoa(debit.ID), "--category", itoa(food.ID))
	require.NoError(t, err)
	assert.Contains(t, out, `Recorded "Padaria"`)

	card, err := db.Storage.GetCard(context.Background(), debit.ID)
	require.NoError(t, err)
	assert.Equal(t, "87.50", card.Balance.String())

	out, err = run(t, url, "", "transactions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Padaria")
	assert.Contains(t, out, "01/05/2024")
	assert.Contains(t, out, "page 1 of 1")

	txs, _, err := db.Storage.ListTransactions(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	id := itoa(txs[0].ID)

	_, err = run(t, url, "", "transactions", "update", id, "--amount", "20")
	require.NoError(t, err)
	updated, err := db.Storage.GetTransaction(context.Background(), txs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", updated.Amount.String())
	assert.Equal(t, "Padaria", updated.Description)

	out, err = run(t, url, "", "spending")
	require.NoError(t, err)
	assert.Contains(t, out, "Alimentação")
	assert.Contains(t, out, "R$ 20,00")

	out, err = run(t, url, "", "transactions", "delete", id, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Transaction deleted.")
	card, err = db.Storage.GetCard(context.Background(), debit.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", card.Balance.String())
}

func TestTransactions_CreditInflowRejected(t *testing.T) {
	db, url := backend(t)
	food := db.MustCreateCategory("Estornos")
	credit := db.MustCreateCard(testutil.CreditCard("Visa", "1000"))

	_, err := run(t, url, "", "transactions", "add",
		"--description", "Estorno", "--amount", "50", "--type", "entrada",
		"--card", itoa(credit.ID), "--category", itoa(food.ID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credit cards do not accept inflows")

	_, count, err := db.Storage.ListTransactions(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTransactions_AddAsksForMissingFields(t *testing.T) {
	db, url := backend(t)
	db.MustCreateCategory("Mercado")
	db.MustCreateCategory("Lazer")

	out, err := run(t, url, "Feira\n54,30\nmercado\n", "transactions", "add")
	require.NoError(t, err)
	assert.Contains(t, out, "Description")
	assert.Contains(t, out, "Category (Lazer/Mercado)")

	txs, _, err := db.Storage.ListTransactions(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Feira", txs[0].Description)
	assert.Equal(t, "54.30", txs[0].Amount.String())
	assert.Equal(t, "Mercado", txs[0].CategoryName)
	assert.Equal(t, model.DirectionOut, txs[0].Direction)
}

func TestTransactions_ListPages(t *testing.T) {
	db, url := backend(t)
	food := db.MustCreateCategory("Alimentação")
	for i := 1; i <= 10; i++ {
		db.MustCreateTransaction(model.TransactionInput{
			Description: "Café " + itoa(i),
			Amount:      model.MustAmount("5"),
			Date:        mustDate(t, "2024-05-"+pad(i)),
			Direction:   model.DirectionOut,
			CategoryID:  food.ID,
		})
	}

	out, err := run(t, url, "", "transactions", "list", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Café 1")
	assert.Contains(t, out, "page 2 of 2, 10 transactions")
	assert.NotContains(t, out, "Café 10")
}

func TestUnreachableAPI(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:1/api/", "", "cards", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load cards")
}

func TestUnknownCard(t *testing.T) {
	_, url := backend(t)
	_, err := run(t, url, "", "cards", "delete", "42", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card 42")
}

func TestExport_RequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "")
	_, err := run(t, "http://localhost:1/api/", "", "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google sheets is not configured")
}

func TestExport_WritesReport(t *testing.T) {
	db, url := backend(t)
	food := db.MustCreateCategory("Alimentação")
	for i := 1; i <= 3; i++ {
		db.MustCreateTransaction(model.TransactionInput{
			Description: "Feira " + itoa(i),
			Amount:      model.MustAmount("10"),
			Date:        mustDate(t, "2024-05-0"+itoa(i)),
			Direction:   model.DirectionOut,
			CategoryID:  food.ID,
		})
	}

	recorder := &sheets.RecordingWriter{}
	previous := newReportWriter
	newReportWriter = func(context.Context, sheets.Config) (sheets.ReportWriter, error) { return recorder, nil }
	t.Cleanup(func() { newReportWriter = previous })
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "")
	t.Setenv("PLANILHA_SHEETS_SERVICE_ACCOUNT_PATH", "/keys/planilha.json")

	out, err := run(t, url, "", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 categories and 3 transactions.")

	reports := recorder.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "30.00", reports[0].TotalOut.String())
	assert.Equal(t, "Alimentação", reports[0].Spending[0].Category)
}

func findByName(cards []model.Card, name string) (model.Card, bool) {
	for _, c := range cards {
		if c.Name == name {
			return c, true
		}
	}
	return model.Card{}, false
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func pad(n int) string {
	return fmt.Sprintf("%02d", n)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}
