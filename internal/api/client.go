// Package api provides the HTTP client for the card, category and transaction REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/service"
)

const (
	cardsPath        = "cartoes/"
	categoriesPath   = "categorias/"
	transactionsPath = "transacoes/"
	spendingPath     = "transacoes/gastos_por_categoria/"

	maxErrorBody = 64 << 10
)

// Config holds connection settings for the API client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	ReadRetry service.RetryOptions
}

// DefaultConfig points at a local development server.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000/api/",
		ReadRetry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2,
		},
	}
}

// Client talks to the REST API. It implements service.API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	readRetry  service.RetryOptions
}

var _ service.API = (*Client)(nil)

// NewClient creates a client for cfg. A nil httpClient gets one honoring cfg.Timeout;
// a zero timeout leaves requests bounded only by their context.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: api base url", common.ErrMissingConfig)
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: api base url %q", common.ErrInvalidConfig, cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.ReadRetry.MaxAttempts <= 0 {
		cfg.ReadRetry.MaxAttempts = 1
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		readRetry:  cfg.ReadRetry,
	}, nil
}

// ListCards fetches every card.
func (c *Client) ListCards(ctx context.Context) ([]model.Card, error) {
	var cards []model.Card
	if err := c.get(ctx, cardsPath, nil, &cards); err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	return cards, nil
}

// CreateCard creates a card and returns the stored representation.
func (c *Client) CreateCard(ctx context.Context, card model.Card) (*model.Card, error) {
	var created model.Card
	if err := c.do(ctx, http.MethodPost, cardsPath, nil, card, &created); err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}
	return &created, nil
}

// UpdateCard replaces card id.
func (c *Client) UpdateCard(ctx context.Context, id int, card model.Card) (*model.Card, error) {
	card.ID = id
	var updated model.Card
	if err := c.do(ctx, http.MethodPut, itemPath(cardsPath, id), nil, card, &updated); err != nil {
		return nil, fmt.Errorf("updating card %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteCard removes card id.
func (c *Client) DeleteCard(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(cardsPath, id), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting card %d: %w", id, err)
	}
	return nil
}

// ListCategories fetches every category.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.get(ctx, categoriesPath, nil, &categories); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, category model.Category) (*model.Category, error) {
	var created model.Category
	if err := c.do(ctx, http.MethodPost, categoriesPath, nil, category, &created); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return &created, nil
}

// UpdateCategory renames category id.
func (c *Client) UpdateCategory(ctx context.Context, id int, category model.Category) (*model.Category, error) {
	category.ID = id
	var updated model.Category
	if err := c.do(ctx, http.MethodPut, itemPath(categoriesPath, id), nil, category, &updated); err != nil {
		return nil, fmt.Errorf("updating category %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteCategory removes category id.
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(categoriesPath, id), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	return nil
}

// ListTransactions fetches one page of transactions, newest first. The response may be a
// {count, results} page or a bare array, in which case count is its length.
func (c *Client) ListTransactions(ctx context.Context, page, pageSize int) (*service.TransactionPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}

	var raw json.RawMessage
	if err := c.get(ctx, transactionsPath, query, &raw); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	result, err := decodeTransactionPage(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}
	return result, nil
}

func decodeTransactionPage(raw json.RawMessage) (*service.TransactionPage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var items []model.Transaction
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return &service.TransactionPage{Results: items, Count: len(items)}, nil
	}

	var page service.TransactionPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []model.Transaction{}
	}
	return &page, nil
}

// CreateTransaction records a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, input model.TransactionInput) (*model.Transaction, error) {
	var created model.Transaction
	if err := c.do(ctx, http.MethodPost, transactionsPath, nil, input, &created); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	return &created, nil
}

// UpdateTransaction replaces transaction id.
func (c *Client) UpdateTransaction(ctx context.Context, id int, input model.TransactionInput) (*model.Transaction, error) {
	var updated model.Transaction
	if err := c.do(ctx, http.MethodPut, itemPath(transactionsPath, id), nil, input, &updated); err != nil {
		return nil, fmt.Errorf("updating transaction %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteTransaction removes transaction id.
func (c *Client) DeleteTransaction(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(transactionsPath, id), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	return nil
}

// SpendingByCategory fetches the outflow totals per category.
func (c *Client) SpendingByCategory(ctx context.Context) ([]model.CategoryTotal, error) {
	var totals []model.CategoryTotal
	if err := c.get(ctx, spendingPath, nil, &totals); err != nil {
		return nil, fmt.Errorf("fetching spending by category: %w", err)
	}
	return totals, nil
}

func itemPath(collection string, id int) string {
	return collection + strconv.Itoa(id) + "/"
}

// get performs a read with the configured retry policy. Writes are never retried.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return common.WithRetry(ctx, func() error {
		err := c.do(ctx, http.MethodGet, path, query, nil, out)
		if err != nil && !retryable(err) {
			return common.Permanent(err)
		}
		return err
	}, c.readRetry)
}

func retryable(err error) bool {
	if common.IsRetryable(err) {
		return true
	}
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && !errors.Is(err, context.Canceled)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	// JoinPath drops the trailing slash the API requires.
	if !strings.HasSuffix(endpoint.Path, "/") {
		endpoint.Path += "/"
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail, message := parseErrorBody(data)
		return &common.APIError{
			Method:     method,
			Path:       endpoint.Path,
			StatusCode: resp.StatusCode,
			Detail:     detail,
			Message:    message,
			Body:       string(data),
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// retryAfter reads a Retry-After header given in seconds. HTTP dates are ignored.
func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// parseErrorBody extracts a human-readable message from an error payload. It understands
// {"detail": ...}, {"message": ...}, {"error": ...} and field maps like {"nome": ["..."]}.
func parseErrorBody(data []byte) (detail, message string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", ""
	}

	detail = firstText(fields["detail"])
	message = firstText(fields["message"])
	if message == "" {
		message = firstText(fields["error"])
	}
	if message == "" {
		message = firstText(fields["non_field_errors"])
	}
	if detail != "" || message != "" {
		return detail, message
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if text := firstText(fields[k]); text != "" {
			return "", k + ": " + text
		}
	}
	return "", ""
}

func firstText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}
