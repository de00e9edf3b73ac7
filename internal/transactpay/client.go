// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package transactpay

import (
	"bytes"
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/metrics"
)

// DefaultAPIURL is the production virtual account endpoint.
const DefaultAPIURL = "https://payment-api-service.transactpay.ai/payment/virtual-account/create"

const (
	breakerName    = "transactpay-api"
	maxBodyBytes   = 1 << 20
	defaultTimeout = 15 * time.Second
	defaultAddress = "Lagos, Nigeria"
)

// CustomerDetails is what the provider needs to open an account.
type CustomerDetails struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// VirtualAccount is the provider's answer. Fields are empty when the
// provider replied 2xx without a JSON body.
type VirtualAccount struct {
	Reference     string
	AccountNumber string
	BankName      string
	AccountName   string
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("transactpay API error %d: %s", e.StatusCode, e.Body)
}

// Client calls the TransactPay API.
type Client struct {
	apiURL    string
	publicKey string
	secretKey string
	key       *rsa.PublicKey
	http      *http.Client
	cb        *gobreaker.CircuitBreaker[*VirtualAccount]
	now       func() time.Time
}

// NewClient parses the encryption key and builds a client.
func NewClient(cfg *config.TransactPayConfig) (*Client, error) {
	key, err := ParsePublicKey(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	cb := gobreaker.NewCircuitBreaker[*VirtualAccount](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// 4xx means the request was bad, not that the provider is down.
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), stateValue(to))
		},
	})

	return &Client{
		apiURL:    apiURL,
		publicKey: cfg.PublicKey,
		secretKey: cfg.SecretKey,
		key:       key,
		http:      &http.Client{Timeout: timeout},
		cb:        cb,
		now:       time.Now,
	}, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 2
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 0
	}
}

type accountRequest struct {
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	DOB         string `json:"dob"`
	BVN         string `json:"bvn"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
	Title       string `json:"title"`
	State       string `json:"state"`
	LGA         string `json:"lga"`
	TxRef       string `json:"tx_ref"`
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type accountData struct {
	AccountNumber      string `json:"accountNumber"`
	AccountNumberSnake string `json:"account_number"`
	BankName           string `json:"bankName"`
	BankNameSnake      string `json:"bank_name"`
	AccountName        string `json:"accountName"`
	AccountNameSnake   string `json:"account_name"`
}

// SplitName returns the first word and the rest. A single word is used for both.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func (c *Client) newRequest(d CustomerDetails) accountRequest {
	first, last := SplitName(d.FullName)
	addr := strings.TrimSpace(d.Address)
	if addr == "" {
		addr = defaultAddress
	}
	return accountRequest{
		FirstName:   first,
		LastName:    last,
		Email:       d.Email,
		PhoneNumber: d.Phone,
		DOB:         "1990-01-01",
		BVN:         "22222222222",
		Gender:      "M",
		Address:     addr,
		Title:       "Mr",
		State:       "Lagos",
		LGA:         "Ikeja",
		TxRef:       fmt.Sprintf("REF-%d-%d", c.now().UnixMilli(), rand.IntN(1000)),
	}
}

// CreateVirtualAccount requests an account for the customer.
func (c *Client) CreateVirtualAccount(ctx context.Context, d CustomerDetails) (*VirtualAccount, error) {
	start := time.Now()
	acct, err := c.cb.Execute(func() (*VirtualAccount, error) {
		return c.createVirtualAccount(ctx, d)
	})
	metrics.RecordTransactPay("create_virtual_account", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return acct, nil
}

func (c *Client) createVirtualAccount(ctx context.Context, d CustomerDetails) (*VirtualAccount, error) {
	req := c.newRequest(d)
	encrypted, err := Encrypt(c.key, req)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(map[string]string{"data": encrypted})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.publicKey)
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transactpay request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read transactpay response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	acct := &VirtualAccount{Reference: req.TxRef}
	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		logging.Ctx(ctx).Warn().Int("status", resp.StatusCode).Msg("TransactPay returned a non-JSON success body")
		return acct, nil
	}
	var data accountData
	if len(parsed.Data) > 0 && json.Unmarshal(parsed.Data, &data) == nil {
		acct.AccountNumber = firstNonEmpty(data.AccountNumber, data.AccountNumberSnake)
		acct.BankName = firstNonEmpty(data.BankName, data.BankNameSnake)
		acct.AccountName = firstNonEmpty(data.AccountName, data.AccountNameSnake)
	}
	return acct, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
