package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"neurogrid-backend/internal/config"

	"github.com/shopspring/decimal"
)

const (
	GatewayPaymentPaid   = "paid"
	GatewayPaymentUnpaid = "unpaid"

	GatewaySessionOpen     = "open"
	GatewaySessionComplete = "complete"
	GatewaySessionExpired  = "expired"
)

type PaymentGateway interface {
	CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error)
	GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
}

type CreateSessionRequest struct {
	Amount     float64
	Currency   string
	ItemName   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type Session struct {
	SessionID   string
	RedirectURL string
}

type SessionStatus struct {
	SessionID     string
	Status        string // open, complete, expired
	PaymentStatus string // paid, unpaid, no_payment_required
	AmountTotal   float64
	Currency      string
	Metadata      map[string]string
}

type stripeClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
}

type stripeCheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

type stripeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewStripeClient(cfg *config.Stripe) PaymentGateway {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseApiURL: strings.TrimRight(cfg.BaseApiURL, "/"),
		secretKey:  cfg.SecretKey,
	}
}

func (c *stripeClientImpl) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(toMinorUnits(req.Amount), 10))
	form.Set("line_items[0][price_data][product_data][name]", req.ItemName)

	keys := make([]string, 0, len(req.Metadata))
	for k := range req.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		form.Set("metadata["+k+"]", req.Metadata[k])
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/checkout/sessions",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result stripeCheckoutSession
	if err := c.do(httpReq, &result); err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}
	if result.ID == "" {
		return nil, fmt.Errorf("stripe create checkout session: empty session id")
	}

	return &Session{
		SessionID:   result.ID,
		RedirectURL: result.URL,
	}, nil
}

func (c *stripeClientImpl) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/checkout/sessions/%s", c.baseApiURL, url.PathEscape(sessionID)),
		nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	var result stripeCheckoutSession
	if err := c.do(httpReq, &result); err != nil {
		return nil, fmt.Errorf("stripe get checkout session: %w", err)
	}

	return &SessionStatus{
		SessionID:     result.ID,
		Status:        result.Status,
		PaymentStatus: result.PaymentStatus,
		AmountTotal:   fromMinorUnits(result.AmountTotal),
		Currency:      result.Currency,
		Metadata:      result.Metadata,
	}, nil
}

func (c *stripeClientImpl) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var stripeErr stripeErrorResponse
		if json.Unmarshal(body, &stripeErr) == nil && stripeErr.Error.Message != "" {
			return fmt.Errorf("stripe error %d (%s): %s", resp.StatusCode, stripeErr.Error.Type, stripeErr.Error.Message)
		}
		return fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode stripe response: %w", err)
	}
	return nil
}

// toMinorUnits converts 299.0 to 29900 without float rounding drift.
func toMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromMinorUnits(amount int64) float64 {
	f, _ := decimal.New(amount, -2).Float64()
	return f
}
