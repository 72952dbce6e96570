package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicore/portal-api/internal/config"
	"github.com/medicore/portal-api/internal/model"
)

// Gateway creates hosted checkout links for bills. The gateway redirects the
// payer back to the configured return/cancel URLs with the callback
// parameters handled in callback.go.
type Gateway interface {
	CreatePaymentLink(ctx context.Context, bill *model.Bill, description string) (string, error)
}

type gatewayClient struct {
	baseURL   string
	apiKey    string
	returnURL string
	cancelURL string
	http      *http.Client
	logger    *zerolog.Logger
}

func NewGateway(cfg config.GatewayConfig, logger *zerolog.Logger) Gateway {
	return &gatewayClient{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		returnURL: cfg.ReturnURL,
		cancelURL: cfg.CancelURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

type createLinkRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
}

type createLinkResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data struct {
		CheckoutURL string `json:"checkoutUrl"`
	} `json:"data"`
}

func (g *gatewayClient) CreatePaymentLink(ctx context.Context, bill *model.Bill, description string) (string, error) {
	payload, err := json.Marshal(createLinkRequest{
		OrderCode:   bill.OrderCode,
		Amount:      bill.Amount,
		Description: description,
		ReturnURL:   g.returnURL,
		CancelURL:   g.cancelURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v2/payment-requests", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.apiKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Error().
			Int("status", resp.StatusCode).
			Int64("order_code", bill.OrderCode).
			Str("body", string(body)).
			Msg("payment gateway rejected request")
		return "", fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var linkResp createLinkResponse
	if err := json.Unmarshal(body, &linkResp); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if linkResp.Data.CheckoutURL == "" {
		return "", fmt.Errorf("gateway response missing checkout URL (code %s: %s)", linkResp.Code, linkResp.Desc)
	}

	return linkResp.Data.CheckoutURL, nil
}
