// Package authnet is the HTTP adapter for the Authorize.Net JSON API. It
// implements ports.GatewayClient: requests are authenticated with the
// merchant credentials bound at construction, responses are normalized into
// the wire-neutral gateway model, and every transport-level failure is
// surfaced as an infrastructure error, never as a decline.
package authnet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/domain/ports"
	"github.com/commercekit/authnet-gateway/internal/gateway"
	"github.com/commercekit/authnet-gateway/pkg/observability"
)

const (
	sandboxEndpoint    = "https://apitest.authorize.net/xml/v1/request.api"
	productionEndpoint = "https://api.authorize.net/xml/v1/request.api"

	defaultTimeout = 30 * time.Second
)

// Config holds the gateway credentials and transport settings.
type Config struct {
	// APILoginID and TransactionKey are the merchant API credentials.
	APILoginID     string
	TransactionKey string

	// Sandbox selects the test endpoint.
	Sandbox bool

	// Endpoint overrides the derived endpoint URL. Used by tests.
	Endpoint string

	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

// Client implements ports.GatewayClient against the Authorize.Net JSON API.
type Client struct {
	config     Config
	endpoint   string
	httpClient ports.HTTPClient
	limiter    *rate.Limiter
	logger     ports.Logger
}

var _ ports.GatewayClient = (*Client)(nil)

// NewClient creates a gateway client with an injected HTTP transport.
func NewClient(cfg Config, httpClient ports.HTTPClient, logger ports.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		if cfg.Sandbox {
			endpoint = sandboxEndpoint
		} else {
			endpoint = productionEndpoint
		}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		config:     cfg,
		endpoint:   endpoint,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// NewClientWithDefaults creates a gateway client with a default HTTP client.
func NewClientWithDefaults(cfg Config, logger ports.Logger) *Client {
	return NewClient(cfg, &http.Client{Timeout: defaultTimeout}, logger)
}

func (c *Client) auth() merchantAuthentication {
	return merchantAuthentication{
		Name:           c.config.APILoginID,
		TransactionKey: c.config.TransactionKey,
	}
}

// AuthenticateTest verifies the configured credentials.
func (c *Client) AuthenticateTest(ctx context.Context) (*gateway.Response, error) {
	var resp authenticateTestResponse
	env := authenticateTestEnvelope{
		AuthenticateTestRequest: authenticateTestRequest{MerchantAuthentication: c.auth()},
	}
	if err := c.send(ctx, "authenticateTest", env, &resp); err != nil {
		return nil, err
	}
	return normalizeResponse(resp.Messages), nil
}

// CreateCustomerProfile creates a payer record with one attached payment
// profile.
func (c *Client) CreateCustomerProfile(ctx context.Context, profile gateway.CustomerProfile) (*gateway.Response, error) {
	var resp createCustomerProfileResponse
	env := createCustomerProfileEnvelope{
		CreateCustomerProfileRequest: createCustomerProfileRequest{
			MerchantAuthentication: c.auth(),
			Profile: customerProfilePayload{
				MerchantCustomerID: profile.MerchantCustomerID,
				Email:              profile.Email,
				PaymentProfiles:    []paymentProfilePayload{toPaymentProfilePayload(profile.PaymentProfile)},
			},
		},
	}
	if err := c.send(ctx, "createCustomerProfile", env, &resp); err != nil {
		return nil, err
	}

	normalized := normalizeResponse(resp.Messages)
	normalized.CustomerProfileID = resp.CustomerProfileID
	if len(resp.CustomerPaymentProfileIDList) > 0 {
		normalized.PaymentProfileID = resp.CustomerPaymentProfileIDList[0]
	}
	return normalized, nil
}

// CreateCustomerPaymentProfile attaches a payment profile to an existing
// customer profile.
func (c *Client) CreateCustomerPaymentProfile(ctx context.Context, customerProfileID string, profile gateway.PaymentProfile) (*gateway.Response, error) {
	var resp createCustomerPaymentProfileResponse
	env := createCustomerPaymentProfileEnvelope{
		CreateCustomerPaymentProfileRequest: createCustomerPaymentProfileRequest{
			MerchantAuthentication: c.auth(),
			CustomerProfileID:      customerProfileID,
			PaymentProfile:         toPaymentProfilePayload(profile),
		},
	}
	if err := c.send(ctx, "createCustomerPaymentProfile", env, &resp); err != nil {
		return nil, err
	}

	normalized := normalizeResponse(resp.Messages)
	normalized.CustomerProfileID = resp.CustomerProfileID
	normalized.PaymentProfileID = resp.CustomerPaymentProfileID
	return normalized, nil
}

// CreateTransaction runs an auth, capture, void, or refund.
func (c *Client) CreateTransaction(ctx context.Context, req gateway.TransactionRequest) (*gateway.Response, error) {
	payload := transactionRequestPayload{
		TransactionType: string(req.Type),
		Amount:          req.Amount.StringFixed(2),
		RefTransID:      req.RefTransactionID,
		CustomerIP:      req.CustomerIP,
	}
	if req.Profile != nil {
		payload.Profile = &profileRefPayload{
			CustomerProfileID: req.Profile.CustomerProfileID,
			PaymentProfile:    paymentProfileRefPayload{PaymentProfileID: req.Profile.PaymentProfileID},
		}
	}
	if req.Card != nil {
		payload.Payment = &paymentPayload{CreditCard: &creditCardPayload{
			CardNumber:     req.Card.Number,
			ExpirationDate: req.Card.ExpirationDate,
			CardCode:       req.Card.Code,
		}}
	}
	if req.InvoiceNumber != "" {
		payload.Order = &orderPayload{InvoiceNumber: req.InvoiceNumber}
	}

	var resp createTransactionResponse
	env := createTransactionEnvelope{
		CreateTransactionRequest: createTransactionRequest{
			MerchantAuthentication: c.auth(),
			TransactionRequest:     payload,
		},
	}
	if err := c.send(ctx, "createTransaction", env, &resp); err != nil {
		return nil, err
	}

	normalized := normalizeResponse(resp.Messages)
	normalized.TransactionID = resp.TransactionResponse.TransID
	normalized.AuthCode = resp.TransactionResponse.AuthCode
	normalized.AVSResultCode = resp.TransactionResponse.AvsResultCode
	for _, e := range resp.TransactionResponse.Errors {
		normalized.Errors = append(normalized.Errors, gateway.TransactionError{
			Code: e.ErrorCode,
			Text: e.ErrorText,
		})
	}
	return normalized, nil
}

// DeleteCustomerPaymentProfile removes a stored payment profile.
func (c *Client) DeleteCustomerPaymentProfile(ctx context.Context, customerProfileID, paymentProfileID string) (*gateway.Response, error) {
	var resp deleteCustomerPaymentProfileResponse
	env := deleteCustomerPaymentProfileEnvelope{
		DeleteCustomerPaymentProfileRequest: deleteCustomerPaymentProfileRequest{
			MerchantAuthentication:   c.auth(),
			CustomerProfileID:        customerProfileID,
			CustomerPaymentProfileID: paymentProfileID,
		},
	}
	if err := c.send(ctx, "deleteCustomerPaymentProfile", env, &resp); err != nil {
		return nil, err
	}
	return normalizeResponse(resp.Messages), nil
}

// send posts the request envelope and decodes the response body. All failure
// modes here are infrastructure errors by definition.
func (c *Client) send(ctx context.Context, operation string, envelope interface{}, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.NewInfrastructureError("gateway rate limit wait aborted", err)
		}
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.ObserveGatewayRequest(operation, "transport_error", time.Since(start))
		return domain.NewInfrastructureError("failed to reach payment gateway", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		observability.ObserveGatewayRequest(operation, "transport_error", time.Since(start))
		return domain.NewInfrastructureError("failed to read gateway response", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		observability.ObserveGatewayRequest(operation, fmt.Sprintf("http_%d", httpResp.StatusCode), time.Since(start))
		return domain.NewInfrastructureError(
			fmt.Sprintf("gateway returned HTTP %d", httpResp.StatusCode), nil)
	}

	// The endpoint prefixes responses with a UTF-8 BOM.
	respBody = bytes.TrimPrefix(respBody, []byte("\xef\xbb\xbf"))

	if err := json.Unmarshal(respBody, out); err != nil {
		observability.ObserveGatewayRequest(operation, "malformed_response", time.Since(start))
		return domain.NewInfrastructureError("malformed gateway response", err)
	}

	observability.ObserveGatewayRequest(operation, "ok", time.Since(start))
	c.logger.Debug("gateway request completed",
		ports.String("operation", operation),
		ports.Int("status", httpResp.StatusCode))
	return nil
}

func normalizeResponse(msgs messagesPayload) *gateway.Response {
	resp := &gateway.Response{ResultCode: gateway.ResultCode(msgs.ResultCode)}
	for _, m := range msgs.Message {
		resp.Messages = append(resp.Messages, gateway.Message{Code: m.Code, Text: m.Text})
	}
	return resp
}

func toPaymentProfilePayload(p gateway.PaymentProfile) paymentProfilePayload {
	payload := paymentProfilePayload{
		CustomerType: p.CustomerType,
		Payment: paymentPayload{CreditCard: &creditCardPayload{
			CardNumber:     p.Card.Number,
			ExpirationDate: p.Card.ExpirationDate,
			CardCode:       p.Card.Code,
		}},
	}
	if p.BillTo != (gateway.BillTo{}) {
		payload.BillTo = &billToPayload{
			FirstName: p.BillTo.FirstName,
			LastName:  p.BillTo.LastName,
			Company:   p.BillTo.Company,
			Address:   p.BillTo.Address,
			City:      p.BillTo.City,
			State:     p.BillTo.State,
			Zip:       p.BillTo.Zip,
			Country:   p.BillTo.Country,
		}
	}
	return payload
}
