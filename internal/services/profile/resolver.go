// Package profile reconciles local customers with gateway customer and
// payment profiles. The remote side can hold profiles the local store does
// not know about, so creation has to converge on existing records instead of
// failing on duplicates.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/domain/ports"
	"github.com/commercekit/authnet-gateway/internal/gateway"
	svcports "github.com/commercekit/authnet-gateway/internal/services/ports"
	"github.com/commercekit/authnet-gateway/pkg/timeutil"
)

// errStaleCustomerProfile signals that the cached customer-profile id was
// rejected by the gateway and has been cleared; resolution continues as if no
// id were cached.
var errStaleCustomerProfile = errors.New("cached customer profile id is stale")

// Resolver implements svcports.ProfileResolver.
type Resolver struct {
	gateway     ports.GatewayClient
	customers   ports.CustomerRepository
	providerKey string
	clock       timeutil.Clock
	logger      ports.Logger

	// Concurrent resolutions for the same customer+card converge on one
	// remote call instead of racing on the cached profile id.
	group singleflight.Group
}

var _ svcports.ProfileResolver = (*Resolver)(nil)

// NewResolver creates a profile resolver. providerKey identifies the gateway
// instance in the customer's remote-id associations.
func NewResolver(
	gatewayClient ports.GatewayClient,
	customers ports.CustomerRepository,
	providerKey string,
	clock timeutil.Clock,
	logger ports.Logger,
) *Resolver {
	return &Resolver{
		gateway:     gatewayClient,
		customers:   customers,
		providerKey: providerKey,
		clock:       clock,
		logger:      logger,
	}
}

// Resolve returns the remote payment-profile id for the given card, creating
// the customer profile and/or payment profile remotely as needed.
func (r *Resolver) Resolve(ctx context.Context, customer *domain.Customer, method *domain.PaymentMethod, card domain.CardInput) (string, error) {
	key := customer.ID + "|" + card.Last4() + "|" + card.ExpirationDate()
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.resolve(ctx, customer, method, card)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *Resolver) resolve(ctx context.Context, customer *domain.Customer, method *domain.PaymentMethod, card domain.CardInput) (string, error) {
	paymentProfile := buildPaymentProfile(method, card)

	if cachedID := customer.RemoteProfileID(r.providerKey); cachedID != "" {
		token, err := r.createPaymentProfile(ctx, customer, cachedID, paymentProfile)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, errStaleCustomerProfile) {
			return "", err
		}
		// The cached id has been cleared; create a fresh customer profile.
	}

	return r.createCustomerProfile(ctx, customer, paymentProfile)
}

// createPaymentProfile attaches a payment profile under an existing customer
// profile. On a stale customer-profile id the cached association is cleared
// and persisted before errStaleCustomerProfile is returned.
func (r *Resolver) createPaymentProfile(ctx context.Context, customer *domain.Customer, customerProfileID string, profile gateway.PaymentProfile) (string, error) {
	resp, err := r.gateway.CreateCustomerPaymentProfile(ctx, customerProfileID, profile)
	if err != nil {
		return "", err
	}

	c := gateway.Classify(resp)
	switch c.Outcome {
	case gateway.OutcomeSuccess:
		return resp.PaymentProfileID, nil

	case gateway.OutcomeDuplicateResource:
		token, ok := duplicatePaymentProfileID(resp, c)
		if !ok {
			return "", domain.NewHardDeclineError("duplicate payment profile reported without an existing id").
				WithGateway(c.Code, c.Text)
		}
		r.logger.Info("reusing existing payment profile",
			ports.String("customer_profile_id", customerProfileID),
			ports.String("payment_profile_id", token))
		return token, nil

	case gateway.OutcomeStaleReference:
		r.logger.Warn("cached customer profile unknown to gateway, clearing",
			ports.String("customer_id", customer.ID),
			ports.String("customer_profile_id", customerProfileID))
		customer.SetRemoteProfileID(r.providerKey, "")
		if err := r.customers.Save(ctx, customer); err != nil {
			return "", fmt.Errorf("clear stale customer profile id: %w", err)
		}
		return "", errStaleCustomerProfile

	default:
		return "", domain.NewHardDeclineError("%s", c.Text).WithGateway(c.Code, c.Text)
	}
}

// createCustomerProfile creates a payer record with the payment profile
// attached, falling back to the duplicate-extraction path when the gateway
// already holds a matching customer.
func (r *Resolver) createCustomerProfile(ctx context.Context, customer *domain.Customer, profile gateway.PaymentProfile) (string, error) {
	resp, err := r.gateway.CreateCustomerProfile(ctx, gateway.CustomerProfile{
		MerchantCustomerID: r.merchantCustomerID(customer),
		Email:              customer.Email,
		PaymentProfile:     profile,
	})
	if err != nil {
		return "", err
	}

	c := gateway.Classify(resp)
	switch c.Outcome {
	case gateway.OutcomeSuccess:
		if err := r.cacheCustomerProfileID(ctx, customer, resp.CustomerProfileID); err != nil {
			return "", err
		}
		return resp.PaymentProfileID, nil

	case gateway.OutcomeDuplicateResource:
		// The existing customer-profile id is only available inside the
		// message text.
		existingID, ok := gateway.ExtractNumericID(c.Text)
		if !ok {
			return "", domain.NewHardDeclineError("unable to create customer profile").
				WithGateway(c.Code, c.Text)
		}
		r.logger.Info("customer profile already exists remotely, attaching payment profile",
			ports.String("customer_id", customer.ID),
			ports.String("customer_profile_id", existingID))

		retryResp, err := r.gateway.CreateCustomerPaymentProfile(ctx, existingID, profile)
		if err != nil {
			return "", err
		}
		rc := gateway.Classify(retryResp)
		token := retryResp.PaymentProfileID
		if rc.Outcome == gateway.OutcomeDuplicateResource {
			token, _ = duplicatePaymentProfileID(retryResp, rc)
		} else if rc.Outcome != gateway.OutcomeSuccess {
			token = ""
		}
		if token == "" {
			return "", domain.NewHardDeclineError("unable to create payment profile for existing customer").
				WithGateway(rc.Code, rc.Text)
		}
		if err := r.cacheCustomerProfileID(ctx, customer, existingID); err != nil {
			return "", err
		}
		return token, nil

	default:
		return "", domain.NewHardDeclineError("unable to create customer profile").
			WithGateway(c.Code, c.Text)
	}
}

func (r *Resolver) cacheCustomerProfileID(ctx context.Context, customer *domain.Customer, id string) error {
	customer.SetRemoteProfileID(r.providerKey, id)
	if err := r.customers.Save(ctx, customer); err != nil {
		return fmt.Errorf("save customer profile id: %w", err)
	}
	return nil
}

// merchantCustomerID tags the remote profile with the customer's external
// identifier, or a synthetic owner-id + timestamp for guest checkouts so
// repeated guest orders never collide on the gateway's uniqueness check.
func (r *Resolver) merchantCustomerID(customer *domain.Customer) string {
	if customer.Authenticated && customer.ExternalID != "" {
		return customer.ExternalID
	}
	return fmt.Sprintf("%s_%d", customer.ID, r.clock.Now().Unix())
}

// duplicatePaymentProfileID recovers the existing payment-profile id from a
// duplicate-profile response: the gateway echoes it in the payload, or it is
// embedded in the message text.
func duplicatePaymentProfileID(resp *gateway.Response, c gateway.Classification) (string, bool) {
	if resp.PaymentProfileID != "" {
		return resp.PaymentProfileID, true
	}
	return gateway.ExtractNumericID(c.Text)
}

func buildPaymentProfile(method *domain.PaymentMethod, card domain.CardInput) gateway.PaymentProfile {
	addr := method.BillingAddress
	return gateway.PaymentProfile{
		CustomerType: "individual",
		BillTo: gateway.BillTo{
			FirstName: addr.FirstName,
			LastName:  addr.LastName,
			Company:   addr.Company,
			Address:   strings.TrimSpace(addr.Line1 + " " + addr.Line2),
			City:      addr.City,
			State:     addr.State,
			Zip:       addr.PostalCode,
			Country:   addr.Country,
		},
		Card: gateway.Card{
			Number:         card.Number,
			ExpirationDate: card.ExpirationDate(),
			Code:           card.SecurityCode,
		},
	}
}
