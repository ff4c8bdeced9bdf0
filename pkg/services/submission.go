package services

import (
	"context"
	"errors"
	"net/url"

	"go.uber.org/zap"

	"subscription-server/pkg/clients/hubspot"
	"subscription-server/pkg/metrics"
	"subscription-server/pkg/models"
	"subscription-server/pkg/payments"
	"subscription-server/pkg/utils"
)

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrPaymentLinkNotFound = errors.New("payment link not found")
)

// SubscriptionService turns a form submission into a payment redirect URL.
type SubscriptionService interface {
	Subscribe(ctx context.Context, req models.SubscriptionRequest) (string, error)
}

type subscriptionServiceImpl struct {
	hubspotClient hubspot.Client
	links         *payments.Table
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	hubspotClient hubspot.Client,
	links *payments.Table,
	m *metrics.Metrics,
	logger *zap.Logger,
) SubscriptionService {
	return &subscriptionServiceImpl{
		hubspotClient: hubspotClient,
		links:         links,
		metrics:       m,
		logger:        logger,
	}
}

// Subscribe validates the submission, notifies the CRM and resolves the
// payment link. It returns ErrMissingFields or ErrPaymentLinkNotFound for the
// two expected failures. A CRM failure is never returned.
func (s *subscriptionServiceImpl) Subscribe(ctx context.Context, req models.SubscriptionRequest) (string, error) {
	if !HasRequiredFields(req) {
		return "", ErrMissingFields
	}

	log := s.logger.With(zap.String("contact", utils.Fingerprint(req.Email)))

	s.notifyCRM(ctx, log, req)

	link, ok := s.links.Lookup(req.Type.String(), req.Formule.String(), req.Distance.String())
	if !ok {
		log.Warn("no payment link for submission",
			zap.String("key", payments.Key(req.Type.String(), req.Formule.String(), req.Distance.String())))
		return "", ErrPaymentLinkNotFound
	}

	redirectURL := BuildRedirectURL(link, req.Email, req.FullName)
	log.Info("subscription accepted", zap.String("payment_link", link))
	return redirectURL, nil
}

// notifyCRM creates the contact in HubSpot. Any failure is logged and dropped,
// and Subscribe carries on as if the call had succeeded.
func (s *subscriptionServiceImpl) notifyCRM(ctx context.Context, log *zap.Logger, req models.SubscriptionRequest) {
	firstName, lastName := hubspot.SplitFullName(req.FullName)
	contact := hubspot.Contact{
		FirstName:     firstName,
		LastName:      lastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		AccountHolder: req.AccountHolder,
		BasinType:     req.Type.String(),
		Formule:       req.Formule.String(),
		Distance:      req.Distance.String(),
	}

	contactID, err := s.hubspotClient.CreateContact(ctx, contact)
	if err != nil {
		s.metrics.ObserveCRM(metrics.CRMFailure)
		log.Warn("HubSpot contact creation failed, continuing", zap.Error(err))
		return
	}

	s.metrics.ObserveCRM(metrics.CRMSuccess)
	log.Info("HubSpot contact created", zap.String("contact_id", contactID))
}

// HasRequiredFields reports whether every mandatory field is non-empty.
func HasRequiredFields(req models.SubscriptionRequest) bool {
	return req.FullName != "" &&
		req.Email != "" &&
		req.Address != "" &&
		req.Phone != "" &&
		req.AccountHolder != ""
}

// BuildRedirectURL appends the prefilled email and the client reference to a
// payment link, in that order.
func BuildRedirectURL(link, email, fullName string) string {
	return link + "?prefilled_email=" + url.QueryEscape(email) +
		"&client_reference_id=" + url.QueryEscape(fullName)
}
