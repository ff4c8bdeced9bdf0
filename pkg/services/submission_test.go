package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"subscription-server/pkg/clients/hubspot"
	"subscription-server/pkg/metrics"
	"subscription-server/pkg/models"
	"subscription-server/pkg/payments"
)

type MockHubSpotClient struct {
	mock.Mock
}

func (m *MockHubSpotClient) CreateContact(ctx context.Context, contact hubspot.Contact) (string, error) {
	args := m.Called(ctx, contact)
	return args.String(0), args.Error(1)
}

func validRequest() models.SubscriptionRequest {
	return models.SubscriptionRequest{
		FullName:      "Jane Doe",
		Email:         "j@x.com",
		Address:       "1 Rd",
		Phone:         "555",
		AccountHolder: "Jane Doe",
		Type:          "mono",
		Formule:       "confort",
		Distance:      "100",
	}
}

func newTestService(t *testing.T, client hubspot.Client) (SubscriptionService, *metrics.Metrics, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.New(prometheus.NewRegistry())
	svc := NewSubscriptionService(client, payments.NewTable(payments.DefaultLinks()), m, zap.New(core))
	return svc, m, logs
}

func TestSubscribe_Success(t *testing.T) {
	client := new(MockHubSpotClient)
	client.On("CreateContact", mock.Anything, hubspot.Contact{
		FirstName:     "Jane",
		LastName:      "Doe",
		Email:         "j@x.com",
		Phone:         "555",
		Address:       "1 Rd",
		AccountHolder: "Jane Doe",
		BasinType:     "mono",
		Formule:       "confort",
		Distance:      "100",
	}).Return("901", nil).Once()

	svc, m, _ := newTestService(t, client)
	redirectURL, err := svc.Subscribe(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t,
		"https://buy.stripe.com/test_7sYeVebXS3Bv0d19PA4ow08?prefilled_email=j%40x.com&client_reference_id=Jane+Doe",
		redirectURL)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CRMContactRequests.WithLabelValues(metrics.CRMSuccess)))
	client.AssertExpectations(t)
}

func TestSubscribe_CRMFailureIsSwallowed(t *testing.T) {
	client := new(MockHubSpotClient)
	client.On("CreateContact", mock.Anything, mock.Anything).
		Return("", errors.New("error creating contact: dial tcp: connection refused")).Once()

	svc, m, logs := newTestService(t, client)
	redirectURL, err := svc.Subscribe(context.Background(), validRequest())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(redirectURL, "https://buy.stripe.com/test_7sYeVebXS3Bv0d19PA4ow08?"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CRMContactRequests.WithLabelValues(metrics.CRMFailure)))

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).FilterMessageSnippet("HubSpot").All()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].ContextMap()["error"], "connection refused")
	client.AssertExpectations(t)
}

func TestSubscribe_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SubscriptionRequest)
	}{
		{"fullName", func(r *models.SubscriptionRequest) { r.FullName = "" }},
		{"email", func(r *models.SubscriptionRequest) { r.Email = "" }},
		{"address", func(r *models.SubscriptionRequest) { r.Address = "" }},
		{"phone", func(r *models.SubscriptionRequest) { r.Phone = "" }},
		{"accountHolder", func(r *models.SubscriptionRequest) { r.AccountHolder = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockHubSpotClient)
			svc, _, _ := newTestService(t, client)

			req := validRequest()
			tt.mutate(&req)
			redirectURL, err := svc.Subscribe(context.Background(), req)

			assert.ErrorIs(t, err, ErrMissingFields)
			assert.Empty(t, redirectURL)
			client.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything)
		})
	}
}

func TestSubscribe_PaymentLinkNotFound(t *testing.T) {
	client := new(MockHubSpotClient)
	client.On("CreateContact", mock.Anything, mock.Anything).Return("902", nil).Once()

	svc, _, _ := newTestService(t, client)
	req := validRequest()
	req.Type, req.Formule, req.Distance = "spa", "confort", "999"

	redirectURL, err := svc.Subscribe(context.Background(), req)

	assert.ErrorIs(t, err, ErrPaymentLinkNotFound)
	assert.Empty(t, redirectURL)
	client.AssertExpectations(t)
}

func TestSubscribe_MissingLookupFieldsIsNotFound(t *testing.T) {
	client := new(MockHubSpotClient)
	client.On("CreateContact", mock.Anything, mock.Anything).Return("903", nil).Once()

	svc, _, _ := newTestService(t, client)
	req := validRequest()
	req.Type, req.Formule, req.Distance = "", "", ""

	_, err := svc.Subscribe(context.Background(), req)
	assert.ErrorIs(t, err, ErrPaymentLinkNotFound)
}

func TestSubscribe_SingleTokenName(t *testing.T) {
	client := new(MockHubSpotClient)
	client.On("CreateContact", mock.Anything, mock.MatchedBy(func(c hubspot.Contact) bool {
		return c.FirstName == "Cher" && c.LastName == ""
	})).Return("904", nil).Once()

	svc, _, _ := newTestService(t, client)
	req := validRequest()
	req.FullName = "Cher"

	redirectURL, err := svc.Subscribe(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(redirectURL, "&client_reference_id=Cher"))
	client.AssertExpectations(t)
}

func TestBuildRedirectURL(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		fullName string
		want     string
	}{
		{
			name:     "plain",
			email:    "j@x.com",
			fullName: "Jane Doe",
			want:     "https://pay.example/abc?prefilled_email=j%40x.com&client_reference_id=Jane+Doe",
		},
		{
			name:     "plus and accents",
			email:    "jane+spa@x.fr",
			fullName: "Élodie Dupré",
			want:     "https://pay.example/abc?prefilled_email=jane%2Bspa%40x.fr&client_reference_id=%C3%89lodie+Dupr%C3%A9",
		},
		{
			name:     "ampersand in name",
			email:    "a@b.c",
			fullName: "Smith & Sons",
			want:     "https://pay.example/abc?prefilled_email=a%40b.c&client_reference_id=Smith+%26+Sons",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildRedirectURL("https://pay.example/abc", tt.email, tt.fullName))
		})
	}
}

func TestHasRequiredFields(t *testing.T) {
	assert.True(t, HasRequiredFields(validRequest()))
	assert.False(t, HasRequiredFields(models.SubscriptionRequest{}))

	req := validRequest()
	req.Type, req.Formule, req.Distance = "", "", ""
	assert.True(t, HasRequiredFields(req))
}
