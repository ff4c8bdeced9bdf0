package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"subscription-server/pkg/metrics"
	"subscription-server/pkg/middleware"
	"subscription-server/pkg/models"
	"subscription-server/pkg/services"
)

// Error messages returned to the subscription form.
const (
	MissingFieldsMessage       = "Champs obligatoires manquants"
	PaymentLinkNotFoundMessage = "Lien de paiement non trouvé"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	subscriptionService services.SubscriptionService
	metrics             *metrics.Metrics
	logger              *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(subscriptionService services.SubscriptionService, m *metrics.Metrics, logger *zap.Logger) *Handlers {
	return &Handlers{
		subscriptionService: subscriptionService,
		metrics:             m,
		logger:              logger,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "OK",
	})
}

// HandleSubscribe validates a subscription form, creates the CRM contact and
// answers with the payment page to redirect to.
func (h *Handlers) HandleSubscribe(c *gin.Context) {
	var req models.SubscriptionRequest

	// Binding enforces the required fields as well as the JSON shape.
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("rejected subscription payload",
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestID(c)))
		h.metrics.ObserveSubscription(metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: MissingFieldsMessage})
		return
	}

	redirectURL, err := h.subscriptionService.Subscribe(c.Request.Context(), req)
	switch {
	case errors.Is(err, services.ErrMissingFields):
		h.metrics.ObserveSubscription(metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: MissingFieldsMessage})
	case errors.Is(err, services.ErrPaymentLinkNotFound):
		h.metrics.ObserveSubscription(metrics.OutcomeLinkNotFound)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: PaymentLinkNotFoundMessage})
	case err != nil:
		h.logger.Error("subscription failed",
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestID(c)))
		h.metrics.ObserveSubscription(metrics.OutcomeInternalFailure)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: middleware.ServerErrorMessage})
	default:
		h.metrics.ObserveSubscription(metrics.OutcomeSuccess)
		// PureJSON keeps the & separators of the redirect URL unescaped.
		c.PureJSON(http.StatusOK, models.SubscriptionResponse{
			Success:     true,
			RedirectURL: redirectURL,
		})
	}
}
