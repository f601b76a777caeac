package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contact-relay/pkg/metrics"
	"contact-relay/pkg/middleware"
	"contact-relay/pkg/models"
	"contact-relay/pkg/services"
	"contact-relay/pkg/validation"
)

const (
	msgSent    = "ההודעות נשלחו בהצלחה!"
	rootBanner = "🌊 LuxePool Server is running!"
)

// processStart is set during package initialization, before main runs
var processStart = time.Now()

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	relayService services.ContactRelayService
	validator    *validation.Validator
	logger       *zap.SugaredLogger
	metrics      *metrics.Metrics
	development  bool
	now          func() time.Time
}

// NewHandlers creates a new Handlers instance. In development mode raw
// provider errors are included in failure responses.
func NewHandlers(
	relayService services.ContactRelayService,
	logger *zap.SugaredLogger,
	metrics *metrics.Metrics,
	development bool,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handlers{
		relayService: relayService,
		validator:    validation.New(),
		logger:       logger,
		metrics:      metrics,
		development:  development,
		now:          time.Now,
	}
}

// Root answers with a static banner
func (h *Handlers) Root(c *gin.Context) {
	c.String(http.StatusOK, rootBanner)
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Server is running",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	})
}

// Ping reports liveness and process uptime in seconds
func (h *Handlers) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Server is alive",
		"uptime":  h.now().Sub(processStart).Seconds(),
	})
}

// Send validates a contact form submission and relays it to the customer,
// the business and the partner
func (h *Handlers) Send(c *gin.Context) {
	var sub models.Submission

	// JSON or form-encoded, picked from the Content-Type
	if err := c.ShouldBind(&sub); err != nil {
		h.logger.Warnw("Error parsing request body", "error", err, "request_id", requestID(c))
		h.metrics.Submission(metrics.ResultInvalid)
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(validation.MsgInvalidData, validation.BodyError()))
		return
	}

	if fieldErrs := h.validator.Submission(&sub); fieldErrs != nil {
		h.metrics.Submission(metrics.ResultInvalid)
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(validation.MsgInvalidData, fieldErrs))
		return
	}

	result, err := h.relayService.Submit(sub)
	if err != nil {
		h.metrics.Submission(metrics.ResultSendFailed)
		_ = c.Error(err)

		category := services.CategoryGeneric
		var sendErr *services.SendError
		if errors.As(err, &sendErr) {
			category = sendErr.Category
		}

		h.logger.Errorw("Error relaying submission", "error", err, "category", category, "request_id", requestID(c))

		var details interface{}
		if h.development {
			details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(category.Message(), details))
		return
	}

	h.metrics.Submission(metrics.ResultSuccess)
	c.JSON(http.StatusOK, models.SendResponse{
		Success: true,
		Message: msgSent,
		Data:    result,
	})
}

func requestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}
