package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"donor-relay/pkg/models"
	"donor-relay/pkg/services"
)

// Route-specific messages returned to the website when a relay fails.
const (
	msgFetchFailed        = "Failed to fetch requests"
	msgBloodRequestFailed = "Failed to submit request"
	msgRegistrationFailed = "Failed to submit donor registration"
	msgDonorDetailsFailed = "Failed to submit donor details"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	relayService services.RelayService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(relayService services.RelayService) *Handlers {
	return &Handlers{
		relayService: relayService,
	}
}

// RegisterRoutes wires the relay endpoints onto router.
func (h *Handlers) RegisterRoutes(router gin.IRoutes) {
	router.GET("/api/fetch-requests", h.HandleFetchRequests)
	router.POST("/api/submit-blood-request", h.HandleSubmitBloodRequest)
	router.POST("/api/submit-donor-registration", h.HandleSubmitDonorRegistration)
	router.POST("/api/submit-donor-details", h.HandleSubmitDonorDetails)
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// HandleFetchRequests relays the emergency request list for the dashboard.
func (h *Handlers) HandleFetchRequests(c *gin.Context) {
	result, err := h.relayService.FetchRequests(c.Request.Context())
	h.relay(c, result, err, msgFetchFailed)
}

// HandleSubmitBloodRequest relays a raw JSON emergency blood request.
func (h *Handlers) HandleSubmitBloodRequest(c *gin.Context) {
	h.relayBody(c, h.relayService.SubmitBloodRequest, msgBloodRequestFailed)
}

// HandleSubmitDonorRegistration relays the donor registration form, which
// arrives form-encoded with the JSON document in its data field.
func (h *Handlers) HandleSubmitDonorRegistration(c *gin.Context) {
	h.relayBody(c, h.relayService.SubmitDonorRegistration, msgRegistrationFailed)
}

// HandleSubmitDonorDetails relays a donor's reply to a specific blood request.
func (h *Handlers) HandleSubmitDonorDetails(c *gin.Context) {
	h.relayBody(c, h.relayService.SubmitDonorDetails, msgDonorDetailsFailed)
}

func (h *Handlers) relayBody(c *gin.Context, submit func(context.Context, []byte) ([]byte, error), message string) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.relay(c, nil, err, message)
		return
	}

	result, err := submit(c.Request.Context(), body)
	h.relay(c, result, err, message)
}

// relay writes the script's answer verbatim, or the error envelope the
// website expects when anything along the way failed.
func (h *Handlers) relay(c *gin.Context, result []byte, err error, message string) {
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Relay failed",
			"path", c.Request.URL.Path,
			"message", message,
			"error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: message,
			Error:   err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "application/json", result)
}
