package predictor

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unhackablewallet/txfirewall/internal/logging"
)

// Handler provides the prediction HTTP endpoints. Application errors on
// this surface are HTTP 200 with an "error" field in the body; wallet
// frontends branch on the body, not the status code.
type Handler struct {
	service *Service
	client  *Client
}

// NewHandler creates a predictions handler.
func NewHandler(service *Service, client *Client) *Handler {
	return &Handler{service: service, client: client}
}

// RegisterRoutes sets up prediction routes on the /api group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/predict", h.Predict)
	r.POST("/analyze", h.Analyze)
}

// Predict handles POST /api/predict: normalize, deliver, always answer
// with a RiskAssessment or a 200 error body.
func (h *Handler) Predict(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	assessment, err := h.service.Assess(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, ErrInvalidPayload) {
			c.JSON(http.StatusOK, gin.H{
				"error":   "Invalid transaction payload",
				"details": err.Error(),
			})
			return
		}
		logging.L(c.Request.Context()).Error("prediction failed", "error", err)
		c.JSON(http.StatusOK, gin.H{
			"error":   "Prediction error",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// Analyze handles POST /api/analyze: raw passthrough to the scorer with no
// normalization and no fallback synthesis. The scorer's JSON is relayed
// verbatim; its failures become 200 error bodies.
func (h *Handler) Analyze(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	status, respBody, err := h.client.Forward(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": fmt.Sprintf("Error calling ML model: %v", err)})
		return
	}
	if status != http.StatusOK {
		c.JSON(http.StatusOK, gin.H{
			"error":   fmt.Sprintf("ML model API error: %d", status),
			"details": string(respBody),
		})
		return
	}

	c.Data(http.StatusOK, "application/json", respBody)
}
