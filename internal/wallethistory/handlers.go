package wallethistory

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unhackablewallet/txfirewall/internal/metrics"
	"github.com/unhackablewallet/txfirewall/internal/traces"
	"github.com/unhackablewallet/txfirewall/internal/validation"
)

// Handler provides the wallet history HTTP endpoint. Like the prediction
// surface, application errors are HTTP 200 with an "error" body.
type Handler struct {
	store Store
}

// NewHandler creates a wallet history handler. store may be nil when no
// backing database exists at all.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes sets up wallet routes on the /api group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/wallet", h.GetWallet)
}

// GetWallet handles GET /api/wallet?address=0x...
func (h *Handler) GetWallet(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusOK, gin.H{"error": "Wallet address parameter is required"})
		return
	}
	address = validation.SanitizeAddress(address)

	ctx, span := traces.StartSpan(c.Request.Context(), "wallethistory.get",
		traces.WalletAddress(address))
	defer span.End()

	if h.store == nil {
		metrics.WalletLookupsTotal.WithLabelValues("db_unavailable").Inc()
		c.JSON(http.StatusOK, gin.H{"error": "Database connection failed"})
		return
	}

	transactions, err := h.store.RecentTransactions(ctx, address, HistoryLimit)
	if err != nil {
		h.queryError(c, err)
		return
	}

	analytics, err := h.store.AnalyticsFor(ctx, address)
	if err != nil {
		h.queryError(c, err)
		return
	}

	metrics.WalletLookupsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"address":      address,
		"transactions": transactions,
		"analytics":    analytics,
	})
}

func (h *Handler) queryError(c *gin.Context, err error) {
	if errors.Is(err, ErrDatabaseUnavailable) {
		metrics.WalletLookupsTotal.WithLabelValues("db_unavailable").Inc()
		c.JSON(http.StatusOK, gin.H{"error": "Database connection failed"})
		return
	}
	metrics.WalletLookupsTotal.WithLabelValues("query_error").Inc()
	c.JSON(http.StatusOK, gin.H{"error": "Database query error: " + err.Error()})
}
