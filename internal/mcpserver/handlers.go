package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *FirewallClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *FirewallClient) *Handlers {
	return &Handlers{client: client}
}

// HandleAnalyzeTransaction runs a transaction through the predict endpoint.
func (h *Handlers) HandleAnalyzeTransaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tx := map[string]any{
		"transaction_value": req.GetFloat("transaction_value", 0),
	}
	if from := req.GetString("from_address", ""); from != "" {
		tx["from_address"] = from
	}
	if to := req.GetString("to_address", ""); to != "" {
		tx["to_address"] = to
	}
	if gas := req.GetFloat("gas_price", 0); gas != 0 {
		tx["gas_price"] = gas
	}
	if req.GetBool("is_contract_interaction", false) {
		tx["is_contract_interaction"] = true
	}

	raw, err := h.client.AnalyzeTransaction(ctx, tx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to analyze transaction: %v", err)), nil
	}

	text, err := formatAssessment(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse assessment: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleGetWalletHistory fetches wallet history and analytics.
func (h *Handlers) HandleGetWalletHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address := req.GetString("address", "")
	if address == "" {
		return mcp.NewToolResultError("address is required"), nil
	}

	raw, err := h.client.GetWalletHistory(ctx, address)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch wallet history: %v", err)), nil
	}

	text, err := formatWalletHistory(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse wallet history: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleServiceStatus checks the API is up.
func (h *Handlers) HandleServiceStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ServiceStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Service unreachable: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// formatAssessment renders a risk assessment (or a 200 error body) as text
// an LLM can reason about.
func formatAssessment(raw json.RawMessage) (string, error) {
	var a map[string]any
	if err := json.Unmarshal(raw, &a); err != nil {
		return "", err
	}

	if errMsg, ok := a["error"].(string); ok && errMsg != "" {
		details, _ := a["details"].(string)
		if details != "" {
			return fmt.Sprintf("Analysis error: %s (%s)", errMsg, details), nil
		}
		return "Analysis error: " + errMsg, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Risk score: %v\n", a["risk_score"])
	fmt.Fprintf(&b, "Risk level: %v\n", a["risk_level"])
	fmt.Fprintf(&b, "Explanation: %v\n", a["explanation"])
	if a["fallback_assessment"] == true {
		b.WriteString("Note: this is a locally synthesized fallback, not an ML verdict.\n")
	}
	return b.String(), nil
}

// formatWalletHistory renders the wallet response as a readable summary.
func formatWalletHistory(raw json.RawMessage) (string, error) {
	var w struct {
		Error        string           `json:"error"`
		Address      string           `json:"address"`
		Transactions []map[string]any `json:"transactions"`
		Analytics    map[string]any   `json:"analytics"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return "", err
	}

	if w.Error != "" {
		return "Wallet lookup error: " + w.Error, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wallet %s — %d recent transaction(s)\n", w.Address, len(w.Transactions))
	for _, tx := range w.Transactions {
		fmt.Fprintf(&b, "  %v -> %v: %v %v (%v)\n",
			tx["from_address"], tx["to_address"], tx["value"], tx["currency"], tx["status"])
	}
	if w.Analytics == nil {
		b.WriteString("No analytics profile on record.\n")
	} else {
		fmt.Fprintf(&b, "Analytics: sent_tnx=%v received_tnx=%v wallet_age_days=%v risk_score=%v\n",
			w.Analytics["sent_tnx"], w.Analytics["received_tnx"],
			w.Analytics["wallet_age_days"], w.Analytics["risk_score"])
	}
	return b.String(), nil
}
