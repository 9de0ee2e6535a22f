package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all firewall tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("txfirewall", "1.0.0")
	client := NewFirewallClient(cfg)
	h := NewHandlers(client)

	s.AddTool(ToolAnalyzeTransaction, h.HandleAnalyzeTransaction)
	s.AddTool(ToolGetWalletHistory, h.HandleGetWalletHistory)
	s.AddTool(ToolServiceStatus, h.HandleServiceStatus)

	return s
}
