package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the firewall MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolAnalyzeTransaction = mcp.NewTool("analyze_transaction",
	mcp.WithDescription(
		"Analyze a crypto transaction for fraud risk before it is signed. "+
			"Returns a risk score (0-1), a risk level (LOW to HIGH), and an explanation. "+
			"If the ML scorer is slow or down, a conservative fallback assessment is returned instead of an error."),
	mcp.WithString("from_address",
		mcp.Description("Sender address (e.g. '0x1234...')")),
	mcp.WithString("to_address",
		mcp.Description("Recipient address (e.g. '0xabcd...')")),
	mcp.WithNumber("transaction_value",
		mcp.Required(),
		mcp.Description("Transaction value in ETH")),
	mcp.WithNumber("gas_price",
		mcp.Description("Gas price in gwei (default 20)")),
	mcp.WithBoolean("is_contract_interaction",
		mcp.Description("Whether the transaction calls a smart contract")),
)

var ToolGetWalletHistory = mcp.NewTool("get_wallet_history",
	mcp.WithDescription(
		"Fetch the 10 most recent transactions and the behavioral analytics "+
			"profile for a wallet address. Useful for judging whether a "+
			"counterparty wallet looks suspicious."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Wallet address to look up (e.g. '0x1234...')")),
)

var ToolServiceStatus = mcp.NewTool("service_status",
	mcp.WithDescription(
		"Check that the transaction firewall API is online and list its endpoints."),
)
