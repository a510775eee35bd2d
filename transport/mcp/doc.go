// Package mcp exposes the game to AI agents through the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request to the REST API,
// so agents, browsers and scripts all play through the same server and see
// the same sessions.
//
// Tools:
//   - create_session, get_session, list_sessions, new_deal
//   - game_state (face-down cards hidden), dump_state (everything)
//   - draw, discard_waste, waste_to_tableau, waste_to_foundation
//   - move_tableau_run, tableau_to_foundation, bulk_move
//   - list_configs, game_instructions
//
// Pile indices are 0-based. Seeds are passed as decimal strings.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// stdio
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP, one JSON-RPC message per POST
//	router.Handle("/mcp", client.HTTPHandler())
package mcp
