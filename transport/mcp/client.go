package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
	"k8s.io/klog/v2"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Klondike",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Klondike Solitaire - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Build all four foundations from Ace to King, one suit each.

Piles are addressed by 0-based index: tableau T0-T6, foundations F0-F3.
Face-down cards are shown as ##.

AVAILABLE TOOLS:
- create_session, get_session, list_sessions, new_deal
- game_state, dump_state
- draw, discard_waste
- waste_to_tableau, waste_to_foundation
- move_tableau_run, tableau_to_foundation
- bulk_move
- list_configs, game_instructions

An illegal move is reported as a failed move and changes nothing.`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func indexProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

func seedProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Deal seed as a decimal number (optional; the same seed always gives the same deal)",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config and seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, see list_configs (optional, default klondike)",
				},
				"seed": seedProperty(),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_deal",
		Description: "Throw away the current game and deal a new one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"seed":       seedProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewDeal)

	// Game state
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the table: stock, waste, foundations and tableau",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "dump_state",
		Description: "Plain-text diagnostic dump of every pile, including face-down cards",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleDumpState)

	// Moves
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "draw",
		Description: "Draw cards from the stock to the waste. An empty stock is first refilled from the waste.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.actionHandler(engine.ActionDraw))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "discard_waste",
		Description: "Move every waste card to the discard pile. Discarded cards never come back.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.actionHandler(engine.ActionDiscardWaste))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "waste_to_tableau",
		Description: "Play the top waste card onto a tableau pile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"target":     indexProperty("Tableau pile index (0-6)"),
			},
			Required: []string{"session_id", "target"},
		},
	}, c.actionHandler(engine.ActionWasteToTableau))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "waste_to_foundation",
		Description: "Play the top waste card onto a foundation",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"target":     indexProperty("Foundation index (0-3)"),
			},
			Required: []string{"session_id", "target"},
		},
	}, c.actionHandler(engine.ActionWasteToFoundation))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_tableau_run",
		Description: "Move the cards of a tableau pile from position 'from' to the top onto another tableau pile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"source":     indexProperty("Source tableau pile index (0-6)"),
				"from":       indexProperty("Position in the source pile of the first card to move (0 is the bottom card)"),
				"target":     indexProperty("Target tableau pile index (0-6)"),
			},
			Required: []string{"session_id", "source", "from", "target"},
		},
	}, c.actionHandler(engine.ActionTableauRun))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tableau_to_foundation",
		Description: "Play the top card of a tableau pile onto a foundation",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"source":     indexProperty("Tableau pile index (0-6)"),
				"target":     indexProperty("Foundation index (0-3)"),
			},
			Required: []string{"session_id", "source", "target"},
		},
	}, c.actionHandler(engine.ActionTableauToFoundation))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Apply up to %d moves in order, stopping at the first illegal one", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"moves": map[string]interface{}{
					"type":        "array",
					"description": `Moves such as {"action":"tableau_run","source":0,"from":2,"target":5}`,
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"action": map[string]interface{}{"type": "string", "enum": actionNames()},
							"source": map[string]interface{}{"type": "number"},
							"from":   map[string]interface{}{"type": "number"},
							"target": map[string]interface{}{"type": "number"},
						},
						"required": []string{"action"},
					},
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of Klondike and how the tools address piles",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

func actionNames() []string {
	names := make([]string, len(engine.Actions))
	for i, a := range engine.Actions {
		names[i] = string(a)
	}
	return names
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler serves single JSON-RPC messages over POST
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// Notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if s, ok := result.(*string); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*s = string(data)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + sessionID + suffix
}

// optionalSeed reads the seed argument. Seeds travel as strings so that
// values above 2^53 survive JSON number decoding.
func optionalSeed(request mcp.CallToolRequest) (*uint64, error) {
	raw, ok := request.GetArguments()["seed"]
	if !ok || raw == nil {
		return nil, nil
	}

	var text string
	switch v := raw.(type) {
	case string:
		text = strings.TrimSpace(v)
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return nil, fmt.Errorf("seed must be a decimal number")
	}
	if text == "" {
		return nil, nil
	}

	seed, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("seed must be a non-negative decimal number: %q", text)
	}
	return &seed, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seed, err := optionalSeed(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}
	if seed != nil {
		body["seed"] = *seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Config: %s, Seed: %d, Created: %s)\n",
			s.ID, s.ConfigName, s.Seed, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleNewDeal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	seed, err := optionalSeed(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{}
	if seed != nil {
		body["seed"] = *seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/new-deal"), body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("New deal.\n" + formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleDumpState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var dump string
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/dump"), nil, &dump); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(dump), nil
}

// actionHandler builds the handler for a single-move tool. Every index the
// action reads is required.
func (c *Client) actionHandler(action engine.Action) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		move := engine.Move{Action: action}
		indices := map[string]*int{"source": &move.Source, "from": &move.From, "target": &move.Target}
		for _, name := range action.Indices() {
			v, err := request.RequireInt(name)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			*indices[name] = v
		}

		var result service.MoveResult
		if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), move, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		klog.V(2).Infof("mcp %s session=%s success=%t", move, sessionID, result.Success)
		return mcp.NewToolResultText(formatMoveResult(&result)), nil
	}
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, ok := request.GetArguments()["moves"]
	if !ok {
		return mcp.NewToolResultError("moves is required"), nil
	}
	// Round-trip through JSON so engine.Move applies its own decoding
	data, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var moves []engine.Move
	if err := json.Unmarshal(data, &moves); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid moves: %v", err)), nil
	}

	var result service.BulkMoveResult
	body := map[string]interface{}{"moves": moves}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(&result)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []*service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Draw: %d\n\n",
			config.Name, config.ConfigID, config.Description, config.DrawCount)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `Klondike Solitaire - Instructions

OBJECTIVE:
Move all 52 cards onto the four foundations, each built up in one suit from
Ace to King.

THE TABLE:
• Stock: face-down cards you draw from
• Waste: drawn cards, face-up; only the top card can be played
• Discard: cards you gave up on; they never return to play
• Tableau T0-T6: seven piles dealt with 1 to 7 cards, only the top one face-up
• Foundations F0-F3: start empty, any foundation can take any suit's Ace

RULES:
• draw moves up to the configured number of cards (1 to 3) from stock to waste.
  When the stock is empty, draw first turns the waste over to refill it.
• On the tableau, cards stack in descending rank with alternating colors
  (a red 6 on a black 7). Only a King may go on an empty pile.
• move_tableau_run moves a face-up card and everything above it. 'from' is the
  position of that card in the source pile, counting from 0 at the bottom.
• Foundations take the next card of their suit, starting with the Ace.
• When the top face-down card of a tableau pile is uncovered it turns face-up.
• discard_waste throws the whole waste away for good.

NOTATION:
Cards are written rank then suit: AS, 10H, QD, KC. ## is a face-down card.
Suits: S spades, C clubs (black), H hearts, D diamonds (red).

TIPS:
• Free Aces and Twos early.
• Prefer moves that uncover face-down cards.
• Keep an empty pile only if a King can use it.
• bulk_move saves round trips; it stops at the first illegal move.`

// Formatting

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nConfig: %s\nSeed: %d\n", session.ID, session.ConfigName, session.Seed)
	if session.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(session.GameState))
	}
	return b.String()
}

// formatCards renders a pile bottom to top, hiding face-down cards
func formatCards(cards []engine.Card) string {
	if len(cards) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(cards))
	for i, card := range cards {
		if card.FaceUp {
			parts[i] = card.String()
		} else {
			parts[i] = "##"
		}
	}
	return strings.Join(parts, " ")
}

func formatGameState(state *engine.GameState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Stock: %d card(s) | Draw: %d | Discarded: %d\n",
		state.Stock.Len(), state.DrawCount, state.Discard.Len())

	waste := state.Waste.Cards()
	if top, ok := state.Waste.Peek(); ok {
		fmt.Fprintf(&b, "Waste: %d card(s), top %s\n", len(waste), top)
	} else {
		b.WriteString("Waste: (empty)\n")
	}

	b.WriteString("\nFoundations:\n")
	done := 0
	for i := range state.Foundations {
		pile := state.Foundations[i].Cards()
		done += len(pile)
		fmt.Fprintf(&b, "  F%d: %s", i, formatCards(pile))
		if suit, ok := engine.FoundationSuit(pile); ok {
			if len(pile) == int(engine.King) {
				fmt.Fprintf(&b, "  (%s complete)", suit)
			} else {
				fmt.Fprintf(&b, "  (%s, next %s%s)", suit, engine.Rank(len(pile)+1), suit.Symbol())
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\nTableau:\n")
	for i := range state.Tableau {
		pile := state.Tableau[i].Cards()
		fmt.Fprintf(&b, "  T%d: %s", i, formatCards(pile))
		if start := engine.FaceUpIndex(pile); start < len(pile) {
			fmt.Fprintf(&b, "  (face-up from %d)", start)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nFoundation progress: %d/%d\n", done, engine.DeckSize)
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	if result.Success {
		fmt.Fprintf(&b, "OK: %s\n", result.Move)
	} else {
		fmt.Fprintf(&b, "FAILED: %s\n", result.Move)
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}

	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}
	return b.String()
}

func formatBulkMoveResult(result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Executed %d/%d moves\n", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Request truncated to %d moves\n", result.Limit)
	}
	for _, step := range result.Steps {
		status := "ok"
		if !step.Success {
			status = "FAILED"
		}
		fmt.Fprintf(&b, "  %d. %s: %s", step.Idx, step.Move, status)
		if step.Message != "" {
			fmt.Fprintf(&b, " - %s", step.Message)
		}
		b.WriteString("\n")
	}
	if result.StoppedOnMove > 0 {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}

	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}
	return b.String()
}
