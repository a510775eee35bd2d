// Package api provides the HTTP REST API for the Klondike server.
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions            create a session {config_id?, seed?}
//   - GET    /api/sessions            list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}       session info with the current table
//   - DELETE /api/sessions/{id}       delete a session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state      current table as JSON
//   - GET  /api/sessions/{id}/dump       current table as plain text
//   - POST /api/sessions/{id}/move       apply one move
//   - POST /api/sessions/{id}/bulk-move  apply up to 100 moves, stopping at the first illegal one
//   - POST /api/sessions/{id}/draw       same as {"action":"draw"}
//   - POST /api/sessions/{id}/discard    same as {"action":"discard_waste"}
//   - POST /api/sessions/{id}/new-deal   redeal the session {seed?}
//
// Configuration:
//   - GET  /api/configs         list configurations
//   - POST /api/configs         save a configuration
//   - GET  /api/configs/{name}  load one configuration
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}  WebSocket state stream
//
// Moves are JSON objects naming an action and the pile indices it uses:
//
//	{"action": "tableau_run", "source": 0, "from": 3, "target": 5}
//	{"action": "waste_to_foundation", "target": 2}
//
// Error Handling:
//
// A move that breaks the rules is not an error: it returns 200 with
// "success": false and leaves the table untouched. Malformed requests and
// moves return 400, unknown sessions 404. Errors are JSON:
//
//	{"error": "session ab12cd34: session not found", "code": 404}
package api
