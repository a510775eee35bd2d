// Package websocket streams game state to browser and bot clients.
//
// A central Hub owns every connection, grouped by session ID. The REST layer
// calls BroadcastToSession after each successful mutation and BroadcastEvent
// for out-of-band notices such as a new deal. Broadcasts never block the
// caller; when the queue is full the message is dropped and logged.
//
// Message Protocol:
//
//	{"session_id": "ab12cd34", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12cd34", "event": "new_deal", "data": {...}}
//
// Clients connect with GET /ws?session=<id>. Incoming frames are ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
package websocket
