// Package events maintains the multi-channel event socket: four logical
// channels over the same base endpoint, each on its own WebSocket
// connection with an independent receive loop, bounded in-order dispatch
// queue, and per-channel reconnect supervision. Inbound messages are
// resolved against a static event table and delivered to subscribers as
// typed events.
package events
