// Package gateway abstracts the chat platform. The rest of the bot only
// needs three operations: send text, send text with an attachment, and
// purge channel history.
package gateway

import "io"

// Message is the minimal view of a channel message the purge predicate
// needs.
type Message struct {
	ID     string
	Pinned bool
}

// Gateway is the messaging collaborator consumed by the delivery pipeline.
type Gateway interface {
	// Send posts a text message to a channel.
	Send(channelID, text string) error
	// SendFile posts a text message with one file attachment and returns
	// the ID of the delivered message.
	SendFile(channelID, text, filename string, r io.Reader) (string, error)
	// Purge deletes channel messages for which keep returns false,
	// returning how many were deleted. Pinned messages are always kept.
	Purge(channelID string, keep func(Message) bool) (int, error)
}
