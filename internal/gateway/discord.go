package gateway

import (
	"fmt"
	"io"
	"log"

	"github.com/bwmarrin/discordgo"
)

// Discord implements Gateway on a discordgo session.
type Discord struct {
	session *discordgo.Session
}

// NewDiscord creates and connects a Discord gateway. A connection failure
// here is fatal to startup; callers should abort.
func NewDiscord(token string) (*Discord, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("connecting to discord: %w", err)
	}
	return &Discord{session: session}, nil
}

// Close shuts down the gateway connection.
func (d *Discord) Close() error {
	return d.session.Close()
}

// Send implements Gateway.
func (d *Discord) Send(channelID, text string) error {
	_, err := d.session.ChannelMessageSend(channelID, text)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

// SendFile implements Gateway.
func (d *Discord) SendFile(channelID, text, filename string, r io.Reader) (string, error) {
	msg, err := d.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: text,
		Files: []*discordgo.File{
			{Name: filename, Reader: r},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sending file: %w", err)
	}
	return msg.ID, nil
}

// Purge implements Gateway. Walks channel history in pages of 100 and
// deletes unpinned messages rejected by keep.
func (d *Discord) Purge(channelID string, keep func(Message) bool) (int, error) {
	deleted := 0
	beforeID := ""
	for {
		messages, err := d.session.ChannelMessages(channelID, 100, beforeID, "", "")
		if err != nil {
			return deleted, fmt.Errorf("listing messages: %w", err)
		}
		if len(messages) == 0 {
			return deleted, nil
		}

		for _, m := range messages {
			beforeID = m.ID
			if m.Pinned {
				continue
			}
			if keep != nil && keep(Message{ID: m.ID, Pinned: m.Pinned}) {
				continue
			}
			if err := d.session.ChannelMessageDelete(channelID, m.ID); err != nil {
				// Deletion can race message age limits; keep going.
				log.Printf("Failed to delete message %s: %v", m.ID, err)
				continue
			}
			deleted++
		}
	}
}
