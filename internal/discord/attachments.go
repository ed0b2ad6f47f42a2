package discord

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/edgard/servermanage/internal/images"
)

// maxAttachmentSize bounds downloads; Discord's own upload limit for bots is lower.
const maxAttachmentSize = 50 << 20

// toAttachments exposes message attachments to the image service. Width and
// height come from Discord, which only sets them for images.
func toAttachments(client *http.Client, attachments []*discordgo.MessageAttachment) []images.Attachment {
	out := make([]images.Attachment, 0, len(attachments))
	for _, a := range attachments {
		url := a.URL
		out = append(out, images.Attachment{
			Filename: a.Filename,
			Width:    a.Width,
			Height:   a.Height,
			Fetch: func(ctx context.Context) ([]byte, error) {
				return download(ctx, client, url)
			},
		})
	}
	return out
}

func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxAttachmentSize {
		return nil, fmt.Errorf("attachment larger than %d bytes", maxAttachmentSize)
	}
	return data, nil
}
