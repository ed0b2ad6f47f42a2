package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" //revive:disable:blank-imports
	_ "image/png" //revive:disable:blank-imports
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/servermanage/internal/bot/handlers"
	"github.com/edgard/servermanage/internal/images"
)

const (
	// maxDownloadSize is the Bot API limit for getFile.
	maxDownloadSize     = 20 << 20
	downloadTimeout     = 30 * time.Second
	defaultFileURL      = "https://api.telegram.org/file/bot%s/%s"
	compressedPhotoName = "photo.jpg"
)

// fileGetter is the part of the Bot API a download needs.
type fileGetter interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
}

// downloader fetches files sent to the bot.
type downloader struct {
	api     fileGetter
	token   string
	client  *http.Client
	fileURL string
}

func newDownloader(api fileGetter, token string) *downloader {
	return &downloader{api: api, token: token, client: http.DefaultClient, fileURL: defaultFileURL}
}

// Download retrieves the content of fileID.
func (d *downloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, errors.New("empty fileID provided")
	}
	downloadCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	fileObj, err := d.api.GetFile(downloadCtx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if fileObj.FilePath == "" {
		return nil, errors.New("empty file path returned from Telegram")
	}

	url := fmt.Sprintf(d.fileURL, d.token, fileObj.FilePath)
	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file data: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("file larger than %d bytes", maxDownloadSize)
	}
	return data, nil
}

// resolveAttachments exposes the document or photo of msg to the image service.
// Telegram does not report dimensions for documents, so a document attached to
// a servermanage add command is downloaded up front and its header decoded.
// Compressed photos are always JPEG and keep their reported size.
func resolveAttachments(ctx context.Context, d *downloader, msg *models.Message, text string, logger *slog.Logger) []images.Attachment {
	switch {
	case msg.Document != nil:
		cmd, err := handlers.ParseCommand(text, CommandPrefix)
		if err != nil || !cmd.TakesAttachment() {
			return nil
		}
		att := images.Attachment{Filename: msg.Document.FileName}
		data, err := d.Download(ctx, msg.Document.FileID)
		if err != nil {
			logger.WarnContext(ctx, "Failed to download document", "file_id", msg.Document.FileID, "error", err)
			return []images.Attachment{att}
		}
		return []images.Attachment{documentAttachment(msg.Document.FileName, data)}

	case len(msg.Photo) > 0:
		largest := msg.Photo[0]
		for _, p := range msg.Photo[1:] {
			if p.Width*p.Height > largest.Width*largest.Height {
				largest = p
			}
		}
		fileID := largest.FileID
		return []images.Attachment{{
			Filename: compressedPhotoName,
			Width:    largest.Width,
			Height:   largest.Height,
			Fetch: func(ctx context.Context) ([]byte, error) {
				return d.Download(ctx, fileID)
			},
		}}
	}
	return nil
}

// documentAttachment wraps downloaded bytes. Width and height stay zero when
// the content is not a PNG or GIF image.
func documentAttachment(filename string, data []byte) images.Attachment {
	att := images.Attachment{
		Filename: filename,
		Fetch: func(context.Context) ([]byte, error) {
			return data, nil
		},
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		att.Width = cfg.Width
		att.Height = cfg.Height
	}
	return att
}
