package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

const snapshotMaxWidth = 1024

// snapshot stores what the browser showed, as a screenshot and a cleaned
// HTML dump, when a fetch went wrong. Errors are only logged: a missing
// snapshot never changes the fetch result.
func (b *BrowserAdapter) snapshot(ctx context.Context, reason string) {
	if b.cfg.SnapshotDir == "" {
		return
	}

	path, err := b.saveSnapshot(ctx, reason)
	if err != nil {
		b.logger.Warn("Snapshot failed", "reason", reason, "error", err)
		return
	}
	b.logger.Info("Snapshot saved", "reason", reason, "path", path)
}

func (b *BrowserAdapter) saveSnapshot(ctx context.Context, reason string) (string, error) {
	p, done := b.scoped(ctx)
	defer done()

	raw, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	data, err := encodeSnapshot(raw, snapshotMaxWidth)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.cfg.SnapshotDir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	stem := filepath.Join(b.cfg.SnapshotDir, fmt.Sprintf("%s_%s", time.Now().Format("2006-01-02_15-04-05.000"), reason))
	path := stem + ".jpg"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	if doc, err := p.HTML(); err == nil {
		if err := os.WriteFile(stem+".html", []byte(cleanHTML(doc, defaultDump)), 0644); err != nil {
			b.logger.Warn("Page dump failed", "path", stem+".html", "error", err)
		}
	}
	return path, nil
}

// encodeSnapshot downsizes wide captures and re-encodes them as JPEG.
func encodeSnapshot(raw []byte, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return buf.Bytes(), nil
}
