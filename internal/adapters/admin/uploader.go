package admin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"resort_rooms/internal/adapters/upstream"
	"resort_rooms/internal/domain"
)

// Uploader sends image files to the upload service and returns their public ids.
type Uploader struct{ c *upstream.Client }

func NewUploader(c *upstream.Client) *Uploader { return &Uploader{c: c} }

type uploadResponse struct {
	IDs       []string `json:"ids"`
	PublicIDs []string `json:"publicIds"`
}

func (u *Uploader) Upload(ctx context.Context, folder string, files []domain.UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("folder", folder); err != nil {
		return nil, err
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.Name))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var resp uploadResponse
	if err := u.c.Post(ctx, "uploads", "/uploads", mw.FormDataContentType(), &buf, &resp); err != nil {
		return nil, fmt.Errorf("upload to %s: %w", folder, err)
	}
	ids := resp.PublicIDs
	if len(ids) == 0 {
		ids = resp.IDs
	}
	if len(ids) != len(files) {
		return nil, fmt.Errorf("upload to %s: got %d ids for %d files", folder, len(ids), len(files))
	}
	return ids, nil
}
