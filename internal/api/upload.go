package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/phongtro/phongtro/internal/domain"
)

const maxUploadFiles = 10

// UploadImages sends files as multipart/form-data and returns their public URLs
func (c *Client) UploadImages(ctx context.Context, files []domain.ImageFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > maxUploadFiles {
		return nil, fmt.Errorf("%w: at most %d images per upload", domain.ErrInvalidInput, maxUploadFiles)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for _, f := range files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, filepath.Base(f.Name)))
		header.Set("Content-Type", contentType)

		part, err := form.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create form part: %w", err)
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload/images", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var resp uploadResponseDTO
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	return resp.URLs, nil
}
