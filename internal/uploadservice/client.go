package uploadservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// NewClient returns a client for the CDN's unsigned upload endpoint. A nil
// doer gets an http.Client with a 30 second timeout.
func NewClient(endpoint, preset, folder string, doer Doer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		endpoint: endpoint,
		preset:   preset,
		folder:   folder,
		http:     doer,
	}
}

// Upload posts file as multipart/form-data. Empty option fields fall back to
// the client's preset and folder.
func (c *Client) Upload(ctx context.Context, file io.Reader, filename string, opts Options) (*Result, error) {
	if opts.Preset == "" {
		opts.Preset = c.preset
	}
	if opts.Folder == "" {
		opts.Folder = c.folder
	}

	body, contentType, err := encodeForm(file, filename, opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach upload service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(res.Body, 1<<16)).Decode(&apiErr)
		if apiErr.Error.Message == "" {
			apiErr.Error.Message = res.Status
		}
		return nil, fmt.Errorf("%w: %s", ErrUploadFailed, apiErr.Error.Message)
	}

	var result Result
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("could not decode upload response: %w", err)
	}

	return &result, nil
}

func encodeForm(file io.Reader, filename string, opts Options) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"upload_preset", opts.Preset},
		{"folder", opts.Folder},
		{"tags", strings.Join(opts.Tags, ",")},
		{"transformation", opts.Transformation},
	}

	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return body, w.FormDataContentType(), nil
}
