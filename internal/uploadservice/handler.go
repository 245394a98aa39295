package uploadservice

import (
	"bytes"
	"context"
	"io"
)

func NewUploadService(client Uploader) *UploadService {
	return &UploadService{
		client: client,
		validators: map[Kind]*Validator{
			KindImage:    ImageValidator(),
			KindDocument: DocumentValidator(),
		},
	}
}

// Validator returns the validator used for kind, or nil.
func (s *UploadService) Validator(kind Kind) *Validator {
	return s.validators[kind]
}

// Upload validates the file's declared metadata and sniffed content, then
// forwards it to the CDN. Nothing is sent when validation fails.
func (s *UploadService) Upload(ctx context.Context, kind Kind, filename, contentType string, file io.Reader, opts Options) (*Result, error) {
	v, ok := s.validators[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	data, err := io.ReadAll(io.LimitReader(file, v.MaxBytes+1))
	if err != nil {
		return nil, err
	}

	if err := v.Validate(filename, int64(len(data)), contentType); err != nil {
		return nil, err
	}

	if err := v.CheckContent(data); err != nil {
		return nil, err
	}

	return s.client.Upload(ctx, bytes.NewReader(data), filename, opts)
}
