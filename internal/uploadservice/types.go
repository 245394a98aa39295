package uploadservice

import (
	"context"
	"errors"
	"io"
	"net/http"
)

const (
	MB = 1 << 20

	MaxImageBytes    = 5 * MB
	MaxDocumentBytes = 10 * MB
)

var (
	ErrEmptyFile           = errors.New("file is empty")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrExtensionNotAllowed = errors.New("file extension is not allowed")
	ErrTypeNotAllowed      = errors.New("file type is not allowed")
	ErrUploadFailed        = errors.New("upload service rejected the file")
	ErrUnknownKind         = errors.New("unknown upload kind")
)

type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

type Validator struct {
	MaxBytes          int64
	AllowedExtensions []string
	AllowedMIMETypes  []string
}

type Options struct {
	Preset         string
	Folder         string
	Tags           []string
	Transformation string
}

type Result struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int64  `json:"bytes"`
}

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	endpoint string
	preset   string
	folder   string
	http     Doer
}

type UploadService struct {
	client     Uploader
	validators map[Kind]*Validator
}

type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string, opts Options) (*Result, error)
}
