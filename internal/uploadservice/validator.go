package uploadservice

import (
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ImageValidator accepts the image formats the site renders, up to 5 MB.
func ImageValidator() *Validator {
	return &Validator{
		MaxBytes:          MaxImageBytes,
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"},
		AllowedMIMETypes:  []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"},
	}
}

// DocumentValidator accepts pitch decks and similar documents, up to 10 MB.
func DocumentValidator() *Validator {
	return &Validator{
		MaxBytes:          MaxDocumentBytes,
		AllowedExtensions: []string{".pdf", ".doc", ".docx", ".ppt", ".pptx"},
		AllowedMIMETypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-powerpoint",
			"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		},
	}
}

// Validate checks the declared metadata of a file before anything is sent.
// An empty contentType skips the declared type check.
func (v *Validator) Validate(filename string, size int64, contentType string) error {
	if size <= 0 {
		return ErrEmptyFile
	}

	if v.MaxBytes > 0 && size > v.MaxBytes {
		return ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || !slices.Contains(v.AllowedExtensions, ext) {
		return ErrExtensionNotAllowed
	}

	if contentType != "" && !v.allowedType(contentType) {
		return ErrTypeNotAllowed
	}

	return nil
}

// CheckContent sniffs data and rejects it unless the detected type is allowed.
func (v *Validator) CheckContent(data []byte) error {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range v.AllowedMIMETypes {
			if m.Is(allowed) {
				return nil
			}
		}
	}

	return ErrTypeNotAllowed
}

func (v *Validator) allowedType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return slices.Contains(v.AllowedMIMETypes, strings.ToLower(mediaType))
}
