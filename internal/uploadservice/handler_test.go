package uploadservice

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, file io.Reader, filename string, opts Options) (*Result, error) {
	args := m.Called(ctx, file, filename, opts)
	res, _ := args.Get(0).(*Result)
	return res, args.Error(1)
}

func TestUploadService(t *testing.T) {
	testCases := []struct {
		name        string
		kind        Kind
		filename    string
		data        []byte
		expectCall  bool
		expectedErr error
	}{
		{
			name:       "valid image",
			kind:       KindImage,
			filename:   "logo.png",
			data:       pngBytes(2 * MB),
			expectCall: true,
		},
		{
			name:        "image over the limit",
			kind:        KindImage,
			filename:    "logo.png",
			data:        pngBytes(6 * MB),
			expectedErr: ErrFileTooLarge,
		},
		{
			name:        "renamed executable",
			kind:        KindImage,
			filename:    "logo.png",
			data:        []byte("MZ\x90\x00 definitely a program"),
			expectedErr: ErrTypeNotAllowed,
		},
		{
			name:        "unknown kind",
			kind:        "video",
			filename:    "clip.mp4",
			data:        []byte("x"),
			expectedErr: ErrUnknownKind,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := new(mockUploader)
			if tc.expectCall {
				u.On("Upload", mock.Anything, mock.Anything, tc.filename, mock.Anything).
					Return(&Result{SecureURL: "https://cdn.example.com/" + tc.filename}, nil)
			}

			s := NewUploadService(u)

			res, err := s.Upload(context.Background(), tc.kind, tc.filename, "", bytes.NewReader(tc.data), Options{})
			assert.Equal(t, tc.expectedErr, err)

			if tc.expectCall {
				assert.Equal(t, "https://cdn.example.com/"+tc.filename, res.SecureURL)
			}

			u.AssertExpectations(t)
			if !tc.expectCall {
				u.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
