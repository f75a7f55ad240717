package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/eleven-am/calorie-advisor/internal/labels"
	"github.com/eleven-am/calorie-advisor/internal/shared"
)

const DefaultMaxUploadBytes = 10 << 20

var ErrTooLarge = fmt.Errorf("%w: image too large", shared.ErrInvalidInput)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

type Upload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ValidateImage checks size and sniffs the content type, ignoring whatever
// type the client declared.
func ValidateImage(data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", labels.ErrEmptyImage
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	if !allowedContentTypes[contentType] {
		return "", fmt.Errorf("%w: unsupported content type %s", shared.ErrInvalidInput, contentType)
	}
	return contentType, nil
}

func ImageHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
