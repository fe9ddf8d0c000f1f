package evidence

import (
	"mime"
	"path/filepath"
	"strings"
)

var allowedContentTypes = []string{
	"application/pdf",
	"image/gif",
	"image/heic",
	"image/jpeg",
	"image/png",
	"image/webp",
}

var extensionByContentType = map[string]string{
	"application/pdf": ".pdf",
	"image/gif":       ".gif",
	"image/heic":      ".heic",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}

// AllowedContentTypes lists the evidence formats accepted at ingestion.
func AllowedContentTypes() []string {
	out := make([]string, len(allowedContentTypes))
	copy(out, allowedContentTypes)
	return out
}

// IsAllowedContentType accepts any image type or a PDF.
func IsAllowedContentType(contentType string) bool {
	mediaType := normalizeContentType(contentType)
	if mediaType == "" {
		return false
	}
	return mediaType == "application/pdf" || strings.HasPrefix(mediaType, "image/")
}

// extensionFor prefers the client's extension when it agrees with the content type.
func extensionFor(contentType, filename string) string {
	mediaType := normalizeContentType(contentType)
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && len(ext) <= 6 {
		if byExt := mime.TypeByExtension(ext); byExt != "" && normalizeContentType(byExt) == mediaType {
			return ext
		}
	}
	if known, ok := extensionByContentType[mediaType]; ok {
		return known
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func normalizeContentType(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}
