package validators

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
)

// multipartOverhead covers the JSON part and multipart framing on top of the file limit.
const multipartOverhead = 1 << 20

// FileRule describes the single optional file accepted alongside a JSON part.
type FileRule struct {
	Field    string
	MaxBytes int64
	Allowed  func(contentType string) bool
}

// UploadedFile is a fully read file part whose content type was sniffed from its bytes.
type UploadedFile struct {
	Data        []byte
	ContentType string
	Filename    string
	Size        int64
}

// MultipartLimit is the whole-body limit for a request carrying one file of at most fileMax bytes.
func MultipartLimit(fileMax int64) int64 {
	return fileMax + multipartOverhead
}

// BodyTooLarge is reported when a request body exceeds maxBytes before it is parsed.
func BodyTooLarge(maxBytes int64) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "file too large").WithDetails(map[string]any{
		"maxBytes": maxBytes,
	})
}

// IsMultipart reports whether the request carries multipart/form-data.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// DecodeMultipart decodes the JSON carried in the jsonField part into dest and reads the
// optional file described by rule. A missing file yields a nil UploadedFile.
func DecodeMultipart(w http.ResponseWriter, r *http.Request, jsonField string, dest any, rule FileRule) (*UploadedFile, error) {
	if rule.MaxBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "file limit not configured")
	}
	limit := MultipartLimit(rule.MaxBytes)
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fileTooLarge(rule)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	raw := r.MultipartForm.Value[jsonField]
	if len(raw) == 0 || strings.TrimSpace(raw[0]) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{jsonField: "is required"})
	}
	if err := decodeStrict(strings.NewReader(raw[0]), dest); err != nil {
		return nil, err
	}

	return readFile(r, rule)
}

func readFile(r *http.Request, rule FileRule) (*UploadedFile, error) {
	file, header, err := r.FormFile(rule.Field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file part")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, rule.MaxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read file part")
	}
	if int64(len(data)) > rule.MaxBytes {
		return nil, fileTooLarge(rule)
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{rule.Field: "is empty"})
	}

	detected := mimetype.Detect(data)
	contentType := detected.String()
	if rule.Allowed != nil && !rule.Allowed(contentType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type").WithDetails(map[string]any{
			"field":       rule.Field,
			"contentType": contentType,
		})
	}

	return &UploadedFile{
		Data:        data,
		ContentType: contentType,
		Filename:    header.Filename,
		Size:        int64(len(data)),
	}, nil
}

func fileTooLarge(rule FileRule) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "file too large").WithDetails(map[string]any{
		"field":    rule.Field,
		"maxBytes": rule.MaxBytes,
	})
}
