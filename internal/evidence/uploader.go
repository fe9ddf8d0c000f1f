package evidence

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/b2b-portal/pkg/enums"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
	"github.com/angelmondragon/b2b-portal/pkg/security"
	"github.com/angelmondragon/b2b-portal/pkg/storage/gcs"
)

const (
	defaultFolder  = "comprobantes"
	defaultTimeout = 15 * time.Second
	keyTimeLayout  = "20060102T150405"
)

// ErrStorageNotConfigured is reported when no object store was wired.
var ErrStorageNotConfigured = errors.New("storage not configured")

// File is a payment proof received with a checkout submission.
type File struct {
	Data        []byte
	ContentType string
	Filename    string
	Size        int64
}

// Result is the outcome of an evidence upload; failures are values, not errors.
type Result struct {
	Status enums.EvidenceStatus `json:"status"`
	URL    string               `json:"url,omitempty"`
	Err    error                `json:"-"`
}

// Uploaded reports whether a public URL is available.
func (r Result) Uploaded() bool {
	return r.Status == enums.EvidenceStatusUploaded && r.URL != ""
}

// Error returns the failure message, if any.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Config controls where evidence objects are written.
type Config struct {
	Bucket  string
	Folder  string
	Salt    string
	Timeout time.Duration
}

// Uploader stores payment evidence in object storage.
type Uploader struct {
	backend gcs.Uploader
	cfg     Config
	logg    *logger.Logger
	now     func() time.Time
	newID   func() string
}

// NewUploader accepts a nil backend; every upload then fails softly.
func NewUploader(backend gcs.Uploader, cfg Config, logg *logger.Logger) *Uploader {
	if cfg.Folder = strings.Trim(strings.TrimSpace(cfg.Folder), "/"); cfg.Folder == "" {
		cfg.Folder = defaultFolder
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Uploader{
		backend: backend,
		cfg:     cfg,
		logg:    logg,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// Upload stores file under a key that never exposes the raw customer id. A nil file
// means no evidence was required.
func (u *Uploader) Upload(ctx context.Context, customerID string, file *File) Result {
	if file == nil {
		return Result{Status: enums.EvidenceStatusNotRequired}
	}
	if u == nil || u.backend == nil {
		return u.fail(ctx, ErrStorageNotConfigured)
	}
	if len(file.Data) == 0 {
		return u.fail(ctx, errors.New("evidence file is empty"))
	}
	if !IsAllowedContentType(file.ContentType) {
		return u.fail(ctx, fmt.Errorf("evidence content type %q not allowed", file.ContentType))
	}

	object := u.ObjectKey(customerID, file)
	ctx, cancel := context.WithTimeout(ctx, u.cfg.Timeout)
	defer cancel()

	url, err := u.backend.Upload(ctx, u.cfg.Bucket, object, normalizeContentType(file.ContentType), file.Data)
	if err != nil {
		return u.fail(ctx, err)
	}

	u.logg.Info(u.logg.WithFields(ctx, map[string]any{
		"object": object,
		"bytes":  len(file.Data),
	}), "checkout.evidence.uploaded")
	return Result{Status: enums.EvidenceStatusUploaded, URL: url}
}

// ObjectKey builds <folder>/<utc timestamp>-<obfuscated customer>-<random><ext>.
func (u *Uploader) ObjectKey(customerID string, file *File) string {
	random := strings.ReplaceAll(u.newID(), "-", "")
	if len(random) > 8 {
		random = random[:8]
	}
	name := fmt.Sprintf("%s-%s-%s%s",
		u.now().UTC().Format(keyTimeLayout),
		security.ObfuscateID(u.cfg.Salt, customerID),
		random,
		extensionFor(file.ContentType, file.Filename),
	)
	return path.Join(u.cfg.Folder, name)
}

func (u *Uploader) fail(ctx context.Context, err error) Result {
	if u != nil && u.logg != nil {
		u.logg.WarnErr(ctx, "checkout.evidence.failed", err)
	}
	return Result{Status: enums.EvidenceStatusFailed, Err: err}
}
