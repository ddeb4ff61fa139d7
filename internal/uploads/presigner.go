// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Package uploads issues presigned PUT URLs for an S3-compatible bucket
// (Cloudflare R2 by default) so browsers upload files directly.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"

	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/metrics"
)

// DefaultExpiry is used when the configuration leaves presign_expiry unset.
const DefaultExpiry = 3600 * time.Second

var (
	// ErrUnsupportedType is returned for a content type outside AllowedContentTypes.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrEmptyKey is returned when the object key is empty after normalization.
	ErrEmptyKey = errors.New("object key is empty")

	// ErrDisabled is returned when storage credentials are not configured.
	ErrDisabled = errors.New("file storage is not configured")
)

// AllowedContentTypes is the set of content types that may be uploaded.
var AllowedContentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
	"application/pdf",
	"text/plain",
	"text/csv",
}

// Presigned describes a presigned upload.
type Presigned struct {
	URL         string            `json:"url"`
	Method      string            `json:"method"`
	Key         string            `json:"key"`
	Headers     map[string]string `json:"headers,omitempty"`
	PublicURL   string            `json:"publicUrl,omitempty"`
	ContentType string            `json:"contentType"`
	ExpiresAt   time.Time         `json:"expiresAt"`
}

// Presigner signs PUT requests for one bucket.
type Presigner struct {
	client        *s3.PresignClient
	bucket        string
	expiry        time.Duration
	publicBaseURL string
}

// NewPresigner builds a Presigner from cfg. It returns ErrDisabled when the
// bucket, endpoint or credentials are missing.
func NewPresigner(ctx context.Context, cfg config.StorageConfig) (*Presigner, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithBaseEndpoint(cfg.ResolvedEndpoint()),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Presigner{
		client:        s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		expiry:        expiry,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// PresignPut returns a URL the caller can PUT a file of contentType to.
// Leading slashes are stripped from key.
func (p *Presigner) PresignPut(ctx context.Context, key, contentType string) (*Presigned, error) {
	mediaType, err := normalizeContentType(contentType)
	if err != nil {
		metrics.RecordPresign("rejected")
		return nil, err
	}
	key = NormalizeKey(key)
	if key == "" {
		metrics.RecordPresign("rejected")
		return nil, ErrEmptyKey
	}

	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(mediaType),
	}, s3.WithPresignExpires(p.expiry))
	if err != nil {
		metrics.RecordPresign("error")
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	metrics.RecordPresign("ok")
	logging.Ctx(ctx).Debug().Str("key", key).Str("content_type", mediaType).Msg("Presigned upload")

	out := &Presigned{
		URL:         req.URL,
		Method:      req.Method,
		Key:         key,
		ContentType: mediaType,
		ExpiresAt:   time.Now().Add(p.expiry).UTC(),
	}
	if len(req.SignedHeader) > 0 {
		out.Headers = make(map[string]string, len(req.SignedHeader))
		for name, values := range req.SignedHeader {
			if strings.EqualFold(name, "host") || len(values) == 0 {
				continue
			}
			out.Headers[name] = values[0]
		}
	}
	if p.publicBaseURL != "" {
		out.PublicURL = p.publicBaseURL + "/" + key
	}
	return out, nil
}

// NormalizeKey strips leading slashes.
func NormalizeKey(key string) string {
	return strings.TrimLeft(strings.TrimSpace(key), "/")
}

func normalizeContentType(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	if !slices.Contains(AllowedContentTypes, mediaType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}
	return mediaType, nil
}

var (
	unsafeKeyChars = regexp.MustCompile(`[^a-z0-9._-]+`)
	dashAroundDot  = regexp.MustCompile(`-*\.[-.]*`)
)

// NewObjectKey returns a unique lowercase key under prefix for a file named
// filename, for example "uploads/01j8z3...-my-flyer.pdf".
func NewObjectKey(prefix, filename string) string {
	base := unsafeKeyChars.ReplaceAllString(strings.ToLower(path.Base(filename)), "-")
	base = dashAroundDot.ReplaceAllString(base, ".")
	base = strings.Trim(base, "-.")
	id := strings.ToLower(ulid.Make().String())
	name := id
	if base != "" {
		name = id + "-" + base
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
