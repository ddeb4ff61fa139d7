// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package uploads

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/volunteerhub/internal/config"
)

func testStorageConfig() config.StorageConfig {
	return config.StorageConfig{
		Bucket:          "volunteerhub-static",
		AccountID:       "abc123",
		Region:          "auto",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		PublicBaseURL:   "https://static.example.org/",
	}
}

func newTestPresigner(t *testing.T) *Presigner {
	t.Helper()
	p, err := NewPresigner(context.Background(), testStorageConfig())
	if err != nil {
		t.Fatalf("NewPresigner: %v", err)
	}
	return p
}

func TestNewPresigner_Disabled(t *testing.T) {
	t.Parallel()

	cfg := testStorageConfig()
	cfg.SecretAccessKey = ""
	if _, err := NewPresigner(context.Background(), cfg); !errors.Is(err, ErrDisabled) {
		t.Errorf("NewPresigner() = %v, want ErrDisabled", err)
	}
}

func TestPresignPut(t *testing.T) {
	t.Parallel()
	p := newTestPresigner(t)

	got, err := p.PresignPut(context.Background(), "///images/flyer.png", "image/png")
	if err != nil {
		t.Fatalf("PresignPut: %v", err)
	}
	if got.Key != "images/flyer.png" {
		t.Errorf("Key = %q, want leading slashes stripped", got.Key)
	}
	if got.Method != "PUT" {
		t.Errorf("Method = %q", got.Method)
	}
	if got.PublicURL != "https://static.example.org/images/flyer.png" {
		t.Errorf("PublicURL = %q", got.PublicURL)
	}

	u, err := url.Parse(got.URL)
	if err != nil {
		t.Fatalf("parse URL: %v", err)
	}
	if u.Host != "abc123.r2.cloudflarestorage.com" {
		t.Errorf("host = %q, want R2 account endpoint", u.Host)
	}
	if !strings.HasSuffix(u.Path, "/volunteerhub-static/images/flyer.png") {
		t.Errorf("path = %q", u.Path)
	}
	if exp := u.Query().Get("X-Amz-Expires"); exp != "3600" {
		t.Errorf("X-Amz-Expires = %q, want 3600", exp)
	}
	if time.Until(got.ExpiresAt) <= 59*time.Minute {
		t.Errorf("ExpiresAt = %v, want about an hour ahead", got.ExpiresAt)
	}
}

func TestPresignPut_Rejects(t *testing.T) {
	t.Parallel()
	p := newTestPresigner(t)

	tests := []struct {
		name        string
		key         string
		contentType string
		want        error
	}{
		{"executable", "a.exe", "application/x-msdownload", ErrUnsupportedType},
		{"html", "a.html", "text/html", ErrUnsupportedType},
		{"malformed type", "a.png", "image/", ErrUnsupportedType},
		{"empty key", "///", "image/png", ErrEmptyKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := p.PresignPut(context.Background(), tt.key, tt.contentType); !errors.Is(err, tt.want) {
				t.Errorf("PresignPut() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPresignPut_ContentTypeParameters(t *testing.T) {
	t.Parallel()
	p := newTestPresigner(t)

	got, err := p.PresignPut(context.Background(), "notes.txt", "text/plain; charset=utf-8")
	if err != nil {
		t.Fatalf("PresignPut: %v", err)
	}
	if got.ContentType != "text/plain" {
		t.Errorf("ContentType = %q", got.ContentType)
	}
}

func TestNewObjectKey(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^uploads/[0-9a-z]{26}-my-flyer-2026.pdf$`)
	a := NewObjectKey("/uploads/", "../../My Flyer (2026).pdf")
	b := NewObjectKey("uploads", "../../My Flyer (2026).pdf")
	if !pattern.MatchString(a) {
		t.Errorf("NewObjectKey() = %q", a)
	}
	if a == b {
		t.Error("keys should be unique")
	}
	if got := NewObjectKey("", ""); !regexp.MustCompile(`^[0-9a-z]{26}$`).MatchString(got) {
		t.Errorf("NewObjectKey(empty) = %q", got)
	}
}

func TestNewObjectKey_BaseName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"IMG 01 .JPG":       "img-01.jpg",
		"Report.-Final.PDF": "report.final.pdf",
		".hidden":           "hidden",
		"Team Photo.png":    "team-photo.png",
		"(((.txt":           "txt",
	}
	for filename, want := range tests {
		got := NewObjectKey("", filename)
		if _, base, ok := strings.Cut(got, "-"); !ok || base != want {
			t.Errorf("NewObjectKey(%q) = %q, want suffix %q", filename, got, want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{"/a/b": "a/b", "a": "a", " //x ": "x", "": ""} {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
