package client

import (
	"context"
	"io"
)

// Client performs one request against the backend and decodes a 2xx JSON
// answer into out (which may be nil). Failed calls are never retried.
type Client interface {
	Do(ctx context.Context, req Request, out any) error
}

// Request describes a call relative to the configured base URL.
//
// At most one of Body and Form is set. Body is sent as JSON; Form as
// multipart/form-data. Token, when non-empty, is sent as a bearer credential.
type Request struct {
	Method string
	Path   string
	Token  string
	Body   any
	Form   *Form
}

// Form is a multipart payload.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

// FormFile is one file part of a Form.
type FormFile struct {
	Field       string
	Name        string
	ContentType string
	Content     io.Reader
}
