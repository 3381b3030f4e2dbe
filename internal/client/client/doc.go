// Package client is the HTTP transport of the bucket-list client.
//
// It knows the backend only as "JSON over HTTP under a base URL": requests
// carry an optional bearer credential and a fresh X-Request-ID; answers are
// mapped onto a small error vocabulary callers match with errors.Is/As:
//
//   - ErrUnavailable: the request did not complete (connection, timeout).
//   - *APIError: a non-2xx answer, with the backend's message. A 401
//     additionally matches ErrUnauthorized.
//
// ErrAuthRequired is not produced here; services return it before calling
// Do when the session holds no credential. No request is ever retried.
package client
