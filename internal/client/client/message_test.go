package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "detail", status: 403, body: `{"detail": "Only owner can delete."}`, want: "Only owner can delete."},
		{name: "message", status: 400, body: `{"message": "Login failed"}`, want: "Login failed"},
		{name: "error", status: 400, body: `{"error": "Invalid credentials"}`, want: "Invalid credentials"},
		{name: "non field errors", status: 400, body: `{"non_field_errors": ["Unable to log in."]}`, want: "Unable to log in."},
		{
			name:   "field errors flattened in key order",
			status: 400,
			body:   `{"username": ["A user with that username already exists."], "email": ["Enter a valid email address."]}`,
			want:   "email: Enter a valid email address.; username: A user with that username already exists.",
		},
		{name: "nested field errors", status: 400, body: `{"profile": {"bio": ["Too long."]}}`, want: "profile: bio: Too long."},
		{name: "plain list", status: 400, body: `["first", "second"]`, want: "first second"},
		{name: "empty object", status: 500, body: `{}`, want: "request failed with status 500"},
		{name: "html", status: 502, body: `<html>Bad gateway</html>`, want: "request failed with status 502"},
		{name: "empty body", status: 404, body: ``, want: "request failed with status 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.status, []byte(tt.body)))
		})
	}
}
