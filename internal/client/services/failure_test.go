package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/bucketlist/internal/client/client"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    Kind
		message string
	}{
		{"auth required", client.ErrAuthRequired, KindAuth, MsgAuthRequired},
		{"expired", &client.APIError{Status: 401, Message: "Token is invalid or expired"}, KindAuth, MsgSessionExpired},
		{"unavailable", fmt.Errorf("%w: dial tcp", client.ErrUnavailable), KindNetwork, MsgNetwork},
		{"deadline", context.DeadlineExceeded, KindNetwork, MsgNetwork},
		{"canceled", context.Canceled, KindNetwork, MsgCanceled},
		{"rejected", &client.APIError{Status: 400, Message: "title: This field may not be blank."}, KindServer, "title: This field may not be blank."},
		{"other", errors.New("decode response: EOF"), KindServer, MsgUnexpectedReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *Failure
			assert.True(t, errors.As(translate(tt.err), &f))
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.message, f.Message)
			assert.ErrorIs(t, f, tt.err)
		})
	}
}

func TestTranslate_FailurePassesThrough(t *testing.T) {
	f := validation("title is required")
	assert.Same(t, f, translate(f))
	assert.Nil(t, translate(nil))
}

func TestAsResult(t *testing.T) {
	assert.Equal(t, Result{Success: true}, AsResult(nil))
	assert.Equal(t, Result{Error: MsgPasswordsMismatch}, AsResult(validation(MsgPasswordsMismatch)))
	assert.Equal(t, Result{Error: MsgNetwork}, AsResult(client.ErrUnavailable))
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", validation("x"))
	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(err, KindAuth))
	assert.False(t, IsKind(errors.New("plain"), KindValidation))
}
