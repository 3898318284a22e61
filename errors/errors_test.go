package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	underlying := stderrors.New("boom")

	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "op only",
			err:      NewError("session", underlying),
			expected: "butler.session: boom",
		},
		{
			name:     "with group",
			err:      NewGroupError("describeLogStreams", "/app/web", underlying),
			expected: "butler.describeLogStreams group /app/web: boom",
		},
		{
			name:     "with name",
			err:      NewNameError("getParameter", "/svc/db/pass", underlying),
			expected: "butler.getParameter /svc/db/pass: boom",
		},
		{
			name:     "with group and name",
			err:      NewGroupError("getLogEvents", "/app/web", underlying).WithName("stream-1"),
			expected: "butler.getLogEvents /app/web/stream-1: boom",
		},
		{
			name:     "with message",
			err:      NewError("validateName", ErrInvalidName).WithMessage("too many levels"),
			expected: "butler.validateName: too many levels: " + ErrInvalidName.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	underlying := stderrors.New("boom")
	err := NewGroupError("describeLogStreams", "/app/web", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.ErrorIs(t, fmt.Errorf("outer: %w", err), underlying)

	var butlerErr *Error
	assert.ErrorAs(t, fmt.Errorf("outer: %w", err), &butlerErr)
	assert.Equal(t, "/app/web", butlerErr.Group)
}

func TestSentinelHelpers(t *testing.T) {
	assert.True(t, IsInvalidName(NewNameError("validateName", "/aws/x", ErrInvalidName)))
	assert.False(t, IsInvalidName(stderrors.New("other")))
	assert.True(t, IsMalformedEnvFile(fmt.Errorf("line 3: %w", ErrMalformedEnvFile)))
}

func TestAPIErrorCode(t *testing.T) {
	wrapped := NewNameError("getParameter", "/a", &ssmtypes.ParameterNotFound{})
	assert.Equal(t, "ParameterNotFound", APIErrorCode(wrapped))
	assert.Empty(t, APIErrorCode(stderrors.New("local failure")))
}
