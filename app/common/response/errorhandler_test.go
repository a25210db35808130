package response

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"TripShopper/app/common/consts/errno"

	"github.com/stretchr/testify/assert"
	xerrors "github.com/zeromicro/x/errors"
)

func TestErrorHandler(t *testing.T) {
	status, body := ErrorHandler(context.Background(), xerrors.New(errno.EmptyMessage, "message must not be empty"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, NewResponse(errno.EmptyMessage, "message must not be empty"), body)

	wrapped := fmt.Errorf("chat: %w", xerrors.New(errno.SessionUnavailable, "busy"))
	status, body = ErrorHandler(context.Background(), wrapped)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, NewResponse(errno.SessionUnavailable, "busy"), body)

	status, body = ErrorHandler(context.Background(), fmt.Errorf("field \"message\" is not set"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errno.InvalidParam, body.(Response).StatusCode)
}
