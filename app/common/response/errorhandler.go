package response

import (
	"context"
	"errors"
	"net/http"

	"TripShopper/app/common/consts/errno"

	xerrors "github.com/zeromicro/x/errors"
)

// ErrorHandler renders coded errors as a 200 envelope and anything else,
// typically a request parse failure, as an invalid parameter.
func ErrorHandler(_ context.Context, err error) (int, any) {
	var codeMsg *xerrors.CodeMsg
	if errors.As(err, &codeMsg) {
		return http.StatusOK, NewResponse(codeMsg.Code, codeMsg.Msg)
	}
	return http.StatusBadRequest, NewResponse(errno.InvalidParam, err.Error())
}
