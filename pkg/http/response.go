package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes the API envelope with statusCode as both HTTP status and body status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, envelope(statusCode, data))
}

// EncodeResponse renders the envelope once so it can be cached and replayed with RawDataResponse.
func EncodeResponse(statusCode int, data interface{}) ([]byte, error) {
	return json.Marshal(envelope(statusCode, data))
}

// RawDataResponse writes an already encoded envelope.
func RawDataResponse(c echo.Context, statusCode int, body []byte) error {
	return c.JSONBlob(statusCode, body)
}

func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// BadRequestResponse writes the []ValidationError returned by ReadAndValidateRequest.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusBadRequest, data)
}

func InternalServerErrorResponse(c echo.Context) error {
	return AppErrorResponse(c, InternalError("Something went wrong"))
}

// AppErrorResponse writes err as a one-element error list. Errors that are not an *AppError
// become a 500 without leaking their text.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError("Something went wrong")
	}
	return DataResponse(c, appErr.Status, []*AppError{appErr})
}

func envelope(statusCode int, data interface{}) APIResponse {
	return APIResponse{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Data:    data,
	}
}
