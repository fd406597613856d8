package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a business error so handlers can map it to a status code
// without inspecting individual codes.
type Kind string

const (
	KindValidation Kind = "validation"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
	KindAuth       Kind = "auth"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func Validation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func Validationf(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func Permission(code string) error {
	return BusinessError{Kind: KindPermission, Code: code}
}

func NotFoundErr(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func Auth(code string) error {
	return BusinessError{Kind: KindAuth, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// FromError writes a business error with its natural status, or a 500 with
// the fallback code for anything unclassified.
func FromError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, fallbackCode, fallbackMessage)
		return
	}

	msg := be.Message
	if msg == "" {
		msg = fallbackMessage
	}

	switch be.Kind {
	case KindValidation:
		Write(c, http.StatusBadRequest, be.Code, msg)
	case KindPermission:
		Write(c, http.StatusForbidden, be.Code, msg)
	case KindNotFound:
		Write(c, http.StatusNotFound, be.Code, msg)
	case KindAuth:
		Write(c, http.StatusUnauthorized, be.Code, msg)
	default:
		Internal(c, fallbackCode, fallbackMessage)
	}
}
