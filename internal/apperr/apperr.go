// Package apperr holds the error taxonomy shared by every handler and the
// fiber ErrorHandler that renders it as {"message": ...}.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindAuthorization
	KindDuplicate
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindAuthorization:
		return "authorization"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a failure that is safe to show to the client. Message is the
// client-facing text; Err keeps the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Status: fiber.StatusBadRequest, Message: msg}
}

// Auth is used for missing/invalid tokens (401/403) and bad credentials (401).
func Auth(status int, msg string) *Error {
	return &Error{Kind: KindAuth, Status: status, Message: msg}
}

func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Status: fiber.StatusForbidden, Message: msg}
}

func Duplicate(msg string) *Error {
	return &Error{Kind: KindDuplicate, Status: fiber.StatusConflict, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Status: fiber.StatusNotFound, Message: msg}
}

func Server(msg string, err error) *Error {
	return &Error{Kind: KindServer, Status: fiber.StatusInternalServerError, Message: msg, Err: err}
}

// KindOf reports the taxonomy kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

const msgUnexpected = "Terjadi kesalahan pada server."

// Handler is the fiber ErrorHandler for the whole app.
func Handler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *Error
		if errors.As(err, &appErr) {
			if appErr.Kind == KindServer {
				log.Error(appErr.Message,
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Error(appErr.Err))
			}
			return c.Status(appErr.Status).JSON(fiber.Map{"message": appErr.Message})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		log.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgUnexpected})
	}
}
