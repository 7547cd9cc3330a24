package lifecycle

import (
	"errors"

	"github.com/gofrs/uuid/v5"
)

// Error taxonomy for mutating operations. None of these cross the module
// boundary as panics or raw errors: every entry point folds them into a
// Result the presentation layer can surface verbatim.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("record not found")
	ErrValidation          = errors.New("invalid fields")
	ErrStorage             = errors.New("could not store file")
	ErrReferentialConflict = errors.New("in use")
	ErrPersistence         = errors.New("could not save record")
)

// Result is the outcome of a mutation. Message is shown to the user as-is.
type Result struct {
	OK      bool      `json:"ok"`
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id,omitempty"`
}

func success(id uuid.UUID, message string) Result {
	return Result{OK: true, Message: message, ID: id}
}

func failure(err error) Result {
	return Result{OK: false, Message: err.Error()}
}
