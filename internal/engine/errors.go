package engine

import (
	"errors"

	"github.com/tartampluch/go-age/internal/config"
)

var (
	// ErrInvalidDate reports an input that is not a valid calendar date.
	ErrInvalidDate = errors.New(config.ErrInvalidDate)

	// ErrReferenceBeforeBirth reports an invalid range: the reference instant precedes birth.
	ErrReferenceBeforeBirth = errors.New(config.ErrReferenceBefore)
)
