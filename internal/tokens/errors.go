package tokens

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the class of errors caused by caller input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedToken is returned when an address or symbol matches no
	// allow-listed token. Retrying with the same input cannot succeed.
	ErrUnsupportedToken = fmt.Errorf("%w: unsupported token", ErrInvalidArgument)
)
