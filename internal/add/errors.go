package add

import (
	"errors"
	"fmt"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/sources"
)

var (
	ErrAlreadyAdded        = errors.New("the project has already been added")
	ErrDistributionDenied  = sources.ErrDistributionDenied
	ErrDoesNotExist        = errors.New("the project does not exist")
	ErrNotAMod             = errors.New("the project is not a mod")
	ErrIncorrectVersionPin = errors.New("the specified version pin does not exist for this mod")
	ErrInvalidIdentifier   = config.ErrInvalidIdentifier
)

// IncompatibleError is returned when the compatibility check of a project fails.
type IncompatibleError struct {
	Err error
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("the project is not compatible because %v", e.Err)
}

func (e *IncompatibleError) Unwrap() error {
	return e.Err
}

// GitHubError is a per-repository failure reported by GitHub.
type GitHubError struct {
	Err error
}

func (e *GitHubError) Error() string {
	return fmt.Sprintf("GitHub: %v", e.Err)
}

func (e *GitHubError) Unwrap() error {
	return e.Err
}
