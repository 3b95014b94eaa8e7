package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrWrongTurn    = errors.New("wrong turn")
	ErrValidation   = errors.New("request validation failed")
	ErrGameNotFound = errors.New("game not found")
)

// IllegalMoveError carries the reason a move broke the rules.
type IllegalMoveError struct {
	Reason string
}

func NewIllegalMove(format string, args ...any) *IllegalMoveError {
	return &IllegalMoveError{Reason: fmt.Sprintf(format, args...)}
}

func (that *IllegalMoveError) Error() string {
	return ErrIllegalMove.Error() + ": " + that.Reason
}

func (that *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (that *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(that.Fields, ", "))
}

func (that *ValidationError) Unwrap() error {
	return ErrValidation
}
