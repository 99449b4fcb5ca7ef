package view

import (
	"errors"
	"fmt"

	"budget/internal/core"
)

// ErrorMessage turns a rejected input event into text for the user.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyDescription):
		return "Please enter a description"
	case errors.Is(err, core.ErrDescriptionTooLong):
		return fmt.Sprintf("Description is too long (max %d characters)", core.MaxDescriptionLength)
	case errors.Is(err, core.ErrInvalidValue):
		return "Please enter a value greater than zero"
	case errors.Is(err, core.ErrInvalidCategory):
		return "Please choose income or expense"
	case errors.Is(err, core.ErrInvalidItemID):
		return "Unknown item"
	default:
		return "Invalid input"
	}
}
