package services

import (
	"github.com/collegefest/champboard/internal/errors"
	"github.com/collegefest/champboard/internal/repository"
)

// Service errors
var (
	ErrNoFieldsToUpdate  = errors.Validation("No valid fields provided for update")
	ErrSameDepartments   = errors.Validation("a fixture needs two different departments")
	ErrEventTimeOrder    = errors.Validation("start time must be before end time")
	ErrPositionTaken     = errors.Conflict("position is already taken for this event")
	ErrInvalidDepartment = errors.Validation("department id must be letters, digits or underscores")
)

// translate maps repository sentinels to application errors. what names the
// missing or clashing record for the message.
func translate(err error, what string) error {
	switch err {
	case nil:
		return nil
	case repository.ErrNotFound:
		return errors.NotFoundf("%s not found", what)
	case repository.ErrDuplicate:
		return errors.Conflictf("%s already exists", what)
	}
	return errors.Wrap(err, errors.ErrInternal, what)
}
