package services

import (
	"errors"
)

var (
	// ErrDuplicateCode is returned when an insert would reuse an existing
	// document or record code. The insert is skipped, never merged.
	ErrDuplicateCode = errors.New("code already registered")

	// ErrDuplicateName is returned when a personnel insert would reuse an
	// existing full name.
	ErrDuplicateName = errors.New("name already registered")

	// ErrNotFound is returned when a code or name matches no stored row.
	ErrNotFound = errors.New("not found")

	// ErrPersonReferenced guards personnel deletion: the name is still a
	// document's update owner.
	ErrPersonReferenced = errors.New("person is referenced as a document update owner")
)
