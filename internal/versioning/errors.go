// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package versioning

import (
	"errors"
	"fmt"
)

// Error kinds returned by the Service. Match them with errors.Is; the
// wrapped message carries the detail.
var (
	// ErrNotFound means no item exists for the given key.
	ErrNotFound = errors.New("content not found")

	// ErrValidation means the request itself is unacceptable: missing
	// required fields, an unknown content type, a duplicate singleton.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState means the operation is illegal for the item's
	// current status, such as editing an archived item.
	ErrInvalidState = errors.New("invalid state")

	// ErrStorage means the repository failed. The item is unchanged and
	// the caller may retry.
	ErrStorage = errors.New("storage failure")
)

// ErrDuplicate is returned by a Repository when an insert collides with an
// existing key or with the one-per-site singleton constraint.
var ErrDuplicate = errors.New("duplicate content")

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func invalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func notFound(op string, key string) error {
	return fmt.Errorf("%s %s: %w", op, key, ErrNotFound)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
