package store

import "errors"

// Sentinel errors returned (wrapped) by store functions.
var (
	ErrNotFound         = errors.New("not found")
	ErrInUse            = errors.New("still referenced")
	ErrInvalidReference = errors.New("referenced row does not exist")
	ErrDuplicate        = errors.New("already exists")
)

type scanner interface {
	Scan(dest ...any) error
}
