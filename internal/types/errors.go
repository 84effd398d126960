package types

import (
	"errors"
	"fmt"
)

var (
	// ErrRedefinition is matched by *RedefinitionError.
	ErrRedefinition = errors.New("type redefinition")
	// ErrExists is returned by Insert when the name is taken, even by a placeholder.
	ErrExists = errors.New("type already exists")
	// ErrNoBase is returned by AddPointer for a base that is not in the table.
	ErrNoBase = errors.New("pointer base is not in the table")
)

// RedefinitionError reports a second definition of an already defined name.
type RedefinitionError struct {
	Name     string
	PrevPath string
	PrevLine uint32
}

func (e *RedefinitionError) Error() string {
	if e.PrevPath != "" {
		return fmt.Sprintf("Redefinition of %s (previously defined at %s:%d)", e.Name, e.PrevPath, e.PrevLine)
	}
	return fmt.Sprintf("Redefinition of %s", e.Name)
}

func (e *RedefinitionError) Unwrap() error { return ErrRedefinition }
