// Package fault holds the error kinds shared by all layers.
// Callers match them with errors.Is; every layer wraps them with context.
package fault

import "errors"

var (
	ErrInvalidPath   = errors.New("invalid path")            //malformed or escaping the project root
	ErrParse         = errors.New("malformed document")      //project or filter file cannot be understood
	ErrNotFound      = errors.New("no match")                //delete/rename target matches nothing
	ErrAlreadyExists = errors.New("already exists")          //rename target collision, resolved by merging
	ErrIoFailure     = errors.New("document access failed") //read or write of either document failed
)
