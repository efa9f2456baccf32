package filters

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IdentifierSource yields values for <UniqueIdentifier>. Uniqueness against existing filters is checked by the index.
type IdentifierSource func() string

// NewIdentifier produces a random GUID in the braced upper-case form Visual Studio writes.
func NewIdentifier() string {
	return "{" + strings.ToUpper(uuid.NewString()) + "}"
}

// SequentialIdentifiers counts upwards from 1, for reproducible output.
func SequentialIdentifiers() IdentifierSource {
	var counter atomic.Uint64
	return func() string {
		return fmt.Sprintf("{00000000-0000-0000-0000-%012X}", counter.Add(1))
	}
}

const identifierAttempts = 100

func (x *Index) freshIdentifier() string {
	for range identifierAttempts {
		candidate := x.identifiers()
		if !x.identifierTaken(candidate) {
			return candidate
		}
	}
	panic(fmt.Sprintf("identifier source returned only taken values in %d attempts", identifierAttempts))
}

func (x *Index) identifierTaken(id string) bool {
	for _, f := range x.filters {
		if strings.EqualFold(f.Identifier, id) {
			return true
		}
	}
	return false
}
