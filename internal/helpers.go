package internal

import (
	"fmt"
)

// AssertNoError panics on errors that would indicate a bug, not a user or environment problem.
func AssertNoError(err error, because string) {
	if err != nil {
		panic(fmt.Errorf("error unexpected because %s: %w", because, err))
	}
}
