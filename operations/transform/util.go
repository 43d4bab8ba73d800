// Package transform provides operations for manipulating the Rows, columns
// and partitioning of Collections, for use with Collection.To()
package transform

import (
	"fmt"
	"log"

	"github.com/gofrs/uuid"
)

// opToken fingerprints an operation whose behaviour lives in an opaque
// user-supplied function, which cannot be content-addressed. The token is
// generated once per operation value, so applying the same operation value
// twice deduplicates while distinct functions never collide.
func opToken() string {
	token, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("unable to generate operation token: %v", err)
	}
	return fmt.Sprintf("fn=%s", token.String())
}
