package reduce

import (
	"fmt"
	"log"

	"github.com/gofrs/uuid"
)

// opToken fingerprints a reduction whose behaviour lives in opaque
// user-supplied phase functions, which cannot be content-addressed. The token
// is generated once per operation value, so applying the same operation value
// twice deduplicates while distinct reductions never collide.
func opToken() string {
	token, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("unable to generate operation token: %v", err)
	}
	return fmt.Sprintf("fn=%s", token.String())
}
