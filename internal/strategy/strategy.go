package strategy

import (
	"context"

	"github.com/mvp-joe/tagscan/internal/model"
)

// Strategy extracts tags from files of one language family.
//
// ExtractTags returns the constructs found in the file, in the
// strategy's own extraction order. A file the strategy cannot make
// sense of (wrong extension, unparseable content) yields an empty
// result and a nil error; an error is only returned when the file
// itself cannot be read. Implementations are process-lifetime
// singletons and must not keep state between calls.
type Strategy interface {
	// Language returns the identifier recorded on index entries this
	// strategy claims.
	Language() string

	// Extensions returns the file extensions this strategy accepts,
	// lower-cased, with the leading dot.
	Extensions() []string

	// ExtractTags parses the file at path and returns its constructs.
	ExtractTags(ctx context.Context, path string) ([]model.Tag, error)
}
