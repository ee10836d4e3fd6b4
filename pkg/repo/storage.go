package repo

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Storage persists hierarchy snapshots by key. Implementations must be safe
// for concurrent use.
type Storage interface {
	// Write stores data under key, replacing any previous value.
	Write(ctx context.Context, key string, data []byte) error
	// Read returns os.ErrNotExist for unknown keys.
	Read(ctx context.Context, key string) ([]byte, error)
	// List returns the keys starting with prefix, newest (lexically largest) first.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete is a no-op for unknown keys.
	Delete(ctx context.Context, key string) error
	Close() error
}

// ErrInvalidKey is returned for keys a backend can not address
var ErrInvalidKey = errors.New("invalid storage key")

func validateKey(key string) error {
	switch {
	case key == "", key == ".", key == "..":
		return errors.Wrapf(ErrInvalidKey, "%q", key)
	case strings.ContainsAny(key, `/\`):
		return errors.Wrapf(ErrInvalidKey, "%q contains a path separator", key)
	}
	return nil
}

func sortKeysDesc(keys []string) []string {
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}
