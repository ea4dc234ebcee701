package cart

import (
	"context"
	"errors"

	"github.com/Mkaify/Nova-Threads/internal/domain"
)

// Storage persists the serialized cart between sessions. Consumers define
// this interface; implementations live alongside it.
type Storage interface {
	Load(ctx context.Context, key string) (*domain.Cart, error)
	Save(ctx context.Context, key string, cart *domain.Cart) error
	Delete(ctx context.Context, key string) error
}

// ErrNotFound means no cart has been persisted under the key. Not an error
// condition for the store: the session simply starts empty.
var ErrNotFound = errors.New("cart not found in storage")
