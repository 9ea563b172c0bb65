package notiflist

import "github.com/nhle/notification-center/internal/model"

// CacheState is the lifecycle of the cached list.
type CacheState int

const (
	NotLoaded CacheState = iota
	Loading
	Loaded
	Error
)

func (s CacheState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	default:
		return "not_loaded"
	}
}

// Cache holds the last list fetched from the service. Every invalidation
// bumps the generation; results tagged with an older generation are dropped.
type Cache struct {
	state CacheState
	gen   uint64
	items []model.Notification
	err   error
}

// State returns the current cache state.
func (c *Cache) State() CacheState {
	return c.state
}

// Generation returns the current generation.
func (c *Cache) Generation() uint64 {
	return c.gen
}

// Items returns the cached notifications in server order. It is nil until
// the first successful load.
func (c *Cache) Items() []model.Notification {
	return c.items
}

// Err returns the error of the last failed load.
func (c *Cache) Err() error {
	return c.err
}

// Begin moves the cache to Loading and returns the generation the request
// must carry. It returns false when a load is in flight or the cache is
// already loaded.
func (c *Cache) Begin() (uint64, bool) {
	if c.state == Loading || c.state == Loaded {
		return 0, false
	}
	c.state = Loading
	c.err = nil
	return c.gen, true
}

// Resolve stores a successful result. It returns false and changes nothing
// when gen is stale.
func (c *Cache) Resolve(gen uint64, items []model.Notification) bool {
	if gen != c.gen || c.state != Loading {
		return false
	}
	if items == nil {
		items = []model.Notification{}
	}
	c.items = items
	c.state = Loaded
	return true
}

// Fail records a failed load. It returns false when gen is stale.
func (c *Cache) Fail(gen uint64, err error) bool {
	if gen != c.gen || c.state != Loading {
		return false
	}
	c.state = Error
	c.err = err
	return true
}

// Invalidate forces the next Begin to fetch again. Cached items stay
// visible until they are replaced.
func (c *Cache) Invalidate() {
	c.gen++
	c.state = NotLoaded
	c.err = nil
}

// MarkRead flips the read flag of item id. It reports whether an unread
// item was found.
func (c *Cache) MarkRead(id string) bool {
	for i := range c.items {
		if c.items[i].ID == id && !c.items[i].Read {
			c.items[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead flips every cached item to read.
func (c *Cache) MarkAllRead() {
	for i := range c.items {
		c.items[i].Read = true
	}
}

// Remove drops item id. It reports whether the item was present.
func (c *Cache) Remove(id string) bool {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the cached item with id.
func (c *Cache) Find(id string) (model.Notification, bool) {
	for _, n := range c.items {
		if n.ID == id {
			return n, true
		}
	}
	return model.Notification{}, false
}
