package collection

import (
	"sync"

	"github.com/gobuffalo/flect"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/viewcraft/document"
	vcerrors "git.home.luguber.info/inful/viewcraft/errors"
)

// RenameKey normalizes a lookup key to a document key. The default NFC
// normalizes the path so visually identical keys compare equal.
type RenameKey func(key string) string

// DefaultRenameKey NFC-normalizes the key.
func DefaultRenameKey(key string) string {
	return norm.NFC.String(key)
}

// Registry owns all collections of an application context. Lookups are
// collection-scoped except FindFirst, which scans a role group in
// registration order.
type Registry struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	order       []string
	renameKey   RenameKey
}

// NewRegistry creates an empty registry.
func NewRegistry(rename RenameKey) *Registry {
	if rename == nil {
		rename = DefaultRenameKey
	}
	return &Registry{
		collections: map[string]*Collection{},
		renameKey:   rename,
	}
}

// RegisterOption configures a collection at registration time.
type RegisterOption func(*Collection)

// WithRoles sets the collection's roles.
func WithRoles(roles ...Role) RegisterOption {
	return func(c *Collection) { c.Roles = append(c.Roles, roles...) }
}

// WithAlias overrides the derived singular alias.
func WithAlias(alias string) RegisterOption {
	return func(c *Collection) { c.Alias = alias }
}

// WithOptions sets collection-level default options.
func WithOptions(opts map[string]any) RegisterOption {
	return func(c *Collection) {
		for k, v := range opts {
			c.Options[k] = v
		}
	}
}

// Register creates or updates a named collection. The canonical name is the
// plural form; the singular alias is derived unless overridden. A
// collection with no role defaults to partial.
func (r *Registry) Register(name string, opts ...RegisterOption) (*Collection, error) {
	if name == "" {
		return nil, vcerrors.Config("collection name must be a non-empty string")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	canonical := flect.Pluralize(name)
	coll, exists := r.collections[canonical]
	if !exists {
		coll = newCollection(canonical, flect.Singularize(name))
		r.collections[canonical] = coll
		r.order = append(r.order, canonical)
	}
	for _, opt := range opts {
		opt(coll)
	}
	if len(coll.Roles) == 0 {
		coll.Roles = []Role{Partial}
	}
	return coll, nil
}

// Collection returns a collection by canonical name or singular alias.
func (r *Registry) Collection(name string) (*Collection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(name)
}

func (r *Registry) lookup(name string) (*Collection, bool) {
	if coll, ok := r.collections[name]; ok {
		return coll, true
	}
	for _, coll := range r.collections {
		if coll.Alias == name {
			return coll, true
		}
	}
	return nil, false
}

// Put stores a document under key in the named collection.
func (r *Registry) Put(collectionName, key string, doc *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	coll, ok := r.lookup(collectionName)
	if !ok {
		return vcerrors.NotFound("collection %q not registered", collectionName)
	}
	coll.Put(r.renameKey(key), doc)
	return nil
}

// Get returns the document stored under key in the named collection.
func (r *Registry) Get(collectionName, key string) (*document.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coll, ok := r.lookup(collectionName)
	if !ok {
		return nil, false
	}
	return coll.Get(r.renameKey(key))
}

// ByRole returns the collections registered under role, in registration
// order.
func (r *Registry) ByRole(role Role) []*Collection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Collection
	for _, name := range r.order {
		if coll := r.collections[name]; coll.HasRole(role) {
			out = append(out, coll)
		}
	}
	return out
}

// FindFirst scans the role's collections in registration order and returns
// the first document stored under key.
func (r *Registry) FindFirst(role Role, key string) (*document.Document, error) {
	normalized := r.renameKey(key)
	for _, coll := range r.ByRole(role) {
		if doc, ok := coll.Get(normalized); ok {
			return doc, nil
		}
	}
	return nil, vcerrors.NotFound("no %s document matches %q", string(role), key)
}

// Rename applies the registry's key-normalization function.
func (r *Registry) Rename(key string) string {
	return r.renameKey(key)
}
