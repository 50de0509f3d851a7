// Package collection maintains named, role-tagged collections of documents
// and the registry that owns them.
package collection

import (
	"git.home.luguber.info/inful/viewcraft/document"
)

// Role classifies how the documents in a collection are used.
type Role string

const (
	// Renderable documents are render targets (pages).
	Renderable Role = "renderable"
	// Layout documents wrap other documents' content.
	Layout Role = "layout"
	// Partial documents are merged into rendering contexts.
	Partial Role = "partial"
)

// Collection is a named mapping of document keys to records. A key is
// unique within its collection but may repeat across collections.
type Collection struct {
	// Name is the canonical (plural) collection name.
	Name string
	// Alias is the singular form, usable interchangeably in lookups.
	Alias string
	// Roles the collection is registered under. A collection may hold
	// more than one role.
	Roles []Role
	// Options are collection-level defaults merged into every member
	// document's context at low precedence.
	Options map[string]any

	docs  map[string]*document.Document
	order []string
}

func newCollection(name, alias string) *Collection {
	return &Collection{
		Name:    name,
		Alias:   alias,
		Options: map[string]any{},
		docs:    map[string]*document.Document{},
	}
}

// HasRole reports whether the collection is registered under role.
func (c *Collection) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Put stores or overwrites a document under key and decorates the record
// with its collection backreference.
func (c *Collection) Put(key string, doc *document.Document) {
	if _, exists := c.docs[key]; !exists {
		c.order = append(c.order, key)
	}
	doc.Collection = c.Name
	c.docs[key] = doc
}

// Get returns the document stored under key.
func (c *Collection) Get(key string) (*document.Document, bool) {
	doc, ok := c.docs[key]
	return doc, ok
}

// Keys returns the document keys in insertion order.
func (c *Collection) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Len returns the number of documents in the collection.
func (c *Collection) Len() int {
	return len(c.docs)
}
