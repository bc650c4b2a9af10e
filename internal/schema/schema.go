// Package schema is the single place that knows how each entity kind is laid
// out in the document store. Everything else treats payloads as opaque.
package schema

import (
	"fmt"

	"github.com/promptstack/console-backend/internal/domain"
)

// Style is the physical storage shape of a kind.
type Style int

const (
	// Flat kinds live in a single top-level collection.
	Flat Style = iota
	// PerTenant kinds are nested one level under a per-tenant parent:
	// <collection>/<ownerId>/<collection>.
	PerTenant
)

// Locator describes where a kind's documents live.
type Locator struct {
	Style      Style
	Collection string
	// GroupIndexed reports whether the store maintains a cross-tenant index
	// for this collection name. Only meaningful for PerTenant kinds; when
	// false, cross-tenant reads must scatter-gather over tenants.
	GroupIndexed bool
}

// SubPath returns the physical path of one tenant's subcollection.
func (l Locator) SubPath(ownerID string) string {
	return l.Collection + "/" + ownerID + "/" + l.Collection
}

var locators = map[domain.Kind]Locator{
	domain.KindUser:       {Style: Flat, Collection: "users"},
	domain.KindProduct:    {Style: Flat, Collection: "products"},
	domain.KindStack:      {Style: Flat, Collection: "mystacks"},
	domain.KindPrompt:     {Style: PerTenant, Collection: "myprompts"},
	domain.KindCollection: {Style: PerTenant, Collection: "mycollections", GroupIndexed: true},
	domain.KindAgent:      {Style: PerTenant, Collection: "myagents", GroupIndexed: true},
}

// GroupIndexedCollections returns the collection names the store keeps a
// cross-tenant index for. Used to configure store adapters.
func GroupIndexedCollections() []string {
	var names []string
	for _, loc := range locators {
		if loc.GroupIndexed {
			names = append(names, loc.Collection)
		}
	}
	return names
}

// Resolve returns the storage locator for a kind.
// An unknown kind is a programmer error, not admin input.
func Resolve(kind domain.Kind) (Locator, error) {
	loc, ok := locators[kind]
	if !ok {
		return Locator{}, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}
	return loc, nil
}
