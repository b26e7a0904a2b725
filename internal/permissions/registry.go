package permissions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Permission describes a capability registered by a module.
type Permission struct {
	ID          string
	Module      string
	Implies     []string
	Description string
}

// ErrUnknownPermission is returned when a permission id is not in the registry.
var ErrUnknownPermission = errors.New("permission: unknown id")

type registry struct {
	mu          sync.RWMutex
	permissions map[string]*Permission
}

var globalRegistry = &registry{permissions: make(map[string]*Permission)}

// Register adds a permission definition to the global registry. It panics on
// duplicate or malformed definitions since registration happens at init time.
func Register(perm Permission) {
	id := strings.TrimSpace(perm.ID)
	if id == "" {
		panic("permission: id is required")
	}
	for _, implied := range perm.Implies {
		if implied == id {
			panic(fmt.Sprintf("permission %q cannot imply itself", id))
		}
	}

	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if _, exists := globalRegistry.permissions[id]; exists {
		panic(fmt.Sprintf("permission %q already registered", id))
	}
	cpy := perm
	cpy.ID = id
	globalRegistry.permissions[id] = &cpy
}

// Get returns the permission definition for the given id.
func Get(id string) (*Permission, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	perm, ok := globalRegistry.permissions[id]
	return perm, ok
}

// GetAll returns a copy of the full registry keyed by permission id.
func GetAll() map[string]Permission {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	out := make(map[string]Permission, len(globalRegistry.permissions))
	for id, perm := range globalRegistry.permissions {
		out[id] = *perm
	}
	return out
}

// IDs returns all registered permission ids in sorted order.
func IDs() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	ids := make([]string, 0, len(globalRegistry.permissions))
	for id := range globalRegistry.permissions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
