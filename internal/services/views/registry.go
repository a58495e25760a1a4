package views

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"adminconsole/internal/listquery"
)

// Resource names a list the console can open.
type Resource string

const (
	ResourceCorporates Resource = "corporates"
	ResourceUsers      Resource = "users"
	ResourceProjects   Resource = "projects"
	ResourcePhases     Resource = "phases"
	ResourceTaskGroups Resource = "task-groups"
)

// Handle is a running list controller with its item type erased.
type Handle interface {
	Namespace() string
	SetPage(p int)
	SetLimit(l int)
	SetSearchTerm(term string)
	SetFilters(f listquery.Filters)
	Sync()
	Refetch()
	Changed() <-chan struct{}
	Close()
	View() any
}

type handle[R any, T any] struct {
	*listquery.Controller[R, T]
}

func (h handle[R, T]) View() any { return h.Snapshot() }

// Env is what a factory needs to build a controller for one view.
type Env struct {
	Client    *listquery.Client
	Backend   Backend
	Token     func() string
	Corporate func() string
	ProjectID string
	Page      int
	Limit     int
	Filters   listquery.Filters
	Debounce  time.Duration
	Poll      listquery.PollPolicy
	Clock     clockwork.Clock
	OnNotice  func(listquery.Notice)
}

// Definition describes how to open one resource.
type Definition struct {
	Resource  Resource
	Namespace string
	// FilterKeys lists the identity filters accepted from clients.
	FilterKeys []string
	// Corporate and Project report whether the list lives under a selected
	// corporate and a project.
	Corporate bool
	Project   bool
	Build     func(env Env) (Handle, error)
}

// Registry manages the resources views can be opened for
type Registry struct {
	defs map[Resource]Definition
	mu   sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Resource]Definition)}
}

// Register adds a resource definition
func (r *Registry) Register(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defs[def.Resource] = def
	log.Debug().
		Str("resource", string(def.Resource)).
		Str("namespace", def.Namespace).
		Strs("filters", def.FilterKeys).
		Msg("registered list resource")
}

// Get returns the definition of a resource
func (r *Registry) Get(resource Resource) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[resource]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	return def, nil
}

// Resources returns the registered resource names, sorted
func (r *Registry) Resources() []Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Resource, 0, len(r.defs))
	for res := range r.defs {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Namespaces returns the cache namespaces of every registered resource
func (r *Registry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def.Namespace)
	}
	sort.Strings(out)
	return out
}
