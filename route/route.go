// Package route parses navigation targets and dispatches them to view
// initializers.
//
// The grammar is the hash fragment `#/<route>[/<param>]*`. Path-style
// targets such as `/position/ncsu-cbl/` parse to the same Route, so full
// page loads and in-page hash navigation share one dispatch table.
package route

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrNoHome is returned by Dispatch when nothing is bound to Home.
var ErrNoHome = errors.New("route: no home initializer")

// Key names a route.
type Key string

const (
	Home     Key = ""
	Position Key = "position"
	Project  Key = "project"
)

// Route is a parsed navigation target.
type Route struct {
	Key    Key
	Params []string
}

// Param returns the i-th parameter or "" when absent.
func (r Route) Param(i int) string {
	if i < 0 || i >= len(r.Params) {
		return ""
	}
	return r.Params[i]
}

// Fragment formats r back into hash form.
func (r Route) Fragment() string {
	if r.Key == Home && len(r.Params) == 0 {
		return "#/"
	}
	parts := append([]string{"#", string(r.Key)}, r.Params...)
	return strings.Join(parts, "/")
}

// Path formats r as a server path with a trailing slash.
func (r Route) Path() string {
	if r.Key == Home {
		return "/"
	}
	return "/" + strings.Join(append([]string{string(r.Key)}, r.Params...), "/") + "/"
}

// Parse turns a hash fragment or path into a Route. Empty segments are
// ignored, so "#/project//x/" yields project with the single param "x".
func Parse(target string) Route {
	target = strings.TrimSpace(target)
	target = strings.TrimPrefix(target, "#")
	var segs []string
	for _, s := range strings.Split(target, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return Route{Key: Home}
	}
	return Route{Key: Key(segs[0]), Params: segs[1:]}
}

// Navigation is what an initializer receives.
type Navigation struct {
	Route Route
	// Category selects the doodle subset; empty means every doodle.
	Category string
	// Generation identifies this navigation. Async work started for it
	// must check the generation before touching shared output.
	Generation Generation
}

// Initializer renders the view for a navigation.
type Initializer[T any] func(ctx context.Context, nav Navigation) (T, error)

// CategoryFunc maps a position id to a doodle category.
type CategoryFunc func(positionID string) (string, bool)

// Router maps route keys to initializers. Unknown keys fall back to the
// home initializer.
type Router[T any] struct {
	mu         sync.RWMutex
	routes     map[Key]Initializer[T]
	categories CategoryFunc
}

// NewRouter returns a router whose category lookups go through fn.
func NewRouter[T any](categories CategoryFunc) *Router[T] {
	return &Router[T]{routes: make(map[Key]Initializer[T]), categories: categories}
}

// Handle binds an initializer to a key.
func (r *Router[T]) Handle(key Key, init Initializer[T]) {
	r.mu.Lock()
	r.routes[key] = init
	r.mu.Unlock()
}

// Resolve parses target and derives the navigation for it without
// running an initializer. Unknown keys resolve to Home.
func (r *Router[T]) Resolve(target string, gen Generation) Navigation {
	rt := Parse(target)
	r.mu.RLock()
	_, known := r.routes[rt.Key]
	r.mu.RUnlock()
	if !known {
		rt = Route{Key: Home}
	}
	nav := Navigation{Route: rt, Generation: gen}
	if rt.Key == Position && r.categories != nil {
		if cat, ok := r.categories(rt.Param(0)); ok {
			nav.Category = cat
		}
	}
	return nav
}

// Dispatch resolves target and runs the bound initializer.
func (r *Router[T]) Dispatch(ctx context.Context, target string, gen Generation) (T, Navigation, error) {
	nav := r.Resolve(target, gen)
	r.mu.RLock()
	init := r.routes[nav.Route.Key]
	r.mu.RUnlock()
	if init == nil {
		var zero T
		return zero, nav, ErrNoHome
	}
	v, err := init(ctx, nav)
	return v, nav, err
}

// Generation is a navigation token. Later navigations get larger tokens.
type Generation uint64

// Navigator hands out generations and remembers the latest one.
type Navigator struct {
	cur atomic.Uint64
}

// Resume returns a Navigator whose latest generation is gen, for example
// one restored from a client cookie.
func Resume(gen Generation) *Navigator {
	n := &Navigator{}
	n.cur.Store(uint64(gen))
	return n
}

// Begin starts a navigation and returns its generation.
func (n *Navigator) Begin() Generation {
	return Generation(n.cur.Add(1))
}

// Advance raises the latest generation to at least gen. The next Begin
// returns something larger than gen.
func (n *Navigator) Advance(gen Generation) {
	for {
		cur := n.cur.Load()
		if cur >= uint64(gen) || n.cur.CompareAndSwap(cur, uint64(gen)) {
			return
		}
	}
}

// Current returns the latest generation.
func (n *Navigator) Current() Generation {
	return Generation(n.cur.Load())
}

// IsCurrent reports whether no navigation has begun after gen.
func (n *Navigator) IsCurrent(gen Generation) bool {
	return gen >= n.Current()
}

// Guard runs fn only if gen is still current and reports whether it ran.
func (n *Navigator) Guard(gen Generation, fn func()) bool {
	if !n.IsCurrent(gen) {
		return false
	}
	fn()
	return true
}
