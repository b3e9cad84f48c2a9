package view

import (
	"strings"
	"sync"
)

// View is one of the three screens of the application.
type View string

const (
	Admin     View = "admin"
	WishInput View = "wish-input"
	Lottery   View = "lottery"
)

// Resolve maps a navigation token to a view. Unrecognized or absent
// tokens resolve to Admin. The mapping accepts the raw fragment form the
// frontend uses ("#/wish-input") as well as the bare token.
func Resolve(token string) View {
	t := strings.TrimPrefix(strings.TrimSpace(token), "#")
	t = strings.Trim(t, "/")
	switch View(t) {
	case WishInput:
		return WishInput
	case Lottery:
		return Lottery
	default:
		return Admin
	}
}

// Router tracks the currently mounted view. Navigation has no guards:
// any view is reachable from any other regardless of data present.
type Router struct {
	mu      sync.RWMutex
	current View
}

func NewRouter() *Router {
	return &Router{current: Admin}
}

// Navigate resolves the token and updates the current view atomically,
// returning the view actually mounted.
func (r *Router) Navigate(token string) View {
	v := Resolve(token)
	r.mu.Lock()
	r.current = v
	r.mu.Unlock()
	return v
}

// Current returns the mounted view.
func (r *Router) Current() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
