package source

import (
	"context"
	"strings"

	"github.com/jmgilman/go/imgcache/errors"
	"github.com/jmgilman/go/imgcache/uri"
)

type route struct {
	schemes []string
	source  Source
}

// Router dispatches URIs to sources by scheme. Routes are consulted in the
// order they were added; the fallback, if set, handles everything else.
type Router struct {
	routes   []route
	fallback Source
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{}
}

// Handle routes URIs with any of the given schemes to s.
func (r *Router) Handle(s Source, schemes ...string) *Router {
	lower := make([]string, len(schemes))
	for i, sc := range schemes {
		lower[i] = strings.ToLower(sc)
	}
	r.routes = append(r.routes, route{schemes: lower, source: s})
	return r
}

// Fallback sets the source used when no scheme matches.
func (r *Router) Fallback(s Source) *Router {
	r.fallback = s
	return r
}

func (r *Router) match(u string) Source {
	scheme := uri.Scheme(u)
	for _, rt := range r.routes {
		for _, sc := range rt.schemes {
			if sc == scheme {
				return rt.source
			}
		}
	}
	return r.fallback
}

// TryLoadBytes implements Source. URIs no source handles fail permanently.
func (r *Router) TryLoadBytes(ctx context.Context, u string) (BytesPoll, error) {
	s := r.match(u)
	if s == nil {
		err := errors.WithContext(
			errors.New(errors.CodeSourceFailed, "no byte source for uri"), "uri", u)
		return BytesPoll{}, errors.WithClassification(err, errors.ClassificationPermanent)
	}
	return s.TryLoadBytes(ctx, u)
}

// Forget forwards to every routed source implementing Forgetter.
func (r *Router) Forget(u string) {
	r.each(func(f Forgetter) { f.Forget(u) })
}

// ForgetAll forwards to every routed source implementing Forgetter.
func (r *Router) ForgetAll() {
	r.each(func(f Forgetter) { f.ForgetAll() })
}

func (r *Router) each(fn func(Forgetter)) {
	seen := make(map[Source]bool)
	visit := func(s Source) {
		if s == nil || seen[s] {
			return
		}
		seen[s] = true
		if f, ok := s.(Forgetter); ok {
			fn(f)
		}
	}
	for _, rt := range r.routes {
		visit(rt.source)
	}
	visit(r.fallback)
}
