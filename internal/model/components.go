package model

import (
	"iter"

	"github.com/kolah/canon/internal/naming"
	"github.com/pb33f/libopenapi/orderedmap"
)

// Components is the named component table of one document.
type Components struct {
	Schemas       *Section[Node]
	Responses     *Section[*Response]
	RequestBodies *Section[*RequestBody]
	Parameters    *Section[*Parameter]
	Headers       *Section[*Header]
}

func NewComponents() *Components {
	c := &Components{}
	c.ensure()
	return c
}

func (c *Components) ensure() {
	if c.Schemas == nil {
		c.Schemas = NewSection[Node]()
	}
	if c.Responses == nil {
		c.Responses = NewSection[*Response]()
	}
	if c.RequestBodies == nil {
		c.RequestBodies = NewSection[*RequestBody]()
	}
	if c.Parameters == nil {
		c.Parameters = NewSection[*Parameter]()
	}
	if c.Headers == nil {
		c.Headers = NewSection[*Header]()
	}
}

// Section is an insertion-ordered set of named components. Entries are
// replaced in place and never removed.
type Section[T any] struct {
	entries *orderedmap.Map[string, T]
	names   *naming.Interner
}

func NewSection[T any]() *Section[T] {
	return &Section[T]{
		entries: orderedmap.New[string, T](),
		names:   naming.NewInterner(),
	}
}

func (s *Section[T]) Get(name string) (T, bool) {
	if s == nil {
		var zero T
		return zero, false
	}
	return s.entries.Get(name)
}

func (s *Section[T]) Has(name string) bool {
	return s != nil && s.names.Has(name)
}

// Set stores v under name, keeping the position of an existing entry.
func (s *Section[T]) Set(name string, v T) {
	s.names.Claim(name)
	s.entries.Set(name, v)
}

// Add stores v under base, or under base with the smallest free integer
// suffix when base is taken, and returns the name used.
func (s *Section[T]) Add(base string, v T) string {
	name := s.names.Unique(base)
	s.entries.Set(name, v)
	return name
}

func (s *Section[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.entries.Len()
}

// Names returns a snapshot of the component names in table order.
func (s *Section[T]) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, s.entries.Len())
	for name := range s.entries.FromOldest() {
		names = append(names, name)
	}
	return names
}

func (s *Section[T]) All() iter.Seq2[string, T] {
	if s == nil {
		return func(func(string, T) bool) {}
	}
	return s.entries.FromOldest()
}

// Referrer is a component that may stand for another component of its own
// section.
type Referrer interface {
	Reference() string
}

// MaxAliasHops bounds how many aliases Resolve follows.
const MaxAliasHops = 32

// Resolve looks up name in s and follows components that refer to another
// component of s. It reports false for a missing component and for a chain
// that does not end within MaxAliasHops, cycles included.
func Resolve[T Referrer](s *Section[T], name string) (T, bool) {
	var zero T
	for range MaxAliasHops {
		v, ok := s.Get(name)
		if !ok {
			return zero, false
		}
		next := v.Reference()
		if next == "" {
			return v, true
		}
		name = next
	}
	return zero, false
}

// Follow returns v when it is inline, otherwise the component it refers to
// resolved through s.
func Follow[T Referrer](s *Section[T], v T) (T, bool) {
	if ref := v.Reference(); ref != "" {
		return Resolve(s, ref)
	}
	return v, true
}
