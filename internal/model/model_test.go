package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func petSchema() *Object {
	min := 1.0
	return &Object{
		Meta: Meta{Description: "a pet"},
		Properties: []Property{
			{Name: "name", Schema: &Scalar{Type: TypeString}},
			{Name: "age", Schema: &Scalar{Type: TypeInteger, Format: "int32", Meta: Meta{Constraints: Constraints{Minimum: &min}}}},
			{Name: "tags", Schema: &Array{Items: &Ref{Name: "Tag"}}},
			{Name: "owner", Schema: &Ref{Name: "Owner"}},
			{Name: "extra", Schema: &Map{Values: &Ref{Name: "Tag"}}},
		},
		Required: []string{"name"},
	}
}

func TestClone(t *testing.T) {
	orig := petSchema()
	cloned := Clone(orig).(*Object)

	require.Equal(t, orig, cloned)

	cloned.Properties[0].Schema.(*Scalar).Type = TypeBoolean
	*cloned.Properties[1].Schema.(*Scalar).Constraints.Minimum = 5
	cloned.Required[0] = "age"

	require.Equal(t, TypeString, orig.Properties[0].Schema.(*Scalar).Type)
	require.Equal(t, 1.0, *orig.Properties[1].Schema.(*Scalar).Constraints.Minimum)
	require.Equal(t, []string{"name"}, orig.Required)
	require.Nil(t, Clone(nil))
}

func TestRefs(t *testing.T) {
	require.Equal(t, []string{"Tag", "Owner"}, Refs(petSchema()))

	comp := &Composition{Kind: OneOf, Members: []Node{&Ref{Name: "Cat"}, &Ref{Name: "Dog"}, &Ref{Name: "Cat"}}}
	require.Equal(t, []string{"Cat", "Dog"}, Refs(comp))
}

func TestWalkStops(t *testing.T) {
	var visited int
	Walk(petSchema(), func(n Node) bool {
		visited++
		_, isArray := n.(*Array)
		return !isArray
	})
	// object, five properties, map value; array items skipped
	require.Equal(t, 7, visited)
}

func TestObjectHelpers(t *testing.T) {
	o := petSchema()

	n, ok := o.Property("owner")
	require.True(t, ok)
	name, isRef := RefName(n)
	require.True(t, isRef)
	require.Equal(t, "Owner", name)

	_, ok = o.Property("missing")
	require.False(t, ok)
	require.True(t, o.IsRequired("name"))
	require.False(t, o.IsRequired("age"))

	require.Equal(t, "a pet", MetaOf(o).Description)
	require.Nil(t, MetaOf(&Ref{Name: "x"}))
}

func TestSection(t *testing.T) {
	s := NewSection[Node]()
	s.Set("Pet", petSchema())
	s.Set("Owner", &Object{})

	require.Equal(t, "Pet0", s.Add("Pet", &Object{}))
	require.Equal(t, "Tag", s.Add("Tag", &Scalar{Type: TypeString}))

	s.Set("Pet", &Ref{Name: "Owner"})

	require.Equal(t, []string{"Pet", "Owner", "Pet0", "Tag"}, s.Names())
	require.Equal(t, 4, s.Len())
	require.True(t, s.Has("Pet0"))

	got, ok := s.Get("Pet")
	require.True(t, ok)
	require.Equal(t, &Ref{Name: "Owner"}, got)
}

func TestNilSectionReads(t *testing.T) {
	var s *Section[*Header]
	_, ok := s.Get("X")
	require.False(t, ok)
	require.False(t, s.Has("X"))
	require.Zero(t, s.Len())
	require.Empty(t, s.Names())
	for range s.All() {
		t.Fatal("nil section yields entries")
	}
}

func TestResolve(t *testing.T) {
	s := NewSection[*Parameter]()
	s.Set("IdParam", &Parameter{Ref: "PetId"})
	s.Set("PetId", &Parameter{Ref: "RealId"})
	s.Set("RealId", &Parameter{Name: "id", In: LocationPath})
	s.Set("Loop", &Parameter{Ref: "Back"})
	s.Set("Back", &Parameter{Ref: "Loop"})
	s.Set("Dangling", &Parameter{Ref: "Missing"})

	tests := []struct {
		name string
		ok   bool
	}{
		{name: "RealId", ok: true},
		{name: "IdParam", ok: true},
		{name: "Loop"},
		{name: "Dangling"},
		{name: "Missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Resolve(s, tt.name)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, "id", p.Name)
			}
		})
	}

	long := NewSection[*Header]()
	for i := range MaxAliasHops {
		long.Set(fmt.Sprintf("H%d", i), &Header{Ref: fmt.Sprintf("H%d", i+1)})
	}
	long.Set(fmt.Sprintf("H%d", MaxAliasHops), &Header{Description: "end"})

	_, ok := Resolve(long, "H0")
	require.False(t, ok)
	h, ok := Resolve(long, "H1")
	require.True(t, ok)
	require.Equal(t, "end", h.Description)
}

func TestDocumentLookup(t *testing.T) {
	get := &Operation{ID: "getPet", Method: MethodGet, Path: "/pets/{id}"}
	doc := &Document{Paths: []*Path{{Path: "/pets/{id}", Operations: []*Operation{get}}}}

	op, ok := doc.Operation("/pets/{id}", MethodGet)
	require.True(t, ok)
	require.Same(t, get, op)

	_, ok = doc.Operation("/pets/{id}", MethodPost)
	require.False(t, ok)

	doc.EnsureComponents()
	require.NotNil(t, doc.Components.Schemas)
	require.NotNil(t, doc.Components.Headers)
	require.Equal(t, "get", MethodGet.Key())
}
