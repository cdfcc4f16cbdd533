package scene

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Kind discriminates the three levels of the scene forest.
type Kind int

const (
	// KindFile is a forest root representing one source document.
	KindFile Kind = iota
	// KindModel is a logical object within a file.
	KindModel
	// KindGroup is a hierarchical sub-structure; the only kind that maps
	// to an output node.
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindModel:
		return "model"
	case KindGroup:
		return "group"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Attribute is a key/value annotation attached to a group. Duplicate keys
// are legal; consumers apply them in order so later entries win.
type Attribute struct {
	Key string
	Val string
}

// Group is one node of the scene forest. Children preserve insertion order.
// An empty Name marks an unnamed group.
type Group struct {
	Kind       Kind
	Name       string
	Children   []*Group
	Attributes []Attribute
}

// NewModel appends a model under a file root and returns it.
func (g *Group) NewModel(name string) *Group {
	if g.Kind != KindFile {
		panic("scene: models can only be created under a file")
	}
	model := &Group{Kind: KindModel, Name: name}
	g.Children = append(g.Children, model)
	return model
}

// NewGroup appends a group under a model or another group and returns it.
func (g *Group) NewGroup(name string) *Group {
	if g.Kind == KindFile {
		panic("scene: groups cannot be created directly under a file")
	}
	group := &Group{Kind: KindGroup, Name: name}
	g.Children = append(g.Children, group)
	return group
}

// AddAttribute appends a key/value annotation to a group. Keys are not
// deduplicated.
func (g *Group) AddAttribute(key, val string) {
	if g.Kind != KindGroup {
		panic("scene: attributes can only be attached to groups")
	}
	g.Attributes = append(g.Attributes, Attribute{Key: key, Val: val})
}

// Store owns a forest of file-kind roots. It is the read-only input to an
// export call; the exporter never mutates it.
type Store struct {
	roots []*Group
}

// NewStore creates an empty scene store.
func NewStore() *Store {
	return &Store{}
}

// NewFile appends a file root to the forest and returns it.
func (s *Store) NewFile(name string) *Group {
	file := &Group{Kind: KindFile, Name: name}
	s.roots = append(s.roots, file)
	return file
}

// Roots returns the file roots in insertion order.
func (s *Store) Roots() []*Group {
	return s.roots
}

// Build a tabular representation of forest statistics.
func (s *Store) Stats() string {
	var files, models, groups, attrs int

	var walk func(*Group)
	walk = func(g *Group) {
		groups++
		attrs += len(g.Attributes)
		for _, child := range g.Children {
			walk(child)
		}
	}

	for _, file := range s.roots {
		files++
		for _, model := range file.Children {
			models++
			for _, group := range model.Children {
				walk(group)
			}
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Level", "Count"})
	table.Append([]string{"Files", fmt.Sprintf("%d", files)})
	table.Append([]string{"Models", fmt.Sprintf("%d", models)})
	table.Append([]string{"Groups", fmt.Sprintf("%d", groups)})
	table.Append([]string{"Attributes", fmt.Sprintf("%d", attrs)})
	table.Render()
	return buf.String()
}
