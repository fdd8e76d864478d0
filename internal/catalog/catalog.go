package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Name identifies one of the closed value lists.
type Name string

const (
	Merchants  Name = "merchants"
	Categories Name = "categories"
	States     Name = "states"
	Jobs       Name = "jobs"
)

// Files maps each catalog to its file name inside the catalog directory.
var Files = map[Name]string{
	Merchants:  "merchants.json",
	Categories: "category.json",
	States:     "state.json",
	Jobs:       "job.json",
}

// All lists the catalogs in display order.
var All = []Name{Merchants, Categories, States, Jobs}

// List is an ordered closed list of values. Order is preserved for display.
type List struct {
	values []string
	set    map[string]struct{}
}

func NewList(values []string) (*List, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			return nil, fmt.Errorf("catalog contains an empty value")
		}
		set[v] = struct{}{}
	}

	return &List{values: slices.Clone(values), set: set}, nil
}

func (l *List) Contains(v string) bool {
	_, ok := l.set[v]
	return ok
}

// Values returns a copy of the list.
func (l *List) Values() []string {
	return slices.Clone(l.values)
}

func (l *List) Len() int {
	return len(l.values)
}

// Default is the first entry, used to preselect form widgets.
func (l *List) Default() string {
	return l.values[0]
}

// Catalogs holds all four lists. It is read-only after Load.
type Catalogs struct {
	lists map[Name]*List
}

func New(lists map[Name][]string) (*Catalogs, error) {
	c := &Catalogs{lists: make(map[Name]*List, len(All))}
	for _, name := range All {
		values, ok := lists[name]
		if !ok {
			return nil, fmt.Errorf("catalog %s missing", name)
		}
		list, err := NewList(values)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", name, err)
		}
		c.lists[name] = list
	}
	return c, nil
}

// LoadFile reads a flat JSON array of strings.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return values, nil
}

func (c *Catalogs) List(name Name) *List {
	return c.lists[name]
}

func (c *Catalogs) Contains(name Name, v string) bool {
	l, ok := c.lists[name]
	return ok && l.Contains(v)
}

// Snapshot returns every catalog as plain slices, keyed by name.
func (c *Catalogs) Snapshot() map[Name][]string {
	out := make(map[Name][]string, len(c.lists))
	for name, l := range c.lists {
		out[name] = l.Values()
	}
	return out
}
