package domain

import (
	"errors"
	"sort"
)

var ErrUnknownParty = errors.New("unknown party")

// Party is one of the households allowed to book the house.
type Party struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultParties returns the configured households and their calendar colors.
func DefaultParties() []Party {
	return []Party{
		{ID: 1, Name: "Siggi & Mausi", Color: "#2D5A47"},
		{ID: 2, Name: "Silke & Wolfi & Zoe", Color: "#4A6B8A"},
		{ID: 3, Name: "Claudi & Wolfram", Color: "#C4703D"},
		{ID: 4, Name: "Extern", Color: "#6B4E71"},
	}
}

// Registry is the immutable set of known parties, built once at startup.
// It is the single authority on which party ids are valid; bookings are
// never accepted for ids outside it.
type Registry struct {
	byID    map[int]Party
	ordered []Party
}

func NewRegistry(parties []Party) *Registry {
	r := &Registry{
		byID:    make(map[int]Party, len(parties)),
		ordered: make([]Party, 0, len(parties)),
	}
	for _, p := range parties {
		if _, dup := r.byID[p.ID]; dup {
			continue
		}
		r.byID[p.ID] = p
		r.ordered = append(r.ordered, p)
	}
	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].ID < r.ordered[j].ID })
	return r
}

// ByID returns the party with the given id.
func (r *Registry) ByID(id int) (Party, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Contains reports whether id refers to a known party.
func (r *Registry) Contains(id int) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns every party ordered by id ascending. The returned slice is a
// copy and safe to hold on to.
func (r *Registry) All() []Party {
	out := make([]Party, len(r.ordered))
	copy(out, r.ordered)
	return out
}
