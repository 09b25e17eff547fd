package model

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Exclusions is the set of repositories that are never archived.
//
// Entries are glob patterns, so a plain name only matches itself.
type Exclusions struct {
	names    map[string]struct{}
	patterns []glob.Glob
}

func NewExclusions(entries []string) (*Exclusions, error) {
	e := &Exclusions{
		names: make(map[string]struct{}),
	}
	for _, v := range entries {
		if v == "" {
			continue
		}
		if !hasMeta(v) {
			e.names[v] = struct{}{}
			continue
		}
		g, err := glob.Compile(v)
		if err != nil {
			return nil, fmt.Errorf("invalid exclusion pattern %s: %w", v, err)
		}
		e.patterns = append(e.patterns, g)
	}
	return e, nil
}

func (e *Exclusions) Match(name string) bool {
	if e == nil {
		return false
	}
	if _, ok := e.names[name]; ok {
		return true
	}
	for _, g := range e.patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (e *Exclusions) Len() int {
	if e == nil {
		return 0
	}
	return len(e.names) + len(e.patterns)
}

func hasMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}
