package domain

import "iter"

// Link is a candidate URL exactly as it was found in the input.
type Link string

// LinkSet is an insertion-ordered collection of unique links.
// It is built by a single owner and must not be modified once it is shared.
type LinkSet struct {
	links []Link
	index map[Link]int
}

func NewLinkSet(links ...Link) *LinkSet {
	s := &LinkSet{index: make(map[Link]int, len(links))}
	for _, l := range links {
		s.Add(l)
	}
	return s
}

// Add appends link unless it is already present. It reports whether the
// link was added.
func (s *LinkSet) Add(link Link) bool {
	if s.index == nil {
		s.index = make(map[Link]int)
	}
	if _, ok := s.index[link]; ok {
		return false
	}
	s.index[link] = len(s.links)
	s.links = append(s.links, link)
	return true
}

func (s *LinkSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.links)
}

// Links returns a copy of the links in insertion order.
func (s *LinkSet) Links() []Link {
	if s == nil {
		return nil
	}
	out := make([]Link, len(s.links))
	copy(out, s.links)
	return out
}

func (s *LinkSet) All() iter.Seq2[int, Link] {
	return func(yield func(int, Link) bool) {
		if s == nil {
			return
		}
		for i, l := range s.links {
			if !yield(i, l) {
				return
			}
		}
	}
}

// Index returns the insertion position of link.
func (s *LinkSet) Index(link Link) (int, bool) {
	if s == nil {
		return 0, false
	}
	i, ok := s.index[link]
	return i, ok
}

func (s *LinkSet) Contains(link Link) bool {
	_, ok := s.Index(link)
	return ok
}
