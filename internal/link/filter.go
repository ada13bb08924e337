package link

import (
	"iter"
	"strings"

	"md-link-check/internal/domain"
)

// Stats counts what the builder saw.
type Stats struct {
	Candidates int
	Duplicates int
	Filtered   int
}

// Builder collects candidates into a LinkSet, keeping the first occurrence
// of every distinct string. A non-empty pattern keeps only links that
// contain it as a plain substring.
type Builder struct {
	pattern string
	set     *domain.LinkSet
	stats   Stats
}

func NewBuilder(pattern string) *Builder {
	return &Builder{
		pattern: pattern,
		set:     domain.NewLinkSet(),
	}
}

// Add reports whether link was added to the set.
func (b *Builder) Add(link domain.Link) bool {
	b.stats.Candidates++

	if b.pattern != "" && !strings.Contains(string(link), b.pattern) {
		b.stats.Filtered++
		return false
	}

	if !b.set.Add(link) {
		b.stats.Duplicates++
		return false
	}
	return true
}

func (b *Builder) AddAll(links iter.Seq[domain.Link]) {
	for l := range links {
		b.Add(l)
	}
}

// LinkSet hands over the collected set. The builder must not be used
// afterwards.
func (b *Builder) LinkSet() *domain.LinkSet {
	set := b.set
	b.set = nil
	return set
}

func (b *Builder) Stats() Stats {
	return b.stats
}

// Dedupe builds a LinkSet from every sequence in order.
func Dedupe(pattern string, seqs ...iter.Seq[domain.Link]) *domain.LinkSet {
	b := NewBuilder(pattern)
	for _, seq := range seqs {
		b.AddAll(seq)
	}
	return b.LinkSet()
}
