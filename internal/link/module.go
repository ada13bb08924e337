package link

import (
	"go.uber.org/fx"
	"md-link-check/internal/config"
)

// Pattern is the substring filter applied while building the LinkSet.
type Pattern string

var Module = fx.Provide(ProvidePattern)

func ProvidePattern(cfg *config.Config) Pattern {
	return Pattern(cfg.Filter)
}

func (p Pattern) NewBuilder() *Builder {
	return NewBuilder(string(p))
}
