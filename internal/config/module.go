package config

import "go.uber.org/fx"

// Module rejects an invalid configuration while the graph is built, before
// any input is read or any link is probed.
var Module = fx.Options(
	fx.Invoke(func(cfg *Config) error { return cfg.Validate() }),
)
