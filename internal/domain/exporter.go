package domain

import (
	"context"
	"time"
)

// RunSummary describes a finished run.
type RunSummary struct {
	Links     int
	Invalid   int
	Unchecked int
	Duration  time.Duration
}

func (s RunSummary) OK() bool {
	return s.Invalid == 0 && s.Unchecked == 0
}

// Exporter pushes the outcome of a run to an external system.
type Exporter interface {
	Export(ctx context.Context, summary RunSummary) error
}
