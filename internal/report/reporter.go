package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"
	"md-link-check/internal/common"
	"md-link-check/internal/config"
	"md-link-check/internal/domain"
)

// Reporter writes the invalid links of a run to stdout or to a file.
type Reporter struct {
	format     string
	showReason bool
	verbose    bool
	output     string
	out        io.Writer
	errOut     io.Writer
	logger     *zap.Logger
}

func NewReporter(cfg *config.Config, streams common.Streams, logger *zap.Logger) *Reporter {
	return &Reporter{
		format:     cfg.Format,
		showReason: cfg.ShowReason,
		verbose:    cfg.Verbose,
		output:     cfg.Output,
		out:        streams.Out,
		errOut:     streams.Err,
		logger:     logger.With(zap.String("component", "reporter")),
	}
}

// Report writes the invalid verdicts in set order and returns them.
// Verbose mode also prints every verdict to the error stream.
func (r *Reporter) Report(set *domain.LinkSet, verdicts []domain.Verdict) ([]domain.Verdict, error) {
	invalid := Invalid(set, verdicts)

	if r.verbose {
		all := slices.Clone(verdicts)
		Sort(set, all)
		Summary(r.errOut, all)
	}

	var buf bytes.Buffer
	if err := Render(&buf, r.format, r.showReason, invalid); err != nil {
		return nil, err
	}

	if r.output == "" {
		if _, err := r.out.Write(buf.Bytes()); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
		return invalid, nil
	}

	if err := WriteFileAtomic(r.output, buf.Bytes()); err != nil {
		return nil, err
	}
	r.logger.Info("invalid links written", zap.String("path", r.output), zap.Int("count", len(invalid)))
	return invalid, nil
}

// WriteFileAtomic replaces path with data. The data goes to a temporary
// file next to path first, so readers never see a partial report.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync report file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod report file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace report file: %w", err)
	}
	return nil
}
