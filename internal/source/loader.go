package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"md-link-check/internal/common"
	"md-link-check/internal/config"
	"md-link-check/internal/domain"
)

const (
	// Stdin is the input argument that reads from standard input.
	Stdin     = "-"
	StdinName = "<stdin>"

	defaultReaders = 8
)

// ErrNoInput is returned when not a single input could be read.
var ErrNoInput = errors.New("no readable input")

type target struct {
	name string
	kind domain.BlobKind
}

// Loader turns the configured paths into blobs.
type Loader struct {
	inputs     []string
	listFile   string
	extensions []string
	stdin      io.Reader
	readers    int
	metrics    domain.MetricsCollector
	logger     *zap.Logger
}

func NewLoader(cfg *config.Config, streams common.Streams, metrics domain.MetricsCollector, logger *zap.Logger) *Loader {
	exts := make([]string, 0, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, strings.ToLower(e))
	}

	return &Loader{
		inputs:     cfg.Inputs,
		listFile:   cfg.ListFile,
		extensions: exts,
		stdin:      streams.In,
		readers:    defaultReaders,
		metrics:    metrics,
		logger:     logger.With(zap.String("component", "source")),
	}
}

// Load reads every input. Inputs that cannot be read are logged and
// skipped; ErrNoInput is returned only when nothing could be read at all.
// Blobs come back in argument order, directory entries in lexical order.
func (l *Loader) Load(ctx context.Context) ([]domain.Blob, error) {
	targets := l.targets()
	if len(targets) == 0 {
		return nil, ErrNoInput
	}

	blobs := make([]*domain.Blob, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.readers)
	for i, t := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := l.read(t)
			if err != nil {
				l.skip(t.name, err)
				return nil
			}
			blobs[i] = &b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load input: %w", err)
	}

	out := make([]domain.Blob, 0, len(blobs))
	for _, b := range blobs {
		if b != nil {
			out = append(out, *b)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoInput
	}

	l.logger.Debug("input loaded", zap.Int("blobs", len(out)), zap.Int("skipped", len(targets)-len(out)))
	return out, nil
}

func (l *Loader) targets() []target {
	var targets []target
	seen := make(map[string]bool)
	add := func(t target) {
		if seen[t.name] {
			return
		}
		seen[t.name] = true
		targets = append(targets, t)
	}

	inputs := l.inputs
	if len(inputs) == 0 && l.listFile == "" {
		inputs = []string{"."}
	}

	for _, in := range inputs {
		if in == Stdin {
			add(target{name: Stdin, kind: domain.BlobText})
			continue
		}

		info, err := os.Stat(in)
		if err != nil {
			l.skip(in, err)
			continue
		}
		if !info.IsDir() {
			add(target{name: in, kind: domain.BlobText})
			continue
		}

		files, err := l.walk(in)
		if err != nil {
			l.skip(in, err)
		}
		for _, f := range files {
			add(target{name: f, kind: domain.BlobText})
		}
	}

	if l.listFile != "" {
		add(target{name: l.listFile, kind: domain.BlobList})
	}
	return targets
}

// walk collects files below root with a matching extension. Hidden
// directories such as .git are not entered.
func (l *Loader) walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			l.skip(path, err)
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if l.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (l *Loader) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range l.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (l *Loader) read(t target) (domain.Blob, error) {
	var (
		raw  []byte
		err  error
		name = t.name
	)
	if t.name == Stdin {
		name = StdinName
		raw, err = io.ReadAll(l.stdin)
	} else {
		raw, err = os.ReadFile(t.name)
	}
	if err != nil {
		return domain.Blob{}, err
	}

	data, err := Decode(raw)
	if err != nil {
		return domain.Blob{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return domain.Blob{Name: name, Data: data, Kind: t.kind}, nil
}

func (l *Loader) skip(name string, err error) {
	l.logger.Warn("skipping unreadable input", zap.String("input", name), zap.Error(err))
	l.metrics.RecordInputError(name)
}

// byteOrderMarks are the UTF-8, UTF-16LE and UTF-16BE marks.
var byteOrderMarks = [][]byte{
	{0xEF, 0xBB, 0xBF},
	{0xFF, 0xFE},
	{0xFE, 0xFF},
}

// Decode converts input to UTF-8 when it starts with a UTF-8 or UTF-16
// byte order mark. Anything else is returned unchanged, so links in
// non-UTF-8 text keep their original bytes.
func Decode(raw []byte) ([]byte, error) {
	if !hasByteOrderMark(raw) {
		return raw, nil
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	return out, err
}

func hasByteOrderMark(raw []byte) bool {
	for _, bom := range byteOrderMarks {
		if bytes.HasPrefix(raw, bom) {
			return true
		}
	}
	return false
}
