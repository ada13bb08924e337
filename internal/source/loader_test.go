package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"md-link-check/internal/common"
	"md-link-check/internal/config"
	"md-link-check/internal/domain"
)

type inputErrors struct {
	sources []string
}

func (m *inputErrors) RecordVerdict(domain.Verdict)   {}
func (m *inputErrors) RecordWorkerStart(string)       {}
func (m *inputErrors) RecordWorkerStop(string)        {}
func (m *inputErrors) RecordDispatch()                {}
func (m *inputErrors) RecordCandidates(int, int)      {}
func (m *inputErrors) RecordInputError(source string) { m.sources = append(m.sources, source) }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestLoader(cfg *config.Config, stdin string) (*Loader, *inputErrors) {
	m := &inputErrors{}
	streams := common.Streams{In: strings.NewReader(stdin)}
	return NewLoader(cfg, streams, m, zap.NewNop()), m
}

func names(blobs []domain.Blob) []string {
	out := make([]string, 0, len(blobs))
	for _, b := range blobs {
		out = append(out, b.Name)
	}
	return out
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "https://a.example.com")
	writeFile(t, filepath.Join(dir, "docs", "b.MD"), "https://b.example.com")
	writeFile(t, filepath.Join(dir, "docs", "notes.txt"), "https://txt.example.com")
	writeFile(t, filepath.Join(dir, ".git", "c.md"), "https://hidden.example.com")

	cfg := config.Default()
	cfg.Inputs = []string{dir}
	loader, _ := newTestLoader(cfg, "")

	blobs, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "docs", "b.MD"),
	}, names(blobs))
	for _, b := range blobs {
		assert.Equal(t, domain.BlobText, b.Kind)
	}
}

func TestLoad_Extensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "x")
	writeFile(t, filepath.Join(dir, "b.txt"), "y")
	writeFile(t, filepath.Join(dir, "c.rst"), "z")

	cfg := config.Default()
	cfg.Inputs = []string{dir}
	cfg.Extensions = []string{"txt", ".rst"}
	loader, _ := newTestLoader(cfg, "")

	blobs, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.txt"), filepath.Join(dir, "c.rst")}, names(blobs))
}

func TestLoad_ExplicitFilesIgnoreExtensions(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "links.txt")
	writeFile(t, file, "https://example.com")

	cfg := config.Default()
	cfg.Inputs = []string{file, file}
	loader, _ := newTestLoader(cfg, "")

	blobs, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "https://example.com", string(blobs[0].Data))
}

func TestLoad_StdinAndListFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "urls")
	writeFile(t, list, "https://one.example.com\nhttps://two.example.com\n")

	cfg := config.Default()
	cfg.Inputs = []string{Stdin}
	cfg.ListFile = list
	loader, _ := newTestLoader(cfg, "see https://stdin.example.com")

	blobs, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, blobs, 2)

	assert.Equal(t, StdinName, blobs[0].Name)
	assert.Equal(t, domain.BlobText, blobs[0].Kind)
	assert.Equal(t, "see https://stdin.example.com", string(blobs[0].Data))

	assert.Equal(t, list, blobs[1].Name)
	assert.Equal(t, domain.BlobList, blobs[1].Kind)
}

func TestLoad_ListFileOnlyDoesNotScan(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "urls")
	writeFile(t, list, "https://one.example.com\n")
	writeFile(t, filepath.Join(dir, "a.md"), "https://a.example.com")

	cfg := config.Default()
	cfg.ListFile = list
	loader, _ := newTestLoader(cfg, "")

	blobs, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{list}, names(blobs))
}

func TestLoad_SkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.md")
	missing := filepath.Join(dir, "missing.md")
	writeFile(t, good, "https://example.com")

	cfg := config.Default()
	cfg.Inputs = []string{missing, good}
	loader, m := newTestLoader(cfg, "")

	blobs, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{good}, names(blobs))
	assert.Equal(t, []string{missing}, m.sources)
}

func TestLoad_NoInput(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
	}{
		{name: "Missing file", inputs: []string{filepath.Join(t.TempDir(), "nope.md")}},
		{name: "Empty directory", inputs: []string{t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Inputs = tt.inputs
			loader, _ := newTestLoader(cfg, "")

			_, err := loader.Load(context.Background())
			assert.ErrorIs(t, err, ErrNoInput)
		})
	}
}

func TestLoad_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "x")

	cfg := config.Default()
	cfg.Inputs = []string{dir}
	loader, _ := newTestLoader(cfg, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "Plain UTF-8", in: []byte("https://example.com"), want: "https://example.com"},
		{name: "UTF-8 BOM", in: append([]byte{0xEF, 0xBB, 0xBF}, "https://example.com"...), want: "https://example.com"},
		{name: "UTF-16LE BOM", in: []byte{0xFF, 0xFE, 'h', 0, 't', 0, 't', 0, 'p', 0}, want: "http"},
		{name: "UTF-16BE BOM", in: []byte{0xFE, 0xFF, 0, 'h', 0, 't', 0, 't', 0, 'p'}, want: "http"},
		{name: "Empty", in: nil, want: ""},
		{name: "Latin-1 kept byte for byte", in: []byte("https://example.com/caf\xe9"), want: "https://example.com/caf\xe9"},
		{name: "Invalid UTF-8 without BOM", in: []byte{'h', 0xFF, 't'}, want: "h\xfft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
