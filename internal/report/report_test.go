package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"md-link-check/internal/common"
	"md-link-check/internal/config"
	"md-link-check/internal/domain"
)

var testSet = domain.NewLinkSet(
	"https://a.example.com",
	"https://b.example.com",
	"https://c.example.com",
	"https://d.example.com",
)

// verdicts in completion order, not set order
func testVerdicts() []domain.Verdict {
	return []domain.Verdict{
		domain.InvalidStatus("https://d.example.com", 404),
		domain.Valid("https://b.example.com", 200),
		domain.Invalid("https://c.example.com", domain.ReasonTimeout, errors.New("deadline exceeded")),
		domain.Invalid("https://a.example.com", domain.ReasonMalformedURL, errors.New("missing host")),
	}
}

func TestInvalid_SortsBySetOrder(t *testing.T) {
	invalid := Invalid(testSet, testVerdicts())

	links := make([]domain.Link, 0, len(invalid))
	for _, v := range invalid {
		links = append(links, v.Link)
	}
	assert.Equal(t, []domain.Link{
		"https://a.example.com",
		"https://c.example.com",
		"https://d.example.com",
	}, links)
}

func TestInvalid_SkipsValidAndUnchecked(t *testing.T) {
	verdicts := []domain.Verdict{
		domain.Valid("https://a.example.com", 200),
		domain.Unchecked("https://b.example.com", nil),
	}

	invalid := Invalid(testSet, verdicts)
	assert.NotNil(t, invalid)
	assert.Empty(t, invalid)
}

func TestSort_UnknownLinksLast(t *testing.T) {
	verdicts := []domain.Verdict{
		domain.Valid("https://unknown.example.com", 200),
		domain.Valid("https://b.example.com", 200),
	}
	Sort(testSet, verdicts)
	assert.Equal(t, domain.Link("https://b.example.com"), verdicts[0].Link)
}

func TestRender(t *testing.T) {
	invalid := Invalid(testSet, testVerdicts())

	tests := []struct {
		name       string
		format     string
		showReason bool
		want       string
	}{
		{
			name:   "Text",
			format: config.FormatText,
			want:   "https://a.example.com\nhttps://c.example.com\nhttps://d.example.com\n",
		},
		{
			name:       "Text with reason",
			format:     config.FormatText,
			showReason: true,
			want: "https://a.example.com\tmalformed_url\n" +
				"https://c.example.com\ttimeout\n" +
				"https://d.example.com\thttp_status(404)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tt.format, tt.showReason, invalid))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRender_Empty(t *testing.T) {
	var text bytes.Buffer
	require.NoError(t, Render(&text, config.FormatText, false, nil))
	assert.Empty(t, text.String())

	var js bytes.Buffer
	require.NoError(t, Render(&js, config.FormatJSON, false, nil))
	assert.JSONEq(t, "[]", js.String())
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, config.FormatJSON, false, Invalid(testSet, testVerdicts())))

	var entries []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	assert.Equal(t, []Entry{
		{URL: "https://a.example.com", Reason: "malformed_url", Error: "missing host"},
		{URL: "https://c.example.com", Reason: "timeout", Error: "deadline exceeded"},
		{URL: "https://d.example.com", Reason: "http_status", Status: 404},
	}, entries)
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "xml", false, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, testVerdicts())

	out := buf.String()
	assert.Contains(t, out, "URL")
	assert.Contains(t, out, "https://b.example.com")
	assert.Contains(t, out, "http_status(404)")
}

func newTestReporter(cfg *config.Config) (*Reporter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	r := NewReporter(cfg, common.Streams{Out: &out, Err: &errOut}, zap.NewNop())
	return r, &out, &errOut
}

func TestReporter_Stdout(t *testing.T) {
	cfg := config.Default()
	r, out, errOut := newTestReporter(cfg)

	invalid, err := r.Report(testSet, testVerdicts())
	require.NoError(t, err)

	assert.Len(t, invalid, 3)
	assert.Equal(t, "https://a.example.com\nhttps://c.example.com\nhttps://d.example.com\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestReporter_Verbose(t *testing.T) {
	cfg := config.Default()
	cfg.Verbose = true
	r, _, errOut := newTestReporter(cfg)

	_, err := r.Report(testSet, testVerdicts())
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "https://b.example.com")
}

func TestReporter_OutputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	cfg := config.Default()
	cfg.Output = path
	r, out, _ := newTestReporter(cfg)

	_, err := r.Report(testSet, testVerdicts())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://a.example.com\nhttps://c.example.com\nhttps://d.example.com\n", string(data))
	assert.Empty(t, out.String())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestReporter_OutputFileError(t *testing.T) {
	cfg := config.Default()
	cfg.Output = filepath.Join(t.TempDir(), "missing", "invalid.txt")
	r, _, _ := newTestReporter(cfg)

	_, err := r.Report(testSet, testVerdicts())
	assert.Error(t, err)
}
