package report

import (
	"bufio"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/rodaine/table"
	"md-link-check/internal/config"
	"md-link-check/internal/domain"
)

// Entry is the JSON form of an invalid link.
type Entry struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

func NewEntry(v domain.Verdict) Entry {
	e := Entry{
		URL:    string(v.Link),
		Reason: string(v.Reason),
		Status: v.StatusCode,
	}
	if v.Err != nil {
		e.Error = v.Err.Error()
	}
	return e
}

// Invalid selects the invalid verdicts and puts them in the insertion
// order of set.
func Invalid(set *domain.LinkSet, verdicts []domain.Verdict) []domain.Verdict {
	out := make([]domain.Verdict, 0)
	for _, v := range verdicts {
		if v.IsInvalid() {
			out = append(out, v)
		}
	}
	Sort(set, out)
	return out
}

// Sort orders verdicts by the position of their link in set. Links that
// are not in set go last, in their current order.
func Sort(set *domain.LinkSet, verdicts []domain.Verdict) {
	position := func(v domain.Verdict) int {
		if i, ok := set.Index(v.Link); ok {
			return i
		}
		return math.MaxInt
	}
	slices.SortStableFunc(verdicts, func(a, b domain.Verdict) int {
		return cmp.Compare(position(a), position(b))
	})
}

// Render writes verdicts to w in the given format.
func Render(w io.Writer, format string, showReason bool, verdicts []domain.Verdict) error {
	switch format {
	case config.FormatJSON:
		return renderJSON(w, verdicts)
	case config.FormatText, "":
		return renderText(w, showReason, verdicts)
	default:
		return fmt.Errorf("%w: unknown output format %q", config.ErrInvalidConfig, format)
	}
}

func renderText(w io.Writer, showReason bool, verdicts []domain.Verdict) error {
	bw := bufio.NewWriter(w)
	for _, v := range verdicts {
		if showReason {
			fmt.Fprintf(bw, "%s\t%s\n", v.Link, v.Detail())
		} else {
			fmt.Fprintln(bw, v.Link)
		}
	}
	return bw.Flush()
}

func renderJSON(w io.Writer, verdicts []domain.Verdict) error {
	entries := make([]Entry, 0, len(verdicts))
	for _, v := range verdicts {
		entries = append(entries, NewEntry(v))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// Summary prints every verdict as a table.
func Summary(w io.Writer, verdicts []domain.Verdict) {
	tbl := table.New("URL", "Outcome", "Detail", "Method", "Elapsed").WithWriter(w)
	for _, v := range verdicts {
		tbl.AddRow(v.Link, v.Outcome, v.Detail(), v.Method, v.Elapsed.Round(time.Millisecond))
	}
	tbl.Print()
}
