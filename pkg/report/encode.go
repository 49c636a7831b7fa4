package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/l3aro/go-dataflow/pkg/deadcode"
)

// Format is an output encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatMsgpack:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (must be 'text', 'json' or 'msgpack')", s)
}

// Encode writes reports to w in the given format.
func Encode(w io.Writer, format Format, reports []*Report) error {
	switch format {
	case FormatText:
		return encodeText(w, reports)
	case FormatJSON:
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		return nil
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(reports); err != nil {
			return fmt.Errorf("encoding msgpack: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Decode reads reports written by Encode in the JSON or MessagePack format.
func Decode(r io.Reader, format Format) ([]*Report, error) {
	var reports []*Report
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&reports); err != nil {
			return nil, fmt.Errorf("decoding JSON: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&reports); err != nil {
			return nil, fmt.Errorf("decoding msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("format %q cannot be decoded", format)
	}
	return reports, nil
}

func encodeText(w io.Writer, reports []*Report) error {
	var sb strings.Builder
	for i, r := range reports {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeText(&sb, r)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func writeText(sb *strings.Builder, r *Report) {
	if r.Source != "" {
		fmt.Fprintf(sb, "=== %s (%s) ===\n", r.Method, r.Source)
	} else {
		fmt.Fprintf(sb, "=== %s ===\n", r.Method)
	}

	if r.Graph != nil {
		fmt.Fprintf(sb, "Nodes (%d):\n", len(r.Graph.Nodes))
		for _, n := range r.Graph.Nodes {
			fmt.Fprintf(sb, "  %d: %s\n", n.ID, n.Text)
		}
		fmt.Fprintf(sb, "Edges (%d):\n", len(r.Graph.Edges))
		for _, e := range r.Graph.Edges {
			if e.CaseValue != nil {
				fmt.Fprintf(sb, "  %d --case %d--> %d\n", e.Source, *e.CaseValue, e.Target)
			} else {
				fmt.Fprintf(sb, "  %d --%s--> %d\n", e.Source, e.Type, e.Target)
			}
		}
	}

	if len(r.Facts) > 0 {
		sb.WriteString("Constants:\n")
		for _, f := range r.Facts {
			fmt.Fprintf(sb, "  %d: %s\n", f.Index, f.Stmt)
			fmt.Fprintf(sb, "      in  %s\n", formatFacts(f.In))
			fmt.Fprintf(sb, "      out %s\n", formatFacts(f.Out))
		}
	}

	if slices.Contains(r.Analyses, deadcode.ID) {
		fmt.Fprintf(sb, "Dead code (%d):\n", len(r.DeadCode))
		for _, s := range r.DeadCode {
			if s.Line > 0 {
				fmt.Fprintf(sb, "  %d (line %d): %s\n", s.Index, s.Line, s.Text)
			} else {
				fmt.Fprintf(sb, "  %d: %s\n", s.Index, s.Text)
			}
		}
	}
}

func formatFacts(facts map[string]string) string {
	names := make([]string, 0, len(facts))
	for name := range facts {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + facts[name]
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
