package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"templeadmin/internal/types"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// printer renders command results in the selected format. Table cells that
// carry a status are coloured when out is a terminal.
type printer struct {
	out    io.Writer
	format string

	normal lipgloss.Style
	near   lipgloss.Style
	over   lipgloss.Style
	denied lipgloss.Style
}

func newPrinter(out io.Writer, format string) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:    out,
		format: format,
		normal: r.NewStyle().Foreground(lipgloss.Color("2")),
		near:   r.NewStyle().Foreground(lipgloss.Color("3")),
		over:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		denied: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// print writes v as JSON or YAML, or calls table with a tabwriter.
func (p *printer) print(v any, table func(w io.Writer)) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func (p *printer) level(l types.UsageLevel) string {
	switch l {
	case types.LevelOverLimit:
		return p.over.Render(string(l))
	case types.LevelNearLimit:
		return p.near.Render(string(l))
	default:
		return p.normal.Render(string(l))
	}
}

func (p *printer) decision(d types.Decision) string {
	if d.Allowed {
		return p.normal.Render("allowed")
	}
	return p.denied.Render("denied")
}

// count prints the shortest decimal form of a counter or ceiling.
func count(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
