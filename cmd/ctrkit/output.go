// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/docker/go-units"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/invowk/ctrkit/internal/config"
)

const (
	shortIDLength = 12
	emptyCell     = "-"
)

type (
	// printer writes results in the configured output format.
	printer struct {
		w      io.Writer
		format config.OutputFormat
	}

	// tableView is the table rendering of a result.
	tableView struct {
		headers []string
		rows    [][]string
	}
)

// print writes v. The table format uses view; when view is nil it falls
// back to YAML.
func (p *printer) print(v any, view *tableView) error {
	switch p.format {
	case config.OutputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		return p.yaml(v)
	case config.OutputTOML:
		return toml.NewEncoder(p.w).Encode(tomlDocument(v))
	default:
		if view == nil {
			return p.yaml(v)
		}
		_, err := fmt.Fprintln(p.w, renderTable(view.headers, view.rows))
		return err
	}
}

// printItem writes one item of a stream. JSON items are written one per
// line, YAML and TOML items as separate documents, and table items as line.
func (p *printer) printItem(v any, line string) error {
	switch p.format {
	case config.OutputJSON:
		return json.NewEncoder(p.w).Encode(v)
	case config.OutputYAML:
		if _, err := fmt.Fprintln(p.w, "---"); err != nil {
			return err
		}
		return p.yaml(v)
	case config.OutputTOML:
		if err := toml.NewEncoder(p.w).Encode(tomlDocument(v)); err != nil {
			return err
		}
		_, err := fmt.Fprintln(p.w)
		return err
	default:
		_, err := fmt.Fprintln(p.w, line)
		return err
	}
}

func (p *printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// tomlDocument wraps values TOML cannot hold at the top level.
func tomlDocument(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map:
		return v
	default:
		return map[string]any{"items": v}
	}
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		String()
}

func shortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

func humanSize(size *int64) string {
	if size == nil {
		return emptyCell
	}
	return units.HumanSize(float64(*size))
}

// humanAge renders t relative to now, e.g. "3 days ago".
func humanAge(t time.Time, now time.Time) string {
	if t.IsZero() {
		return emptyCell
	}
	return units.HumanDuration(now.Sub(t)) + " ago"
}

func orEmpty(s string) string {
	if s == "" {
		return emptyCell
	}
	return s
}
