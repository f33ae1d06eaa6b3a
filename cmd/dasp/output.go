package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// table is a header plus rows of pre-formatted cells
type table struct {
	Header []string
	Rows   [][]string
}

// render writes value as json or yaml, or tab as an aligned table or csv.
func render(w io.Writer, format string, value any, tab *table) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)

	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()

	case "csv":
		writer := csv.NewWriter(w)
		if err := writer.Write(tab.Header); err != nil {
			return err
		}
		if err := writer.WriteAll(tab.Rows); err != nil {
			return err
		}
		return writer.Error()

	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		writeTabRow(tw, tab.Header)
		for _, row := range tab.Rows {
			writeTabRow(tw, row)
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTabRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}

// keyValues builds a two-column table
func keyValues(pairs ...any) *table {
	tab := &table{Header: []string{"FIELD", "VALUE"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		tab.Rows = append(tab.Rows, []string{fmt.Sprint(pairs[i]), fmt.Sprint(pairs[i+1])})
	}
	return tab
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}
