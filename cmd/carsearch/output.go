package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sozercan/dealer-assistant/internal/inventory"
)

var numbers = message.NewPrinter(language.English)

var (
	headerColor    = color.New(color.Bold)
	highlightColor = color.New(color.FgYellow)
	emptyColor     = color.New(color.FgRed)
)

func printJSON(w io.Writer, cars []inventory.Vehicle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cars)
}

func printTable(w io.Writer, cars []inventory.Vehicle) error {
	if len(cars) == 0 {
		emptyColor.Fprintln(w, "No matching vehicles.")
		return nil
	}

	// Lay out plain text first; escape codes inside cells would count
	// toward column widths.
	var table bytes.Buffer
	tw := tabwriter.NewWriter(&table, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tMAKE\tMODEL\tPRICE\tMILEAGE\tEXTERIOR\tHIGHLIGHTS")
	for _, c := range cars {
		// Highlights is the last column so its color codes cannot skew alignment.
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			year(c.Year), c.Make, c.Model, price(c.Price), mileage(c.Mileage),
			dash(c.NormalizedExterior), highlightColor.Sprint(c.Highlights))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	header, rows, _ := strings.Cut(table.String(), "\n")
	headerColor.Fprintln(w, header)
	_, err := io.WriteString(w, rows)
	return err
}

func year(y *int) string {
	if y == nil {
		return "-"
	}
	return fmt.Sprint(*y)
}

func price(p *float64) string {
	switch {
	case p == nil:
		return "-"
	case *p == math.Trunc(*p):
		return numbers.Sprintf("$%d", int64(*p))
	default:
		return numbers.Sprintf("$%.2f", *p)
	}
}

func mileage(m *int) string {
	if m == nil {
		return "-"
	}
	return numbers.Sprintf("%d", *m)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
