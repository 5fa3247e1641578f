package assistant

import (
	"html/template"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sozercan/dealer-assistant/internal/inventory"
)

var listingTemplate = template.Must(template.New("listing").Parse(
	`<b>Here are the top cars I found for you:</b><br><br>` +
		`{{range .}}` +
		`<b>{{.Title}}</b><br>` +
		`Price: {{.Price}} | Mileage: {{.Mileage}}<br>` +
		`Exterior: {{.Exterior}} | Interior: {{.Interior}}<br>` +
		`{{if .Highlights}}<i>{{.Highlights}}</i><br>{{end}}` +
		`{{if .ImageURL}}<img src='{{.ImageURL}}' alt='Car image' style='max-width:200px;border-radius:5px;'><br>{{end}}` +
		`{{if .Link}}<a href='{{.Link}}' target='_blank'>View Listing</a><br>{{end}}` +
		`<br>` +
		`{{end}}` +
		`<i>You can refine by make, model, year, price, mileage, or type 'more' to see additional cars.</i>`,
))

var numbers = message.NewPrinter(language.English)

type listingEntry struct {
	Title      string
	Price      string
	Mileage    string
	Exterior   string
	Interior   string
	Highlights string
	ImageURL   string
	Link       string
}

// renderListing formats search results as the HTML fragment the chat page
// displays.
func renderListing(cars []inventory.Vehicle) (string, error) {
	entries := make([]listingEntry, 0, len(cars))
	for _, c := range cars {
		entries = append(entries, listingEntry{
			Title:      title(c),
			Price:      formatPrice(c.Price),
			Mileage:    formatMileage(c.Mileage),
			Exterior:   orNA(c.ExteriorColor),
			Interior:   orNA(c.InteriorColor),
			Highlights: c.Highlights,
			ImageURL:   c.ImageURL,
			Link:       c.Link,
		})
	}

	var b strings.Builder
	if err := listingTemplate.Execute(&b, entries); err != nil {
		return "", err
	}
	return b.String(), nil
}

func title(c inventory.Vehicle) string {
	parts := make([]string, 0, 3)
	if c.Year != nil {
		parts = append(parts, strconv.Itoa(*c.Year))
	}
	parts = append(parts, c.Make, c.Model)
	return strings.TrimSpace(strings.Join(parts, " "))
}

func formatPrice(p *float64) string {
	if p == nil {
		return "N/A"
	}
	if *p == math.Trunc(*p) {
		return numbers.Sprintf("$%d", int64(*p))
	}
	return numbers.Sprintf("$%.2f", *p)
}

func formatMileage(m *int) string {
	if m == nil {
		return "N/A"
	}
	return numbers.Sprintf("%d miles", *m)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
