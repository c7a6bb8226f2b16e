package tui

import (
	"fmt"
	"strings"

	"vacciprofile/internal/session"
	"vacciprofile/internal/textfmt"
)

// detailsMarkdown renders the focused entity as markdown for glamour.
func detailsMarkdown(d session.Details) string {
	var b strings.Builder
	switch d := d.(type) {
	case session.VirusDetails:
		fmt.Fprintf(&b, "## %s\n\n%s\n", d.Virus.Name, textfmt.Markdown(d.Description))
	case session.VaccineDetails:
		v := d.Vaccine
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", v.Name, textfmt.Markdown(d.Description))
		field(&b, "Type", v.VaccineType)
		field(&b, "Recommendation", v.Recommendation)
		field(&b, "Comments", v.Comments)
		field(&b, "Revenue", v.Revenue)
		field(&b, "Link", v.Link)
		field(&b, "Last updated", v.LastUpdated)
	case session.ManufacturerDetails:
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", d.Manufacturer.Name, textfmt.Markdown(d.Description))
		for _, a := range d.Attributes {
			field(&b, a.Label, a.Value)
		}
		if len(d.Sources) > 0 {
			b.WriteString("\n### Sources\n\n")
			for _, s := range d.Sources {
				fmt.Fprintf(&b, "- [%s](%s)", s.Title, s.Link)
				if s.LastUpdated != "" {
					fmt.Fprintf(&b, " (%s)", s.LastUpdated)
				}
				b.WriteString("\n")
			}
		}
		if d.LastUpdated != "" {
			fmt.Fprintf(&b, "\n_Last updated %s_\n", d.LastUpdated)
		}
	case session.AccreditationDetails:
		fmt.Fprintf(&b, "## Accreditation %s\n\n", d.Tag)
		for _, v := range d.Vaccines {
			fmt.Fprintf(&b, "- %s\n", v.Name)
		}
	}
	return b.String()
}

func field(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- **%s:** %s\n", label, value)
}
