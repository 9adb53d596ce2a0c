package worldmap

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// project maps geographic coordinates onto the widget's equirectangular
// canvas as percentages, so the fragment scales with its container.
func project(lon, lat float64) (xPct, yPct float64) {
	return (lon + 180) / 360 * 100, (90 - lat) / 180 * 100
}

// renderMarker produces the interactive element for one city. The accessible
// label is "<name> - <timezone>", suffixed while the city is celebrating so
// screen readers announce the changed state on focus.
func renderMarker(mk *Marker) string {
	label := fmt.Sprintf("%s - %s", mk.City.Name, mk.City.Timezone)
	class := "map-marker"
	if mk.Celebrating {
		label += " — celebrated"
		class += " is-celebrating"
	}
	x, y := project(mk.City.Longitude, mk.City.Latitude)
	return fmt.Sprintf(
		`<button type="button" role="option" id="marker-%s" class="%s" aria-label="%s" aria-selected="%t" data-city="%s" data-celebrating="%t" style="left:%.2f%%;top:%.2f%%"></button>`,
		html.EscapeString(mk.City.ID),
		class,
		html.EscapeString(label),
		mk.Selected,
		html.EscapeString(mk.City.ID),
		mk.Celebrating,
		x, y,
	)
}

// renderTerminator produces the SVG night-side overlay. The overlay is
// decorative: it is hidden from assistive technology entirely.
func renderTerminator(snap TerminatorSnapshot) string {
	if len(snap.Points) == 0 {
		return `<svg class="terminator-overlay" aria-hidden="true" viewBox="0 0 100 100" preserveAspectRatio="none"></svg>`
	}
	var d strings.Builder
	for i, p := range snap.Points {
		x, y := project(p.Longitude, p.Latitude)
		if i == 0 {
			fmt.Fprintf(&d, "M%.2f,%.2f", x, y)
		} else {
			fmt.Fprintf(&d, " L%.2f,%.2f", x, y)
		}
	}
	d.WriteString(" Z")
	return fmt.Sprintf(
		`<svg class="terminator-overlay" aria-hidden="true" viewBox="0 0 100 100" preserveAspectRatio="none"><path class="terminator-path" d="%s"/></svg>`,
		d.String(),
	)
}

// renderWidget assembles the full widget fragment: group wrapper with theme
// style overrides, terminator overlay, markers in tab order, and the polite
// live region for celebration announcements.
func renderWidget(markers []string, snap TerminatorSnapshot, announcement string, theme map[string]string) string {
	var b strings.Builder

	b.WriteString(`<div class="worldmap" role="group" aria-label="World map — celebrations by timezone"`)
	if len(theme) > 0 {
		keys := make([]string, 0, len(theme))
		for k := range theme {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(` style="`)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s:%s;", html.EscapeString(k), html.EscapeString(theme[k]))
		}
		b.WriteString(`"`)
	}
	b.WriteString(">")

	b.WriteString(renderTerminator(snap))

	b.WriteString(`<div class="map-markers" role="listbox" aria-label="Featured cities">`)
	for _, m := range markers {
		b.WriteString(m)
	}
	b.WriteString(`</div>`)

	fmt.Fprintf(&b,
		`<div class="sr-only map-announcer" aria-live="polite" aria-atomic="true">%s</div>`,
		html.EscapeString(announcement),
	)

	b.WriteString(`</div>`)
	return b.String()
}
