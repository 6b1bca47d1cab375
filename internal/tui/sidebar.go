package tui

import (
	"fmt"
	"strings"

	"starmap-service/internal/domain"
)

const sidebarWidth = 34

var starportDesc = map[byte]string{
	'A': "excellent",
	'B': "good",
	'C': "routine",
	'D': "poor",
	'E': "frontier",
	'X': "none",
}

var atmosphereDesc = []string{
	"none", "trace", "very thin, tainted", "very thin", "thin, tainted",
	"thin", "standard", "standard, tainted", "dense", "dense, tainted",
	"exotic", "corrosive", "insidious", "dense, high", "thin, low", "unusual",
}

var governmentDesc = []string{
	"none", "company or corporation", "participating democracy",
	"self-perpetuating oligarchy", "representative democracy",
	"feudal technocracy", "captive government", "balkanization",
	"civil service bureaucracy", "impersonal bureaucracy",
	"charismatic dictator", "non-charismatic leader",
	"charismatic oligarchy", "religious dictatorship",
	"religious autocracy", "totalitarian oligarchy",
}

var baseDesc = map[rune]string{
	'N': "naval base",
	'S': "scout base",
	'D': "naval depot",
	'W': "way station",
	'C': "corsair base",
}

func describeAtmosphere(v int) string {
	if v >= 0 && v < len(atmosphereDesc) {
		return atmosphereDesc[v]
	}
	return "unknown"
}

func describeGovernment(v int) string {
	if v >= 0 && v < len(governmentDesc) {
		return governmentDesc[v]
	}
	return "unknown"
}

func describeSize(v int) string {
	if v == 0 {
		return "asteroid belt"
	}
	return fmt.Sprintf("~%d km", v*1600)
}

func describeHydro(v int) string {
	switch {
	case v <= 0:
		return "desert world"
	case v >= 10:
		return "water world"
	default:
		return fmt.Sprintf("%d0%% water", v)
	}
}

func describePopulation(u domain.UWP, p domain.PBG) string {
	if u.Population == 0 {
		return "uninhabited"
	}
	if p.PopulationDigit > 0 {
		return fmt.Sprintf("~%d x 10^%d", p.PopulationDigit, u.Population)
	}
	return fmt.Sprintf("~10^%d", u.Population)
}

func describeBases(bases string) string {
	if bases == "" {
		return ""
	}
	parts := make([]string, 0, len(bases))
	for _, r := range bases {
		if d, ok := baseDesc[r]; ok {
			parts = append(parts, d)
		} else {
			parts = append(parts, string(r))
		}
	}
	return strings.Join(parts, ", ")
}

func zoneLabel(z domain.TravelZone) string {
	switch z {
	case domain.ZoneAmber:
		return "Amber"
	case domain.ZoneRed:
		return "Red"
	default:
		return "Green"
	}
}

// renderSidebar builds the detail panel for the hex under the cursor.
func (m Model) renderSidebar() string {
	var b strings.Builder

	w := m.worlds[m.cursor]
	if w == nil {
		b.WriteString(m.theme.Title.Render("Empty hex " + m.cursor.String()))
		b.WriteString("\n\n")
		b.WriteString(m.theme.Help.Render("No mainworld charted."))
	} else {
		m.writeWorldDetail(&b, w)
	}

	if m.origin != nil && *m.origin != m.cursor {
		fmt.Fprintf(&b, "\n\nOrigin %s, distance %d pc",
			m.origin.String(), domain.Distance(*m.origin, m.cursor))
	}
	if m.plan != nil && len(m.plan.Legs) > 0 {
		fmt.Fprintf(&b, "\nRoute: %d jumps, %d parsecs", m.plan.TotalJumps, m.plan.TotalParsecs)
		for _, leg := range m.plan.Legs {
			fmt.Fprintf(&b, "\n  %s %s > %s %s (%d pc)",
				leg.From, truncate(leg.FromName, 8), leg.To, truncate(leg.ToName, 8), leg.Parsecs)
		}
	}
	if m.planErr != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.Error.Render(m.planErr.Error()))
	}

	return m.theme.Sidebar.Width(sidebarWidth).Render(b.String())
}

func (m Model) writeWorldDetail(b *strings.Builder, w *domain.World) {
	b.WriteString(m.theme.Title.Render(fmt.Sprintf("%s  %s", w.Name, w.Hex)))
	if w.Hidden {
		b.WriteString(" ")
		b.WriteString(m.theme.Referee.Render("[hidden]"))
	}
	b.WriteString("\n\n")

	u := w.UWP
	fmt.Fprintf(b, "UWP %s\n", u)
	fmt.Fprintf(b, "  Starport %c  %s\n", u.Starport, starportDesc[u.Starport])
	fmt.Fprintf(b, "  Size %d  %s\n", u.Size, describeSize(u.Size))
	fmt.Fprintf(b, "  Atmosphere %d  %s\n", u.Atmosphere, describeAtmosphere(u.Atmosphere))
	fmt.Fprintf(b, "  Hydro %d  %s\n", u.Hydrographics, describeHydro(u.Hydrographics))
	fmt.Fprintf(b, "  Population %d  %s\n", u.Population, describePopulation(u, w.PBG))
	fmt.Fprintf(b, "  Government %d  %s\n", u.Government, describeGovernment(u.Government))
	fmt.Fprintf(b, "  Law %d, Tech %d\n", u.LawLevel, u.TechLevel)

	if codes := w.TradeCodes(); len(codes) > 0 {
		fmt.Fprintf(b, "Trade: %s\n", strings.Join(codes, " "))
	}
	if w.Bases != "" {
		fmt.Fprintf(b, "Bases: %s\n", describeBases(w.Bases))
	}

	zone := m.zoneStyle(w.Zone).Render(zoneLabel(w.Zone))
	fmt.Fprintf(b, "Zone: %s\n", zone)

	if w.PBG != (domain.PBG{}) {
		fmt.Fprintf(b, "PBG %s: %d belts, %d gas giants\n", w.PBG, w.PBG.Belts, w.PBG.GasGiants)
	}
	if w.Allegiance != "" {
		fmt.Fprintf(b, "Allegiance: %s\n", w.Allegiance)
	}
	if w.Stellar != "" {
		fmt.Fprintf(b, "Stellar: %s\n", w.Stellar)
	}
	if w.Remarks != "" {
		fmt.Fprintf(b, "Remarks: %s\n", w.Remarks)
	}

	if links := m.xboatLinks(w.Hex); len(links) > 0 {
		fmt.Fprintf(b, "XBoat: %s\n", strings.Join(links, " "))
	}

	if m.refereeMode {
		if note := m.deps.Overlay.Note(m.sectorName(), w.Hex); note != "" {
			b.WriteString("\n")
			b.WriteString(m.theme.Referee.Render("Note: " + note))
		}
	}
}

// xboatLinks lists the far ends of communication routes touching hex.
func (m Model) xboatLinks(hex domain.Hex) []string {
	var out []string
	for _, r := range m.routes {
		switch hex {
		case r.From:
			out = append(out, r.To.String())
		case r.To:
			out = append(out, r.From.String())
		}
	}
	return out
}
