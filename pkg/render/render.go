// Package render draws standings and classifications as monospace tables
// for the bot and the command line.
package render

import (
	"bytes"
	"fmt"

	"f1dashboard/pkg/helper"
	"f1dashboard/pkg/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	tablePos    = "Pos"
	tableDriver = "Piloto"
	tableTeam   = "Equipo"
	tablePoints = "Puntos"
	tableGap    = "Dif"
	tableTime   = "Tiempo"
)

func newTable(b *bytes.Buffer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(b)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	return t
}

// Drivers renders the driver standings. Long names are replaced by their
// three letter code when compact is set.
func Drivers(drivers []model.DriverStandingEntry, compact bool) string {
	var b bytes.Buffer
	t := newTable(&b)
	if compact {
		t.AppendHeader(table.Row{tablePos, tableDriver, tablePoints})
	} else {
		t.AppendHeader(table.Row{tablePos, "#", tableDriver, tableTeam, tablePoints})
	}
	for _, d := range drivers {
		name := d.DisplayName()
		if name == "" {
			name = fmt.Sprintf("#%d", d.DriverNumber)
		}
		if compact {
			code := helper.DriverCode(d.NameAcronym, d.DisplayName())
			if code == "" {
				code = name
			}
			t.AppendRow(table.Row{d.Position, code, helper.FormatPoints(d.Points)})
			continue
		}
		t.AppendRow(table.Row{d.Position, d.DriverNumber, name, d.TeamName, helper.FormatPoints(d.Points)})
	}
	t.Render()
	return b.String()
}

func Constructors(constructors []model.ConstructorStandingEntry) string {
	var b bytes.Buffer
	t := newTable(&b)
	t.AppendHeader(table.Row{tablePos, tableTeam, tablePoints})
	for _, c := range constructors {
		t.AppendRow(table.Row{c.Position, c.TeamName, helper.FormatPoints(c.Points)})
	}
	t.Render()
	return b.String()
}

// Classification renders a final result, or the starting grid when the
// session has no result yet.
func Classification(c model.Classification) string {
	return model.Match(c,
		func(grid []model.GridEntry) string {
			var b bytes.Buffer
			t := newTable(&b)
			t.AppendHeader(table.Row{tablePos, "#", tableTime})
			for _, g := range grid {
				t.AppendRow(table.Row{g.Position, g.DriverNumber, helper.SecondsToMinutes(g.LapDuration)})
			}
			t.Render()
			return b.String()
		},
		func(results []model.SessionResult) string {
			var b bytes.Buffer
			t := newTable(&b)
			t.AppendHeader(table.Row{tablePos, "#", tableGap, tablePoints})
			for _, r := range results {
				pos := fmt.Sprint(r.Position)
				switch {
				case r.DSQ:
					pos = "DSQ"
				case r.DNS:
					pos = "DNS"
				case r.DNF:
					pos = "DNF"
				}
				t.AppendRow(table.Row{pos, r.DriverNumber, r.GapToLeader.String(), helper.FormatPoints(r.Points)})
			}
			t.Render()
			return b.String()
		},
	)
}

// Omitted lists the sessions left out of an aggregate, or "" when none were.
func Omitted(omitted []model.OmittedSession) string {
	if len(omitted) == 0 {
		return ""
	}
	var b bytes.Buffer
	b.WriteString("Sesiones sin datos:\n")
	for _, o := range omitted {
		fmt.Fprintf(&b, "- %s (%s)\n", o.Location, o.Name)
	}
	return b.String()
}
