// Package render formats streams, events and parameters for the terminal:
// lipgloss tables, JSON, and plain event lines, with optional color.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/kingalban/aws-butler/internal/logs"
	"github.com/kingalban/aws-butler/internal/params"
)

const timeFormat = "2006-01-02 15:04:05"

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Timestamp renders t in the fixed display format, "-" for the zero time.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeFormat)
}

// Duration renders d as H:MM:SS.
func Duration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// EventLine renders one log event. Without color the event message is
// also stripped of any ANSI sequences it carried from the producer.
func EventLine(e logs.Event, color bool) string {
	stamp := e.Timestamp.Format(timeFormat)
	if !color {
		return stamp + ": " + ansi.Strip(e.Message)
	}
	return subtleStyle.Render(stamp+":") + " " + e.Message
}

// StreamHeader renders the "group stream" line printed before a stream's
// events.
func StreamHeader(group, stream string, color bool) string {
	line := group + " " + stream
	if !color {
		return line
	}
	return headerStyle.Render(line)
}

// JSON writes v indented to w, one trailing newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

// StreamTable renders stream metadata as a table.
func StreamTable(streams []logs.Stream) string {
	t := newTable("NAME", "CREATED", "FIRST EVENT", "LAST EVENT", "DURATION")
	for _, s := range streams {
		t.Row(s.Name, Timestamp(s.CreatedAt), Timestamp(s.FirstEventAt),
			Timestamp(s.LastEventAt), Duration(s.Duration()))
	}
	return t.Render()
}

// streamJSON is the JSON shape of one stream.
type streamJSON struct {
	Name       string `json:"name"`
	Created    string `json:"created"`
	FirstEvent string `json:"first_event"`
	LastEvent  string `json:"last_event"`
	Duration   string `json:"duration"`
}

// StreamJSON writes stream metadata as a JSON array.
func StreamJSON(w io.Writer, streams []logs.Stream) error {
	out := make([]streamJSON, len(streams))
	for i, s := range streams {
		out[i] = streamJSON{
			Name:       s.Name,
			Created:    Timestamp(s.CreatedAt),
			FirstEvent: Timestamp(s.FirstEventAt),
			LastEvent:  Timestamp(s.LastEventAt),
			Duration:   Duration(s.Duration()),
		}
	}
	return JSON(w, out)
}

// ParamTable renders parameter metadata as a table.
func ParamTable(parameters []params.Parameter) string {
	t := newTable("NAME", "TYPE", "LAST MODIFIED", "DESCRIPTION")
	for _, p := range parameters {
		t.Row(p.Name, p.Type, Timestamp(p.LastModified), p.Description)
	}
	return t.Render()
}

// paramJSON is the JSON shape of one parameter.
type paramJSON struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	LastModified string `json:"last_modified"`
	Description  string `json:"description,omitempty"`
}

// ParamJSON writes parameter metadata as a JSON array.
func ParamJSON(w io.Writer, parameters []params.Parameter) error {
	out := make([]paramJSON, len(parameters))
	for i, p := range parameters {
		out[i] = paramJSON{
			Name:         p.Name,
			Type:         p.Type,
			LastModified: Timestamp(p.LastModified),
			Description:  p.Description,
		}
	}
	return JSON(w, out)
}
