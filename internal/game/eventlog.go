package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 300
	logMaxEntries = 60
	logLineHeight = 11
)

// LogEntry is a single line in the dive event log.
type LogEntry struct {
	Tick     int
	Category string // "zone", "air", "hazard", "spear", "lamp", "dive"
	Message  string
}

// EventLog is a ring buffer of dive events rendered in the side panel.
type EventLog struct {
	entries []LogEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]LogEntry, logMaxEntries),
	}
}

// Add appends an entry to the log.
func (el *EventLog) Add(tick int, category, msg string) {
	el.entries[el.head] = LogEntry{
		Tick:     tick,
		Category: category,
		Message:  msg,
	}
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []LogEntry {
	result := make([]LogEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// categoryColour picks the indicator dot colour for a log category.
func categoryColour(category string) color.RGBA {
	switch category {
	case "zone":
		return color.RGBA{R: 80, G: 120, B: 220, A: 255}
	case "air":
		return color.RGBA{R: 80, G: 200, B: 210, A: 255}
	case "hazard":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case "spear":
		return color.RGBA{R: 220, G: 200, B: 80, A: 255}
	case "lamp":
		return color.RGBA{R: 230, G: 180, B: 60, A: 255}
	default:
		return color.RGBA{R: 110, G: 190, B: 110, A: 255}
	}
}

// Draw renders the event log panel on the right side of the screen.
func (el *EventLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	// Panel background.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 6, G: 12, B: 18, A: 248}, false)
	// Left separator line.
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 40, G: 70, B: 90, A: 255}, false)

	// Title bar background.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 12, G: 24, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "DIVE LOG", panelX+8, 2)
	// Title separator.
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 40, G: 80, B: 100, A: 200}, false)

	entries := el.Recent()

	// Draw from bottom up so newest is at bottom.
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}

	visible := entries[startIdx:]
	recent := 3 // how many latest entries to highlight

	y := 20
	for i, e := range visible {
		isRecent := i >= len(visible)-recent

		// Highlight row background for recent entries.
		if isRecent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 18, G: 32, B: 42, A: 160}, false)
		}

		// Category indicator dot.
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, categoryColour(e.Category), false)

		line := fmt.Sprintf("%4d [%s] %s", e.Tick, e.Category, e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}
