package ui

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Theme defines UI color tokens used across widgets and text tags.
type Theme struct {
	// Widget colors
	Bg          tcell.Color
	Surface     tcell.Color
	Border      tcell.Color
	FocusBorder tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	TextPrimary tcell.Color
	TextMuted   tcell.Color
	Accent      tcell.Color
	Success     tcell.Color
	Warning     tcell.Color
	Error       tcell.Color
	Header      tcell.Color

	// Map colors
	Land           tcell.Color
	Marker         tcell.Color
	MarkerMultiple tcell.Color
	MarkerSelected tcell.Color
	Cluster        tcell.Color

	// Text tag colors (for tview dynamic color markup)
	TagTextPrimary string
	TagMuted       string
	TagAccent      string
	TagSuccess     string
	TagWarning     string
	TagError       string
	TagHeader      string
}

// helpers
func hex(s string) tcell.Color { return tcell.GetColor(s) }

func themeDark() Theme {
	return Theme{
		Bg:          hex("#0e1116"),
		Surface:     hex("#12161e"),
		Border:      hex("#2b3240"),
		FocusBorder: hex("#4aa8ff"),
		SelectionBg: hex("#2b3240"),
		SelectionFg: hex("#cfd8e3"),
		TextPrimary: hex("#e6edf3"),
		TextMuted:   hex("#8a939f"),
		Accent:      hex("#2dd4bf"),
		Success:     hex("#22c55e"),
		Warning:     hex("#f59e0b"),
		Error:       hex("#ef4444"),
		Header:      hex("#eab308"),

		Land:           hex("#161c27"),
		Marker:         hex("#87afff"),
		MarkerMultiple: hex("#ffaf5f"),
		MarkerSelected: hex("#ff5f5f"),
		Cluster:        hex("#2dd4bf"),

		TagTextPrimary: "#e6edf3",
		TagMuted:       "#8a939f",
		TagAccent:      "#2dd4bf",
		TagSuccess:     "#22c55e",
		TagWarning:     "#f59e0b",
		TagError:       "#ef4444",
		TagHeader:      "#eab308",
	}
}

func themeLight() Theme {
	return Theme{
		Bg:          hex("#f6f8fa"),
		Surface:     hex("#ffffff"),
		Border:      hex("#d0d7de"),
		FocusBorder: hex("#1f6feb"),
		SelectionBg: hex("#e2e8f0"),
		SelectionFg: hex("#111827"),
		TextPrimary: hex("#111827"),
		TextMuted:   hex("#6b7280"),
		Accent:      hex("#2563eb"),
		Success:     hex("#15803d"),
		Warning:     hex("#b45309"),
		Error:       hex("#b91c1c"),
		Header:      hex("#1f2937"),

		Land:           hex("#f8fafc"),
		Marker:         hex("#2563eb"),
		MarkerMultiple: hex("#f97316"),
		MarkerSelected: hex("#dc2626"),
		Cluster:        hex("#15803d"),

		TagTextPrimary: "#111827",
		TagMuted:       "#6b7280",
		TagAccent:      "#2563eb",
		TagSuccess:     "#15803d",
		TagWarning:     "#b45309",
		TagError:       "#b91c1c",
		TagHeader:      "#1f2937",
	}
}

func themeHighContrast() Theme {
	return Theme{
		Bg:          hex("#000000"),
		Surface:     hex("#000000"),
		Border:      hex("#ffffff"),
		FocusBorder: hex("#ffff00"),
		SelectionBg: hex("#ffffff"),
		SelectionFg: hex("#000000"),
		TextPrimary: hex("#ffffff"),
		TextMuted:   hex("#cccccc"),
		Accent:      hex("#00ffff"),
		Success:     hex("#00ff00"),
		Warning:     hex("#ffff00"),
		Error:       hex("#ff0000"),
		Header:      hex("#ffffff"),

		Land:           hex("#000000"),
		Marker:         hex("#00aaff"),
		MarkerMultiple: hex("#ff8800"),
		MarkerSelected: hex("#ff0000"),
		Cluster:        hex("#00ff00"),

		TagTextPrimary: "#ffffff",
		TagMuted:       "#cccccc",
		TagAccent:      "#00ffff",
		TagSuccess:     "#00ff00",
		TagWarning:     "#ffff00",
		TagError:       "#ff0000",
		TagHeader:      "#ffffff",
	}
}

func themeColorblindSafe() Theme {
	// ColorBrewer-inspired RdYlBu-like palette (safe-ish)
	return Theme{
		Bg:          hex("#0e1116"),
		Surface:     hex("#12161e"),
		Border:      hex("#2b3240"),
		FocusBorder: hex("#4aa8ff"),
		SelectionBg: hex("#2b3240"),
		SelectionFg: hex("#e6edf3"),
		TextPrimary: hex("#e6edf3"),
		TextMuted:   hex("#8a939f"),
		Accent:      hex("#80b1d3"),
		Success:     hex("#5ab4ac"),
		Warning:     hex("#fdb863"),
		Error:       hex("#d7191c"),
		Header:      hex("#fee08b"),

		Land:           hex("#151a22"),
		Marker:         hex("#4575b4"),
		MarkerMultiple: hex("#fc8d59"),
		MarkerSelected: hex("#d73027"),
		Cluster:        hex("#91bfdb"),

		TagTextPrimary: "#e6edf3",
		TagMuted:       "#8a939f",
		TagAccent:      "#80b1d3",
		TagSuccess:     "#5ab4ac",
		TagWarning:     "#fdb863",
		TagError:       "#d7191c",
		TagHeader:      "#fee08b",
	}
}

func themeNeon() Theme {
	return Theme{
		Bg:          hex("#0f0b14"),
		Surface:     hex("#14111a"),
		Border:      hex("#45385a"),
		FocusBorder: hex("#ff79c6"), // pink focus ring
		SelectionBg: hex("#2a1f3d"),
		SelectionFg: hex("#f8f5ff"),
		TextPrimary: hex("#f8f5ff"),
		TextMuted:   hex("#b8a8c9"),
		Accent:      hex("#ff6ac1"),
		Success:     hex("#00d084"),
		Warning:     hex("#ffd166"),
		Error:       hex("#ff5555"),
		Header:      hex("#ff79c6"),

		Land:           hex("#1a1426"),
		Marker:         hex("#0a84ff"),
		MarkerMultiple: hex("#ff9f0a"),
		MarkerSelected: hex("#ff3b30"),
		Cluster:        hex("#34c759"),

		TagTextPrimary: "#f8f5ff",
		TagMuted:       "#b8a8c9",
		TagAccent:      "#ff6ac1",
		TagSuccess:     "#00d084",
		TagWarning:     "#ffd166",
		TagError:       "#ff5555",
		TagHeader:      "#ff79c6",
	}
}

// themeNames lists the themes in cycle order.
var themeNames = []string{"dark", "light", "neon", "cb-safe", "high-contrast"}

// themeByName resolves a theme, falling back to dark.
func themeByName(name string) (string, Theme) {
	switch name {
	case "light":
		return name, themeLight()
	case "neon":
		return name, themeNeon()
	case "high-contrast":
		return name, themeHighContrast()
	case "cb-safe":
		return name, themeColorblindSafe()
	default:
		return "dark", themeDark()
	}
}

// nextTheme returns the theme after name in cycle order.
func nextTheme(name string) string {
	for i, n := range themeNames {
		if n == name {
			return themeNames[(i+1)%len(themeNames)]
		}
	}
	return themeNames[0]
}

func detectTrueColor() bool {
	// Best-effort detection without initializing screen
	ct := strings.ToLower(os.Getenv("COLORTERM"))
	if strings.Contains(ct, "truecolor") || strings.Contains(ct, "24bit") {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "truecolor") || strings.Contains(term, "24bit") || strings.Contains(term, "256color")
}
