package tdd

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The terminal's palette supplies the RGB values.
type Theme struct {
	UserMsg   int // User message accent
	Assistant int // Assistant message accent
	Error     int // Errors and failed runs
	Success   int // Passing runs
	Muted     int // Status bar, placeholders
	Border    int // Pane borders
	ActiveTab int // Selected version and panel tabs
	Accent    int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:   4,
		Assistant: 6,
		Error:     1,
		Success:   2,
		Muted:     8,
		Border:    8,
		ActiveTab: 3,
		Accent:    5,
	}
}
