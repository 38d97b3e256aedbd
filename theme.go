package ragchat

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	UserMsg   int // User message accent
	Reference int // Reference headers
	Error     int // Error messages
	Success   int // Success indicators
	Muted     int // Status bar, usage, placeholders
	Quote     int // Block quote gutter
	Accent    int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:   4,
		Reference: 6,
		Error:     1,
		Success:   2,
		Muted:     8,
		Quote:     3,
		Accent:    5,
	}
}
