package tui

// Color constants for the tracklog TUI theme
const (
	ColorBorder = "#3A3F55" // Panel borders

	// Text
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240"

	// Accents
	ColorAccentMain   = "#7C3AED" // Active borders, logo
	ColorAccentBright = "#A78BFA" // Headers, selected items

	// Trackables
	ColorTracker = "#38BDF8" // #tags
	ColorContext = "#F472B6" // +contexts

	// Shimmer ramp
	ColorShimmerBase      = "#B1B8C7"
	ColorShimmerHighlight = "#EAE6FF"

	// State
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)
