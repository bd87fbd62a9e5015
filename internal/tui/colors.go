package tui

// Color constants for the dotask TUI theme
const (
	ColorBorder = "#2F4858" // Slate teal

	// Text
	ColorPrimaryText   = "#E8F1F2"
	ColorSecondaryText = "#9DB4C0" // Metadata, unselected rows
	ColorDisabledText  = "#5C6F7B" // Completed tasks, empty fields
	ColorPlaceholder   = "#7E98A6"
	ColorHelpText      = "243"

	// Accents
	ColorAccentMain   = "#0EA5A4" // Header, active panel, selection marker
	ColorAccentBright = "#5EEAD4" // Spinner, selected row, upcoming dates

	// Priorities
	ColorPriorityHigh   = "#F43F5E"
	ColorPriorityMedium = "#FB923C"
	ColorPriorityLow    = ColorSecondaryText

	// Due dates
	ColorOverdue = "#F43F5E"
	ColorDueSoon = "#FACC15" // Today and tomorrow

	// State
	ColorSuccess = "#34D399" // Checkmarks, confirmations
	ColorWarning = "#FACC15" // Status bar notices, reminders
)
