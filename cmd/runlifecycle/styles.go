// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output, chosen for dark terminal backgrounds.
const (
	// ColorPrimary is purple, for titles.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray, for subtitles and placeholders.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green, for packages whose stage passed.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red, for failures.
	ColorError = lipgloss.Color("#EF4444")
	// ColorHighlight is blue, for package IDs and config keys.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success markers and values.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error markers.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// CmdStyle is for package IDs, config keys and labels.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)
