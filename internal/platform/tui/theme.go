package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
)

// Theme contains all visual styles of the snake front end.
type Theme struct {
	// Board cells, by color role
	Cells map[core.Color]lipgloss.Style

	// Menu and dialog styles
	Title       lipgloss.Style
	ItemNormal  lipgloss.Style
	ItemActive  lipgloss.Style
	Description lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style

	DialogBorder lipgloss.Style

	// Scoreboard table accents
	TableBorder   lipgloss.Color
	TableSelected lipgloss.Style
	TableOwn      lipgloss.Style // Row of the score just saved
}

// DarkTheme returns the default theme for dark terminals.
func DarkTheme() Theme {
	return Theme{
		Cells: map[core.Color]lipgloss.Style{
			core.ColorDefault:         lipgloss.NewStyle(),
			core.ColorSnakeHead:       lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true), // Lime green
			core.ColorSnakeBody:       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),            // Green
			core.ColorSnakeDead:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),           // Red
			core.ColorFoodRegular:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),           // Orange
			core.ColorFoodDoubleScore: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true), // Yellow
			core.ColorFoodSpeedBoost:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),  // Cyan
			core.ColorFoodSpeedUp:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")),           // Pink
			core.ColorFoodSlowDown:    lipgloss.NewStyle().Foreground(lipgloss.Color("135")),           // Purple
			core.ColorObstacle:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),           // Gray
			core.ColorBorder:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			core.ColorHUD:             lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			core.ColorHighlight:       lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
			core.ColorDim:             lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		},

		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		ItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemActive:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		DialogBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("46")).
			Padding(1, 2),

		TableBorder:   lipgloss.Color("240"),
		TableSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		TableOwn:      lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	}
}

// LightTheme returns a theme for light terminals.
func LightTheme() Theme {
	t := DarkTheme()
	t.Cells = map[core.Color]lipgloss.Style{
		core.ColorDefault:         lipgloss.NewStyle(),
		core.ColorSnakeHead:       lipgloss.NewStyle().Foreground(lipgloss.Color("22")).Bold(true), // Dark green
		core.ColorSnakeBody:       lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		core.ColorSnakeDead:       lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		core.ColorFoodRegular:     lipgloss.NewStyle().Foreground(lipgloss.Color("166")),
		core.ColorFoodDoubleScore: lipgloss.NewStyle().Foreground(lipgloss.Color("136")).Bold(true),
		core.ColorFoodSpeedBoost:  lipgloss.NewStyle().Foreground(lipgloss.Color("31")).Bold(true),
		core.ColorFoodSpeedUp:     lipgloss.NewStyle().Foreground(lipgloss.Color("162")),
		core.ColorFoodSlowDown:    lipgloss.NewStyle().Foreground(lipgloss.Color("91")),
		core.ColorObstacle:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		core.ColorBorder:          lipgloss.NewStyle().Foreground(lipgloss.Color("248")),
		core.ColorHUD:             lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		core.ColorHighlight:       lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
		core.ColorDim:             lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("22"))
	t.ItemNormal = lipgloss.NewStyle().Foreground(lipgloss.Color("235"))
	t.ItemActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25"))
	t.DialogBorder = t.DialogBorder.BorderForeground(lipgloss.Color("22"))
	t.TableSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25"))
	t.TableOwn = lipgloss.NewStyle().Foreground(lipgloss.Color("22")).Bold(true)
	return t
}

// ThemeByName returns the theme for a config theme name, dark by default.
func ThemeByName(name string) Theme {
	if name == config.ThemeLight {
		return LightTheme()
	}
	return DarkTheme()
}

// Style returns the cell style for a color role.
func (t Theme) Style(c core.Color) lipgloss.Style {
	if s, ok := t.Cells[c]; ok {
		return s
	}
	return t.Cells[core.ColorDefault]
}
