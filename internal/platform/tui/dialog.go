package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxNameLength caps the player name stored on the leaderboard.
const maxNameLength = 16

// DialogResult is the outcome of the save-score dialog.
type DialogResult int

const (
	DialogOpen DialogResult = iota
	DialogSubmitted
	DialogCancelled
)

// SaveDialog asks for a player name after a game over.
type SaveDialog struct {
	input  textinput.Model
	score  int
	result DialogResult
	theme  Theme

	ranked    bool // Set once the leaderboard was checked
	qualifies bool
}

// NewSaveDialog creates a focused dialog for the given score.
func NewSaveDialog(score int, defaultName string, theme Theme) SaveDialog {
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = maxNameLength
	ti.Width = maxNameLength + 1
	ti.SetValue(defaultName)
	ti.CursorEnd()
	ti.Focus()

	return SaveDialog{
		input: ti,
		score: score,
		theme: theme,
	}
}

// Update handles a message and reports whether the dialog finished.
func (d SaveDialog) Update(msg tea.Msg) (SaveDialog, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			d.result = DialogSubmitted
			return d, nil
		case "esc":
			d.result = DialogCancelled
			return d, nil
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// SetQualifies records whether the score makes the leaderboard.
func (d *SaveDialog) SetQualifies(ok bool) {
	d.ranked = true
	d.qualifies = ok
}

// Result returns the dialog state.
func (d SaveDialog) Result() DialogResult {
	return d.result
}

// Name returns the entered name without surrounding spaces.
func (d SaveDialog) Name() string {
	return strings.TrimSpace(d.input.Value())
}

// View renders the dialog box.
func (d SaveDialog) View() string {
	var b strings.Builder
	b.WriteString(d.theme.Title.Render("GAME OVER"))
	b.WriteString("\n\n")
	b.WriteString(d.theme.ItemNormal.Render(fmt.Sprintf("Score: %d", d.score)))
	if d.ranked {
		b.WriteString("\n")
		if d.qualifies {
			b.WriteString(d.theme.ItemActive.Render("New high score!"))
		} else {
			b.WriteString(d.theme.Description.Render("Not enough for the leaderboard"))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(d.theme.ItemNormal.Render("Save your score as:"))
	b.WriteString("\n")
	b.WriteString(d.input.View())
	b.WriteString("\n\n")
	b.WriteString(d.theme.Help.Render("enter save • esc skip"))
	return d.theme.DialogBorder.Render(b.String())
}
