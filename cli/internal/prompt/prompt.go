// ABOUTME: Interactive admin key prompt for callbridgectl
// ABOUTME: Masked huh input shown when no key is set by flag or environment

package prompt

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ErrEmptyKey is returned by ValidateKey for blank input.
var ErrEmptyKey = errors.New("admin key must not be empty")

// AdminKey asks for the admin API key with masked echo. The form draws on
// out so JSON written to stdout stays clean.
func AdminKey(in io.Reader, out io.Writer) (string, error) {
	var key string
	form := newAdminKeyForm(&key).
		WithInput(in).
		WithOutput(out)
	if err := form.Run(); err != nil {
		return "", err
	}
	return key, nil
}

func newAdminKeyForm(key *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Admin API key").
				Description("Set CALLBRIDGE_ADMIN_KEY or --admin-key to skip this prompt").
				EchoMode(huh.EchoModePassword).
				Value(key).
				Validate(ValidateKey),
		),
	).WithTheme(theme())
}

// ValidateKey rejects blank keys. The key is otherwise sent verbatim.
func ValidateKey(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyKey
	}
	return nil
}

// theme matches the CLI's output palette.
func theme() *huh.Theme {
	t := huh.ThemeBase()

	purple := lipgloss.Color("#7C3AED")
	gray := lipgloss.Color("#6B7280")
	red := lipgloss.Color("#EF4444")

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(purple)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(purple).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")

	return t
}
