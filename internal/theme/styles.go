package theme

import "github.com/charmbracelet/lipgloss"

// Variant selects a button color.
type Variant int

const (
	Primary Variant = iota
	Secondary
	Danger
)

// Palette is the set of colors for one theme.
type Palette struct {
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Danger     lipgloss.Color
	OnButton   lipgloss.Color
	Success    lipgloss.Color
	Disabled   lipgloss.Color
	Background lipgloss.Color
}

var palettes = map[Theme]Palette{
	Light: {
		Text:       lipgloss.Color("235"),
		Muted:      lipgloss.Color("243"),
		Accent:     lipgloss.Color("26"),
		Surface:    lipgloss.Color("255"),
		Border:     lipgloss.Color("250"),
		Primary:    lipgloss.Color("26"),
		Secondary:  lipgloss.Color("241"),
		Danger:     lipgloss.Color("160"),
		OnButton:   lipgloss.Color("255"),
		Success:    lipgloss.Color("28"),
		Disabled:   lipgloss.Color("248"),
		Background: lipgloss.Color("231"),
	},
	Dark: {
		Text:       lipgloss.Color("252"),
		Muted:      lipgloss.Color("245"),
		Accent:     lipgloss.Color("75"),
		Surface:    lipgloss.Color("236"),
		Border:     lipgloss.Color("240"),
		Primary:    lipgloss.Color("33"),
		Secondary:  lipgloss.Color("242"),
		Danger:     lipgloss.Color("196"),
		OnButton:   lipgloss.Color("255"),
		Success:    lipgloss.Color("78"),
		Disabled:   lipgloss.Color("239"),
		Background: lipgloss.Color("234"),
	},
}

// PaletteFor returns the colors of t. Unknown themes get the light palette.
func PaletteFor(t Theme) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[Light]
}

// Styles are the rendered building blocks of the UI.
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	Selected  lipgloss.Style
	Done      lipgloss.Style
	NavItem   lipgloss.Style
	NavActive lipgloss.Style

	buttons  map[Variant]lipgloss.Style
	disabled lipgloss.Style
}

// StylesFor builds the styles of t.
func StylesFor(t Theme) Styles {
	p := PaletteFor(t)
	button := lipgloss.NewStyle().Padding(0, 1).Foreground(p.OnButton)

	return Styles{
		Theme:     t,
		Title:     lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtitle:  lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Text:      lipgloss.NewStyle().Foreground(p.Text),
		Muted:     lipgloss.NewStyle().Foreground(p.Muted),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(p.Danger),
		Success:   lipgloss.NewStyle().Foreground(p.Success),
		Card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		CardTitle: lipgloss.NewStyle().Bold(true).Foreground(p.Text).MarginBottom(1),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Done:      lipgloss.NewStyle().Strikethrough(true).Foreground(p.Muted),
		NavItem:   lipgloss.NewStyle().Padding(0, 1).Foreground(p.Muted),
		NavActive: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(p.OnButton).Background(p.Primary),

		buttons: map[Variant]lipgloss.Style{
			Primary:   button.Background(p.Primary),
			Secondary: button.Background(p.Secondary),
			Danger:    button.Background(p.Danger),
		},
		disabled: lipgloss.NewStyle().Padding(0, 1).Faint(true).Foreground(p.Disabled),
	}
}

// Button returns the style of a button. Disabled buttons share one style.
func (s Styles) Button(v Variant, disabled bool) lipgloss.Style {
	if disabled {
		return s.disabled
	}
	if st, ok := s.buttons[v]; ok {
		return st
	}
	return s.buttons[Primary]
}
