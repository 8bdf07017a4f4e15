package settings

import (
	"github.com/charmbracelet/huh"
	"github.com/marcus/flagdeck/pkg/feature"
)

// pickerForm is the huh select shown while choosing a picker case.
type pickerForm struct {
	Form   *huh.Form
	Choice string

	options []string
	choose  func(int)
}

func newPickerForm(c feature.Control) *pickerForm {
	pf := &pickerForm{
		options: c.Options,
		choose:  c.Choose,
	}
	if c.Selected >= 0 && c.Selected < len(c.Options) {
		pf.Choice = c.Options[c.Selected]
	}

	opts := make([]huh.Option[string], 0, len(c.Options))
	for _, o := range c.Options {
		opts = append(opts, huh.NewOption(o, o))
	}

	pf.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(c.Title).
				Description(c.Description).
				Options(opts...).
				Value(&pf.Choice),
		),
	).WithShowHelp(false)
	pf.Form.WithTheme(huh.ThemeDracula())
	return pf
}

// apply writes the chosen case back through the flag.
func (pf *pickerForm) apply() {
	if pf.choose == nil {
		return
	}
	for i, o := range pf.options {
		if o == pf.Choice {
			pf.choose(i)
			return
		}
	}
}
