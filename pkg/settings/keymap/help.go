package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

var keyGlyphs = map[string]string{
	"up":    "↑",
	"down":  "↓",
	"left":  "←",
	"right": "→",
	"enter": "⏎",
}

// HelpBindings returns one bubbles key.Binding per command bound in
// context (global bindings last), combining every key that triggers it.
func (r *Registry) HelpBindings(context Context) []key.Binding {
	var order []Command
	keys := map[Command][]string{}
	desc := map[Command]string{}

	for _, b := range r.BindingsForContext(context) {
		if _, ok := keys[b.Command]; !ok {
			order = append(order, b.Command)
			desc[b.Command] = b.Description
		}
		keys[b.Command] = append(keys[b.Command], b.Key)
	}

	out := make([]key.Binding, 0, len(order))
	for _, cmd := range order {
		out = append(out, key.NewBinding(
			key.WithKeys(keys[cmd]...),
			key.WithHelp(displayKeys(keys[cmd]), desc[cmd]),
		))
	}
	return out
}

func displayKeys(keys []string) string {
	shown := make([]string, 0, len(keys))
	for _, k := range keys {
		if g, ok := keyGlyphs[k]; ok {
			k = g
		}
		shown = append(shown, k)
	}
	return strings.Join(shown, "/")
}
