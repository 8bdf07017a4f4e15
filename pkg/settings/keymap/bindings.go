package keymap

// DefaultBindings returns the default key bindings for the settings screen.
func DefaultBindings() []Binding {
	return []Binding{
		// Global
		{Key: "q", Command: CmdQuit, Context: ContextGlobal, Description: "Quit"},
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal, Description: "Quit"},
		{Key: "?", Command: CmdToggleHelp, Context: ContextGlobal, Description: "Toggle help"},

		// Flag list
		{Key: "j", Command: CmdCursorDown, Context: ContextList, Description: "Move down"},
		{Key: "down", Command: CmdCursorDown, Context: ContextList, Description: "Move down"},
		{Key: "k", Command: CmdCursorUp, Context: ContextList, Description: "Move up"},
		{Key: "up", Command: CmdCursorUp, Context: ContextList, Description: "Move up"},
		{Key: "g g", Command: CmdCursorTop, Context: ContextList, Description: "Go to top"},
		{Key: "home", Command: CmdCursorTop, Context: ContextList, Description: "Go to top"},
		{Key: "G", Command: CmdCursorBottom, Context: ContextList, Description: "Go to bottom"},
		{Key: "end", Command: CmdCursorBottom, Context: ContextList, Description: "Go to bottom"},
		{Key: "space", Command: CmdActivate, Context: ContextList, Description: "Toggle / edit"},
		{Key: "enter", Command: CmdActivate, Context: ContextList, Description: "Toggle / edit"},
		{Key: "right", Command: CmdIncrement, Context: ContextList, Description: "Increase / next"},
		{Key: "l", Command: CmdIncrement, Context: ContextList, Description: "Increase / next"},
		{Key: "+", Command: CmdIncrement, Context: ContextList, Description: "Increase / next"},
		{Key: "left", Command: CmdDecrement, Context: ContextList, Description: "Decrease / previous"},
		{Key: "h", Command: CmdDecrement, Context: ContextList, Description: "Decrease / previous"},
		{Key: "-", Command: CmdDecrement, Context: ContextList, Description: "Decrease / previous"},
		{Key: "x", Command: CmdReset, Context: ContextList, Description: "Reset to default"},

		// Group detail
		{Key: "1", Command: CmdSelectFirst, Context: ContextDetail, Description: "Activate first"},
		{Key: "2", Command: CmdSelectSecond, Context: ContextDetail, Description: "Activate second"},
		{Key: "tab", Command: CmdSwapActive, Context: ContextDetail, Description: "Swap active"},
		{Key: "j", Command: CmdCursorDown, Context: ContextDetail, Description: "Next child"},
		{Key: "down", Command: CmdCursorDown, Context: ContextDetail, Description: "Next child"},
		{Key: "k", Command: CmdCursorUp, Context: ContextDetail, Description: "Previous child"},
		{Key: "up", Command: CmdCursorUp, Context: ContextDetail, Description: "Previous child"},
		{Key: "space", Command: CmdActivate, Context: ContextDetail, Description: "Edit child"},
		{Key: "enter", Command: CmdActivate, Context: ContextDetail, Description: "Edit child"},
		{Key: "right", Command: CmdIncrement, Context: ContextDetail, Description: "Increase / next"},
		{Key: "left", Command: CmdDecrement, Context: ContextDetail, Description: "Decrease / previous"},
		{Key: "esc", Command: CmdBack, Context: ContextDetail, Description: "Back"},
		{Key: "backspace", Command: CmdBack, Context: ContextDetail, Description: "Back"},

		// Picker form (most keys are handled by huh)
		{Key: "esc", Command: CmdFormCancel, Context: ContextForm, Description: "Cancel"},
	}
}

// RegisterDefaults registers all default bindings with the registry
func RegisterDefaults(r *Registry) {
	r.RegisterBindings(DefaultBindings())
}
