package tui

import "charm.land/bubbles/v2/key"

// pickerKeyMap holds bindings handled by the picker program itself.
// Everything else goes to the color picker.
type pickerKeyMap struct {
	Quit key.Binding
}

func defaultPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}
