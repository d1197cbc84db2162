package vdom

// On sends command to the server when event fires.
func On(event, command string) EventHandler {
	return EventHandler{Event: event, Command: command}
}

// OnJS runs code in the browser when event fires.
func OnJS(event, code string) EventHandler {
	return EventHandler{Event: event, Code: code}
}

// Mouse events

func OnClick(command string) EventHandler     { return On("click", command) }
func OnDblClick(command string) EventHandler  { return On("dblclick", command) }
func OnMouseDown(command string) EventHandler { return On("mousedown", command) }
func OnMouseUp(command string) EventHandler   { return On("mouseup", command) }

// Keyboard events

func OnKeyDown(command string) EventHandler  { return On("keydown", command) }
func OnKeyUp(command string) EventHandler    { return On("keyup", command) }
func OnKeyPress(command string) EventHandler { return On("keypress", command) }

// Form events

func OnInput(command string) EventHandler  { return On("input", command) }
func OnChange(command string) EventHandler { return On("change", command) }
func OnSubmit(command string) EventHandler { return On("submit", command) }
func OnFocus(command string) EventHandler  { return On("focus", command) }
func OnBlur(command string) EventHandler   { return On("blur", command) }

// OnTimer sends command when the element's timer fires.
func OnTimer(command string) EventHandler { return On("timer", command) }
