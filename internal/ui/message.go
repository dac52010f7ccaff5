package ui

// statusMsg replaces the status line below the active screen.
type statusMsg struct {
	text   string
	failed bool
}

func statusOK(text string) statusMsg { return statusMsg{text: text} }

func statusFailed(text string) statusMsg { return statusMsg{text: text, failed: true} }
