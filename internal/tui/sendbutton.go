package tui

// SendButton renders the submit control shown after the input field.
// It holds no state: pressing enter in the input row is what submits.
func SendButton(ready bool) string {
	if ready {
		return sendReadyStyle.Render("↑ Send")
	}
	return sendIdleStyle.Render("↑ Send")
}
