package engine

import "go-csurf/theme"

// FeedbackProcessor renders widget state onto the device
type FeedbackProcessor interface {
	SetValue(props map[string]string, value float64)
	SetColor(props map[string]string, c theme.RGB)
	SetText(props map[string]string, text string)
	Clear()
}

// WidgetState is the last feedback sent to a widget
type WidgetState struct {
	Value    float64
	HasValue bool
	Color    theme.RGB
	HasColor bool
	Text     string
	HasText  bool
}

// Widget is a named control or display on a surface
type Widget struct {
	name     string
	channel  int
	feedback []FeedbackProcessor

	state   WidgetState
	cleared bool
}

// NewWidget creates a widget. channel is the navigation channel it belongs
// to for touch and toggle state, 0 for none.
func NewWidget(name string, channel int) *Widget {
	return &Widget{name: name, channel: channel}
}

func (w *Widget) Name() string { return w.name }
func (w *Widget) Channel() int { return w.channel }

// AddFeedback attaches a renderer
func (w *Widget) AddFeedback(fp FeedbackProcessor) {
	w.feedback = append(w.feedback, fp)
}

// State returns the last feedback sent
func (w *Widget) State() WidgetState { return w.state }

// UpdateValue sends value unless it is unchanged
func (w *Widget) UpdateValue(props map[string]string, value float64) {
	if w.state.HasValue && w.state.Value == value {
		return
	}
	w.state.Value, w.state.HasValue = value, true
	w.cleared = false
	for _, fp := range w.feedback {
		fp.SetValue(props, value)
	}
}

// UpdateColor sends c unless it is unchanged
func (w *Widget) UpdateColor(props map[string]string, c theme.RGB) {
	if w.state.HasColor && w.state.Color == c {
		return
	}
	w.state.Color, w.state.HasColor = c, true
	w.cleared = false
	for _, fp := range w.feedback {
		fp.SetColor(props, c)
	}
}

// UpdateText sends text unless it is unchanged
func (w *Widget) UpdateText(props map[string]string, text string) {
	if w.state.HasText && w.state.Text == text {
		return
	}
	w.state.Text, w.state.HasText = text, true
	w.cleared = false
	for _, fp := range w.feedback {
		fp.SetText(props, text)
	}
}

// Clear blanks the widget once until something new is sent
func (w *Widget) Clear() {
	if w.cleared {
		return
	}
	w.state = WidgetState{}
	w.cleared = true
	for _, fp := range w.feedback {
		fp.Clear()
	}
}

// Invalidate forgets the last sent state so the next update is always sent
func (w *Widget) Invalidate() {
	w.state = WidgetState{}
	w.cleared = false
}
