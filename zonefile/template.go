package zonefile

// DefaultHoldDelay is the delay, in seconds, applied by the Hold+ prefix
const DefaultHoldDelay = 1.0

// Feedback marks which binding at a (widget, modifier) key answers feedback
type Feedback int

const (
	FeedbackDefault Feedback = iota
	FeedbackYes
	FeedbackNo
)

// Virtual widgets fired when a zone changes state. They need no physical
// counterpart on the surface.
const (
	OnZoneActivation   = "OnZoneActivation"
	OnZoneDeactivation = "OnZoneDeactivation"
)

// ActionTemplate is one unbound binding line
type ActionTemplate struct {
	Widget           string // may contain Wildcard
	Modifiers        int
	Action           string
	Params           []string
	ValueInverted    bool
	FeedbackInverted bool
	Feedback         Feedback
	HoldDelay        float64 // seconds, 0 = immediate
	Line             int
}

// ZoneTemplate is the parse result for one Zone ... ZoneEnd block
type ZoneTemplate struct {
	Name       string
	Alias      string
	Path       string
	Line       int
	Included   []string
	SubZones   []string
	Associated []string
	Bindings   []ActionTemplate
}

// Binding is an ActionTemplate after wildcard expansion
type Binding struct {
	ActionTemplate
	Index           int // 1-based position within an expanded binding, 0 if not expanded
	ProvideFeedback bool
}

// Table groups the zone's bindings by widget then modifier, expanding
// wildcards. A zone instantiated for one navigation channel passes that
// channel and its wildcards become the channel number; otherwise channel is 0
// and every wildcard binding is copied once per channel.
func (z *ZoneTemplate) Table(channel, channels int) map[string]map[int][]Binding {
	table := make(map[string]map[int][]Binding)
	add := func(b Binding) {
		mods, ok := table[b.Widget]
		if !ok {
			mods = make(map[int][]Binding)
			table[b.Widget] = mods
		}
		mods[b.Modifiers] = append(mods[b.Modifiers], b)
	}

	for _, t := range z.Bindings {
		if !HasWildcard(t.Widget) {
			add(Binding{ActionTemplate: substituteParams(t, channel)})
			continue
		}
		if channel > 0 {
			b := substituteParams(t, channel)
			b.Widget = Substitute(t.Widget, channel)
			add(Binding{ActionTemplate: b})
			continue
		}
		for ch := 1; ch <= channels; ch++ {
			b := substituteParams(t, ch)
			b.Widget = Substitute(t.Widget, ch)
			add(Binding{ActionTemplate: b, Index: ch})
		}
	}

	for _, mods := range table {
		for _, list := range mods {
			if i := FeedbackIndex(list); i >= 0 {
				list[i].ProvideFeedback = true
			}
		}
	}
	return table
}

// FeedbackIndex picks the binding whose action is queried for feedback: the
// first marked Feedback=Yes, else the first not marked Feedback=No. It is -1
// when every binding is marked Feedback=No.
func FeedbackIndex(list []Binding) int {
	for i, b := range list {
		if b.Feedback == FeedbackYes {
			return i
		}
	}
	for i, b := range list {
		if b.Feedback != FeedbackNo {
			return i
		}
	}
	return -1
}

func substituteParams(t ActionTemplate, channel int) ActionTemplate {
	if channel <= 0 {
		return t
	}
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = Substitute(p, channel)
	}
	t.Params = params
	return t
}
