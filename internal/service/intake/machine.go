package intake

import (
	"fmt"

	"github.com/civicnav/navigator/internal/model/chat"
	"github.com/civicnav/navigator/internal/model/incident"
)

// Step identifies the active stage of the guided intake flow. The flow is
// linear: there is no backward jump except the explicit restart from review.
type Step string

const (
	StepIdle        Step = "idle"
	StepTitle       Step = "awaiting_title"
	StepCategory    Step = "awaiting_category"
	StepLocation    Step = "awaiting_location"
	StepEmail       Step = "awaiting_email"
	StepDescription Step = "awaiting_description"
	StepReview      Step = "review"
)

// Message is a transcript addition produced by a transition.
type Message struct {
	Text    string
	Actions []chat.Action
}

// stage describes one collecting step as data: how to validate raw input,
// where the accepted value lands on the draft, what to say on rejection,
// and which step follows.
type stage struct {
	validate func(string) (string, bool)
	assign   func(*incident.Draft, string)
	warning  string
	next     Step
}

var stages = map[Step]stage{
	StepTitle: {
		validate: nonEmpty,
		assign:   func(d *incident.Draft, v string) { d.Title = v },
		warning:  "Title cannot be empty. Please provide one.",
		next:     StepCategory,
	},
	StepCategory: {
		validate: validCategory,
		assign:   func(d *incident.Draft, v string) { d.Category = incident.Category(v) },
		warning:  "Invalid category. Please choose one of: " + incident.CategoryList() + ".",
		next:     StepLocation,
	},
	StepLocation: {
		validate: nonEmpty,
		assign:   func(d *incident.Draft, v string) { d.LocationText = v },
		warning:  "Location cannot be empty. Please provide one.",
		next:     StepEmail,
	},
	StepEmail: {
		validate: validEmail,
		assign:   func(d *incident.Draft, v string) { d.ContactEmail = v },
		warning:  "Invalid email format. Please try again.",
		next:     StepDescription,
	},
	StepDescription: {
		validate: nonEmpty,
		assign:   func(d *incident.Draft, v string) { d.Description = v },
		warning:  "Description cannot be empty.",
		next:     StepReview,
	},
}

var prompts = map[Step]string{
	StepTitle:       "Let's file an incident. What is the title?",
	StepCategory:    "What category best describes this issue? (" + incident.CategoryList() + ")",
	StepLocation:    "Where is this incident located? (landmark or address)",
	StepEmail:       "Please provide your contact email.",
	StepDescription: "Please describe the incident in detail.",
}

// Machine drives the linear intake dialogue. It owns the draft under
// construction and the active step; submission itself belongs to the engine,
// which resolves the review actions against the current draft.
type Machine struct {
	step  Step
	draft incident.Draft
}

// NewMachine returns an idle machine with an empty draft.
func NewMachine() *Machine {
	return &Machine{step: StepIdle}
}

// Step returns the active step.
func (m *Machine) Step() Step { return m.step }

// Active reports whether a flow is collecting input. The review step counts
// as active: utterances typed there are consumed by the flow, not dispatched.
func (m *Machine) Active() bool { return m.step != StepIdle }

// Draft returns the record accumulated so far.
func (m *Machine) Draft() incident.Draft { return m.draft }

// Start begins a new flow with a fresh draft and returns the title prompt.
func (m *Machine) Start() Message {
	m.step = StepTitle
	m.draft = incident.Draft{}
	return Message{Text: prompts[StepTitle]}
}

// Advance feeds one user input into the active step. Invalid input leaves
// both step and draft untouched and returns a single warning, so one mistake
// never forces a restart.
func (m *Machine) Advance(input string) Message {
	st, ok := stages[m.step]
	if !ok {
		// Review accepts actions only; idle collects nothing.
		if m.step == StepReview {
			return Message{Text: "Please use Submit to file the incident or Edit to start over."}
		}
		return Message{}
	}

	value, valid := st.validate(input)
	if !valid {
		return Message{Text: st.warning}
	}

	st.assign(&m.draft, value)
	m.step = st.next

	if m.step == StepReview {
		return Message{
			Text: m.reviewSummary(),
			Actions: []chat.Action{
				{Kind: chat.ActionSubmitIncident, Label: "Submit"},
				{Kind: chat.ActionRestartIntake, Label: "Edit"},
			},
		}
	}
	return Message{Text: prompts[m.step]}
}

// Restart re-enters the flow from the title step. The draft is deliberately
// kept: re-entry overwrites fields as the user proceeds again.
func (m *Machine) Restart() Message {
	m.step = StepTitle
	return Message{Text: "Okay, let's start again. What is the title?"}
}

// Finish clears the flow after a successful submission.
func (m *Machine) Finish() {
	m.step = StepIdle
	m.draft = incident.Draft{}
}

func (m *Machine) reviewSummary() string {
	return fmt.Sprintf(
		"Here's what I got:\n- Title: %s\n- Category: %s\n- Location: %s\n- Email: %s\n- Description: %s\n\nSubmit this incident?",
		m.draft.Title, m.draft.Category, m.draft.LocationText, m.draft.ContactEmail, m.draft.Description,
	)
}
