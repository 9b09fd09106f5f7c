package sections

import "code2pitch.app/relay/internal/model"

// Section identifies one of the four pitch artifacts.
type Section int

const (
	None Section = iota
	Summary
	ElevatorPitch
	DemoScript
	Tagline
)

// All lists the sections in the order the prompt asks for them.
var All = []Section{Summary, ElevatorPitch, DemoScript, Tagline}

func (s Section) Key() string {
	switch s {
	case Summary:
		return "summary"
	case ElevatorPitch:
		return "elevator_pitch"
	case DemoScript:
		return "demo_script"
	case Tagline:
		return "tagline"
	default:
		return ""
	}
}

// Header is the marker the model is instructed to emit before the section.
func (s Section) Header() string {
	switch s {
	case Summary:
		return "Technical Summary:"
	case ElevatorPitch:
		return "Elevator Pitch:"
	case DemoScript:
		return "Demo Script:"
	case Tagline:
		return "Tagline:"
	default:
		return ""
	}
}

func (s Section) Get(p model.PitchSections) string {
	switch s {
	case Summary:
		return p.Summary
	case ElevatorPitch:
		return p.ElevatorPitch
	case DemoScript:
		return p.DemoScript
	case Tagline:
		return p.Tagline
	default:
		return ""
	}
}

func (s Section) Set(p *model.PitchSections, value string) {
	switch s {
	case Summary:
		p.Summary = value
	case ElevatorPitch:
		p.ElevatorPitch = value
	case DemoScript:
		p.DemoScript = value
	case Tagline:
		p.Tagline = value
	}
}
