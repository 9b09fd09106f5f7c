package sections

import (
	"fmt"
	"strings"

	"code2pitch.app/relay/internal/model"
)

// Band is an inclusive word-count range.
type Band struct {
	Min int
	Max int
}

func (b Band) Contains(words int) bool {
	return words >= b.Min && words <= b.Max
}

// Placeholder replaces a section whose content fell outside the band.
func (b Band) Placeholder() string {
	return fmt.Sprintf("Content did not meet length requirements. Expected %d-%d words.", b.Min, b.Max)
}

func (b Band) String() string {
	return fmt.Sprintf("%d-%d words", b.Min, b.Max)
}

var bands = map[Section]Band{
	Summary:       {Min: 50, Max: 100},
	ElevatorPitch: {Min: 100, Max: 150},
	DemoScript:    {Min: 100, Max: 200},
	Tagline:       {Min: 5, Max: 10},
}

func BandFor(s Section) Band {
	return bands[s]
}

func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Valid reports whether the section's content in p is within its band.
func Valid(s Section, p model.PitchSections) bool {
	return BandFor(s).Contains(WordCount(s.Get(p)))
}

// Invalid returns the keys of sections outside their band, in prompt order.
func Invalid(p model.PitchSections) []string {
	var keys []string
	for _, s := range All {
		if !Valid(s, p) {
			keys = append(keys, s.Key())
		}
	}
	return keys
}

// BestEffort keeps each section that is within its band and replaces the rest
// with the band's placeholder.
func BestEffort(p model.PitchSections) model.PitchSections {
	out := p
	for _, s := range All {
		if !Valid(s, p) {
			s.Set(&out, BandFor(s).Placeholder())
		}
	}
	return out
}
