package model

// PitchSections holds the four generated artifacts. Every field is always
// serialized; an invalid section carries a placeholder instead of being blank.
type PitchSections struct {
	Summary       string `json:"summary"`
	ElevatorPitch string `json:"elevator_pitch"`
	DemoScript    string `json:"demo_script"`
	Tagline       string `json:"tagline"`
}

const PitchStatusSuccess = "success"

type PitchResponse struct {
	Status    string        `json:"status"`
	RequestID string        `json:"request_id"`
	Data      PitchSections `json:"data"`
	Repo      RepoRef       `json:"repo"`
}
