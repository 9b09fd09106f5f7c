package model

// SamplingParameters are passed through to the generation model unchanged.
// Providers ignore the ones they do not support.
type SamplingParameters struct {
	MaxLength         int     `json:"max_length"`
	MinLength         int     `json:"min_length"`
	DoSample          bool    `json:"do_sample"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	NumBeams          int     `json:"num_beams"`
	NoRepeatNgramSize int     `json:"no_repeat_ngram_size"`
	LengthPenalty     float64 `json:"length_penalty"`
}

// DefaultSamplingParameters favours long, varied output so the four sections
// have room to reach their word-count bands.
func DefaultSamplingParameters() SamplingParameters {
	return SamplingParameters{
		MaxLength:         3072,
		MinLength:         500,
		DoSample:          true,
		Temperature:       0.8,
		TopP:              0.95,
		TopK:              50,
		NumBeams:          5,
		NoRepeatNgramSize: 3,
		LengthPenalty:     1.5,
	}
}

type GenerationRequest struct {
	Prompt     string
	Parameters SamplingParameters
}
