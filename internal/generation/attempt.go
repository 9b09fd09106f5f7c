package generation

import (
	"errors"

	"code2pitch.app/relay/common/llm"
)

type attemptKind int

const (
	kindSuccess attemptKind = iota
	kindTimeout
	kindProtocol
	kindFailure
)

func (k attemptKind) String() string {
	switch k {
	case kindSuccess:
		return "success"
	case kindTimeout:
		return "timeout"
	case kindProtocol:
		return "protocol"
	default:
		return "failure"
	}
}

// attemptResult is the outcome of one upstream call.
type attemptResult struct {
	kind attemptKind
	text string
	err  error
}

func classify(text string, err error) attemptResult {
	switch {
	case err == nil:
		return attemptResult{kind: kindSuccess, text: text}
	case llm.IsTimeout(err):
		return attemptResult{kind: kindTimeout, err: err}
	case llm.IsMalformed(err):
		return attemptResult{kind: kindProtocol, err: err}
	default:
		return attemptResult{kind: kindFailure, err: err}
	}
}

func (r attemptResult) failed() bool {
	return r.kind != kindSuccess
}

var errNoAttempts = errors.New("no generation attempts were made")
