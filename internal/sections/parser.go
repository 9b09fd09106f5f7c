package sections

import (
	"regexp"
	"strings"

	"code2pitch.app/relay/internal/model"
)

// A leading "label:" on a content line, e.g. "Step 1: " or "**Benefit**: ".
// The colon must be followed by whitespace or end of line so URLs and times survive.
var labelPrefix = regexp.MustCompile(`^([\p{L}\p{N}*#_()' -]{1,40}):(\s+|$)`)

const maxLabelWords = 4

// Parse splits raw generated text into the four sections.
//
// Lines are scanned in order with a cursor on the current section. A line
// containing a header marker closes the open section and opens the next one;
// the header line itself is not content. Other non-empty lines are appended to
// the open section with any leading label stripped. Text before the first
// header is dropped. A section that never appears is left empty.
func Parse(text string) model.PitchSections {
	var (
		out     model.PitchSections
		current = None
		buf     []string
	)

	flush := func() {
		if current != None {
			current.Set(&out, strings.TrimSpace(strings.Join(buf, " ")))
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if next := headerOf(line); next != None {
			flush()
			current = next
			continue
		}
		if current == None {
			continue
		}
		if content := stripLabel(strings.TrimSpace(line)); content != "" {
			buf = append(buf, content)
		}
	}
	flush()

	return out
}

func headerOf(line string) Section {
	for _, s := range All {
		if strings.Contains(line, s.Header()) {
			return s
		}
	}
	return None
}

func stripLabel(line string) string {
	m := labelPrefix.FindStringSubmatchIndex(line)
	if m == nil {
		return line
	}
	label := line[m[2]:m[3]]
	if len(strings.Fields(label)) > maxLabelWords {
		return line
	}
	return strings.TrimSpace(line[m[1]:])
}
