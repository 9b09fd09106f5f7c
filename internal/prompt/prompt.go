package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"code2pitch.app/relay/internal/model"
	"code2pitch.app/relay/internal/sections"
)

const (
	DefaultReadmeChars = 1500
	maxPromptCommits   = 3
)

// Options controls how README text is prepared before it is embedded.
type Options struct {
	ReadmeChars int  // README budget in characters; <= 0 uses DefaultReadmeChars
	CleanReadme bool // strip markdown noise before truncating
}

// Build turns a repository snapshot into the generation request. It is
// deterministic and performs no I/O.
func Build(snapshot model.RepoSnapshot, opts Options) model.GenerationRequest {
	readme := snapshot.Readme
	if opts.CleanReadme {
		readme = CleanReadme(readme)
	}

	budget := opts.ReadmeChars
	if budget <= 0 {
		budget = DefaultReadmeChars
	}

	commits := snapshot.RecentCommits
	if len(commits) > maxPromptCommits {
		commits = commits[:maxPromptCommits]
	}

	return model.GenerationRequest{
		Prompt:     render(Truncate(readme, budget), strings.Join(commits, " ")),
		Parameters: model.DefaultSamplingParameters(),
	}
}

// Truncate cuts s to at most n characters (runes, not bytes).
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func render(readme, commits string) string {
	summary := sections.BandFor(sections.Summary)
	pitch := sections.BandFor(sections.ElevatorPitch)
	demo := sections.BandFor(sections.DemoScript)
	tagline := sections.BandFor(sections.Tagline)

	return fmt.Sprintf(`Create a compelling pitch package for this GitHub project. Be specific and detailed:

Project Information:
%s

Recent Updates:
%s

Generate the following sections with EXACT headers and requirements:

%s
[Provide a detailed technical overview focusing on architecture, tech stack, and key features. Must be %d-%d words.]

%s
[Create a compelling business-focused pitch highlighting unique value, market fit, and target users. Must be %d-%d words.]

%s
[Write a structured walkthrough of 3-5 key features with clear benefits and use cases. Must be %d-%d words.]

%s
[Create a memorable one-liner highlighting the core value proposition. Must be %d-%d words.]`,
		readme,
		commits,
		sections.Summary.Header(), summary.Min, summary.Max,
		sections.ElevatorPitch.Header(), pitch.Min, pitch.Max,
		sections.DemoScript.Header(), demo.Min, demo.Max,
		sections.Tagline.Header(), tagline.Min, tagline.Max,
	)
}

var (
	codeFences   = regexp.MustCompile("(?s)```.*?```")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	links        = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingLines = regexp.MustCompile(`(?m)^[ \t]*#.*$`)
	blankRuns    = regexp.MustCompile(`\n{2,}`)
)

// CleanReadme removes fenced code, images, link targets and heading lines,
// then collapses blank runs.
func CleanReadme(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = codeFences.ReplaceAllString(text, "")
	text = images.ReplaceAllString(text, "")
	text = links.ReplaceAllString(text, "$1")
	text = headingLines.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
