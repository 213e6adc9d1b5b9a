package classify

import (
	"errors"
	"regexp"
	"strings"
)

// ErrExtractionFailed is returned when expected markup is missing from an
// otherwise well-formed page.
var ErrExtractionFailed = errors.New("extraction failed: expected markup not found")

// Context selects which marker set applies to a body.
type Context string

// Classification contexts.
const (
	ContextFetch  Context = "fetch"
	ContextSubmit Context = "submit"
)

// Literal markers taken from the site's wording.
const (
	markerLocked      = "before it unlocks"
	markerNotFound    = "404 Not Found"
	markerIncorrect   = "that's not the right answer"
	markerWrongLevel  = "you don't seem to be solving the right level"
	markerLoginNeeded = "puzzle inputs differ by user"
)

var (
	// The wait phrase may not cross a sentence, so earlier "you have to wait"
	// prose on the same page is skipped.
	rateLimitPattern = regexp.MustCompile(`(?i)you have [^.;!?<>]*? left to wait`)
	examplePattern   = regexp.MustCompile(`(?s)<pre><code>(.*?)</code></pre>`)
)

// Classify dispatches to the marker set for ctx. Unknown contexts yield
// Unclassified carrying the body.
func Classify(ctx Context, body string) Outcome {
	switch ctx {
	case ContextFetch:
		return ClassifyFetch(body)
	case ContextSubmit:
		return ClassifySubmit(body)
	default:
		return Unclassified(body)
	}
}

// ClassifyFetch classifies the response to a GET of a puzzle page or input.
func ClassifyFetch(body string) Outcome {
	switch {
	case strings.Contains(body, markerLocked):
		return PuzzleLocked()
	case strings.Contains(body, markerNotFound):
		return PuzzleNotFound()
	default:
		return Content(body)
	}
}

// ClassifySubmit classifies the response to an answer POST. Markers are tested
// in a fixed order and the first match wins. The site has no stable success
// wording, so a body without any failure marker is treated as correct.
func ClassifySubmit(body string) Outcome {
	switch {
	case containsLower(body, markerIncorrect):
		return SolutionIncorrect()
	case containsLower(body, markerWrongLevel):
		return WrongLevel()
	}
	if wait := rateLimitPattern.FindString(body); wait != "" {
		return RateLimited(wait)
	}
	return SolutionCorrect()
}

// NeedsLogin reports whether an input body is the anonymous-user notice
// rather than puzzle input.
func NeedsLogin(body string) bool {
	return containsLower(body, markerLoginNeeded)
}

// ExtractExample returns the contents of the first <pre><code> block in page.
func ExtractExample(page string) (string, error) {
	m := examplePattern.FindStringSubmatch(page)
	if m == nil {
		return "", ErrExtractionFailed
	}
	return m[1], nil
}

func containsLower(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
