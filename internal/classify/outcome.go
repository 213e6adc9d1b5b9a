// Package classify maps free-text response bodies to semantic outcomes. All
// functions are pure: they inspect already-decoded text and perform no I/O.
package classify

// Kind enumerates the closed set of outcomes.
type Kind string

// Outcome kinds.
const (
	KindPuzzleLocked      Kind = "puzzle_locked"
	KindPuzzleNotFound    Kind = "puzzle_not_found"
	KindContent           Kind = "content"
	KindSolutionCorrect   Kind = "solution_correct"
	KindSolutionIncorrect Kind = "solution_incorrect"
	KindWrongLevel        Kind = "wrong_level"
	KindRateLimited       Kind = "rate_limited"
	KindUnclassified      Kind = "unclassified"
)

// Outcome is exactly one classification result. Text carries the raw body for
// Content and Unclassified, and the matched wait sentence for RateLimited.
type Outcome struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"`
}

// PuzzleLocked reports a calendar entry that has not opened yet.
func PuzzleLocked() Outcome { return Outcome{Kind: KindPuzzleLocked} }

// PuzzleNotFound reports a puzzle that does not exist.
func PuzzleNotFound() Outcome { return Outcome{Kind: KindPuzzleNotFound} }

// Content wraps fetched text.
func Content(text string) Outcome { return Outcome{Kind: KindContent, Text: text} }

// SolutionCorrect reports an accepted answer.
func SolutionCorrect() Outcome { return Outcome{Kind: KindSolutionCorrect} }

// SolutionIncorrect reports a rejected answer.
func SolutionIncorrect() Outcome { return Outcome{Kind: KindSolutionIncorrect} }

// WrongLevel reports an answer sent for a part that is not currently open.
func WrongLevel() Outcome { return Outcome{Kind: KindWrongLevel} }

// RateLimited carries the site's wait sentence verbatim.
func RateLimited(wait string) Outcome { return Outcome{Kind: KindRateLimited, Text: wait} }

// Unclassified wraps text no classifier context could interpret.
func Unclassified(text string) Outcome { return Outcome{Kind: KindUnclassified, Text: text} }

// IsContent reports whether the outcome carries fetched content.
func (o Outcome) IsContent() bool { return o.Kind == KindContent }

// String renders the outcome for terminal output.
func (o Outcome) String() string {
	switch o.Kind {
	case KindPuzzleLocked:
		return "puzzle is not unlocked yet"
	case KindPuzzleNotFound:
		return "puzzle not found"
	case KindContent:
		return o.Text
	case KindSolutionCorrect:
		return "that's the right answer"
	case KindSolutionIncorrect:
		return "that's not the right answer"
	case KindWrongLevel:
		return "you don't seem to be solving the right level"
	case KindRateLimited:
		return "rate limited: " + o.Text
	default:
		return o.Text
	}
}

// ParseKind maps a stored kind name back to a Kind; unknown names are
// treated as unclassified.
func ParseKind(s string) Kind {
	switch k := Kind(s); k {
	case KindPuzzleLocked, KindPuzzleNotFound, KindContent, KindSolutionCorrect,
		KindSolutionIncorrect, KindWrongLevel, KindRateLimited:
		return k
	default:
		return KindUnclassified
	}
}
