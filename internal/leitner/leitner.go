// Package leitner implements the box transition rules of a strict Leitner
// spaced-repetition variant: boxes run 1..5, a correct answer promotes one
// box, and any miss returns the word to the first box.
package leitner

const (
	// MinBox is the starting box for a never-attempted word
	MinBox = 1
	// MaxBox is the highest box; correct answers saturate here
	MaxBox = 5
	// MasteredBox is the box a word must reach (at any point in its
	// history) to count as mastered
	MasteredBox = 4
)

// Advance applies the transition rule to the current box. An incorrect
// answer is a hard reset to box 1, not a decrement.
func Advance(box int, correct bool) int {
	if !correct {
		return MinBox
	}
	box++
	if box > MaxBox {
		return MaxBox
	}
	if box < MinBox {
		return MinBox
	}
	return box
}

// Clamp bounds a stored box value into the valid range.
func Clamp(box int) int {
	if box < MinBox {
		return MinBox
	}
	if box > MaxBox {
		return MaxBox
	}
	return box
}

// IsMastered reports whether a historical max box qualifies as mastered.
// Mastery is a high-water mark: a later reset to box 1 does not revoke it.
func IsMastered(maxBox int) bool {
	return maxBox >= MasteredBox
}
