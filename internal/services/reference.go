package services

import (
	"regexp"
	"strconv"
)

// referencePattern matches an explicit "chapter N verse M" phrase anywhere
// in the query
var referencePattern = regexp.MustCompile(`(?i)chapter\s+(\d+)\s+verse\s+(\d+)`)

// Reference is an explicit chapter/verse citation found in a query
type Reference struct {
	Chapter int
	Verse   int
}

// ParseReference detects an explicit chapter/verse reference in the query.
// Only positive numbers count as a reference.
func ParseReference(query string) (Reference, bool) {
	m := referencePattern.FindStringSubmatch(query)
	if m == nil {
		return Reference{}, false
	}

	chapter, err := strconv.Atoi(m[1])
	if err != nil || chapter <= 0 {
		return Reference{}, false
	}
	verse, err := strconv.Atoi(m[2])
	if err != nil || verse <= 0 {
		return Reference{}, false
	}

	return Reference{Chapter: chapter, Verse: verse}, true
}
