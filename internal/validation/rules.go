// Package validation holds the declarative field rules applied to candidate
// book records before they are persisted.
//
// Each rule is a pure function from the candidate record to an optional
// violation message. Check evaluates every rule and collects all violations
// rather than stopping at the first, so a caller submitting several bad
// fields learns about all of them in one round trip.
package validation

import (
	"fmt"
	"strings"
	"time"
)

// MinYear is the lowest publication year accepted for a book record.
const MinYear = 1000

// Rule is a named constraint on a candidate book. Apply returns an empty
// string when the candidate satisfies the constraint, or a human-readable
// violation message otherwise.
type Rule struct {
	Name  string
	Apply func(c Candidate) string
}

// Candidate is the subset of book fields the rules inspect. A Year of zero
// means the field was not supplied and the range rules do not apply.
type Candidate struct {
	Title  string
	Author string
	Year   int
}

// Violations is the collected result of a failed Check. It implements error
// so repositories can return it through their normal error path.
type Violations struct {
	Messages []string
}

func (v *Violations) Error() string {
	return "invalid book data: " + strings.Join(v.Messages, "; ")
}

// BookRules is the active rule set, evaluated in order by Check.
var BookRules = []Rule{
	{
		Name: "title_not_empty",
		Apply: func(c Candidate) string {
			if strings.TrimSpace(c.Title) == "" {
				return "title must not be empty"
			}
			return ""
		},
	},
	{
		Name: "author_not_empty",
		Apply: func(c Candidate) string {
			if strings.TrimSpace(c.Author) == "" {
				return "author must not be empty"
			}
			return ""
		},
	},
	{
		Name: "year_min",
		Apply: func(c Candidate) string {
			if c.Year != 0 && c.Year < MinYear {
				return fmt.Sprintf("year must be %d or later", MinYear)
			}
			return ""
		},
	},
	{
		Name: "year_not_future",
		Apply: func(c Candidate) string {
			if current := time.Now().Year(); c.Year > current {
				return fmt.Sprintf("year must not be later than %d", current)
			}
			return ""
		},
	},
}

// Check runs every rule in BookRules against the candidate. It returns nil
// when all rules pass, otherwise a Violations carrying one message per
// broken rule.
func Check(c Candidate) *Violations {
	var messages []string
	for _, rule := range BookRules {
		if msg := rule.Apply(c); msg != "" {
			messages = append(messages, msg)
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return &Violations{Messages: messages}
}
