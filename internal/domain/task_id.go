package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// TaskID identifies a task on the board. Ids follow the T<integer>
// convention and are assigned monotonically by NextTaskID.
type TaskID string

// taskIDPattern is the canonical form. Ids outside it are tolerated on load
// but contribute 0 to id assignment.
var taskIDPattern = regexp.MustCompile(`^T[0-9]+$`)

// maxTaskIDLength is the maximum allowed length for a task ID
const maxTaskIDLength = 32

// Validate checks if the task ID follows the T<integer> convention
func (t TaskID) Validate() error {
	s := string(t)

	if s == "" {
		return fmt.Errorf("task ID cannot be empty")
	}

	if len(s) > maxTaskIDLength {
		return fmt.Errorf("task ID %q exceeds maximum length of %d characters", s, maxTaskIDLength)
	}

	if !taskIDPattern.MatchString(s) {
		return fmt.Errorf("task ID %q must be a 'T' followed by digits", s)
	}

	return nil
}

// Seq returns the numeric suffix of the id: the run of digits directly after
// the leading 'T'. Ids without such a run yield 0.
func (t TaskID) Seq() int {
	s := string(t)
	if len(s) < 2 || s[0] != 'T' {
		return 0
	}

	end := 1
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 1 {
		return 0
	}

	n, err := strconv.Atoi(s[1:end])
	if err != nil {
		return 0
	}
	return n
}

// String returns the string representation
func (t TaskID) String() string {
	return string(t)
}

// NextTaskID returns T<n+1> where n is the largest Seq among ids.
func NextTaskID(ids []TaskID) TaskID {
	maxSeq := 0
	for _, id := range ids {
		if seq := id.Seq(); seq > maxSeq {
			maxSeq = seq
		}
	}
	return TaskID("T" + strconv.Itoa(maxSeq+1))
}
