package model

import "fmt"

// Position is the location of an element in the container source. Line and Column are 1-based.
// The zero value means the position is unknown.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Record holds the raw fields of one data or metadata element as read from the container.
// A Record is not modified after the parser has completed it.
type Record struct {
	Name     string
	Comment  string
	TypeName string
	MimeType string
	Payload  string
	// HasPayload is false when the element had neither a value child nor inline text
	HasPayload bool
	Position   Position
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
