package internal

import "fmt"

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// IsValid reports whether the position points into a source
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Advance returns the position reached after consuming s
func (p Position) Advance(s string) Position {
	for i := 0; i < len(s); i++ {
		p.Offset++
		if s[i] == CharNewline {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	return p
}

// Segment is a raw slice of template source produced by the lexer.
// For variable and block segments Content holds the inner source and
// ContentPos the position of its first byte.
type Segment struct {
	Type       SegmentType
	Content    string
	Position   Position
	ContentPos Position
}

// String returns a human-readable representation of the segment
func (s Segment) String() string {
	if s.Content == "" {
		return fmt.Sprintf("Segment{%s @ %s}", s.Type, s.Position)
	}
	return fmt.Sprintf("Segment{%s: %q @ %s}", s.Type, s.Content, s.Position)
}

// IsEOF returns true if this is the end-of-input segment
func (s Segment) IsEOF() bool {
	return s.Type == SegmentTypeEOF
}
