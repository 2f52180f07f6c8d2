package model

import "fmt"

// Outcome is the result of comparing two figures.
type Outcome int

const (
	NotEquivalent Outcome = iota
	Equivalent
	// Undetermined means the search budget ran out before a mapping was found
	// or refuted. Treat it as "not proven equivalent".
	Undetermined
)

func (o Outcome) String() string {
	switch o {
	case NotEquivalent:
		return "not_equivalent"
	case Equivalent:
		return "equivalent"
	case Undetermined:
		return "undetermined"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Verdict is an outcome plus the mapping that proves it, if any.
type Verdict struct {
	Outcome Outcome `json:"outcome"`
	Mapping Mapping `json:"mapping,omitempty"`
	Trials  int     `json:"trials"`
}

func (v Verdict) Equivalent() bool {
	return v.Outcome == Equivalent
}

// Entry is one statement of a corpus.
type Entry struct {
	ID        string `json:"id"`
	Statement string `json:"statement"`
}

// Pair records two corpus entries judged equivalent (or undetermined).
type Pair struct {
	A       string  `json:"a"`
	B       string  `json:"b"`
	Mapping Mapping `json:"mapping,omitempty"`
}
