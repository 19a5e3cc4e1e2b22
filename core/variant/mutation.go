// core/variant/mutation.go
package variant

// Mutation is one edit against the reference. It replaces the reference run
// [OldPos, OldPos+refSpan) with Seq, which occupies the variant positions
// [NewPos, NewPos+len(Seq)). SizeMod is the resulting change in sequence
// length, so refSpan = len(Seq) - SizeMod.
//
// A substitution has SizeMod 0 and a one-byte Seq. A pure insertion has
// SizeMod = len(Seq) and consumes no reference. A deletion has an empty Seq
// and a negative SizeMod. Hybrid records with both content and a consumed
// reference run arise when edits land on top of each other.
type Mutation struct {
	SizeMod int
	OldPos  int
	NewPos  int
	Seq     string
}

// RefSpan returns the number of reference characters the record consumes.
func (m Mutation) RefSpan() int { return len(m.Seq) - m.SizeMod }

func (m Mutation) refEnd() int { return m.OldPos + m.RefSpan() }
