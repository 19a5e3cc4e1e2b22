// core/variant/variant.go
package variant

import (
	"sort"

	"github.com/pkg/errors"

	"jackalope-core/seq"
)

var (
	// ErrOutOfRange flags a position or range outside the current sequence.
	ErrOutOfRange = errors.New("position out of range")
	// ErrInvariant flags a corrupted mutation list.
	ErrInvariant = errors.New("mutation list invariant violated")
)

// Variant is one haploid sequence stored as a reference chromosome plus an
// ordered list of edits. The sequence itself is never materialized until
// asked for; lookups resolve through the edit list.
//
// Records are kept sorted by NewPos, with ties broken by insertion order,
// and their OldPos values are strictly increasing with non-overlapping
// reference spans.
type Variant struct {
	Name string

	ref  *seq.Chrom
	muts []Mutation
	size int
}

// New starts an unmutated variant of ref.
func New(ref *seq.Chrom, name string) *Variant {
	return &Variant{Name: name, ref: ref, size: ref.Size()}
}

// Ref returns the backing reference chromosome.
func (v *Variant) Ref() *seq.Chrom { return v.ref }

// Size returns the current sequence length.
func (v *Variant) Size() int { return v.size }

// Mutations returns the edit list in order. The caller must not modify it.
func (v *Variant) Mutations() []Mutation { return v.muts }

// Clone returns an independent copy sharing the same reference.
func (v *Variant) Clone() *Variant {
	c := *v
	c.muts = append([]Mutation(nil), v.muts...)
	return &c
}

// find returns the index of the last record with NewPos <= pos, or -1.
func (v *Variant) find(pos int) int {
	return sort.Search(len(v.muts), func(i int) bool { return v.muts[i].NewPos > pos }) - 1
}

// cumThrough is the total size modifier of records 0..i, recovered from
// record i alone.
func (v *Variant) cumThrough(i int) int {
	m := v.muts[i]
	return m.NewPos - m.OldPos + m.SizeMod
}

// CharAt returns the sequence character at variant position pos.
func (v *Variant) CharAt(pos int) (byte, error) {
	if pos < 0 || pos >= v.size {
		return 0, errors.Wrapf(ErrOutOfRange, "position %d in sequence of size %d", pos, v.size)
	}
	mi := v.find(pos)
	if mi < 0 {
		return v.ref.Seq[pos], nil
	}
	m := v.muts[mi]
	if ind := pos - m.NewPos; ind < len(m.Seq) {
		return m.Seq[ind], nil
	}
	return v.ref.Seq[pos-(m.NewPos-m.OldPos)-m.SizeMod], nil
}

// Materialize builds the substring of count characters starting at variant
// position start.
func (v *Variant) Materialize(start, count int) (string, error) {
	if start < 0 || count < 0 || start+count > v.size {
		return "", errors.Wrapf(ErrOutOfRange, "range [%d, %d) in sequence of size %d", start, start+count, v.size)
	}
	b := make([]byte, 0, count)
	pos, stop := start, start+count
	mi := v.find(pos)
	for pos < stop {
		if mi >= 0 {
			m := v.muts[mi]
			if end := m.NewPos + len(m.Seq); pos < end {
				hi := min(end, stop)
				b = append(b, m.Seq[pos-m.NewPos:hi-m.NewPos]...)
				pos = hi
				continue
			}
		}
		runEnd := stop
		if mi+1 < len(v.muts) && v.muts[mi+1].NewPos < runEnd {
			runEnd = v.muts[mi+1].NewPos
		}
		off := 0
		if mi >= 0 {
			off = v.cumThrough(mi)
		}
		b = append(b, v.ref.Seq[pos-off:runEnd-off]...)
		pos = runEnd
		if mi+1 < len(v.muts) && pos == v.muts[mi+1].NewPos {
			mi++
		}
	}
	return string(b), nil
}

func (v *Variant) insertMut(i int, m Mutation) {
	v.muts = append(v.muts, Mutation{})
	copy(v.muts[i+1:], v.muts[i:])
	v.muts[i] = m
}

func (v *Variant) shift(from, delta int) {
	for i := from; i < len(v.muts); i++ {
		v.muts[i].NewPos += delta
	}
}

// AddSubstitution replaces the character at pos with c.
func (v *Variant) AddSubstitution(pos int, c byte) error {
	if pos < 0 || pos >= v.size {
		return errors.Wrapf(ErrOutOfRange, "substitution at %d in sequence of size %d", pos, v.size)
	}
	mi := v.find(pos)
	if mi >= 0 {
		m := &v.muts[mi]
		ind := pos - m.NewPos
		if ind < len(m.Seq) {
			m.Seq = m.Seq[:ind] + string(c) + m.Seq[ind+1:]
			return nil
		}
		if ind == len(m.Seq) && m.RefSpan() == 0 {
			// pos holds the reference character a pure insertion pushed
			// right; absorb its substituted copy to keep OldPos unique.
			m.Seq += string(c)
			return nil
		}
	}
	old := pos
	if mi >= 0 {
		old = pos - v.cumThrough(mi)
	}
	v.insertMut(mi+1, Mutation{OldPos: old, NewPos: pos, Seq: string(c)})
	return nil
}

// AddInsertion inserts content before the character at pos, growing the
// sequence by len(content).
func (v *Variant) AddInsertion(pos int, content string) error {
	if len(content) == 0 {
		return nil
	}
	if pos < 0 || pos >= v.size {
		return errors.Wrapf(ErrOutOfRange, "insertion at %d in sequence of size %d", pos, v.size)
	}
	k := len(content)
	mi := v.find(pos)
	if mi >= 0 {
		m := &v.muts[mi]
		ind := pos - m.NewPos
		if ind < len(m.Seq) || (ind == len(m.Seq) && m.RefSpan() == 0) {
			m.Seq = m.Seq[:ind] + content + m.Seq[ind:]
			m.SizeMod += k
			v.shift(mi+1, k)
			v.size += k
			return nil
		}
	}
	old := pos
	if mi >= 0 {
		old = pos - v.cumThrough(mi)
	}
	v.insertMut(mi+1, Mutation{SizeMod: k, OldPos: old, NewPos: pos, Seq: content})
	v.shift(mi+2, k)
	v.size += k
	return nil
}

// AddDeletion removes the characters in [pos, pos+length), shrinking the
// sequence by length. Consumed reference runs, swallowed records, and any
// adjacent earlier deletions collapse into a single deletion record.
func (v *Variant) AddDeletion(pos, length int) error {
	if length == 0 {
		return nil
	}
	if length < 0 || pos < 0 || pos >= v.size || pos+length > v.size {
		return errors.Wrapf(ErrOutOfRange, "deletion [%d, %d) in sequence of size %d", pos, pos+length, v.size)
	}
	delEnd := pos + length

	newMuts := make([]Mutation, 0, len(v.muts)+1)
	refStart, refTotal := -1, 0
	contiguous := true
	noteRef := func(lo, hi int) {
		if hi <= lo {
			return
		}
		if refStart < 0 {
			refStart = lo
		} else if lo != refStart+refTotal {
			contiguous = false
		}
		refTotal += hi - lo
	}
	delInserted := false
	insertDel := func() {
		delInserted = true
		if refTotal > 0 {
			newMuts = append(newMuts, Mutation{SizeMod: -refTotal, OldPos: refStart, NewPos: pos})
		}
	}

	prevVEnd, prevREnd := 0, 0
	for i := 0; i <= len(v.muts); i++ {
		runVEnd := v.size
		if i < len(v.muts) {
			runVEnd = v.muts[i].NewPos
		}
		// reference run between the previous record and this one
		if lo, hi := max(pos, prevVEnd), min(delEnd, runVEnd); hi > lo {
			off := prevREnd - prevVEnd
			noteRef(lo+off, hi+off)
		}
		if i == len(v.muts) {
			break
		}
		m := v.muts[i]
		s, e := m.NewPos, m.NewPos+len(m.Seq)
		prevVEnd, prevREnd = e, m.refEnd()

		if len(m.Seq) == 0 {
			switch {
			case s < pos:
				newMuts = append(newMuts, m)
			case s <= delEnd:
				// an existing deletion inside or touching the window
				// merges into the new one
				noteRef(m.OldPos, m.refEnd())
			default:
				if !delInserted {
					insertDel()
				}
				m.NewPos -= length
				newMuts = append(newMuts, m)
			}
			continue
		}
		switch {
		case e <= pos:
			newMuts = append(newMuts, m)
		case s < pos:
			// window starts inside the record: drop the covered content,
			// keep the reference span
			hi := min(delEnd, e)
			m.Seq = m.Seq[:pos-s] + m.Seq[hi-s:]
			m.SizeMod -= hi - pos
			newMuts = append(newMuts, m)
		case s >= delEnd:
			if !delInserted {
				insertDel()
			}
			m.NewPos -= length
			newMuts = append(newMuts, m)
		case e <= delEnd:
			// record fully swallowed: its reference span joins the deletion
			noteRef(m.OldPos, m.refEnd())
		default:
			// window ends inside the record: drop the covered prefix
			if !delInserted {
				insertDel()
			}
			m.Seq = m.Seq[delEnd-s:]
			m.SizeMod -= delEnd - s
			m.NewPos = pos
			newMuts = append(newMuts, m)
		}
	}
	if !delInserted {
		insertDel()
	}
	if !contiguous {
		return errors.Wrapf(ErrInvariant, "deletion [%d, %d) consumed non-contiguous reference runs", pos, delEnd)
	}
	v.muts = newMuts
	v.size -= length
	return nil
}

// Merge appends other's records from fromIndex on, rebasing their NewPos
// onto this variant's current size. The appended records must start at or
// after the end of this variant's reference coverage.
func (v *Variant) Merge(other *Variant, fromIndex int) error {
	if other == nil || fromIndex < 0 || fromIndex > len(other.muts) {
		return errors.Wrapf(ErrOutOfRange, "merge from index %d of %d records", fromIndex, len(other.muts))
	}
	cum := v.size - v.ref.Size()
	prevEnd := 0
	if n := len(v.muts); n > 0 {
		prevEnd = v.muts[n-1].refEnd()
	}
	for _, m := range other.muts[fromIndex:] {
		if m.OldPos < prevEnd {
			return errors.Wrapf(ErrInvariant, "merged record at reference %d overlaps history ending at %d", m.OldPos, prevEnd)
		}
		v.muts = append(v.muts, Mutation{SizeMod: m.SizeMod, OldPos: m.OldPos, NewPos: m.OldPos + cum, Seq: m.Seq})
		cum += m.SizeMod
		prevEnd = m.refEnd()
	}
	v.size = v.ref.Size() + cum
	return nil
}

// RecalcPositions rederives every NewPos and the sequence size from OldPos
// and the size modifiers.
func (v *Variant) RecalcPositions() {
	cum := 0
	for i := range v.muts {
		v.muts[i].NewPos = v.muts[i].OldPos + cum
		cum += v.muts[i].SizeMod
	}
	v.size = v.ref.Size() + cum
}

// Validate checks the edit-list invariants and reports the first violation.
func (v *Variant) Validate() error {
	cum := 0
	prevEnd := 0
	for i, m := range v.muts {
		switch {
		case m.RefSpan() < 0:
			return errors.Wrapf(ErrInvariant, "record %d has negative reference span", i)
		case m.OldPos < 0:
			return errors.Wrapf(ErrInvariant, "record %d has negative reference position", i)
		case m.OldPos < prevEnd:
			return errors.Wrapf(ErrInvariant, "record %d at reference %d overlaps its predecessor", i, m.OldPos)
		case m.NewPos != m.OldPos+cum:
			return errors.Wrapf(ErrInvariant, "record %d at %d, want position %d", i, m.NewPos, m.OldPos+cum)
		}
		cum += m.SizeMod
		prevEnd = m.refEnd()
	}
	if prevEnd > v.ref.Size() {
		return errors.Wrapf(ErrInvariant, "records cover reference up to %d of %d", prevEnd, v.ref.Size())
	}
	if v.size != v.ref.Size()+cum {
		return errors.Wrapf(ErrInvariant, "size %d, want %d", v.size, v.ref.Size()+cum)
	}
	return nil
}
