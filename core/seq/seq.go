// core/seq/seq.go
package seq

import "github.com/pkg/errors"

// Bases is the nucleotide alphabet in the canonical T,C,A,G order used by
// every rate vector and matrix in this module.
const Bases = "TCAG"

// NBases is the alphabet size.
const NBases = 4

// ErrInvalidInput marks malformed reference input (empty sequences,
// characters outside the alphabet, bad generation parameters).
var ErrInvalidInput = errors.New("invalid input")

var baseIndex [256]int8

func init() {
	for i := range baseIndex {
		baseIndex[i] = -1
	}
	for i := 0; i < NBases; i++ {
		baseIndex[Bases[i]] = int8(i)
	}
}

// BaseIndex maps a nucleotide character to its T,C,A,G index, or -1.
func BaseIndex(c byte) int { return int(baseIndex[c]) }

// Chrom is one immutable reference chromosome. It is shared read-only across
// all variants and workers for the lifetime of a run.
type Chrom struct {
	Name string
	Seq  []byte
}

// Size returns the chromosome length.
func (c *Chrom) Size() int { return len(c.Seq) }

// Genome is an ordered set of reference chromosomes.
type Genome []Chrom

// TotalSize returns the summed length of all chromosomes.
func (g Genome) TotalSize() int {
	n := 0
	for i := range g {
		n += g[i].Size()
	}
	return n
}

// Normalize uppercases every chromosome in place, maps U and u to T, and
// returns the number of characters left outside the T,C,A,G alphabet.
// Unknown characters (N and other ambiguity codes) are kept; they carry a
// zero mutation rate and never change.
func (g Genome) Normalize() int {
	unknown := 0
	for i := range g {
		s := g[i].Seq
		for j, c := range s {
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			if c == 'U' {
				c = 'T'
			}
			s[j] = c
			if BaseIndex(c) < 0 {
				unknown++
			}
		}
	}
	return unknown
}

// Validate checks that every chromosome is non-empty and drawn from the
// T,C,A,G alphabet.
func (g Genome) Validate() error {
	if len(g) == 0 {
		return errors.Wrap(ErrInvalidInput, "empty genome")
	}
	for i := range g {
		if g[i].Size() == 0 {
			return errors.Wrapf(ErrInvalidInput, "chromosome %q is empty", g[i].Name)
		}
		for j, c := range g[i].Seq {
			if BaseIndex(c) < 0 {
				return errors.Wrapf(ErrInvalidInput, "chromosome %q: bad character %q at %d", g[i].Name, c, j)
			}
		}
	}
	return nil
}
