// core/variant/set.go
package variant

import "jackalope-core/seq"

// VarGenome is one named variant's view of every chromosome.
type VarGenome struct {
	Name   string
	Chroms []*Variant
}

// Size returns the total sequence length across chromosomes.
func (g *VarGenome) Size() int {
	n := 0
	for _, c := range g.Chroms {
		if c != nil {
			n += c.Size()
		}
	}
	return n
}

// Set holds a reference genome and the variants simulated from it. Every
// variant carries one Variant per reference chromosome, in reference order.
type Set struct {
	Ref      seq.Genome
	Variants []*VarGenome
}

// NewSet builds a set with one unmutated variant per name.
func NewSet(ref seq.Genome, names []string) *Set {
	s := &Set{Ref: ref, Variants: make([]*VarGenome, len(names))}
	for i, name := range names {
		g := &VarGenome{Name: name, Chroms: make([]*Variant, len(ref))}
		for ci := range ref {
			g.Chroms[ci] = New(&ref[ci], ref[ci].Name)
		}
		s.Variants[i] = g
	}
	return s
}

// ByName returns the variant named name, or nil.
func (s *Set) ByName(name string) *VarGenome {
	for _, g := range s.Variants {
		if g.Name == name {
			return g
		}
	}
	return nil
}
