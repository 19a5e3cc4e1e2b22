// internal/output/vcf.go
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"jackalope-core/variant"

	"jackalope/internal/version"
)

// WriteVCF writes every variant of the set against the reference as one
// multi-sample haploid VCF. Records from different variants that touch
// overlapping reference runs are folded into a single row so alleles stay
// comparable; indel rows are anchored on the preceding reference base.
func WriteVCF(w io.Writer, set *variant.Set) error {
	if _, err := fmt.Fprintf(w, "##fileformat=VCFv4.3\n##source=jackalope %s\n", version.Version); err != nil {
		return err
	}
	for i := range set.Ref {
		if _, err := fmt.Fprintf(w, "##contig=<ID=%s,length=%d>\n", set.Ref[i].Name, set.Ref[i].Size()); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT"); err != nil {
		return err
	}
	for _, g := range set.Variants {
		if _, err := fmt.Fprintf(w, "\t%s", g.Name); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	for ci := range set.Ref {
		if err := writeChromRows(w, set, ci); err != nil {
			return err
		}
	}
	return nil
}

// interval is a run of consumed reference positions; s == e marks a pure
// insertion point.
type interval struct{ s, e int }

func clusters(set *variant.Set, ci int) []interval {
	var ivs []interval
	for _, g := range set.Variants {
		v := g.Chroms[ci]
		if v == nil {
			continue
		}
		for _, m := range v.Mutations() {
			ivs = append(ivs, interval{m.OldPos, m.OldPos + m.RefSpan()})
		}
	}
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].s != ivs[j].s {
			return ivs[i].s < ivs[j].s
		}
		return ivs[i].e < ivs[j].e
	})
	out := make([]interval, 0, len(ivs))
	cur := ivs[0]
	for _, iv := range ivs[1:] {
		// an insertion point on the cluster's right edge still belongs to it
		if iv.s < cur.e || (iv.s == cur.e && iv.s == iv.e) {
			if iv.e > cur.e {
				cur.e = iv.e
			}
			continue
		}
		out = append(out, cur)
		cur = iv
	}
	return append(out, cur)
}

// segment rebuilds one variant's allele for the reference window [ws, we).
func segment(ref []byte, muts []variant.Mutation, ws, we int) string {
	var b strings.Builder
	cur := ws
	for _, m := range muts {
		rs := m.RefSpan()
		end := m.OldPos + rs
		if rs == 0 {
			if m.OldPos <= ws || m.OldPos > we {
				continue
			}
		} else if end <= ws || m.OldPos >= we {
			continue
		}
		if m.OldPos > cur {
			b.Write(ref[cur:m.OldPos])
		}
		b.WriteString(m.Seq)
		if end > cur {
			cur = end
		}
	}
	if cur < we {
		b.Write(ref[cur:we])
	}
	return b.String()
}

func writeChromRows(w io.Writer, set *variant.Set, ci int) error {
	ref := set.Ref[ci].Seq
	name := set.Ref[ci].Name
	for _, c := range clusters(set, ci) {
		ws, we := c.s, c.e
		indel := false
		for _, g := range set.Variants {
			v := g.Chroms[ci]
			if v == nil {
				continue
			}
			for _, m := range v.Mutations() {
				if m.SizeMod == 0 {
					continue
				}
				s, e := m.OldPos, m.OldPos+m.RefSpan()
				if (s == e && s > ws && s <= we) || (s != e && e > ws && s < we) {
					indel = true
				}
			}
		}
		if indel {
			// anchor on the preceding base, or the following one at the
			// chromosome start
			if ws > 0 {
				ws--
			} else if we < len(ref) {
				we++
			}
		}
		refSeg := string(ref[ws:we])

		var alts []string
		gts := make([]int, len(set.Variants))
		for vi, g := range set.Variants {
			v := g.Chroms[ci]
			if v == nil {
				continue
			}
			seg := segment(ref, v.Mutations(), ws, we)
			if seg == refSeg {
				continue
			}
			if seg == "" {
				seg = "."
			}
			idx := -1
			for i, a := range alts {
				if a == seg {
					idx = i
					break
				}
			}
			if idx < 0 {
				alts = append(alts, seg)
				idx = len(alts) - 1
			}
			gts[vi] = idx + 1
		}
		if len(alts) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%d\t.\t%s\t%s\t.\tPASS\t.\tGT", name, ws+1, refSeg, strings.Join(alts, ",")); err != nil {
			return err
		}
		for _, gt := range gts {
			if _, err := fmt.Fprintf(w, "\t%d", gt); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
