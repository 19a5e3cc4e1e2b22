package output

import (
	"bytes"
	"strings"
	"testing"

	"jackalope-core/seq"
	"jackalope-core/variant"
)

func vcfLines(t *testing.T, set *variant.Set) []string {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteVCF(&buf, set); err != nil {
		t.Fatalf("write vcf: %v", err)
	}
	var rows []string
	for _, ln := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if !strings.HasPrefix(ln, "##") {
			rows = append(rows, ln)
		}
	}
	return rows
}

func TestWriteVCFRows(t *testing.T) {
	ref := seq.Genome{{Name: "chr1", Seq: []byte("TCAGTCAG")}}
	set := variant.NewSet(ref, []string{"a", "b", "c"})
	if err := set.Variants[0].Chroms[0].AddSubstitution(2, 'T'); err != nil {
		t.Fatalf("sub: %v", err)
	}
	if err := set.Variants[1].Chroms[0].AddDeletion(4, 2); err != nil {
		t.Fatalf("del: %v", err)
	}
	if err := set.Variants[2].Chroms[0].AddInsertion(6, "TT"); err != nil {
		t.Fatalf("ins: %v", err)
	}

	rows := vcfLines(t, set)
	want := []string{
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\ta\tb\tc",
		"chr1\t3\t.\tA\tT\t.\tPASS\t.\tGT\t1\t0\t0",
		"chr1\t4\t.\tGTC\tG,GTCTT\t.\tPASS\t.\tGT\t0\t1\t2",
	}
	if len(rows) != len(want) {
		t.Fatalf("rows:\n%s", strings.Join(rows, "\n"))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d:\n got: %q\nwant: %q", i, rows[i], want[i])
		}
	}
}

func TestWriteVCFSharedAllele(t *testing.T) {
	// identical alleles in two variants share one ALT index
	ref := seq.Genome{{Name: "chr1", Seq: []byte("TCAG")}}
	set := variant.NewSet(ref, []string{"a", "b"})
	for _, g := range set.Variants {
		if err := g.Chroms[0].AddSubstitution(0, 'G'); err != nil {
			t.Fatalf("sub: %v", err)
		}
	}

	rows := vcfLines(t, set)
	if len(rows) != 2 {
		t.Fatalf("rows: %v", rows)
	}
	if rows[1] != "chr1\t1\t.\tT\tG\t.\tPASS\t.\tGT\t1\t1" {
		t.Fatalf("row: %q", rows[1])
	}
}

func TestWriteVCFHeaderContigs(t *testing.T) {
	ref := seq.Genome{
		{Name: "chr1", Seq: []byte("TCAG")},
		{Name: "chr2", Seq: []byte("GG")},
	}
	set := variant.NewSet(ref, []string{"a"})

	var buf bytes.Buffer
	if err := WriteVCF(&buf, set); err != nil {
		t.Fatalf("write vcf: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"##fileformat=VCFv4.3",
		"##contig=<ID=chr1,length=4>",
		"##contig=<ID=chr2,length=2>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteVCFAnchorsAtChromStart(t *testing.T) {
	ref := seq.Genome{{Name: "chr1", Seq: []byte("TCAG")}}
	set := variant.NewSet(ref, []string{"a"})
	if err := set.Variants[0].Chroms[0].AddDeletion(0, 2); err != nil {
		t.Fatalf("del: %v", err)
	}

	rows := vcfLines(t, set)
	// no preceding base, so the row anchors on the following one
	if rows[1] != "chr1\t1\t.\tTCA\tA\t.\tPASS\t.\tGT\t1" {
		t.Fatalf("row: %q", rows[1])
	}
}
