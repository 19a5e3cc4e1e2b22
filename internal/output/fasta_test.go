package output

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jackalope-core/seq"
	"jackalope-core/variant"
)

func testSet(t *testing.T) *variant.Set {
	t.Helper()
	ref := seq.Genome{{Name: "chr1", Seq: []byte("TCAGTCAG")}}
	set := variant.NewSet(ref, []string{"a", "b"})
	if err := set.Variants[0].Chroms[0].AddSubstitution(2, 'T'); err != nil {
		t.Fatalf("sub: %v", err)
	}
	if err := set.Variants[1].Chroms[0].AddDeletion(4, 2); err != nil {
		t.Fatalf("del: %v", err)
	}
	return set
}

func TestWriteFASTA(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFASTA(&buf, testSet(t), 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := ">a_chr1\nTCTGTCAG\n>b_chr1\nTCAGAG\n"
	if buf.String() != want {
		t.Fatalf("output:\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestWriteFASTAWrapped(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFASTA(&buf, testSet(t), 3); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != ">a_chr1" || lines[1] != "TCT" || lines[2] != "GTC" || lines[3] != "AG" {
		t.Fatalf("wrapped output: %q", lines)
	}
}

func TestToFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fa.gz")
	err := ToFile(path, nil, func(w io.Writer) error {
		_, err := io.WriteString(w, ">x\nTCAG\n")
		return err
	})
	if err != nil {
		t.Fatalf("to file: %v", err)
	}

	fh, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer fh.Close()
	gr, err := gzip.NewReader(fh)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	data, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != ">x\nTCAG\n" {
		t.Fatalf("content: %q", data)
	}
}

func TestToFileStdout(t *testing.T) {
	var buf bytes.Buffer
	err := ToFile("-", &buf, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	if err != nil {
		t.Fatalf("to stdout: %v", err)
	}
	if buf.String() != "hello" {
		t.Fatalf("content: %q", buf.String())
	}
}
