// internal/output/fasta.go
package output

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"jackalope-core/variant"
)

// WriteFASTA writes every variant chromosome as one FASTA record named
// <variant>_<chromosome>, with sequence lines wrapped at wrap characters
// (0 = single line).
func WriteFASTA(w io.Writer, set *variant.Set, wrap int) error {
	for _, g := range set.Variants {
		for _, v := range g.Chroms {
			if v == nil {
				continue
			}
			s, err := v.Materialize(0, v.Size())
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, ">%s_%s\n", g.Name, v.Ref().Name); err != nil {
				return err
			}
			if err := writeWrapped(w, s, wrap); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeWrapped(w io.Writer, s string, wrap int) error {
	if wrap <= 0 {
		_, err := io.WriteString(w, s+"\n")
		return err
	}
	for off := 0; off < len(s); off += wrap {
		end := min(off+wrap, len(s))
		if _, err := io.WriteString(w, s[off:end]+"\n"); err != nil {
			return err
		}
	}
	if len(s) == 0 {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// ToFile runs write against path, compressing when the name ends in .gz.
// "-" writes to stdout without closing it.
func ToFile(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	var w io.Writer = fh
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(fh)
		w = gz
	}
	bw := bufio.NewWriter(w)
	werr := write(bw)
	if err := bw.Flush(); werr == nil {
		werr = err
	}
	if gz != nil {
		if err := gz.Close(); werr == nil {
			werr = err
		}
	}
	if err := fh.Close(); werr == nil {
		werr = err
	}
	return werr
}
