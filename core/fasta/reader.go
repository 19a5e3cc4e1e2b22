// core/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record represents a parsed FASTA sequence.
type Record struct {
	ID  string
	Seq []byte
}

// ReadAllCtx opens `path` and parses every record. gzip and "-" for stdin
// are handled transparently. Cancellation via ctx is honored between lines.
func ReadAllCtx(ctx context.Context, path string) ([]Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parse(ctx, rc)
}

// ReadAll is the background-context convenience wrapper.
func ReadAll(path string) ([]Record, error) {
	return ReadAllCtx(context.Background(), path)
}

// Parse reads every record from r.
func Parse(r io.Reader) ([]Record, error) {
	return parse(context.Background(), r)
}

func parse(ctx context.Context, r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		recs []Record
		id   string
		seq  = make([]byte, 0, 1<<20)
		seen bool
	)
	flush := func() {
		if !seen {
			return
		}
		recs = append(recs, Record{ID: id, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			seen = true
			id = parseHeaderID(line[1:])
			seq = seq[:0]
			continue
		}
		if !seen {
			return nil, fmt.Errorf("fasta: sequence data before first header")
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("fasta scan: %w", err)
	}
	flush()
	return recs, nil
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
