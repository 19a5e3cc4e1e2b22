// core/tree/newick.go

// Package tree parses phylogenies in Newick notation and evolves reference
// chromosomes down them.
package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrBadNewick flags a phylogeny string that cannot be parsed.
var ErrBadNewick = errors.New("malformed newick tree")

// Node is one node of a rooted phylogeny. Length is the branch leading into
// the node; tips carry the variant names.
type Node struct {
	Label    string
	Length   float64
	Children []*Node
}

// Tips returns the leaf labels in depth-first order.
func (n *Node) Tips() []string {
	if len(n.Children) == 0 {
		return []string{n.Label}
	}
	var out []string
	for _, c := range n.Children {
		out = append(out, c.Tips()...)
	}
	return out
}

// Star builds a star phylogeny: n tips named var0..var{n-1}, each at the end
// of a branch of length branchLen from the root.
func Star(n int, branchLen float64) *Node {
	root := &Node{}
	for i := 0; i < n; i++ {
		root.Children = append(root.Children, &Node{
			Label:  fmt.Sprintf("var%d", i),
			Length: branchLen,
		})
	}
	return root
}

// Parse reads a rooted tree from Newick notation, e.g.
// "(a:0.1,(b:0.2,c:0.2):0.05);". Whitespace is ignored; the trailing
// semicolon is optional.
func Parse(s string) (*Node, error) {
	p := &parser{s: stripSpace(s)}
	n, err := p.node()
	if err != nil {
		return nil, err
	}
	if p.peek() == ';' {
		p.i++
	}
	if p.i != len(p.s) {
		return nil, errors.Wrapf(ErrBadNewick, "trailing input at offset %d", p.i)
	}
	return n, nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
}

type parser struct {
	s string
	i int
}

func (p *parser) peek() byte {
	if p.i >= len(p.s) {
		return 0
	}
	return p.s[p.i]
}

func (p *parser) node() (*Node, error) {
	n := &Node{}
	if p.peek() == '(' {
		p.i++
		for {
			child, err := p.node()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
			if p.peek() != ',' {
				break
			}
			p.i++
		}
		if p.peek() != ')' {
			return nil, errors.Wrapf(ErrBadNewick, "expected ')' at offset %d", p.i)
		}
		p.i++
	}
	n.Label = p.label()
	if len(n.Children) == 0 && n.Label == "" {
		return nil, errors.Wrapf(ErrBadNewick, "unlabeled tip at offset %d", p.i)
	}
	if p.peek() == ':' {
		p.i++
		length, err := p.number()
		if err != nil {
			return nil, err
		}
		n.Length = length
	}
	return n, nil
}

func (p *parser) label() string {
	start := p.i
	for p.i < len(p.s) && !strings.ContainsRune("(),:;", rune(p.s[p.i])) {
		p.i++
	}
	return p.s[start:p.i]
}

func (p *parser) number() (float64, error) {
	start := p.i
	for p.i < len(p.s) && strings.ContainsRune("0123456789.eE+-", rune(p.s[p.i])) {
		p.i++
	}
	f, err := strconv.ParseFloat(p.s[start:p.i], 64)
	if err != nil || f < 0 {
		return 0, errors.Wrapf(ErrBadNewick, "bad branch length %q at offset %d", p.s[start:p.i], start)
	}
	return f, nil
}
