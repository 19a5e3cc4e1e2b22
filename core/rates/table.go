// core/rates/table.go
package rates

import (
	"math"

	"github.com/pkg/errors"

	"jackalope-core/seq"
)

// ErrInvalidInput flags model parameters that cannot form a rate table.
var ErrInvalidInput = errors.New("invalid input")

// Model holds the parameters a rate table is built from. Q is the
// substitution matrix, Pi the equilibrium base frequencies (any positive
// sum; normalized internally). IndelRate is the
// combined insertion+deletion rate per site; InsDelRatio splits it between
// the two. RelInsRates[k] and RelDelRates[k] are the relative rates of
// events of length k+1 and are normalized internally.
type Model struct {
	Q           Matrix
	Pi          [4]float64
	IndelRate   float64
	InsDelRatio float64
	RelInsRates []float64
	RelDelRates []float64
}

// Table maps each nucleotide to its total mutation rate and to a categorical
// distribution over concrete events. Event index layout: 0..3 are
// substitutions to T,C,A,G, then insertions of length 1..nIns, then
// deletions of length 1..nDel.
type Table struct {
	q       [4]float64
	probs   [4][]float64
	lengths []int
	pi      [4]float64
}

// RelRatesExp returns relative event rates proportional to exp(-L) for
// lengths L = 1..n, the usual default for indel length distributions.
func RelRatesExp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Exp(-float64(i + 1))
	}
	return out
}

func normalize(v []float64) ([]float64, error) {
	sum := 0.0
	for _, x := range v {
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.Wrap(ErrInvalidInput, "relative rates must be finite and non-negative")
		}
		sum += x
	}
	if len(v) > 0 && sum <= 0 {
		return nil, errors.Wrap(ErrInvalidInput, "relative rates sum to zero")
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / sum
	}
	return out, nil
}

// NewTable validates a Model and builds its per-nucleotide event table.
func NewTable(m Model) (*Table, error) {
	piSum := 0.0
	for _, p := range m.Pi {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, errors.Wrap(ErrInvalidInput, "equilibrium frequencies must be finite and non-negative")
		}
		piSum += p
	}
	if piSum <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "equilibrium frequencies sum to %g", piSum)
	}
	for i := range m.Pi {
		m.Pi[i] /= piSum
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i != j && (m.Q[i][j] < 0 || math.IsNaN(m.Q[i][j]) || math.IsInf(m.Q[i][j], 0)) {
				return nil, errors.Wrapf(ErrInvalidInput, "substitution rate [%d][%d] must be finite and non-negative", i, j)
			}
		}
	}
	if m.IndelRate < 0 || math.IsNaN(m.IndelRate) || math.IsInf(m.IndelRate, 0) {
		return nil, errors.Wrap(ErrInvalidInput, "indel rate must be finite and non-negative")
	}

	var ins, del []float64
	if m.IndelRate > 0 {
		if m.InsDelRatio <= 0 || math.IsNaN(m.InsDelRatio) || math.IsInf(m.InsDelRatio, 0) {
			return nil, errors.Wrap(ErrInvalidInput, "insertion/deletion ratio must be finite and positive")
		}
		relIns, relDel := m.RelInsRates, m.RelDelRates
		if relIns == nil {
			relIns = RelRatesExp(10)
		}
		if relDel == nil {
			relDel = RelRatesExp(10)
		}
		var err error
		if ins, err = normalize(relIns); err != nil {
			return nil, err
		}
		if del, err = normalize(relDel); err != nil {
			return nil, err
		}
		// Split the total indel rate so that insertions:deletions = psi.
		psi := m.InsDelRatio
		xiIns := m.IndelRate / (1 + 1/psi)
		xiDel := m.IndelRate / (1 + psi)
		for i := range ins {
			ins[i] *= xiIns
		}
		for i := range del {
			del[i] *= xiDel
		}
	}

	t := &Table{pi: m.Pi}
	t.lengths = make([]int, 4+len(ins)+len(del))
	for k := range ins {
		t.lengths[4+k] = k + 1
	}
	for k := range del {
		t.lengths[4+len(ins)+k] = -(k + 1)
	}

	for i := 0; i < 4; i++ {
		row := make([]float64, 4+len(ins)+len(del))
		for j := 0; j < 4; j++ {
			if j != i {
				row[j] = m.Q[i][j]
			}
		}
		// Indel rates are per site, not per nucleotide, so each base
		// carries a quarter of each event's rate.
		for k, r := range ins {
			row[4+k] = r * 0.25
		}
		for k, r := range del {
			row[4+len(ins)+k] = r * 0.25
		}
		total := 0.0
		for _, r := range row {
			total += r
		}
		if total <= 0 {
			return nil, errors.Wrapf(ErrInvalidInput, "nucleotide %c has zero total mutation rate", seq.Bases[i])
		}
		for j := range row {
			row[j] /= total
		}
		t.q[i] = total
		t.probs[i] = row
	}
	return t, nil
}

// Rate returns the total mutation rate of nucleotide c, or 0 for bytes
// outside TCAG.
func (t *Table) Rate(c byte) float64 {
	i := seq.BaseIndex(c)
	if i < 0 {
		return 0
	}
	return t.q[i]
}

// Probs returns the normalized event probabilities for nucleotide index i.
func (t *Table) Probs(i int) []float64 { return t.probs[i] }

// Lengths returns the size modifier of each event index: 0 for
// substitutions, positive for insertions, negative for deletions.
func (t *Table) Lengths() []int { return t.lengths }

// Pi returns the equilibrium base frequencies.
func (t *Table) Pi() [4]float64 { return t.pi }

// NEvents returns the number of distinct event indices per nucleotide.
func (t *Table) NEvents() int { return len(t.lengths) }
