// core/rates/matrices.go
package rates

// Matrix is a 4x4 substitution-rate matrix with rows and columns in T,C,A,G
// order. Off-diagonal entries are instantaneous rates into the column base;
// the diagonal is set to the negated row sum by convention but is ignored by
// the rate table.
type Matrix [4][4]float64

func (m *Matrix) fillDiagonal() {
	for i := 0; i < 4; i++ {
		sum := 0.0
		for j := 0; j < 4; j++ {
			if j != i {
				sum += m[i][j]
			}
		}
		m[i][i] = -sum
	}
}

// UniformPi is the default equilibrium frequency vector.
var UniformPi = [4]float64{0.25, 0.25, 0.25, 0.25}

// TN93 builds the Tamura–Nei 1993 matrix: alpha1 scales the T<->C
// (pyrimidine) transition, alpha2 the A<->G (purine) transition, beta all
// transversions; each rate is weighted by the target base's equilibrium
// frequency.
func TN93(pi [4]float64, alpha1, alpha2, beta float64) Matrix {
	var m Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i == j {
				continue
			}
			r := beta
			switch {
			case (i == 0 && j == 1) || (i == 1 && j == 0):
				r = alpha1
			case (i == 2 && j == 3) || (i == 3 && j == 2):
				r = alpha2
			}
			m[i][j] = r * pi[j]
		}
	}
	m.fillDiagonal()
	return m
}

// HKY85 is TN93 with a single transition rate.
func HKY85(pi [4]float64, alpha, beta float64) Matrix {
	return TN93(pi, alpha, alpha, beta)
}

// K80 is the Kimura 1980 two-parameter matrix (uniform frequencies).
func K80(alpha, beta float64) Matrix {
	return TN93(UniformPi, alpha, alpha, beta)
}

// JC69 is the Jukes–Cantor 1969 one-parameter matrix.
func JC69(lambda float64) Matrix {
	return K80(lambda, lambda)
}

// F81 is the Felsenstein 1981 matrix: every rate equals the target base's
// equilibrium frequency.
func F81(pi [4]float64) Matrix {
	return TN93(pi, 1, 1, 1)
}

// GTR builds the general time-reversible matrix from six exchangeabilities
// in upper-triangle row order: TC, TA, TG, CA, CG, AG.
func GTR(pi [4]float64, ex [6]float64) Matrix {
	var m Matrix
	k := 0
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			m[i][j] = ex[k] * pi[j]
			m[j][i] = ex[k] * pi[i]
			k++
		}
	}
	m.fillDiagonal()
	return m
}
