package filters

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Roots returns the roots of the polynomial c[0]*x^n + c[1]*x^(n-1) + ... + c[n]
// as the eigenvalues of its companion matrix. Leading zero coefficients are
// ignored; a constant polynomial has no roots.
func Roots(c []float64) ([]complex128, error) {
	start := 0
	for start < len(c) && c[start] == 0 {
		start++
	}
	c = c[start:]

	degree := len(c) - 1
	if degree < 1 {
		return []complex128{}, nil
	}

	companion := mat.NewDense(degree, degree, nil)
	for j := range degree {
		companion.Set(0, j, -c[j+1]/c[0])
	}
	for i := 1; i < degree; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, fmt.Errorf("eigenvalue decomposition did not converge for degree %d polynomial", degree)
	}

	roots := eig.Values(nil)
	slices.SortFunc(roots, func(x, y complex128) int {
		if c := cmp.Compare(real(x), real(y)); c != 0 {
			return c
		}
		return cmp.Compare(imag(x), imag(y))
	})
	return roots, nil
}
