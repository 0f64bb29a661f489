package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// GLSFit is a generalized-least-squares fit with AR(1) residual
// correlation over the (age-ordered) observation sequence.
type GLSFit struct {
	Terms  []string  // coefficient names, "(Intercept)" first
	Coef   []float64 // estimates
	StdErr []float64
	Rho    float64 // fitted AR(1) coefficient
	LogLik float64
	AIC    float64
	N      int
}

// FitAR1 fits y = X*beta + e with e following a stationary AR(1) process,
// by maximum likelihood: the AR coefficient is profiled out with a
// Nelder-Mead search and beta solved by QR on the Prais-Winsten whitened
// system at each candidate. Rows must already be in time order. The fit
// fails (rather than degrading) on short data, singular designs, and
// non-convergence; the sweep turns that failure into a sentinel row.
func FitAR1(y []float64, x *mat.Dense, terms []string) (*GLSFit, error) {
	n, p := x.Dims()
	if len(y) != n {
		return nil, fmt.Errorf("gls: response length %d does not match design rows %d", len(y), n)
	}
	if n < p+3 {
		return nil, fmt.Errorf("gls: %d rows insufficient for %d coefficients plus AR(1)", n, p)
	}

	objective := func(theta []float64) float64 {
		rho := math.Tanh(theta[0])
		_, _, ll, err := solveWhitened(y, x, rho)
		if err != nil {
			return math.Inf(1)
		}
		return -ll
	}

	problem := optimize.Problem{Func: objective}
	result, err := optimize.Minimize(problem, []float64{0}, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("gls: AR(1) profile search: %w", err)
	}
	if math.IsInf(result.F, 1) || math.IsNaN(result.F) {
		return nil, fmt.Errorf("gls: AR(1) profile search did not converge")
	}

	rho := math.Tanh(result.X[0])
	beta, rss, ll, err := solveWhitened(y, x, rho)
	if err != nil {
		return nil, fmt.Errorf("gls: final solve at rho=%.4f: %w", rho, err)
	}

	stderr, err := coefStdErr(x, rho, rss, n, p)
	if err != nil {
		return nil, fmt.Errorf("gls: %w", err)
	}

	// Parameter count for AIC: p coefficients plus sigma and rho.
	k := float64(p + 2)
	return &GLSFit{
		Terms:  terms,
		Coef:   beta,
		StdErr: stderr,
		Rho:    rho,
		LogLik: ll,
		AIC:    -2*ll + 2*k,
		N:      n,
	}, nil
}

// solveWhitened applies the Prais-Winsten transform for a fixed rho, solves
// the resulting OLS problem, and returns the coefficients, the whitened
// residual sum of squares, and the exact Gaussian log-likelihood.
func solveWhitened(y []float64, x *mat.Dense, rho float64) ([]float64, float64, float64, error) {
	n, p := x.Dims()
	yw := mat.NewVecDense(n, nil)
	xw := mat.NewDense(n, p, nil)

	s := math.Sqrt(1 - rho*rho)
	yw.SetVec(0, s*y[0])
	for j := 0; j < p; j++ {
		xw.Set(0, j, s*x.At(0, j))
	}
	for i := 1; i < n; i++ {
		yw.SetVec(i, y[i]-rho*y[i-1])
		for j := 0; j < p; j++ {
			xw.Set(i, j, x.At(i, j)-rho*x.At(i-1, j))
		}
	}

	var qr mat.QR
	qr.Factorize(xw)
	var r mat.Dense
	qr.RTo(&r)
	for j := 0; j < p; j++ {
		if math.Abs(r.At(j, j)) < 1e-10 {
			return nil, 0, 0, fmt.Errorf("singular design matrix")
		}
	}

	var betaVec mat.VecDense
	if err := qr.SolveVecTo(&betaVec, false, yw); err != nil {
		return nil, 0, 0, fmt.Errorf("whitened solve: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(xw, &betaVec)
	var rss float64
	for i := 0; i < n; i++ {
		d := yw.AtVec(i) - fitted.AtVec(i)
		rss += d * d
	}
	if rss <= 0 || math.IsNaN(rss) {
		return nil, 0, 0, fmt.Errorf("degenerate residual sum of squares %v", rss)
	}

	fn := float64(n)
	sigma2 := rss / fn
	ll := -0.5*fn*(math.Log(2*math.Pi)+math.Log(sigma2)+1) + 0.5*math.Log(1-rho*rho)

	beta := make([]float64, p)
	for j := 0; j < p; j++ {
		beta[j] = betaVec.AtVec(j)
	}
	return beta, rss, ll, nil
}

func coefStdErr(x *mat.Dense, rho, rss float64, n, p int) ([]float64, error) {
	// Rebuild the whitened design for the covariance; cheap at this size.
	xw := mat.NewDense(n, p, nil)
	s := math.Sqrt(1 - rho*rho)
	for j := 0; j < p; j++ {
		xw.Set(0, j, s*x.At(0, j))
	}
	for i := 1; i < n; i++ {
		for j := 0; j < p; j++ {
			xw.Set(i, j, x.At(i, j)-rho*x.At(i-1, j))
		}
	}
	var xtx mat.Dense
	xtx.Mul(xw.T(), xw)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("covariance inverse: %w", err)
	}
	sigma2 := rss / float64(n-p)
	out := make([]float64, p)
	for j := 0; j < p; j++ {
		out[j] = math.Sqrt(sigma2 * inv.At(j, j))
	}
	return out, nil
}
