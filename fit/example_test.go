package fit_test

import (
	"fmt"

	"github.com/cwbudde/algo-peakfit/fit"
	"github.com/cwbudde/algo-peakfit/mixture"
	"gonum.org/v1/gonum/stat/distuv"
)

func ExampleEM() {
	left := distuv.Normal{Mu: 2, Sigma: 0.4}
	right := distuv.Normal{Mu: 6, Sigma: 0.8}

	x := make([]float64, 1001)
	y := make([]float64, len(x))

	for i := range x {
		x[i] = float64(i) / 100
		y[i] = 300*left.Prob(x[i]) + 700*right.Prob(x[i])
	}

	m, err := mixture.New(mixture.Config{K: 2, Mu: []float64{1, 7}})
	if err != nil {
		panic(err)
	}

	info, err := fit.EM(m, x, y)
	if err != nil {
		panic(err)
	}

	params := m.Export()
	fmt.Println(info.Status)
	fmt.Printf("mu=[%.2f %.2f] sigma=[%.2f %.2f]\n", params.Mu[0], params.Mu[1], params.Sigma[0], params.Sigma[1])
	fmt.Printf("pi=[%.2f %.2f] n=%.0f\n", params.Pi[0], params.Pi[1], params.N)
	// Output:
	// converged
	// mu=[2.00 6.00] sigma=[0.40 0.80]
	// pi=[0.30 0.70] n=1000
}
