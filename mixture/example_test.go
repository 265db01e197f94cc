package mixture_test

import (
	"fmt"

	"github.com/cwbudde/algo-peakfit/mixture"
)

func ExampleModel_Intensity() {
	m, err := mixture.New(mixture.Config{
		K:          1,
		Mu:         []float64{0},
		Sigma:      []float64{1},
		Pi:         []float64{0.5, 0.5},
		N:          100,
		Domain:     []float64{-5, 5},
		Background: &mixture.BackgroundConfig{Kind: "uniform"},
	})
	if err != nil {
		panic(err)
	}

	x := []float64{0}
	peak, _ := m.ComponentPredict(0, x)
	bg, _ := m.ComponentPredict(1, x)

	fmt.Printf("total=%.3f peak=%.3f background=%.3f\n", m.Intensity(x)[0], peak[0], bg[0])
	// Output:
	// total=24.947 peak=19.947 background=5.000
}
