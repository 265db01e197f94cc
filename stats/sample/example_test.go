package sample

import "fmt"

func ExampleSummarize() {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 2, 1, 0}

	s := Summarize(x, y)
	fmt.Printf("mean=%.2f var=%.2f integral=%.2f peak=%.0f\n", s.Mean, s.Variance, s.Integral, s.PeakX)
	// Output:
	// mean=2.00 var=0.50 integral=4.00 peak=2
}
