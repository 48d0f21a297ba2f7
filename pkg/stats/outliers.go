package stats

// IQRFences returns the Tukey fences q1 - k*iqr and q3 + k*iqr of x.
func IQRFences(x []float64, k float64) (low, high float64) {
	q1 := Percentile(x, 25)
	q3 := Percentile(x, 75)
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr
}

// CountOutliers counts the values of x outside the k IQR fences.
func CountOutliers(x []float64, k float64) (below, above int) {
	low, high := IQRFences(x, k)
	for _, v := range x {
		if v < low {
			below++
		} else if v > high {
			above++
		}
	}
	return below, above
}
