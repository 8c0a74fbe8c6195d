package indicator

// BollingerBands adds the rolling mean of close and bands numStd population
// standard deviations above and below it.
func BollingerBands(f *Frame, window int, numStd float64) error {
	if err := f.validate(); err != nil {
		return err
	}
	if err := checkWindow(window); err != nil {
		return err
	}

	closes := f.Series.Closes()
	n := len(closes)
	f.BBUpper = make([]Value, n)
	f.BBMid = make([]Value, n)
	f.BBLower = make([]Value, n)

	for i := window - 1; i < n; i++ {
		mid, std := meanAndPopStd(closes[i-window+1 : i+1])
		band := numStd * std
		f.BBMid[i] = Some(mid)
		f.BBUpper[i] = Some(mid + band)
		f.BBLower[i] = Some(mid - band)
	}

	return nil
}
