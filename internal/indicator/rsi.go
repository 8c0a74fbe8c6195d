package indicator

// RSI adds the relative strength index using plain rolling means of gains and
// losses over window deltas. A window without any movement has no value.
func RSI(f *Frame, window int) error {
	if err := f.validate(); err != nil {
		return err
	}
	if err := checkWindow(window); err != nil {
		return err
	}

	f.RSI = rsi(f.Series.Closes(), window)
	return nil
}

func rsi(closes []float64, window int) []Value {
	n := len(closes)
	out := make([]Value, n)
	if n <= window {
		return out
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		diff := closes[i] - closes[i-1]
		if diff > 0 {
			gains[i] = diff
		} else {
			losses[i] = -diff
		}
	}

	for i := window; i < n; i++ {
		var g, l float64
		for j := i - window + 1; j <= i; j++ {
			g += gains[j]
			l += losses[j]
		}
		g /= float64(window)
		l /= float64(window)

		switch {
		case g == 0 && l == 0:
			// flat window, ratio is 0/0
		case l == 0:
			out[i] = Some(100)
		default:
			out[i] = Some(100 - 100/(1+g/l))
		}
	}

	return out
}
