package indicator

// MovingAverage adds the simple rolling mean of close over window bars.
func MovingAverage(f *Frame, window int) error {
	if err := f.validate(); err != nil {
		return err
	}
	if err := checkWindow(window); err != nil {
		return err
	}

	f.MA = rollingMean(f.Series.Closes(), window)
	f.MAWindow = window
	return nil
}

// Volatility adds the bar-over-bar percent change of close.
func Volatility(f *Frame) error {
	if err := f.validate(); err != nil {
		return err
	}

	closes := f.Series.Closes()
	vol := make([]Value, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		vol[i] = Some((closes[i]/closes[i-1] - 1) * 100)
	}

	f.Volatility = vol
	return nil
}
