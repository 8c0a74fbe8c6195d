package feed

// IndexUniverse is a static sample of S&P 500 members used when a batch
// analysis asks for the index instead of an explicit symbol list.
var IndexUniverse = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX", "JPM", "JNJ",
	"V", "PG", "UNH", "HD", "MA", "DIS", "PYPL", "BAC", "ADBE", "CRM",
	"KO", "PFE", "ABT", "TMO", "AVGO", "COST", "PEP", "ABBV", "MRK", "TXN",
	"LLY", "ACN", "DHR", "NEE", "VZ", "CMCSA", "ADP", "BMY", "PM", "RTX",
	"QCOM", "T", "UNP", "LOW", "SPGI", "INTU", "ISRG", "UPS", "GILD", "CAT",
	"AMGN", "MS", "BLK", "GS", "AXP", "DE", "PLD", "SCHW", "AMT", "ADI",
	"TJX", "MDLZ", "GE", "DUK", "SO", "NOC", "EOG", "AON", "SLB", "CME",
	"ITW", "USB", "PGR", "ZTS", "HON", "TGT", "MMC", "ETN", "ICE", "SHW",
	"BDX", "CI", "APD", "KLAC", "FISV", "AIG", "SRE", "VRTX", "CTAS", "BIIB",
	"HUM", "AEP", "NSC", "TRV", "PSA", "ALL", "ALGN", "PAYX", "ROST", "MCD",
	"ORLY", "IDXX", "ADSK", "WBA", "ILMN", "A", "BKNG", "CDW", "CHTR", "CMI",
	"CPRT", "CTSH", "DAL", "DOV", "EA", "EBAY", "EFX", "ES", "ETSY", "EXC",
	"EXPD", "FAST", "FDX", "FIS", "FTNT", "GD", "GPN", "GRMN", "HAS", "HCA",
	"HIG", "HLT", "HOLX", "HPQ", "HSIC", "HWM", "IBM", "INCY", "IP", "IPG",
	"IQV", "IR", "JBHT", "JKHY", "KEY", "KHC", "KIM", "KMB", "KMI", "KMX",
	"KR", "L", "LH", "LKQ", "LMT", "LNT", "LRCX", "LUV", "LW", "LYB",
	"LYV", "MAA", "MAR", "MAS", "MCK", "MET", "MGM", "MHK", "MKC", "MLM",
	"MMM", "MNST", "MO", "MOS", "MPC", "MRNA", "MTB", "MTCH", "MTD", "MU",
	"NCLH", "NDAQ", "NDSN", "NI", "NRG", "NTAP", "NTRS", "NUE", "NVR", "NXPI",
	"O", "ODFL", "OKE", "OMC", "ORCL", "OTIS", "OXY", "PAYC", "PCAR", "PCG",
	"PEG", "PFG", "PH", "PHM", "PKG", "PNC", "PNR", "POOL", "PPG", "PPL",
	"PRU", "PSX", "PTC", "PWR", "QRVO", "RCL", "REG", "RF", "RJF", "RL",
	"RMD", "ROK", "ROL", "ROP", "RSG", "SBAC", "SBUX", "SJM", "SNA", "SNPS",
	"SPG", "STE", "STT", "STX", "STZ", "SWK", "SWKS", "SYF", "SYK", "SYY",
	"TAP", "TDG", "TDY", "TECH", "TEL", "TER", "TFC", "TMUS", "TPR", "TRMB",
	"TROW", "TSCO", "TSN", "TT", "TTWO", "TXT", "TYL", "UAL", "UDR", "UHS",
	"ULTA", "URI", "VLO", "VMC", "VRSK", "VRSN", "VTR", "VTRS", "WAB", "WAT",
	"WDC", "WEC", "WELL", "WFC", "WM", "WMB", "WMT", "WRB", "WST", "WY",
	"WYNN", "XEL", "XOM", "XYL", "YUM", "ZBRA", "ZION",
}

// Universe returns up to limit symbols from the index sample.
func Universe(limit int) []string {
	if limit <= 0 || limit > len(IndexUniverse) {
		limit = len(IndexUniverse)
	}
	return append([]string(nil), IndexUniverse[:limit]...)
}
