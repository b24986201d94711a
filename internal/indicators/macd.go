package indicators

import "cryptosignal/models"

// CalculateMACD computes the MACD line from the 12/26 EMAs.
//
// The signal line is macd * 0.8, a single-pass approximation rather than
// a 9-period EMA of the MACD series. The composer's thresholds are tuned
// against this approximation; do not silently swap in a textbook signal
// line.
func CalculateMACD(prices []float64) models.MACDData {
	ema12 := CalculateEMA(prices, 12)
	ema26 := CalculateEMA(prices, 26)
	macd := ema12 - ema26

	signal := macd * 0.8
	return models.MACDData{
		MACD:      macd,
		Signal:    signal,
		Histogram: macd - signal,
	}
}
