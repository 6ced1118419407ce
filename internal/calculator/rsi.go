package calculator

import (
	"errors"

	"TradeMind/internal/model"
)

// RSISeries returns the RSI pane for candles: one point per bar from the
// period-th change onwards, smoothed Wilder style. It is empty when the
// series is not longer than period.
func RSISeries(candles []model.Candle, period int) ([]model.SeriesPoint, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(candles) <= period {
		return nil, nil
	}

	out := make([]model.SeriesPoint, 0, len(candles)-period)
	var gain, loss float64
	for i := 1; i < len(candles); i++ {
		up, down := split(candles[i].Close - candles[i-1].Close)
		switch {
		case i < period:
			gain += up
			loss += down
			continue
		case i == period:
			gain = (gain + up) / float64(period)
			loss = (loss + down) / float64(period)
		default:
			gain = (gain*float64(period-1) + up) / float64(period)
			loss = (loss*float64(period-1) + down) / float64(period)
		}
		out = append(out, model.SeriesPoint{Time: candles[i].Time, Value: rsi(gain, loss)})
	}
	return out, nil
}

func split(change float64) (up, down float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

func rsi(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}
