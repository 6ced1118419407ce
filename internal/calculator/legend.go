package calculator

import (
	"TradeMind/internal/model"

	"github.com/rs/zerolog/log"
)

const (
	rsiPeriod     = 14
	maPeriod      = 20
	rangeLookback = 30
)

// Legend computes the chart legend for the enabled indicators. Unknown names
// (for example "Vol", which synthetic candles carry no data for) are skipped.
func Legend(candles []model.Candle, indicators []string) model.Legend {
	var lg model.Legend
	if len(candles) == 0 {
		return lg
	}
	lg.LastClose = candles[len(candles)-1].Close

	for _, name := range indicators {
		switch name {
		case "RSI":
			pane, err := RSISeries(candles, rsiPeriod)
			if err != nil || len(pane) == 0 {
				log.Debug().Int("bars", len(candles)).Msg("RSI unavailable for legend")
				continue
			}
			v := pane[len(pane)-1].Value
			lg.RSI, lg.RSIPane = &v, pane
		case "MA":
			if v, err := CalculateMA(candles, maPeriod); err != nil {
				log.Debug().Err(err).Msg("MA unavailable for legend")
			} else {
				lg.MA = &v
			}
		case "Range":
			if h, l, err := CalculateRange(candles, rangeLookback); err == nil {
				lg.RangeHigh, lg.RangeLow = &h, &l
			}
		}
	}
	return lg
}
