package fundamental

import (
	"fmt"
	"math"
	"time"

	"cryptosignal/models"
)

// Bitcoin halving schedule constants.
const (
	lastHalvingDate  = "2024-04-20"
	lastHalvingBlock = 840000
	lastHalvingPrice = 63500
	nextHalvingBlock = 1050000
	avgBlockMinutes  = 10
	defaultBlock     = 883500 // fixed current-block reference
)

// lastHalvingTime is the parsed form of lastHalvingDate.
var lastHalvingTime = time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC)

// historicalHalvings records price behavior around every halving so far.
var historicalHalvings = []models.HalvingPerformance{
	{HalvingNumber: 1, Date: "2012-11-28", PriceAtHalving: 12.35, PriceAfter1Year: 1000, PercentGain: 8000},
	{HalvingNumber: 2, Date: "2016-07-09", PriceAtHalving: 650.63, PriceAfter1Year: 2500, PercentGain: 284},
	{HalvingNumber: 3, Date: "2020-05-11", PriceAtHalving: 8821, PriceAfter1Year: 55000, PercentGain: 523},
	{HalvingNumber: 4, Date: "2024-04-20", PriceAtHalving: 63500, PriceAfter1Year: 0, PercentGain: 0}, // current cycle
}

// HalvingSchedule computes the cycle position from the halving schedule
// and the fixed current-block reference.
func (e *Engine) HalvingSchedule() models.HalvingData {
	now := e.now()

	blocksRemaining := nextHalvingBlock - e.currentBlock
	daysRemaining := int(blocksRemaining * avgBlockMinutes / 60 / 24)

	daysSinceHalving := int(now.Sub(lastHalvingTime).Hours() / 24)

	cycleLength := daysSinceHalving + daysRemaining
	cycleProgress := 0
	if cycleLength > 0 {
		cycleProgress = int(math.Round(float64(daysSinceHalving) / float64(cycleLength) * 100))
	}

	phase := PhaseFor(daysSinceHalving)

	return models.HalvingData{
		LastHalving: models.HalvingInfo{
			Date:           lastHalvingDate,
			Block:          lastHalvingBlock,
			PriceAtHalving: lastHalvingPrice,
		},
		NextHalving: models.NextHalving{
			EstimatedDate:   now.AddDate(0, 0, daysRemaining).Format("2006-01-02"),
			EstimatedBlock:  nextHalvingBlock,
			CurrentBlock:    e.currentBlock,
			BlocksRemaining: blocksRemaining,
			DaysRemaining:   daysRemaining,
		},
		CyclePhase:            phase,
		CycleProgress:         cycleProgress,
		HistoricalPerformance: historicalHalvings,
		AnalysisNote:          fmt.Sprintf("We are in the %s phase of the halving cycle.", phase),
	}
}

// PhaseFor maps days since the last halving onto the cycle phase.
func PhaseFor(daysSinceHalving int) models.CyclePhase {
	switch {
	case daysSinceHalving < 365:
		return models.PhaseAccumulation // first year post-halving
	case daysSinceHalving < 550:
		return models.PhaseMarkup // bull run typically 12-18 months out
	case daysSinceHalving < 800:
		return models.PhaseDistribution
	default:
		return models.PhaseMarkdown
	}
}
