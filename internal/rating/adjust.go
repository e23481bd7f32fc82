package rating

// Usage/SOS regression constants. The ORtg spread narrows as usage grows;
// referenceSD is the spread at 20% usage.
const (
	sdUsageSlope     = -0.144
	sdIntercept      = 13.023
	referenceSD      = 10.143
	bonusUsagePivot  = 20.0
	bonusAbovePivot  = 1.25
	bonusBelowPivot  = 1.5
	drtgPlayerWeight = 0.2
)

// SDAtUsage returns the ORtg standard deviation expected at a usage (percent).
func SDAtUsage(usage float64) float64 {
	return usage*sdUsageSlope + sdIntercept
}

// UsageBonus is the credit (or penalty below 20%) for carrying a larger share
// of the offense.
func UsageBonus(usage float64) float64 {
	if usage > bonusUsagePivot {
		return bonusAbovePivot * (usage - bonusUsagePivot)
	}
	return bonusBelowPivot * (usage - bonusUsagePivot)
}

// AdjustORtg regresses a raw ORtg toward avgEfficiency in units of the
// usage-dependent spread, adds the usage bonus and scales by schedule
// strength. A non-positive adjOppDef yields 0.
func AdjustORtg(ortg, usage, avgEfficiency, adjOppDef float64) float64 {
	if adjOppDef <= 0 {
		return 0
	}
	sd := SDAtUsage(usage)
	if sd <= 0 {
		sd = referenceSD
	}
	regressed := avgEfficiency + (ortg-avgEfficiency)/sd*referenceSD
	return (regressed + UsageBonus(usage)) * avgEfficiency / adjOppDef
}

// AdjustDRtg scales a DRtg by schedule strength: dRtg * avgEfficiency /
// adjOppOff when adjOppOff > 0, else 0.
func AdjustDRtg(drtg, avgEfficiency, adjOppOff float64) float64 {
	if adjOppOff <= 0 {
		return 0
	}
	return drtg * avgEfficiency / adjOppOff
}

func adjustORtg(d *ORtgDiagnostics, adjOppDef, avgEfficiency float64) {
	d.AvgEfficiency = avgEfficiency
	d.AdjOppDef = adjOppDef
	d.SDAtUsage = SDAtUsage(d.Usage)
	d.UsageBonus = UsageBonus(d.Usage)
	if adjOppDef > 0 {
		d.SOSFactor = avgEfficiency / adjOppDef
		sd := d.SDAtUsage
		if sd <= 0 {
			sd = referenceSD
		}
		d.Regressed = avgEfficiency + (d.ORtg-avgEfficiency)/sd*referenceSD
	}
	d.AdjORtg = AdjustORtg(d.ORtg, d.Usage, avgEfficiency, adjOppDef)
}
