package weather

const (
	// RainyDayThresholdMM is the exclusive per-day precipitation bound for a rainy day.
	RainyDayThresholdMM = 0.5
	// RainyMeanThresholdMM is the exclusive mean precipitation bound for a rainy window.
	RainyMeanThresholdMM = 2.0
)

// Outlook is the classification of a forecast window together with its tallies.
type Outlook struct {
	Class      Class   `json:"class"`
	SunnyDays  int     `json:"sunnyDays"`
	RainyDays  int     `json:"rainyDays"`
	MeanPrecip float64 `json:"meanPrecipMm"`
}

// Classify derives the outlook of a forecast window. A window is rainy when rainy
// days outnumber sunny days or the mean precipitation exceeds RainyMeanThresholdMM.
// ok is false for an empty window, in which case callers keep their previous class.
func Classify(forecast []Day) (Outlook, bool) {
	if len(forecast) == 0 {
		return Outlook{}, false
	}

	var out Outlook
	var total float64
	for _, d := range forecast {
		total += d.PrecipitationMM
		if d.PrecipitationMM > RainyDayThresholdMM {
			out.RainyDays++
		} else {
			out.SunnyDays++
		}
	}
	out.MeanPrecip = total / float64(len(forecast))

	out.Class = ClassSunny
	if out.RainyDays > out.SunnyDays || out.MeanPrecip > RainyMeanThresholdMM {
		out.Class = ClassRainy
	}
	return out, true
}
