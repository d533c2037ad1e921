package weather

// Merge reconciles a history window with a forecast window. The result has the
// history's length and date order; days whose date also appears in forecast
// take the forecast's temperature, precipitation, humidity and wind speed, while
// every other field (tmax, tmin, provenance) stays as recorded in history.
func Merge(history, forecast []Day) []Day {
	if history == nil {
		return nil
	}

	byDate := make(map[string]Day, len(forecast))
	for _, f := range forecast {
		k := DateKey(f.Date)
		if _, dup := byDate[k]; !dup {
			byDate[k] = f
		}
	}

	merged := make([]Day, len(history))
	for i, h := range history {
		merged[i] = h
		f, ok := byDate[DateKey(h.Date)]
		if !ok {
			continue
		}
		merged[i].TemperatureC = f.TemperatureC
		merged[i].PrecipitationMM = f.PrecipitationMM
		merged[i].Humidity = f.Humidity
		merged[i].WindSpeedMS = f.WindSpeedMS
	}
	return merged
}
