package httpapi

// Condition is a coarse weather condition used to pick card styling.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionFog     Condition = "fog"
	ConditionDrizzle Condition = "drizzle"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
)

type conditionInfo struct {
	Kind        Condition
	Description string
	Icon        string
}

// describeCode maps a WMO weather code as reported by Open-Meteo to display
// text and an icon name.
func describeCode(code int) conditionInfo {
	switch code {
	case 0:
		return conditionInfo{ConditionClear, "Clear sky", "sun"}
	case 1:
		return conditionInfo{ConditionClear, "Mainly clear", "sun"}
	case 2:
		return conditionInfo{ConditionCloudy, "Partly cloudy", "cloud-sun"}
	case 3:
		return conditionInfo{ConditionCloudy, "Overcast", "cloud"}
	case 45, 48:
		return conditionInfo{ConditionFog, "Fog", "fog"}
	case 51, 53, 55:
		return conditionInfo{ConditionDrizzle, "Drizzle", "drizzle"}
	case 56, 57:
		return conditionInfo{ConditionDrizzle, "Freezing drizzle", "drizzle"}
	case 61, 63, 65:
		return conditionInfo{ConditionRain, "Rain", "rain"}
	case 66, 67:
		return conditionInfo{ConditionRain, "Freezing rain", "rain"}
	case 71, 73, 75:
		return conditionInfo{ConditionSnow, "Snow", "snow"}
	case 77:
		return conditionInfo{ConditionSnow, "Snow grains", "snow"}
	case 80, 81, 82:
		return conditionInfo{ConditionRain, "Rain showers", "rain"}
	case 85, 86:
		return conditionInfo{ConditionSnow, "Snow showers", "snow"}
	case 95:
		return conditionInfo{ConditionStorm, "Thunderstorm", "storm"}
	case 96, 99:
		return conditionInfo{ConditionStorm, "Thunderstorm with hail", "storm"}
	default:
		return conditionInfo{ConditionUnknown, "Unknown", "cloud"}
	}
}
