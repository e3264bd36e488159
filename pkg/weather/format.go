package weather

import (
	"fmt"
	"strings"
)

var icons = map[string]string{
	"01": "☀️", "02": "⛅", "03": "☁️", "04": "☁️",
	"09": "🌧", "10": "🌦", "11": "⛈", "13": "🌨", "50": "🌫",
}

// Format renders current conditions, a clothing hint and, when forecast has
// entries, the day's forecast.
func Format(cur Current, forecast *Forecast) string {
	icon := "🌤"
	if len(cur.Icon) >= 2 {
		if v, ok := icons[cur.Icon[:2]]; ok {
			icon = v
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s: %d°C (feels like %d°C)\n", icon, cur.City, cur.Temp, cur.FeelsLike)
	fmt.Fprintf(&sb, "%s, humidity %d%%, wind %d m/s\n", cur.Description, cur.Humidity, cur.Wind)

	if hint := clothingHint(cur.Temp); hint != "" {
		sb.WriteString("\n" + hint)
	}

	if forecast != nil && len(forecast.Entries) > 0 {
		fmt.Fprintf(&sb, "\n\n📊 Forecast for %s:\n", forecast.Date)
		for _, e := range forecast.Entries {
			fmt.Fprintf(&sb, "  %s: %d°C, %s\n", e.Time, e.Temp, e.Description)
		}
	}
	return sb.String()
}

func clothingHint(temp int) string {
	switch {
	case temp < 0:
		return "🧥 Dress warmly, it is freezing outside."
	case temp < 10:
		return "🧣 It is chilly, take a jacket."
	case temp > 30:
		return "🥤 It is hot, bring water."
	}
	return ""
}
