package models

// Icon names are SF Symbols identifiers so a client can render them directly
const (
	IconThunderstorm = "cloud.bolt"
	IconThunderRain  = "cloud.bolt.rain"
	IconDrizzle      = "cloud.drizzle"
	IconRain         = "cloud.rain"
	IconHeavyRain    = "cloud.heavyrain"
	IconSleet        = "cloud.sleet"
	IconSnow         = "cloud.snow"
	IconFog          = "cloud.fog"
	IconDust         = "sun.dust"
	IconSmoke        = "smoke"
	IconWind         = "wind"
	IconTornado      = "tornado"
	IconClear        = "sun.max"
	IconPartlyCloudy = "cloud.sun"
	IconCloudy       = "cloud"

	// FallbackIconName is used for condition codes missing from a table
	FallbackIconName = IconCloudy
)

// KnownIconNames lists every icon a ConditionTable may return
var KnownIconNames = []string{
	IconThunderstorm, IconThunderRain, IconDrizzle, IconRain, IconHeavyRain,
	IconSleet, IconSnow, IconFog, IconDust, IconSmoke, IconWind, IconTornado,
	IconClear, IconPartlyCloudy, IconCloudy,
}

// ConditionTable maps a provider's condition codes to icon names
type ConditionTable map[int]string

// IconName looks up a condition code, falling back for unknown codes
func (t ConditionTable) IconName(code int) string {
	if icon, ok := t[code]; ok && icon != "" {
		return icon
	}
	return FallbackIconName
}

// OpenWeatherMapConditions covers the weather[].id codes of the current weather API
var OpenWeatherMapConditions = ConditionTable{
	// group 2xx: thunderstorm
	200: IconThunderRain, 201: IconThunderRain, 202: IconThunderRain,
	210: IconThunderstorm, 211: IconThunderstorm, 212: IconThunderstorm, 221: IconThunderstorm,
	230: IconThunderRain, 231: IconThunderRain, 232: IconThunderRain,

	// group 3xx: drizzle
	300: IconDrizzle, 301: IconDrizzle, 302: IconDrizzle,
	310: IconDrizzle, 311: IconDrizzle, 312: IconDrizzle, 313: IconDrizzle, 314: IconDrizzle,
	321: IconDrizzle,

	// group 5xx: rain
	500: IconRain, 501: IconRain,
	502: IconHeavyRain, 503: IconHeavyRain, 504: IconHeavyRain,
	511: IconSleet,
	520: IconRain, 521: IconRain, 522: IconHeavyRain, 531: IconRain,

	// group 6xx: snow
	600: IconSnow, 601: IconSnow, 602: IconSnow,
	611: IconSleet, 612: IconSleet, 613: IconSleet, 615: IconSleet, 616: IconSleet,
	620: IconSnow, 621: IconSnow, 622: IconSnow,

	// group 7xx: atmosphere
	701: IconFog, 711: IconSmoke, 721: IconFog, 731: IconDust, 741: IconFog,
	751: IconDust, 761: IconDust, 762: IconSmoke, 771: IconWind, 781: IconTornado,

	// group 800: clear, 80x: clouds
	800: IconClear,
	801: IconPartlyCloudy, 802: IconPartlyCloudy,
	803: IconCloudy, 804: IconCloudy,
}

// WeatherAPIConditions covers current.condition.code of weatherapi.com
var WeatherAPIConditions = ConditionTable{
	1000: IconClear,
	1003: IconPartlyCloudy,
	1006: IconCloudy, 1009: IconCloudy,
	1030: IconFog, 1135: IconFog, 1147: IconFog,
	1063: IconRain, 1180: IconRain, 1183: IconRain, 1186: IconRain, 1189: IconRain,
	1192: IconHeavyRain, 1195: IconHeavyRain, 1240: IconRain, 1243: IconHeavyRain, 1246: IconHeavyRain,
	1150: IconDrizzle, 1153: IconDrizzle,
	1066: IconSnow, 1114: IconSnow, 1117: IconSnow, 1210: IconSnow, 1213: IconSnow,
	1216: IconSnow, 1219: IconSnow, 1222: IconSnow, 1225: IconSnow, 1255: IconSnow, 1258: IconSnow,
	1069: IconSleet, 1072: IconSleet, 1168: IconSleet, 1171: IconSleet, 1198: IconSleet,
	1201: IconSleet, 1204: IconSleet, 1207: IconSleet, 1237: IconSleet, 1249: IconSleet,
	1252: IconSleet, 1261: IconSleet, 1264: IconSleet,
	1087: IconThunderstorm, 1279: IconThunderstorm, 1282: IconThunderstorm,
	1273: IconThunderRain, 1276: IconThunderRain,
}
