package models

import (
	"encoding/json"
	"math"
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

var temperaturePattern = regexp.MustCompile(`^-?\d+°`)

func TestFormatTemperature(t *testing.T) {
	Convey("Given metric temperatures", t, func() {
		Convey("fractions round to the nearest integer", func() {
			So(FormatTemperature(21.6, Metric), ShouldEqual, "22°C")
			So(FormatTemperature(21.4, Metric), ShouldEqual, "21°C")
		})

		Convey("small negatives never print as -0", func() {
			So(FormatTemperature(-0.3, Metric), ShouldEqual, "0°C")
			So(FormatTemperature(-0.0, Metric), ShouldEqual, "0°C")
		})

		Convey("halves round away from zero", func() {
			So(FormatTemperature(0.5, Metric), ShouldEqual, "1°C")
			So(FormatTemperature(2.5, Metric), ShouldEqual, "3°C")
			So(FormatTemperature(-0.5, Metric), ShouldEqual, "-1°C")
			So(FormatTemperature(-2.5, Metric), ShouldEqual, "-3°C")
		})

		Convey("every result matches the display pattern", func() {
			for _, v := range []float64{-40.2, -1.5, 0, 0.49, 37.9, 100} {
				So(temperaturePattern.MatchString(FormatTemperature(v, Metric)), ShouldBeTrue)
			}
		})
	})

	Convey("Imperial temperatures use the Fahrenheit symbol", t, func() {
		So(FormatTemperature(70.5, Imperial), ShouldEqual, "71°F")
	})
}

func TestParseUnits(t *testing.T) {
	Convey("ParseUnits accepts only known scales", t, func() {
		u, err := ParseUnits("imperial")
		So(err, ShouldBeNil)
		So(u, ShouldEqual, Imperial)

		_, err = ParseUnits("kelvin")
		So(err, ShouldNotBeNil)
	})
}

func TestConditionTables(t *testing.T) {
	known := make(map[string]bool)
	for _, name := range KnownIconNames {
		known[name] = true
	}

	Convey("Every defined condition code maps to a known icon", t, func() {
		for name, table := range map[string]ConditionTable{
			"openweathermap": OpenWeatherMapConditions,
			"weatherapi":     WeatherAPIConditions,
		} {
			for code := range table {
				icon := table.IconName(code)
				So(icon, ShouldNotBeEmpty)
				if !known[icon] {
					t.Errorf("%s code %d maps to unknown icon %q", name, code, icon)
				}
			}
		}
	})

	Convey("Unrecognized codes fall back to a defined icon", t, func() {
		So(FallbackIconName, ShouldNotBeEmpty)
		So(known[FallbackIconName], ShouldBeTrue)
		So(OpenWeatherMapConditions.IconName(999), ShouldEqual, FallbackIconName)
		So(OpenWeatherMapConditions.IconName(-1), ShouldEqual, FallbackIconName)
		So(WeatherAPIConditions.IconName(800), ShouldEqual, FallbackIconName)
		So(ConditionTable(nil).IconName(800), ShouldEqual, FallbackIconName)
	})

	Convey("Group representatives map as expected", t, func() {
		So(OpenWeatherMapConditions.IconName(800), ShouldEqual, IconClear)
		So(OpenWeatherMapConditions.IconName(501), ShouldEqual, IconRain)
		So(OpenWeatherMapConditions.IconName(601), ShouldEqual, IconSnow)
		So(OpenWeatherMapConditions.IconName(211), ShouldEqual, IconThunderstorm)
		So(WeatherAPIConditions.IconName(1000), ShouldEqual, IconClear)
		So(WeatherAPIConditions.IconName(1276), ShouldEqual, IconThunderRain)
	})
}

func TestWeather(t *testing.T) {
	Convey("NewWeather builds the display fields", t, func() {
		w := NewWeather("London", 21.6, Metric, OpenWeatherMapConditions, 500)
		So(w.Name(), ShouldEqual, "London")
		So(w.Temperature(), ShouldEqual, "22°C")
		So(w.WeatherIconName(), ShouldEqual, IconRain)

		Convey("and serializes them as JSON", func() {
			b, err := json.Marshal(w)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"name":"London","temperature":"22°C","weatherIconName":"cloud.rain"}`)
		})
	})

	Convey("Results are tagged", t, func() {
		So(Success(Weather{}).OK(), ShouldBeTrue)
		So(Failure(json.Unmarshal([]byte("{"), &struct{}{})).OK(), ShouldBeFalse)
	})
}

func TestCoordinates(t *testing.T) {
	Convey("Coordinates validate their range", t, func() {
		So(Coordinates{Latitude: 51.5, Longitude: -0.12}.Validate(), ShouldBeNil)
		So(Coordinates{Latitude: 91}.Validate(), ShouldNotBeNil)
		So(Coordinates{Longitude: -181}.Validate(), ShouldNotBeNil)
		So(Coordinates{Latitude: math.NaN()}.Validate(), ShouldNotBeNil)
		So(Coordinates{Latitude: 51.5, Longitude: -0.12}.String(), ShouldEqual, "51.5,-0.12")
	})
}
