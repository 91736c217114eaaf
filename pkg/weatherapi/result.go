package weatherapi

import "github.com/goccy/go-json"

// WeatherResult is the normalized view of a current-conditions response.
// Optional fields are nil when the upstream omits them.
type WeatherResult struct {
	City        string   `json:"city"`
	Region      *string  `json:"region"`
	Country     *string  `json:"country"`
	LocalTime   *string  `json:"localtime"`
	TempC       *float64 `json:"temp_c"`
	TempF       *float64 `json:"temp_f"`
	Condition   *string  `json:"condition"`
	Humidity    *int     `json:"humidity"`
	WindMPH     *float64 `json:"wind_mph"`
	WindKPH     *float64 `json:"wind_kph"`
	LastUpdated *string  `json:"last_updated"`

	// Raw is the full decoded body. Numbers are kept as json.Number.
	Raw map[string]any `json:"raw,omitempty"`
}

// newResult projects the decoded body onto a WeatherResult. query is used as
// the city when the upstream does not name one.
func newResult(data map[string]any, query string) *WeatherResult {
	location := section(data, "location")
	current := section(data, "current")
	condition := section(current, "condition")

	city := query
	if name := stringField(location, "name"); name != nil && *name != "" {
		city = *name
	}

	return &WeatherResult{
		City:        city,
		Region:      stringField(location, "region"),
		Country:     stringField(location, "country"),
		LocalTime:   stringField(location, "localtime"),
		TempC:       floatField(current, "temp_c"),
		TempF:       floatField(current, "temp_f"),
		Condition:   stringField(condition, "text"),
		Humidity:    intField(current, "humidity"),
		WindMPH:     floatField(current, "wind_mph"),
		WindKPH:     floatField(current, "wind_kph"),
		LastUpdated: stringField(current, "last_updated"),
		Raw:         data,
	}
}

// section returns m[key] when it is an object, otherwise an empty map.
func section(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func stringField(m map[string]any, key string) *string {
	v, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func floatField(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return &f
	case float64:
		return &v
	default:
		return nil
	}
}

func intField(m map[string]any, key string) *int {
	switch v := m[key].(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			n := int(i)
			return &n
		}
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		n := int(f)
		return &n
	case float64:
		n := int(v)
		return &n
	default:
		return nil
	}
}
