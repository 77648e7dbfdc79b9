package portal

// Metric is the portal's value/unit pair. Value is a pointer so a missing
// reading can be told apart from an actual zero.
type Metric struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

// Float returns the metric value, or 0 when absent.
func (m *Metric) Float() float64 {
	if m == nil || m.Value == nil {
		return 0
	}
	return *m.Value
}

// Present reports whether the metric carries a value.
func (m *Metric) Present() bool {
	return m != nil && m.Value != nil
}

// RawSnapshot mirrors the realtime payload exactly as the portal returns it.
// It is transient: the normalizer converts it into a canonical record and the
// raw form is discarded (except for -json output).
type RawSnapshot struct {
	Clock      *Clock       `json:"clock"`
	PV         *Metric      `json:"pv"`
	Consumed   *Metric      `json:"consumed"`
	Purchased  *Metric      `json:"purchased"`
	Sold       *Metric      `json:"sold"`
	Battery    *RawBattery  `json:"battery"`
	GenTotal   *Metric      `json:"gentotal"`
	ReducedCO2 *Metric      `json:"reduced_co2"`
	Status     *StatusBlock `json:"status"`
	Weather    *Weather     `json:"weather"`
	Meteorol   *Meteorol    `json:"meteorol"`
}

// Clock carries the portal's notion of site-local time.
type Clock struct {
	Now  string `json:"now"` // RFC 3339 with offset
	Time string `json:"time"`
}

// RawBattery mirrors the nested battery block. Charge and discharge are
// reported as separate non-negative flows.
type RawBattery struct {
	RemainingRate *Metric `json:"remaining_rate"`
	Charge        *Metric `json:"charge"`
	Discharge     *Metric `json:"discharge"`
	Status        int     `json:"status"`
}

// StatusBlock carries system alert text, when any.
type StatusBlock struct {
	Message string `json:"message"`
}

// Weather mirrors the portal's weather zone info.
type Weather struct {
	ZoneName    string `json:"zone_name"`
	WeatherIcon string `json:"weather_icon"`
}

// Meteorol mirrors the portal's meteorological readings.
type Meteorol struct {
	TempC         *float64 `json:"temp"`
	Humidity      *float64 `json:"humidity"`
	CloudCover    *float64 `json:"tcdc_surface"`
	Precipitation *float64 `json:"apcp_surface"`
	WindVelocity  *float64 `json:"wind_velocity"`
	WindDirection string   `json:"wind_direction"`
}
