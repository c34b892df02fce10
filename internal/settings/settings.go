// Package settings holds the kiosk's per-camp configuration: camp and
// service numbers plus the camp, Mina and Arafat coordinates.
package settings

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/i474232898/hajj-kiosk/internal/qibla"
)

// Persisted keys.
const (
	KeyCampNo    = "campNo"
	KeyServiceNo = "serviceNo"
	KeyLat       = "lat"
	KeyLng       = "lng"
	KeyMinaLat   = "minaLat"
	KeyMinaLng   = "minaLng"
	KeyArafatLat = "arafatLat"
	KeyArafatLng = "arafatLng"
)

// Settings is an immutable snapshot of the kiosk configuration. Values are
// kept as entered; coordinate accessors parse them on demand.
type Settings struct {
	CampNo    string `json:"campNo"`
	ServiceNo string `json:"serviceNo"`
	Lat       string `json:"lat"`
	Lng       string `json:"lng"`
	MinaLat   string `json:"minaLat"`
	MinaLng   string `json:"minaLng"`
	ArafatLat string `json:"arafatLat"`
	ArafatLng string `json:"arafatLng"`
}

// Defaults returns the coordinates of the reference camp.
func Defaults() Settings {
	return Settings{
		Lat:       "21.3745089",
		Lng:       "39.8327681",
		MinaLat:   "21.415722",
		MinaLng:   "39.881108",
		ArafatLat: "21.3491038",
		ArafatLng: "39.9809327",
	}
}

func (s *Settings) fields() []struct {
	key string
	val *string
} {
	return []struct {
		key string
		val *string
	}{
		{KeyCampNo, &s.CampNo},
		{KeyServiceNo, &s.ServiceNo},
		{KeyLat, &s.Lat},
		{KeyLng, &s.Lng},
		{KeyMinaLat, &s.MinaLat},
		{KeyMinaLng, &s.MinaLng},
		{KeyArafatLat, &s.ArafatLat},
		{KeyArafatLng, &s.ArafatLng},
	}
}

// ToMap returns the settings keyed by their persisted names.
func (s Settings) ToMap() map[string]string {
	m := make(map[string]string, 8)
	for _, f := range s.fields() {
		m[f.key] = *f.val
	}
	return m
}

// Merge returns s with every non-empty value of m applied. Unknown keys are
// ignored.
func (s Settings) Merge(m map[string]string) Settings {
	for _, f := range s.fields() {
		if v := m[f.key]; v != "" {
			*f.val = v
		}
	}
	return s
}

// queryKeys maps URL parameters to persisted keys. Camp and service numbers
// use shorter parameter names.
var queryKeys = map[string]string{
	"camp":      KeyCampNo,
	"service":   KeyServiceNo,
	"lat":       KeyLat,
	"lng":       KeyLng,
	"minaLat":   KeyMinaLat,
	"minaLng":   KeyMinaLng,
	"arafatLat": KeyArafatLat,
	"arafatLng": KeyArafatLng,
}

// WithOverrides applies URL query parameters on top of s. A parameter wins
// over the stored value whenever it is present and non-empty.
func (s Settings) WithOverrides(q url.Values) Settings {
	m := make(map[string]string)
	for param, key := range queryKeys {
		if v := q.Get(param); v != "" {
			m[key] = v
		}
	}
	return s.Merge(m)
}

// Trimmed returns s with surrounding whitespace removed from every value.
func (s Settings) Trimmed() Settings {
	for _, f := range s.fields() {
		*f.val = strings.TrimSpace(*f.val)
	}
	return s
}

// Camp returns the camp coordinate if both values parse.
func (s Settings) Camp() (qibla.Coordinate, bool) { return qibla.ParseCoordinate(s.Lat, s.Lng) }

// Mina returns the Mina assembly point if both values parse.
func (s Settings) Mina() (qibla.Coordinate, bool) { return qibla.ParseCoordinate(s.MinaLat, s.MinaLng) }

// Arafat returns the Arafat camp coordinate if both values parse.
func (s Settings) Arafat() (qibla.Coordinate, bool) {
	return qibla.ParseCoordinate(s.ArafatLat, s.ArafatLng)
}

// AssemblyPointURL links to the Mina assembly point on a map, or returns ""
// when it is not set.
func (s Settings) AssemblyPointURL() string {
	if s.MinaLat == "" || s.MinaLng == "" {
		return ""
	}
	return fmt.Sprintf("https://maps.google.com/?q=%s,%s", s.MinaLat, s.MinaLng)
}

// AssemblyPointQR returns an image URL of a QR code for AssemblyPointURL.
func (s Settings) AssemblyPointQR() string {
	link := s.AssemblyPointURL()
	if link == "" {
		return ""
	}
	return "https://api.qrserver.com/v1/create-qr-code/?size=220x220&data=" + url.QueryEscape(link)
}
