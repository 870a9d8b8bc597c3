// Package states resolves U.S. state and territory names to abbreviations
// and centroids, and groups case records by the states they list.
package states

import (
	"strings"

	"golang.org/x/text/cases"
)

// LatLng is a WGS84 coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// normalize folds case and trims surrounding whitespace. A Caser is not
// safe for concurrent use, so each call gets its own.
func normalize(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Abbreviation returns the lower-case postal abbreviation for a state or
// territory name. Matching ignores case.
func Abbreviation(name string) (string, bool) {
	abbr, ok := abbreviations[normalize(name)]
	return abbr, ok
}

// Coordinates returns the centroid for an abbreviation as produced by
// Abbreviation. Some territories have an abbreviation but no centroid.
func Coordinates(abbr string) (LatLng, bool) {
	c, ok := centroids[strings.ToLower(abbr)]
	return c, ok
}

// abbreviations is keyed by case-folded name.
var abbreviations = map[string]string{
	"alabama":                        "al",
	"alaska":                         "ak",
	"american samoa":                 "as",
	"arizona":                        "az",
	"arkansas":                       "ar",
	"california":                     "ca",
	"colorado":                       "co",
	"connecticut":                    "ct",
	"delaware":                       "de",
	"district of columbia":           "dc",
	"federated states of micronesia": "fm",
	"florida":                        "fl",
	"georgia":                        "ga",
	"guam":                           "gu",
	"hawaii":                         "hi",
	"idaho":                          "id",
	"illinois":                       "il",
	"indiana":                        "in",
	"iowa":                           "ia",
	"kansas":                         "ks",
	"kentucky":                       "ky",
	"louisiana":                      "la",
	"maine":                          "me",
	"marshall islands":               "mh",
	"maryland":                       "md",
	"massachusetts":                  "ma",
	"michigan":                       "mi",
	"minnesota":                      "mn",
	"mississippi":                    "ms",
	"missouri":                       "mo",
	"montana":                        "mt",
	"nebraska":                       "ne",
	"nevada":                         "nv",
	"new hampshire":                  "nh",
	"new jersey":                     "nj",
	"new mexico":                     "nm",
	"new york":                       "ny",
	"north carolina":                 "nc",
	"north dakota":                   "nd",
	"northern mariana islands":       "mp",
	"ohio":                           "oh",
	"oklahoma":                       "ok",
	"oregon":                         "or",
	"palau":                          "pw",
	"pennsylvania":                   "pa",
	"puerto rico":                    "pr",
	"rhode island":                   "ri",
	"south carolina":                 "sc",
	"south dakota":                   "sd",
	"tennessee":                      "tn",
	"texas":                          "tx",
	"utah":                           "ut",
	"vermont":                        "vt",
	"virgin islands":                 "vi",
	"virginia":                       "va",
	"washington":                     "wa",
	"west virginia":                  "wv",
	"wisconsin":                      "wi",
	"wyoming":                        "wy",
}

// centroids holds the geographic center of each state and territory.
// See: http://dev.maxmind.com/geoip/legacy/codes/state_latlon/
var centroids = map[string]LatLng{
	"ak": {61.3850, -152.2683},
	"al": {32.7990, -86.8073},
	"ar": {34.9513, -92.3809},
	"as": {14.2417, -170.7197},
	"az": {33.7712, -111.3877},
	"ca": {36.1700, -119.7462},
	"co": {39.0646, -105.3272},
	"ct": {41.5834, -72.7622},
	"dc": {38.8964, -77.0262},
	"de": {39.3498, -75.5148},
	"fl": {27.8333, -81.7170},
	"ga": {32.9866, -83.6487},
	"hi": {21.1098, -157.5311},
	"ia": {42.0046, -93.2140},
	"id": {44.2394, -114.5103},
	"il": {40.3363, -89.0022},
	"in": {39.8647, -86.2604},
	"ks": {38.5111, -96.8005},
	"ky": {37.6690, -84.6514},
	"la": {31.1801, -91.8749},
	"ma": {42.2373, -71.5314},
	"md": {39.0724, -76.7902},
	"me": {44.6074, -69.3977},
	"mi": {43.3504, -84.5603},
	"mn": {45.7326, -93.9196},
	"mo": {38.4623, -92.3020},
	"mp": {14.8058, 145.5505},
	"ms": {32.7673, -89.6812},
	"mt": {46.9048, -110.3261},
	"nc": {35.6411, -79.8431},
	"nd": {47.5362, -99.7930},
	"ne": {41.1289, -98.2883},
	"nh": {43.4108, -71.5653},
	"nj": {40.3140, -74.5089},
	"nm": {34.8375, -106.2371},
	"nv": {38.4199, -117.1219},
	"ny": {42.1497, -74.9384},
	"oh": {40.3736, -82.7755},
	"ok": {35.5376, -96.9247},
	"or": {44.5672, -122.1269},
	"pa": {40.5773, -77.2640},
	"pr": {18.2766, -66.3350},
	"ri": {41.6772, -71.5101},
	"sc": {33.8191, -80.9066},
	"sd": {44.2853, -99.4632},
	"tn": {35.7449, -86.7489},
	"tx": {31.1060, -97.6475},
	"ut": {40.1135, -111.8535},
	"va": {37.7680, -78.2057},
	"vi": {18.0001, -64.8199},
	"vt": {44.0407, -72.7093},
	"wa": {47.3917, -121.5708},
	"wi": {44.2563, -89.6385},
	"wv": {38.4680, -80.9696},
	"wy": {42.7475, -107.2085},
}
