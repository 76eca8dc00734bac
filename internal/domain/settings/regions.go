package settings

// regionCountries maps the selectable regions to the country string the
// city-keyed API expects. Unknown regions default to Sri Lanka, the
// authority's home country.
var regionCountries = map[string]string{
	"Colombo":      "Sri Lanka",
	"Kandy":        "Sri Lanka",
	"Galle":        "Sri Lanka",
	"Jaffna":       "Sri Lanka",
	"Batticaloa":   "Sri Lanka",
	"Trincomalee":  "Sri Lanka",
	"Kurunegala":   "Sri Lanka",
	"Anuradhapura": "Sri Lanka",
	"Chennai":      "India",
	"Male":         "Maldives",
}

// CountryForRegion resolves the country parameter for a region.
func CountryForRegion(region string) string {
	if country, ok := regionCountries[region]; ok {
		return country
	}
	return "Sri Lanka"
}
