package geocoding

// searchResponse mirrors the geocoder's search payload. Only the consumed
// fields are declared.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Admin1    string  `json:"admin1"`
	Country   string  `json:"country"`
}
