package overpass

// response mirrors the Overpass API JSON envelope
type response struct {
	Elements []element `json:"elements"`
}

// element represents one element of the Overpass "elements" array
type element struct {
	ID      int64             `json:"id"`
	Type    string            `json:"type"`
	Tags    map[string]string `json:"tags,omitempty"`
	Members []member          `json:"members,omitempty"`
}

// member is one relation member; geometry is present with "out geom"
type member struct {
	Type     string   `json:"type"`
	Ref      int64    `json:"ref"`
	Role     string   `json:"role"`
	Geometry []latLon `json:"geometry,omitempty"`
}

type latLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
