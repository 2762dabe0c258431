package tvmaze

// ShowRecord is a TVmaze show document with embedded episodes.
// Null and missing values decode to zero values; validate tags reject the
// ones that are required.
type ShowRecord struct {
	ID        int       `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Language  string    `json:"language"`
	Genres    []string  `json:"genres"`
	Premiered string    `json:"premiered" validate:"omitempty,datetime=2006-01-02"`
	Summary   string    `json:"summary"`
	Rating    *Rating   `json:"rating"`
	Network   *Network  `json:"network"`
	Embedded  *Embedded `json:"_embedded"`
}

// Rating is the show's average audience rating.
type Rating struct {
	Average float64 `json:"average" validate:"gte=0"`
}

// Network is the broadcasting network.
type Network struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Embedded holds the embedded resources requested with ?embed=episodes.
type Embedded struct {
	Episodes []*EpisodeRecord `json:"episodes"`
}

// EpisodeRecord is a single episode within a show document.
type EpisodeRecord struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Season  int    `json:"season" validate:"required,gte=1,lte=1000"`
	Number  int    `json:"number" validate:"required,gte=1,lte=10000"`
	Airdate string `json:"airdate" validate:"omitempty,datetime=2006-01-02"`
	Summary string `json:"summary"`
	Runtime int    `json:"runtime" validate:"gte=0"`
}
