// Package catalog is a read-only client for the Art Institute of Chicago
// artworks endpoint.
package catalog

// Record is one artwork row as returned by the catalog.
type Record struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	PlaceOfOrigin string  `json:"place_of_origin"`
	ArtistDisplay string  `json:"artist_display"`
	Inscriptions  *string `json:"inscriptions"`
	DateStart     *int    `json:"date_start"`
	DateEnd       *int    `json:"date_end"`
}

// Pagination is the metadata block of a page response.
type Pagination struct {
	Total       int    `json:"total"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	NextURL     string `json:"next_url,omitempty"`
}

// PageResponse is one page of records plus its pagination metadata.
type PageResponse struct {
	Pagination Pagination `json:"pagination"`
	Data       []Record   `json:"data"`
}

// IDs returns the identifiers of the page's records in page order.
func (p *PageResponse) IDs() []int64 {
	ids := make([]int64, len(p.Data))
	for i, r := range p.Data {
		ids[i] = r.ID
	}
	return ids
}

type idOnly struct {
	ID int64 `json:"id"`
}

type idResponse struct {
	Data []idOnly `json:"data"`
}

// recordFields are requested explicitly so the catalog skips the rest of the
// artwork body.
var recordFields = "id,title,place_of_origin,artist_display,inscriptions,date_start,date_end"
