package blocked

import (
	"fleetblock-backend/lib/textutil"
	"sort"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
)

// AllLocations is the location id that disables location filtering.
const AllLocations = 0

type Location struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var DefaultLocations = []Location{
	{ID: 9, Code: "SYD", Name: "Sydney"},
	{ID: 1, Code: "MEL", Name: "Melbourne"},
	{ID: 2, Code: "BNE", Name: "Brisbane"},
	{ID: 3, Code: "ADL", Name: "Adelaide"},
	{ID: 4, Code: "PER", Name: "Perth"},
	{ID: 5, Code: "OOL", Name: "Gold Coast"},
	{ID: 6, Code: "CNS", Name: "Cairns"},
	{ID: 7, Code: "HBA", Name: "Hobart"},
	{ID: 8, Code: "DRW", Name: "Darwin"},
}

// DefaultCategory is fetched when a request names no categories.
const DefaultCategory = 47

var DefaultCategories = []Category{
	{ID: DefaultCategory, Name: "Default fleet"},
}

// LocationTable maps location ids to the short codes the booking rows carry.
type LocationTable []Location

func (t LocationTable) Code(id int) (string, bool) {
	for _, loc := range t {
		if loc.ID == id {
			return loc.Code, true
		}
	}
	return "", false
}

// minimum Jaro-Winkler similarity for a fuzzy location match
const locationMatchThreshold = 0.8

// FindLocation looks a location up by id, code or (approximately) name.
func (t LocationTable) FindLocation(query string) (Location, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Location{}, false
	}

	id, err := strconv.Atoi(query)
	if err == nil {
		for _, loc := range t {
			if loc.ID == id {
				return loc, true
			}
		}
		return Location{}, false
	}

	needle := textutil.NormalizeName(query)
	for _, loc := range t {
		if textutil.NormalizeName(loc.Code) == needle || textutil.NormalizeName(loc.Name) == needle {
			return loc, true
		}
	}

	var best Location
	var bestScore float64
	for _, loc := range t {
		score := matchr.JaroWinkler(needle, textutil.NormalizeName(loc.Name), false)
		if score > bestScore {
			bestScore = score
			best = loc
		}
	}
	if bestScore < locationMatchThreshold {
		return Location{}, false
	}
	return best, true
}

// Sorted returns a copy of the table ordered by name.
func (t LocationTable) Sorted() LocationTable {
	out := make(LocationTable, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
