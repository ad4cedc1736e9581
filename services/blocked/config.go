package blocked

// Config is the json5 form of Options.
type Config struct {
	BatchSize         int        `json:"batch_size"`
	DefaultCategories []int      `json:"default_categories"`
	Locations         []Location `json:"locations"`
	Categories        []Category `json:"categories"`
}

func (c Config) Options() Options {
	return Options{
		BatchSize:         c.BatchSize,
		DefaultCategories: c.DefaultCategories,
		Locations:         c.Locations,
		Categories:        c.Categories,
	}
}
