package models

// Category represents one device/orientation bucket, eg "iPhone Portrait"
type Category struct {
	File     string    `json:"file"`
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`
}

// Section represents a group of screenshots inside a category, eg "Dashboard"
type Section struct {
	File   string  `json:"file"`
	Name   string  `json:"name"`
	Class  string  `json:"class"`
	Hue    int     `json:"hue"`
	Images []Image `json:"images"`
}

// Image represents a single screenshot file, eg "XY-[dashboard]-1.png"
type Image struct {
	Category string `json:"category"`
	File     string `json:"file"`
	FileURL  string `json:"file_url"`
	Number   uint16 `json:"number"`
}

// Project holds the values the site pages share
type Project struct {
	Name       string `json:"name"`
	IconExists bool   `json:"icon_exists"`
}

// ImageCount returns the number of images across all sections
func (c Category) ImageCount() int {
	total := 0
	for _, section := range c.Sections {
		total += len(section.Images)
	}
	return total
}

// FindSection returns the section whose file slug matches
func (c Category) FindSection(file string) (Section, bool) {
	for _, section := range c.Sections {
		if section.File == file {
			return section, true
		}
	}
	return Section{}, false
}
