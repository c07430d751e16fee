package seed

// Dataset is the top-level structure of a calendar seed file.
type Dataset struct {
	Calendar []Entry `yaml:"calendar"`
}

// Entry is one calendar item in dataset form. Order is not part of the
// file: entries stack in file order within their date.
type Entry struct {
	Date      string   `yaml:"date"`
	Type      string   `yaml:"type,omitempty"`
	Title     string   `yaml:"title,omitempty"`
	Assignees []string `yaml:"assignees,omitempty"`
	Status    string   `yaml:"status,omitempty"`
	Notes     string   `yaml:"notes,omitempty"`
	Links     []string `yaml:"links,omitempty"`
	Themes    []string `yaml:"themes,omitempty"`
	Sponsor   *Sponsor `yaml:"sponsor,omitempty"`
}

// Sponsor marks an entry as a sponsored campaign.
type Sponsor struct {
	Name        string         `yaml:"name"`
	Kind        string         `yaml:"kind,omitempty"`
	Obligations map[string]int `yaml:"obligations,omitempty"`
}
