package domain

// Avatar is a selectable profile picture.
type Avatar struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}
