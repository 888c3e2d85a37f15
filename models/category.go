package models

// Category is one portfolio section backed by a folder on the media host.
type Category struct {
	// Slug is the URL segment and the media host folder name
	Slug string `json:"slug" mapstructure:"slug" yaml:"slug"`

	// Name is the label shown in navigation
	Name string `json:"name" mapstructure:"name" yaml:"name"`
}
