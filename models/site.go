package models

// About is the copy of the about page.
type About struct {
	Heading    string   `json:"heading" mapstructure:"heading" yaml:"heading"`
	Paragraphs []string `json:"paragraphs" mapstructure:"paragraphs" yaml:"paragraphs"`
	Quote      string   `json:"quote,omitempty" mapstructure:"quote" yaml:"quote,omitempty"`
}

// Package is a bookable photography package.
type Package struct {
	Title       string   `json:"title" mapstructure:"title" yaml:"title"`
	Highlight   string   `json:"highlight,omitempty" mapstructure:"highlight" yaml:"highlight,omitempty"`
	Description string   `json:"description,omitempty" mapstructure:"description" yaml:"description,omitempty"`
	Price       string   `json:"price,omitempty" mapstructure:"price" yaml:"price,omitempty"`
	Features    []string `json:"features,omitempty" mapstructure:"features" yaml:"features,omitempty"`

	// Popular marks the package the page highlights
	Popular bool `json:"popular,omitempty" mapstructure:"popular" yaml:"popular,omitempty"`
}

// TeamMember is one person on the team page.
type TeamMember struct {
	Name  string `json:"name" mapstructure:"name" yaml:"name"`
	Role  string `json:"role" mapstructure:"role" yaml:"role"`
	Bio   string `json:"bio,omitempty" mapstructure:"bio" yaml:"bio,omitempty"`
	Image string `json:"image,omitempty" mapstructure:"image" yaml:"image,omitempty"`
}
