package types

// OutputFormat selects how parsed citations are serialized.
type OutputFormat string

const (
	OutputXML    OutputFormat = "xml"
	OutputYAML   OutputFormat = "yaml"
	OutputJSON   OutputFormat = "json"
	OutputCSL    OutputFormat = "csl"
	OutputBibTeX OutputFormat = "bibtex"
)

// ParseConfig holds settings for the parse command.
type ParseConfig struct {
	// Format selects the output format: xml, yaml, json, csl, or bibtex.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// AllParagraphs disables candidate filtering so every paragraph in the
	// document is handed to the segmenter.
	AllParagraphs bool `json:"all_paragraphs" yaml:"all_paragraphs" mapstructure:"all_paragraphs"`

	// PreviewLength is the number of characters of a paragraph shown in
	// log lines (default 30).
	PreviewLength int `json:"preview_length" yaml:"preview_length" mapstructure:"preview_length"`

	// IncludeReports adds each extractor's validation report to structured
	// output formats (yaml, json).
	IncludeReports bool `json:"include_reports" yaml:"include_reports" mapstructure:"include_reports"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// File is the log file path. Empty disables file logging; logs then go
	// to stderr at warning level and above.
	File string `json:"file" yaml:"file" mapstructure:"file"`

	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// CatalogConfig holds settings for the citation catalogue.
type CatalogConfig struct {
	// Dir is the directory holding the catalogue database (default "catalog").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Config groups all settings read from recompose.yaml.
type Config struct {
	Parse   ParseConfig   `json:"parse" yaml:"parse" mapstructure:"parse"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
}
