// Package rules holds the lexical constants the normalizer depends on:
// metadata keywords, documentation-host URL prefixes, and the marker
// pairs of the constructs that get stripped. Defaults match the n8n
// documentation tree; a "rules" section in the config file overrides them.
package rules

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Rules configures one normalizer instance.
type Rules struct {
	// MetadataKeys are dropped wherever a trimmed line starts with "<key>:".
	MetadataKeys []string `mapstructure:"metadata_keys" validate:"dive,required"`

	// URLPrefixes are dropped wherever a trimmed line starts with them.
	URLPrefixes []string `mapstructure:"url_prefixes" validate:"dive,required"`

	FrontmatterMarker string `mapstructure:"frontmatter_marker" validate:"required"`
	CodeFence         string `mapstructure:"code_fence" validate:"required"`
	MacroOpen         string `mapstructure:"macro_open" validate:"required"`
	MacroClose        string `mapstructure:"macro_close" validate:"required"`
	ServiceMarker     string `mapstructure:"service_marker" validate:"required"`
	SnippetMarker     string `mapstructure:"snippet_marker" validate:"required"`

	// DropTags are HTML elements whose subtrees are removed before text
	// extraction.
	DropTags []string `mapstructure:"drop_tags" validate:"dive,required"`
}

// Default returns the rule set used for the n8n documentation tree.
func Default() Rules {
	return Rules{
		MetadataKeys: []string{
			"title", "description", "contentType", "tags",
			"hide", "aliases", "priority", "redirect_from",
		},
		URLPrefixes:       []string{"https://www.notion.so/n8n/Frontmatter-"},
		FrontmatterMarker: "---",
		CodeFence:         "```",
		MacroOpen:         "[[",
		MacroClose:        "]]",
		ServiceMarker:     "///",
		SnippetMarker:     "--8<--",
		DropTags:          []string{"script", "style"},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that no marker is empty.
func (r Rules) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	return nil
}

// FromViper overlays the "rules" config section onto the defaults.
// Keys absent from the config keep their default value.
func FromViper(v *viper.Viper) (Rules, error) {
	r := Default()
	if v == nil || !v.IsSet("rules") {
		return r, nil
	}
	// Configured lists replace the defaults rather than merging into them.
	lists := map[string]*[]string{
		"metadata_keys": &r.MetadataKeys,
		"url_prefixes":  &r.URLPrefixes,
		"drop_tags":     &r.DropTags,
	}
	for key, list := range lists {
		if v.IsSet("rules." + key) {
			*list = nil
		}
	}
	if err := v.UnmarshalKey("rules", &r); err != nil {
		return Rules{}, fmt.Errorf("decoding rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}
