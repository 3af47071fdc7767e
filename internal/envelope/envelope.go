// Package envelope builds the rich embeds the bot replies with.
//
// The static content lives in templates.yaml, compiled into the binary.
// Build validates a template and returns a fresh *discordgo.MessageEmbed
// for every call, so callers may hand it to concurrent senders.
package envelope

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/trinitybot/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Template names shipped in templates.yaml
const (
	Trinity   = "trinity"
	Salvation = "salvation"
)

var (
	// ErrInvalidURL is returned for image URLs that are not absolute http(s)
	ErrInvalidURL = errors.New("invalid image url")
	// ErrEmbedTooLarge is returned when a field exceeds Discord's limits
	ErrEmbedTooLarge = errors.New("embed exceeds discord limits")
	// ErrUnknownTemplate is returned by Lookup for names not in templates.yaml
	ErrUnknownTemplate = errors.New("unknown template")
)

//go:embed templates.yaml
var templatesYAML []byte

// Author is the embed author block
type Author struct {
	Name    string `yaml:"name"`
	IconURL string `yaml:"icon_url"`
}

// Footer is the embed footer block
type Footer struct {
	Text    string `yaml:"text"`
	IconURL string `yaml:"icon_url"`
}

// Template is the static content of one envelope. Empty fields are omitted.
type Template struct {
	Title        string  `yaml:"title"`
	Description  string  `yaml:"description"`
	Color        int     `yaml:"color"`
	Author       *Author `yaml:"author"`
	ThumbnailURL string  `yaml:"thumbnail_url"`
	Footer       *Footer `yaml:"footer"`
	ImageURL     string  `yaml:"image_url"`
}

var (
	loadOnce  sync.Once
	templates map[string]Template
	loadErr   error
)

// ParseTemplates decodes a name -> template YAML document
func ParseTemplates(data []byte) (map[string]Template, error) {
	var parsed map[string]Template
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return parsed, nil
}

// Lookup returns the built-in template with the given name
func Lookup(name string) (Template, error) {
	loadOnce.Do(func() {
		templates, loadErr = ParseTemplates(templatesYAML)
	})
	if loadErr != nil {
		return Template{}, loadErr
	}

	t, ok := templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return t, nil
}

// BuildNamed looks up a built-in template and builds it
func BuildNamed(name string) (*discordgo.MessageEmbed, error) {
	t, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return Build(t)
}

type limitCheck struct {
	field string
	value string
	limit int
}

// Build turns a template into a message embed
func Build(t Template) (*discordgo.MessageEmbed, error) {
	if t.Color < 0 || t.Color > constants.MaxEmbedColor {
		return nil, fmt.Errorf("color %#x out of range", t.Color)
	}

	checks := []limitCheck{
		{"title", t.Title, constants.MaxEmbedTitleLength},
		{"description", t.Description, constants.MaxEmbedDescriptionLength},
	}
	if t.Author != nil {
		checks = append(checks, limitCheck{"author.name", t.Author.Name, constants.MaxEmbedAuthorNameLength})
	}
	if t.Footer != nil {
		checks = append(checks, limitCheck{"footer.text", t.Footer.Text, constants.MaxEmbedFooterTextLength})
	}

	total := 0
	for _, c := range checks {
		n := utf8.RuneCountInString(c.value)
		if n > c.limit {
			return nil, fmt.Errorf("%w: %s has %d characters (max %d)", ErrEmbedTooLarge, c.field, n, c.limit)
		}
		total += n
	}
	if total > constants.MaxEmbedTotalLength {
		return nil, fmt.Errorf("%w: %d characters in total (max %d)", ErrEmbedTooLarge, total, constants.MaxEmbedTotalLength)
	}

	embed := &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       t.Title,
		Description: t.Description,
		Color:       t.Color,
	}

	if t.Author != nil {
		icon, err := imageURL("author.icon_url", t.Author.IconURL)
		if err != nil {
			return nil, err
		}
		embed.Author = &discordgo.MessageEmbedAuthor{Name: t.Author.Name, IconURL: icon}
	}

	if t.ThumbnailURL != "" {
		thumb, err := imageURL("thumbnail_url", t.ThumbnailURL)
		if err != nil {
			return nil, err
		}
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: thumb}
	}

	if t.Footer != nil {
		icon, err := imageURL("footer.icon_url", t.Footer.IconURL)
		if err != nil {
			return nil, err
		}
		embed.Footer = &discordgo.MessageEmbedFooter{Text: t.Footer.Text, IconURL: icon}
	}

	if t.ImageURL != "" {
		img, err := imageURL("image_url", t.ImageURL)
		if err != nil {
			return nil, err
		}
		embed.Image = &discordgo.MessageEmbedImage{URL: img}
	}

	return embed, nil
}

// imageURL validates raw; an empty optional icon stays empty
func imageURL(field, raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidURL, field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s: %q is not an absolute http(s) url", ErrInvalidURL, field, raw)
	}
	return raw, nil
}
