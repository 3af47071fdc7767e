package envelope

import (
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trinityIcon = "https://previews.123rf.com/images/ivandbajo/ivandbajo1903/ivandbajo190300252/118779642-trinity-logo-design-inspiration-trinity-love-logo-isolated-on-white-background.jpg"

func TestBuildNamed_Trinity(t *testing.T) {
	embed, err := BuildNamed(Trinity)
	require.NoError(t, err)

	assert.Equal(t, discordgo.EmbedTypeRich, embed.Type)
	assert.Equal(t, 0x00D68717, embed.Color)
	assert.Empty(t, embed.Title)
	assert.True(t, strings.HasPrefix(embed.Description, "Simply, the trinity is a core doctrine"))
	assert.True(t, strings.HasSuffix(embed.Description, "apart of the holy divine logos."))

	require.NotNil(t, embed.Author)
	assert.Equal(t, "Trinity", embed.Author.Name)
	assert.Equal(t, trinityIcon, embed.Author.IconURL)

	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, trinityIcon, embed.Thumbnail.URL)

	require.NotNil(t, embed.Footer)
	assert.Equal(t, "AL Library", embed.Footer.Text)
	assert.Equal(t, trinityIcon, embed.Footer.IconURL)

	assert.Nil(t, embed.Image)
}

func TestBuildNamed_Salvation(t *testing.T) {
	embed, err := BuildNamed(Salvation)
	require.NoError(t, err)

	assert.Equal(t, "We are saved through faith", embed.Title)
	assert.Equal(t, 0x00D68717, embed.Color)
	assert.True(t, strings.HasPrefix(embed.Description, "Salvation is NOT by works"))
	require.NotNil(t, embed.Image)
	assert.Contains(t, embed.Image.URL, "Just-a-Closer-Walk-with-Jesus.jpg?width=945&height=577")

	assert.Nil(t, embed.Author)
	assert.Nil(t, embed.Thumbnail)
	assert.Nil(t, embed.Footer)
}

func TestBuildNamed_ReturnsFreshEmbed(t *testing.T) {
	first, err := BuildNamed(Trinity)
	require.NoError(t, err)
	second, err := BuildNamed(Trinity)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	first.Description = "mutated"
	assert.NotEqual(t, "mutated", second.Description)
}

func TestLookup_UnknownTemplate(t *testing.T) {
	_, err := Lookup("heresy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTemplate))
}

func TestBuild_InvalidURL(t *testing.T) {
	tests := []struct {
		name     string
		template Template
	}{
		{"relative thumbnail", Template{ThumbnailURL: "/images/logo.png"}},
		{"ftp image", Template{ImageURL: "ftp://example.com/logo.png"}},
		{"unparsable author icon", Template{Author: &Author{Name: "x", IconURL: "http://[::1"}}},
		{"missing host footer icon", Template{Footer: &Footer{Text: "x", IconURL: "https://"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed, err := Build(tt.template)
			require.Error(t, err)
			assert.Nil(t, embed)
			assert.True(t, errors.Is(err, ErrInvalidURL))
		})
	}
}

func TestBuild_OptionalIconMayBeEmpty(t *testing.T) {
	embed, err := Build(Template{Footer: &Footer{Text: "plain footer"}})
	require.NoError(t, err)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "plain footer", embed.Footer.Text)
	assert.Empty(t, embed.Footer.IconURL)
}

func TestBuild_EnforcesLimits(t *testing.T) {
	tests := []struct {
		name     string
		template Template
	}{
		{"title", Template{Title: strings.Repeat("a", 257)}},
		{"description", Template{Description: strings.Repeat("a", 4097)}},
		{"author", Template{Author: &Author{Name: strings.Repeat("a", 257)}}},
		{"footer", Template{Footer: &Footer{Text: strings.Repeat("a", 2049)}}},
		{"total", Template{
			Title:       strings.Repeat("a", 256),
			Description: strings.Repeat("b", 4096),
			Footer:      &Footer{Text: strings.Repeat("c", 2000)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.template)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmbedTooLarge))
		})
	}
}

func TestBuild_CountsRunesNotBytes(t *testing.T) {
	_, err := Build(Template{Title: strings.Repeat("’", 256)})
	assert.NoError(t, err)
}

func TestBuild_ColorOutOfRange(t *testing.T) {
	_, err := Build(Template{Color: 0x1000000})
	assert.Error(t, err)
	_, err = Build(Template{Color: -1})
	assert.Error(t, err)
}

func TestParseTemplates(t *testing.T) {
	parsed, err := ParseTemplates([]byte(`
greeting:
  title: "Hello"
  color: 0xFF0000
`))
	require.NoError(t, err)
	require.Contains(t, parsed, "greeting")
	assert.Equal(t, "Hello", parsed["greeting"].Title)
	assert.Equal(t, 0xFF0000, parsed["greeting"].Color)

	_, err = ParseTemplates([]byte("greeting: [broken"))
	assert.Error(t, err)
}
