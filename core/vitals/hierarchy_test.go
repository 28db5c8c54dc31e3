package vitals

import (
	"testing"

	"github.com/siherrmann/kinship/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLocationNote(t *testing.T) {
	tests := []struct {
		name      string
		location  string
		wantClean string
		wantNote  string
	}{
		{"Trailing parenthetical peeled", "Boston, Massachusetts (now Suffolk County)", "Boston, Massachusetts", "now Suffolk County"},
		{"No parenthetical", "Boston", "Boston", ""},
		{"Parenthetical only is preserved", "(at sea)", "(at sea)", ""},
		{"Empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, note := ExtractLocationNote(tt.location)
			assert.Equal(t, tt.wantClean, clean)
			assert.Equal(t, tt.wantNote, note)
		})
	}
}

func TestParseHierarchy(t *testing.T) {
	g := DefaultGazetteer()

	tests := []struct {
		name     string
		location string
		want     model.Hierarchy
	}{
		{"Single country", "Ireland", model.Hierarchy{Country: "Ireland"}},
		{"Single state", "Massachusetts", model.Hierarchy{State: "Massachusetts"}},
		{"Single state abbreviation", "MA", model.Hierarchy{State: "MA"}},
		{"Single unknown token is a city", "Boston", model.Hierarchy{City: "Boston"}},
		{"City and state", "Boston, Massachusetts", model.Hierarchy{City: "Boston", State: "Massachusetts"}},
		{"City and country", "Dublin, Ireland", model.Hierarchy{City: "Dublin", Country: "Ireland"}},
		{"City county state", "Salem, Essex County, Massachusetts", model.Hierarchy{City: "Salem", County: "Essex County", State: "Massachusetts"}},
		{"Unknown trailing token closes as country", "Alexandria, Terra Incognita", model.Hierarchy{City: "Alexandria", Country: "Terra Incognita"}},
		{"Empty", "", model.Hierarchy{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.ParseHierarchy(tt.location))
		})
	}
}

func TestGazetteerRegion(t *testing.T) {
	g := DefaultGazetteer()

	t.Run("North America", func(t *testing.T) {
		assert.Equal(t, "North America", g.Region("Boston, Massachusetts"))
	})

	t.Run("UK and Europe", func(t *testing.T) {
		assert.Equal(t, "UK & Europe", g.Region("London, England"))
	})

	t.Run("Abbreviation does not fire inside words", func(t *testing.T) {
		// "MA" must not match inside "Marseille"
		assert.NotEqual(t, "North America", g.Region("Marseille, France"))
	})

	t.Run("Unknown location", func(t *testing.T) {
		assert.Equal(t, "", g.Region("Atlantis"))
	})

	t.Run("Trailing jurisdiction wins over earlier marker", func(t *testing.T) {
		// "London" indicates UK & Europe but "Connecticut" ends the string
		assert.Equal(t, "North America", g.Region("New London, Connecticut"))
		assert.Equal(t, "UK & Europe", g.Region("Boston Road, London, England"))
	})

	t.Run("Ambiguous locations resolve the same way on every call", func(t *testing.T) {
		first := g.Region("New London, Connecticut")
		for i := 0; i < 100; i++ {
			assert.Equal(t, first, g.Region("New London, Connecticut"))
		}
	})
}

func TestParserApply(t *testing.T) {
	parser := NewParser(nil)

	t.Run("Fills born and died vitals", func(t *testing.T) {
		p := model.NewProfile("1", "John Smith")
		p.BornRaw = "1750 in Boston"
		p.DiedRaw = "1820 in Boston, Massachusetts (buried at Copp's Hill)"

		parser.Apply(p)

		assert.Equal(t, "1750", p.VitalStats.BornDate)
		assert.Equal(t, "Boston", p.VitalStats.BornLocation)
		require.NotNil(t, p.VitalStats.BornYear)
		assert.Equal(t, 1750, *p.VitalStats.BornYear)
		assert.Equal(t, model.Hierarchy{City: "Boston"}, p.VitalStats.BornHierarchy)

		assert.Equal(t, "1820", p.VitalStats.DiedDate)
		assert.Equal(t, "Boston, Massachusetts", p.VitalStats.DiedLocation)
		assert.Equal(t, "buried at Copp's Hill", p.VitalStats.DiedLocationNote)
		require.NotNil(t, p.VitalStats.DiedYear)
		assert.Equal(t, 1820, *p.VitalStats.DiedYear)
		assert.Equal(t, "Massachusetts", p.VitalStats.DiedHierarchy.State)

		require.Len(t, p.Story.LifeEvents, 2)
		assert.Equal(t, model.LifeEvent{Year: 1750, Label: "Born", Location: "Boston", Type: "vital"}, p.Story.LifeEvents[0])
		assert.Equal(t, model.LifeEvent{Year: 1820, Label: "Died", Location: "Boston, Massachusetts", Type: "vital"}, p.Story.LifeEvents[1])
	})

	t.Run("Unparseable year stays nil", func(t *testing.T) {
		p := model.NewProfile("1", "John Smith")
		p.BornRaw = "Unknown"
		p.DiedRaw = "?"

		parser.Apply(p)

		assert.Nil(t, p.VitalStats.BornYear)
		assert.Nil(t, p.VitalStats.DiedYear)
		assert.Empty(t, p.VitalStats.BornLocation)
		assert.Empty(t, p.Story.LifeEvents)
	})
}
