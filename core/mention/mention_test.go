package mention

import (
	"testing"

	"github.com/siherrmann/kinship/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"Two part name", "John Smith", []string{"John Smith"}},
		{"Suffix stripped", "John Smith Jr.", []string{"John Smith Jr.", "John Smith"}},
		{"Roman numeral suffix", "John Smith III", []string{"John Smith III", "John Smith"}},
		{"Middle name collapses", "John Alden Smith", []string{"John Alden Smith", "John Smith", "John A. Smith"}},
		{"Empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NameVariants(tt.in))
		})
	}
}

func TestIndex(t *testing.T) {
	newRegistry := func(t *testing.T, profiles ...*model.Profile) *model.Registry {
		t.Helper()
		reg := model.NewRegistry()
		for _, p := range profiles {
			require.NoError(t, reg.Add(p))
		}
		return reg
	}

	t.Run("Lookup is case and whitespace insensitive", func(t *testing.T) {
		idx := BuildIndex(newRegistry(t, model.NewProfile("1", "John Smith")))

		assert.Equal(t, []string{"1"}, idx.Lookup("john  smith"))
		assert.Equal(t, []string{"1"}, idx.Lookup("JOHN SMITH"))
		assert.True(t, idx.Has("John Smith"))
		assert.False(t, idx.Has("Jane Smith"))
	})

	t.Run("Shared variant maps to every owner", func(t *testing.T) {
		idx := BuildIndex(newRegistry(t,
			model.NewProfile("1", "John Alden Smith"),
			model.NewProfile("2", "John Smith"),
		))

		assert.ElementsMatch(t, []string{"1", "2"}, idx.Lookup("John Smith"))
		assert.Equal(t, []string{"1"}, idx.Lookup("John Alden Smith"))
	})

	t.Run("Duplicate variants of one profile are deduplicated", func(t *testing.T) {
		idx := BuildIndex(newRegistry(t, model.NewProfile("1", "John Smith")))
		assert.Equal(t, 1, idx.Len())
	})
}

func TestResolverResolve(t *testing.T) {
	year := func(y int) *int { return &y }

	newProfile := func(id, name, notes string, born *int) *model.Profile {
		p := model.NewProfile(id, name)
		p.Story.Notes = notes
		p.VitalStats.BornYear = born
		return p
	}

	resolve := func(t *testing.T, profiles ...*model.Profile) (*model.Registry, []string) {
		t.Helper()
		reg := model.NewRegistry()
		for _, p := range profiles {
			require.NoError(t, reg.Add(p))
		}
		idx := BuildIndex(reg)
		unresolved := NewResolver(model.DefaultParseConfig(), nil).Resolve(reg, idx)
		return reg, unresolved
	}

	t.Run("Keyword classifies the relation type", func(t *testing.T) {
		mary := newProfile("2", "Mary Brown", "She married John Smith.", year(1752))
		john := newProfile("1", "John Smith", "", year(1750))
		_, unresolved := resolve(t, john, mary)

		assert.Empty(t, unresolved)
		require.Len(t, mary.RelatedLinks, 1)
		assert.Equal(t, "1", mary.RelatedLinks[0].TargetID)
		assert.Equal(t, model.RelationSpouse, mary.RelatedLinks[0].Type)
		assert.Equal(t, "She married John Smith", mary.RelatedLinks[0].SourceText)
		assert.Contains(t, mary.Story.Associates, "John Smith")
	})

	t.Run("No keyword falls back to Mentioned", func(t *testing.T) {
		mary := newProfile("2", "Mary Brown", "She once met John Smith in Boston.", year(1752))
		john := newProfile("1", "John Smith", "", year(1750))
		resolve(t, john, mary)

		require.Len(t, mary.RelatedLinks, 1)
		assert.Equal(t, model.RelationMentioned, mary.RelatedLinks[0].Type)
	})

	t.Run("Reciprocal link with inverted type", func(t *testing.T) {
		mary := newProfile("2", "Mary Brown", "She was the daughter of John Smith.", year(1775))
		john := newProfile("1", "John Smith", "", year(1750))
		resolve(t, john, mary)

		require.Len(t, mary.RelatedLinks, 1)
		assert.Equal(t, model.RelationParent, mary.RelatedLinks[0].Type)

		require.Len(t, john.RelatedLinks, 1)
		assert.Equal(t, "2", john.RelatedLinks[0].TargetID)
		assert.Equal(t, model.RelationChild, john.RelatedLinks[0].Type)
		assert.Equal(t, mary.RelatedLinks[0].SourceText, john.RelatedLinks[0].SourceText)
	})

	t.Run("Single candidate accepted across any year gap", func(t *testing.T) {
		bio := newProfile("2", "Thomas Hale", "A descendant of John Smith.", year(1900))
		ancestor := newProfile("1", "John Smith", "", year(1650))
		resolve(t, ancestor, bio)

		require.Len(t, bio.RelatedLinks, 1)
		assert.Equal(t, "1", bio.RelatedLinks[0].TargetID)
	})

	t.Run("Multiple candidates disambiguated by birth year proximity", func(t *testing.T) {
		mary := newProfile("3", "Mary Brown", "She married John Smith.", year(1810))
		near := newProfile("1", "John Smith", "", year(1805))
		far := newProfile("2", "John Smith II", "", year(1900))
		resolve(t, near, far, mary)

		require.Len(t, mary.RelatedLinks, 1)
		assert.Equal(t, "1", mary.RelatedLinks[0].TargetID)
	})

	t.Run("Unresolvable ambiguity reported not guessed", func(t *testing.T) {
		mary := newProfile("3", "Mary Brown", "She married John Smith.", year(1810))
		first := newProfile("1", "John Smith", "", year(1805))
		second := newProfile("2", "John Smith Jr.", "", year(1812))
		_, unresolved := resolve(t, first, second, mary)

		assert.Empty(t, mary.RelatedLinks)
		require.Len(t, unresolved, 1)
		assert.Contains(t, unresolved[0], "John Smith")
	})

	t.Run("Contemporary type downgraded across large year gap", func(t *testing.T) {
		bio := newProfile("2", "Thomas Hale", "A friend of John Smith.", year(1900))
		ancestor := newProfile("1", "John Smith", "", year(1650))
		resolve(t, ancestor, bio)

		require.Len(t, bio.RelatedLinks, 1)
		assert.Equal(t, model.RelationMentioned, bio.RelatedLinks[0].Type)
	})

	t.Run("Self mention is skipped", func(t *testing.T) {
		john := newProfile("1", "John Smith", "John Smith was born in Boston.", year(1750))
		resolve(t, john)

		assert.Empty(t, john.RelatedLinks)
	})
}
