package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirteen37/yamlforge/internal/document"
	"github.com/thirteen37/yamlforge/internal/value"
)

const commented = `# Options for one player

# Player name
name: Player1
game: {Game A: 1, Game B: 0}
Game A:
  # First option
  first: 1
  # Second option
  second: 2
  inline: {a: 1, b: 3}
  block:
    # Member a
    a: 10
    b: 5
  list: [x, y]
Game B:
  goal: ganon
`

func mustParse(t *testing.T, text string) *document.ParsedTemplate {
	t.Helper()
	pt, err := document.Parse(text)
	require.NoError(t, err)
	return pt
}

func setOption(t *testing.T, pt *document.ParsedTemplate, section, key string, v value.Value) {
	t.Helper()
	var opt *document.Option
	if section == "" {
		opt = pt.RootOption(key)
	} else {
		opt = pt.Section(section).Option(key)
	}
	require.NotNil(t, opt, "option %s/%s", section, key)
	opt.Value = v
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(t *testing.T, pt *document.ParsedTemplate)
		check func(t *testing.T, out string, got *document.ParsedTemplate)
	}{
		{
			name: "scalar edit keeps neighbouring comments",
			edit: func(t *testing.T, pt *document.ParsedTemplate) {
				setOption(t, pt, "Game A", "first", value.Number(5))
			},
			check: func(t *testing.T, out string, got *document.ParsedTemplate) {
				assert.Contains(t, out, "# First option\n  first: 5\n")
				assert.Contains(t, out, "# Second option\n  second: 2\n")
				assert.Contains(t, out, "# Options for one player")
				assert.Equal(t, "Second option", got.Section("Game A").Option("second").Comment)
			},
		},
		{
			name: "root scalar edit keeps its comment",
			edit: func(t *testing.T, pt *document.ParsedTemplate) {
				setOption(t, pt, "", "name", value.String("Player2"))
			},
			check: func(t *testing.T, out string, got *document.ParsedTemplate) {
				assert.Contains(t, out, "# Options for one player\n")
				assert.Contains(t, out, "# Player name\nname: Player2\n")
				assert.Equal(t, "Player name", got.RootOption("name").Comment)
			},
		},
		{
			name: "inline mapping stays inline",
			edit: func(t *testing.T, pt *document.ParsedTemplate) {
				setOption(t, pt, "Game A", "inline", mapping("a", value.Number(1), "b", value.Number(4)))
			},
			check: func(t *testing.T, out string, got *document.ParsedTemplate) {
				assert.Contains(t, out, "inline: {a: 1, b: 4}")
				assert.True(t, got.Section("Game A").Option("inline").FlowStyle)
				assert.False(t, got.Section("Game A").Option("block").FlowStyle)
			},
		},
		{
			name: "block mapping members are reconciled",
			edit: func(t *testing.T, pt *document.ParsedTemplate) {
				setOption(t, pt, "Game A", "block", mapping("a", value.Number(10), "c", value.Number(7)))
			},
			check: func(t *testing.T, out string, got *document.ParsedTemplate) {
				assert.Contains(t, out, "# Member a\n    a: 10\n")
				assert.NotContains(t, out, "b: 5")
				block := got.Section("Game A").Option("block")
				assert.False(t, block.FlowStyle)
				assert.Equal(t, []string{"a", "c"}, block.Value.(*value.Mapping).Keys())
			},
		},
		{
			name: "changed member value in block mapping",
			edit: func(t *testing.T, pt *document.ParsedTemplate) {
				setOption(t, pt, "Game A", "block", mapping("a", value.Number(0), "b", value.Number(5)))
			},
			check: func(t *testing.T, out string, got *document.ParsedTemplate) {
				assert.Contains(t, out, "# Member a\n    a: 0\n")
				assert.Contains(t, out, "b: 5")
			},
		},
		{
			name: "root weighted option is reconciled",
			edit: func(t *testing.T, pt *document.ParsedTemplate) {
				setOption(t, pt, "", "game", mapping("Game A", value.Number(1), "Game B", value.Number(3)))
			},
			check: func(t *testing.T, out string, got *document.ParsedTemplate) {
				assert.Contains(t, out, "game: {Game A: 1, Game B: 3}")
			},
		},
		{
			name: "inline sequence is replaced inline",
			edit: func(t *testing.T, pt *document.ParsedTemplate) {
				setOption(t, pt, "Game A", "list", value.Sequence{value.String("x"), value.String("y"), value.String("z")})
			},
			check: func(t *testing.T, out string, got *document.ParsedTemplate) {
				assert.Contains(t, out, "list: [x, y, z]")
			},
		},
		{
			name: "type change replaces the value",
			edit: func(t *testing.T, pt *document.ParsedTemplate) {
				setOption(t, pt, "Game A", "list", value.String("none"))
			},
			check: func(t *testing.T, out string, got *document.ParsedTemplate) {
				assert.Contains(t, out, "list: none")
				assert.Equal(t, value.KindString, got.Section("Game A").Option("list").Kind)
			},
		},
		{
			name: "string needing quotes reads back",
			edit: func(t *testing.T, pt *document.ParsedTemplate) {
				setOption(t, pt, "", "name", value.String("yes: no"))
			},
			check: func(t *testing.T, out string, got *document.ParsedTemplate) {
				assert.Equal(t, value.String("yes: no"), got.RootOption("name").Value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := mustParse(t, commented)
			tt.edit(t, pt)

			out := MergeTemplate(pt, Options{})
			res := document.Validate(out)
			require.True(t, res.Valid, res.Error)

			got := mustParse(t, out)
			for _, section := range pt.Sections {
				for _, opt := range section.Options {
					mergedOpt := got.Section(section.Name).Option(opt.Key)
					require.NotNil(t, mergedOpt, "%s/%s", section.Name, opt.Key)
					assert.True(t, value.Equal(opt.Value, mergedOpt.Value), "%s/%s", section.Name, opt.Key)
				}
			}
			tt.check(t, out, got)
		})
	}
}

func TestMerge_NoEditsIsIdempotent(t *testing.T) {
	pt := mustParse(t, commented)

	out := MergeTemplate(pt, Options{})
	got := mustParse(t, out)

	require.Len(t, got.RootOptions, len(pt.RootOptions))
	for i, opt := range pt.RootOptions {
		assert.Equal(t, opt.Key, got.RootOptions[i].Key)
		assert.True(t, value.Equal(opt.Value, got.RootOptions[i].Value), opt.Key)
		assert.Equal(t, opt.Comment, got.RootOptions[i].Comment, opt.Key)
		assert.Equal(t, opt.FlowStyle, got.RootOptions[i].FlowStyle, opt.Key)
	}

	require.Len(t, got.Sections, len(pt.Sections))
	for i, section := range pt.Sections {
		assert.Equal(t, section.Name, got.Sections[i].Name)
		require.Len(t, got.Sections[i].Options, len(section.Options))
		for j, opt := range section.Options {
			merged := got.Sections[i].Options[j]
			assert.Equal(t, opt.Key, merged.Key)
			assert.True(t, value.Equal(opt.Value, merged.Value), opt.Key)
			assert.Equal(t, opt.Comment, merged.Comment, opt.Key)
			assert.Equal(t, opt.FlowStyle, merged.FlowStyle, opt.Key)
		}
	}
}

func TestMerge_DoesNotModifyTree(t *testing.T) {
	pt := mustParse(t, commented)
	setOption(t, pt, "Game A", "first", value.Number(99))

	first := MergeTemplate(pt, Options{})
	require.Contains(t, first, "first: 99")
	assert.Equal(t, commented, pt.Tree.Source())

	setOption(t, pt, "Game A", "first", value.Number(1))
	second := MergeTemplate(pt, Options{})
	assert.Contains(t, second, "first: 1\n")
	assert.NotContains(t, second, "99")
}

func TestMerge_DropsOptionsMissingFromDocument(t *testing.T) {
	pt := mustParse(t, commented)

	root := append([]document.Option{}, pt.RootOptions...)
	root = append(root, document.Option{
		Key:   "requires",
		Value: mapping("version", value.String("0.5.0")),
	})
	sections := append([]document.Section{}, pt.Sections...)
	sections = append(sections, document.Section{
		Name:    "Game C",
		Options: []document.Option{{Key: "goal", Value: value.String("ganon")}},
	})
	sections[0].Options = append(append([]document.Option{}, sections[0].Options...), document.Option{
		Key:   "extra",
		Value: value.Bool(true),
	})

	out := Merge(root, sections, pt.Tree, Options{})
	assert.NotContains(t, out, "requires")
	assert.NotContains(t, out, "Game C")
	assert.NotContains(t, out, "extra")
	assert.Contains(t, out, "# First option")
}

func TestMerge_AnchoredValueFallsBack(t *testing.T) {
	input := `Game A:
  # Shared weights
  weights: &w {a: 1, b: 0}
  copy: *w
`
	pt := mustParse(t, input)
	setOption(t, pt, "Game A", "weights", mapping("a", value.Number(0), "b", value.Number(1)))

	out := MergeTemplate(pt, Options{})
	assert.NotContains(t, out, "# Shared weights", "regenerated output has no comments")
	assert.NotContains(t, out, "&w")

	got := mustParse(t, out)
	section := got.Section("Game A")
	require.NotNil(t, section)
	assert.True(t, value.Equal(mapping("a", value.Number(0), "b", value.Number(1)), section.Option("weights").Value))
	assert.True(t, value.Equal(mapping("a", value.Number(1), "b", value.Number(0)), section.Option("copy").Value))
}

func TestMerge_EditingAliasUseIsSurgical(t *testing.T) {
	input := `Game A:
  # Shared weights
  weights: &w {a: 1, b: 0}
  copy: *w
`
	pt := mustParse(t, input)
	setOption(t, pt, "Game A", "copy", mapping("a", value.Number(5)))

	out := MergeTemplate(pt, Options{})
	assert.Contains(t, out, "# Shared weights")
	assert.Contains(t, out, "copy: {a: 5}")
}

func TestMerge_WithoutTreeRegenerates(t *testing.T) {
	root := []document.Option{
		{Key: "name", Value: value.String("Player1")},
	}
	sections := []document.Section{
		{Name: "Game A", Options: []document.Option{
			{Key: "accessibility", Value: value.String("full")},
		}},
	}

	out := Merge(root, sections, nil, Options{})
	assert.Equal(t, "name: Player1\nGame A:\n  accessibility: full\n", out)

	got := mustParse(t, out)
	assert.Equal(t, value.String("Player1"), got.RootOption("name").Value)
	assert.Equal(t, value.String("full"), got.Section("Game A").Option("accessibility").Value)
}

func TestMerge_EmptyTreeRegenerates(t *testing.T) {
	pt := mustParse(t, "")
	root := []document.Option{{Key: "name", Value: value.String("Player1")}}

	out := Merge(root, nil, pt.Tree, Options{})
	assert.Equal(t, "name: Player1\n", out)
}

func TestMerge_Indent(t *testing.T) {
	sections := []document.Section{
		{Name: "Game A", Options: []document.Option{
			{Key: "accessibility", Value: mapping("full", value.Number(50))},
		}},
	}

	out := Merge(nil, sections, nil, Options{Indent: 4})
	assert.Equal(t, "Game A:\n    accessibility:\n        full: 50\n", out)
}

func TestMerge_PreservesSectionOrder(t *testing.T) {
	pt := mustParse(t, commented)
	setOption(t, pt, "Game B", "goal", value.String("triforce"))

	got := mustParse(t, MergeTemplate(pt, Options{}))
	var names []string
	for _, s := range got.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Game A", "Game B"}, names)
	assert.Equal(t, value.String("triforce"), got.Section("Game B").Option("goal").Value)
}

// mapping builds a mapping from alternating key/value arguments.
func mapping(pairs ...any) *value.Mapping {
	m := value.NewMapping()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(value.Value))
	}
	return m
}
