package toml

import (
	"strings"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/yamlforge/internal/format"
)

func TestHandler_Parse(t *testing.T) {
	h := New()

	tests := []struct {
		name     string
		input    string
		wantKeys []string
		wantErr  bool
	}{
		{
			name:     "simple toml",
			input:    `name = "Player1"`,
			wantKeys: []string{"name"},
		},
		{
			name:     "with section",
			input:    "[\"Game A\"]\naccessibility = \"full\"",
			wantKeys: []string{"Game A"},
		},
		{
			name:     "root keys before sections",
			input:    "name = \"Player1\"\ngame = \"Game A\"\n[\"Game A\"]\nx = 1",
			wantKeys: []string{"name", "game", "Game A"},
		},
		{
			name:    "invalid toml",
			input:   `[invalid`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Parse([]byte(tt.input), format.ParseOptions{})
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			om, ok := got.(*orderedmap.OrderedMap)
			if !ok {
				t.Fatalf("Parse() returned %T, want *orderedmap.OrderedMap", got)
			}
			if keys := om.Keys(); strings.Join(keys, ",") != strings.Join(tt.wantKeys, ",") {
				t.Errorf("Parse() keys = %v, want %v", keys, tt.wantKeys)
			}
		})
	}
}

func TestHandler_Parse_StripCommentsError(t *testing.T) {
	h := New()

	_, err := h.Parse([]byte(`key = "value"`), format.ParseOptions{StripComments: true})
	if err == nil {
		t.Error("Parse() with StripComments should return error for TOML")
	}
}

func TestHandler_Parse_PreservesNestedOrder(t *testing.T) {
	h := New()

	input := `["Game A"]
zebra = "z"
apple = "a"

["Game A".weights]
low = 1
high = 9
`
	tree, err := h.Parse([]byte(input), format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	section, _ := tree.(*orderedmap.OrderedMap).Get("Game A")
	sectionMap := section.(*orderedmap.OrderedMap)
	if keys := sectionMap.Keys(); strings.Join(keys, ",") != "zebra,apple,weights" {
		t.Errorf("section keys = %v, want [zebra apple weights]", keys)
	}

	weights, _ := sectionMap.Get("weights")
	if keys := weights.(*orderedmap.OrderedMap).Keys(); strings.Join(keys, ",") != "low,high" {
		t.Errorf("weights keys = %v, want [low high]", keys)
	}
}

func TestHandler_SerializeRoundTrip(t *testing.T) {
	h := New()

	weights := orderedmap.New()
	weights.Set("full", int64(50))
	weights.Set("minimal", int64(0))
	section := orderedmap.New()
	section.Set("accessibility", weights)
	section.Set("death_link", false)
	section.Set("unset", nil)
	tree := orderedmap.New()
	tree.Set("name", "Player1")
	tree.Set("Game A", section)

	out, err := h.Serialize(tree, format.SerializeOptions{})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if strings.Contains(string(out), "unset") {
		t.Errorf("Serialize() wrote a null member:\n%s", out)
	}

	back, err := h.Parse(out, format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() of serialized output error = %v\n%s", err, out)
	}
	name, _ := back.(*orderedmap.OrderedMap).Get("name")
	if name != "Player1" {
		t.Errorf("name = %v, want Player1", name)
	}
	gameA, _ := back.(*orderedmap.OrderedMap).Get("Game A")
	acc, _ := gameA.(*orderedmap.OrderedMap).Get("accessibility")
	full, _ := acc.(*orderedmap.OrderedMap).Get("full")
	if full != int64(50) {
		t.Errorf("full = %v (%T), want 50", full, full)
	}
}

func TestHandler_Serialize_RejectsScalar(t *testing.T) {
	h := New()
	if _, err := h.Serialize("scalar", format.SerializeOptions{}); err == nil {
		t.Error("Serialize() of a scalar should fail")
	}
}
