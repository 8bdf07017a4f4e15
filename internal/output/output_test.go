package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/prefs"
	"gopkg.in/yaml.v3"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Writer
	Writer = &buf
	t.Cleanup(func() { Writer = prev })
	return &buf
}

func TestRecord(t *testing.T) {
	store := prefs.NewMemoryStore()
	count := feature.NewCount("Retry Attempts", 0, 10, 3, feature.WithGroup("Networking"), feature.WithStore(store))
	picker := feature.NewPicker("Accent Color", []string{"red", "blue"}, "red", feature.WithStore(store))
	group := feature.NewGroup[bool]("Rounded Corners",
		feature.NewStatic("uses_rounded_corners", true),
		feature.NewToggle("Override", false, feature.WithStore(store)),
		feature.WithStore(store))
	group.SetActive(feature.Second)

	lo, hi := 0, 10
	tests := []struct {
		name string
		flag feature.Descriptor
		want FlagRecord
	}{
		{"count", count, FlagRecord{
			ID: "FeatureFlag_Retry-Attempts", Title: "Retry Attempts", Group: "Networking",
			Kind: "count", Value: "3", Source: SourceDefault, Min: &lo, Max: &hi,
		}},
		{"picker", picker, FlagRecord{
			ID: "FeatureFlag_Accent-Color", Title: "Accent Color",
			Kind: "picker", Value: "red", Source: SourceDefault, Options: []string{"red", "blue"},
		}},
		{"group", group, FlagRecord{
			ID: "FeatureFlag_Rounded-Corners", Title: "Rounded Corners",
			Kind: "group", Value: "false", Source: SourceStored,
			Options: []string{"first", "second"}, Active: "second",
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Record(tc.flag, tc.want.Source)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONAndYAML(t *testing.T) {
	rec := FlagRecord{ID: "FeatureFlag_X", Title: "X", Kind: "toggle", Value: "true", Source: SourceStored}

	buf := captureOutput(t)
	if err := JSON([]FlagRecord{rec}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var fromJSON []FlagRecord
	if err := json.Unmarshal(buf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	buf.Reset()
	if err := YAML([]FlagRecord{rec}); err != nil {
		t.Fatalf("YAML: %v", err)
	}
	if !strings.Contains(buf.String(), "id: FeatureFlag_X") {
		t.Errorf("YAML missing id line:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "options") {
		t.Errorf("empty options should be omitted:\n%s", buf.String())
	}
	var fromYAML []FlagRecord
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Errorf("JSON and YAML disagree (-json +yaml):\n%s", diff)
	}
}

func TestFormatFlag(t *testing.T) {
	lo, hi := 5, 50
	rec := FlagRecord{ID: "FeatureFlag_Items-Per-Page", Title: "Items Per Page", Group: "Appearance",
		Kind: "count", Value: "20", Source: SourceDefault, Min: &lo, Max: &hi}

	short := FormatFlagShort(rec)
	for _, want := range []string{"Items Per Page", "[count]", "20", "(default)"} {
		if !strings.Contains(short, want) {
			t.Errorf("short format %q missing %q", short, want)
		}
	}

	long := FormatFlagLong(rec)
	for _, want := range []string{"ID: FeatureFlag_Items-Per-Page", "Group: Appearance", "Range: 5..50"} {
		if !strings.Contains(long, want) {
			t.Errorf("long format missing %q:\n%s", want, long)
		}
	}
}

func TestSectionHeader(t *testing.T) {
	if got := SectionHeader("Appearance"); got != "\nAPPEARANCE:\n" {
		t.Errorf("SectionHeader = %q", got)
	}
	if got := SectionHeader(""); got != "\nUNGROUPED:\n" {
		t.Errorf("empty group header = %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("Uses **bold** text.", 40, "notty")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(out, "bold") {
		t.Errorf("rendered output lost text: %q", out)
	}

	if out, _ := RenderMarkdown("   ", 40, "notty"); out != "" {
		t.Errorf("blank input rendered %q", out)
	}
}
