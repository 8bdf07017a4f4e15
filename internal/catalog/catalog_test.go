package catalog

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/prefs"
	"github.com/marcus/flagdeck/pkg/registry"
)

func TestFind(t *testing.T) {
	c := New(prefs.NewMemoryStore())

	tests := []struct {
		name   string
		wantID string
	}{
		{"FeatureFlag_Accent-Color", "FeatureFlag_Accent-Color"},
		{"Accent Color", "FeatureFlag_Accent-Color"},
		{"accent-color", "FeatureFlag_Accent-Color"},
		{"  items per page ", "FeatureFlag_Items-Per-Page"},
		{"rounded corners", "FeatureFlag_Rounded-Corners"},
		{"Rounded Corners Override", "FeatureFlag_Rounded-Corners-Override"},
		{"uses_rounded_corners", "StaticFeatureFlag_uses-rounded-corners"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := c.Find(tc.name)
			if !ok {
				t.Fatalf("Find(%q) found nothing", tc.name)
			}
			if d.ID() != tc.wantID {
				t.Errorf("Find(%q) = %s, want %s", tc.name, d.ID(), tc.wantID)
			}
		})
	}

	if _, ok := c.Find("nope"); ok {
		t.Error("unknown flag should not be found")
	}
}

func TestAllOrderAndGroups(t *testing.T) {
	c := New(prefs.NewMemoryStore())

	var got []string
	for _, d := range c.All() {
		got = append(got, d.Group()+"/"+d.Title())
	}
	want := []string{
		"Appearance/Accent Color",
		"Appearance/Compact Rows",
		"Appearance/Items Per Page",
		"Networking/Retry Attempts",
		"Networking/Verbose Logging",
		"Experiments/Rounded Corners",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestApply(t *testing.T) {
	c := New(prefs.NewMemoryStore())

	tests := []struct {
		name    string
		flag    feature.Descriptor
		raw     string
		wantErr bool
		check   func() any
		want    any
	}{
		{"toggle on", c.CompactRows, "on", false, func() any { return c.CompactRows.Value() }, true},
		{"toggle false", c.CompactRows, "false", false, func() any { return c.CompactRows.Value() }, false},
		{"toggle garbage", c.CompactRows, "maybe", true, nil, nil},
		{"count", c.RetryAttempts, "7", false, func() any { return c.RetryAttempts.Value() }, 7},
		{"count clamps", c.RetryAttempts, "99", false, func() any { return c.RetryAttempts.Value() }, 10},
		{"count not a number", c.RetryAttempts, "lots", true, nil, nil},
		{"picker", c.AccentColor, "Blue", false, func() any { return c.AccentColor.Value() }, AccentBlue},
		{"picker unknown", c.AccentColor, "purple", true, nil, nil},
		{"group second", c.RoundedCorners, "second", false, func() any { return c.RoundedCorners.Active() }, feature.Second},
		{"static", c.RoundedDefault, "false", true, nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Apply(tc.flag, tc.raw)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Apply(%q) error = %v, wantErr %v", tc.raw, err, tc.wantErr)
			}
			if tc.check != nil {
				if got := tc.check(); got != tc.want {
					t.Errorf("value = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestReset(t *testing.T) {
	c := New(prefs.NewMemoryStore())

	c.ItemsPerPage.SetValue(40)
	if err := Reset(c.ItemsPerPage); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := c.ItemsPerPage.Value(); got != 20 {
		t.Errorf("after reset = %d, want default 20", got)
	}
	if err := Reset(c.RoundedDefault); err == nil {
		t.Error("resetting a static flag should fail")
	}
}

func TestRegisterNotifiesChanges(t *testing.T) {
	c := New(prefs.NewMemoryStore())
	r := registry.New()
	defer r.Close()

	changed := make(chan string, 8)
	subs := c.Register(r, func(d feature.Descriptor) { changed <- d.ID() })

	if got := len(r.Entries()); got != len(c.All()) {
		t.Fatalf("registered %d entries, want %d", got, len(c.All()))
	}

	c.VerboseLogging.SetValue(true)
	select {
	case id := <-changed:
		if id != c.VerboseLogging.ID() {
			t.Errorf("changed %s, want %s", id, c.VerboseLogging.ID())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	for _, s := range subs {
		s.Cancel()
	}
	if got := len(r.Entries()); got != 0 {
		t.Errorf("entries after cancel = %d, want 0", got)
	}
}
