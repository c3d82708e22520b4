package window

import "testing"

func TestConfigureDefaults(t *testing.T) {
	w := configure()
	if w.title != "oxy-blob" || w.width != 1280 || w.height != 720 {
		t.Fatalf("defaults = %q %dx%d", w.title, w.width, w.height)
	}
	if w.minWidth != 320 || w.minHeight != 240 || w.maxWidth != 3840 || w.maxHeight != 2160 {
		t.Fatalf("limits = %d %d %d %d", w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	}
}

func TestWithSizeLimits(t *testing.T) {
	tests := []struct {
		name                   string
		minW, minH, maxW, maxH int
		want                   [4]int
	}{
		{name: "all set", minW: 640, minH: 480, maxW: 1920, maxH: 1080, want: [4]int{640, 480, 1920, 1080}},
		{name: "zero keeps default", minW: 0, minH: 0, maxW: 2560, maxH: 0, want: [4]int{320, 240, 2560, 2160}},
		{name: "negative keeps default", minW: -1, minH: 600, maxW: -1, maxH: -1, want: [4]int{320, 600, 3840, 2160}},
		{name: "min above max ignored", minW: 2000, minH: 240, maxW: 1000, maxH: 2160, want: [4]int{320, 240, 3840, 2160}},
		{name: "min above default max ignored", minW: 4000, want: [4]int{320, 240, 3840, 2160}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := configure(WithSizeLimits(tt.minW, tt.minH, tt.maxW, tt.maxH))
			got := [4]int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight}
			if got != tt.want {
				t.Fatalf("limits = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithInitialSize(t *testing.T) {
	w := configure(WithTitle("blob"), WithWidth(800), WithHeight(-5))
	if w.title != "blob" || w.width != 800 || w.height != 720 {
		t.Fatalf("window = %q %dx%d", w.title, w.width, w.height)
	}
}
