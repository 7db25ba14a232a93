package ili9481

import (
	"image"
	"reflect"
	"testing"

	"periph.io/x/devices/v3/ili9481/rgb666"
)

func TestHLine(t *testing.T) {
	tests := []struct {
		name    string
		clip    *Rect
		x, y, w int
		want    []Rect
	}{
		{"inside", nil, 10, 20, 5, []Rect{{X: 10, Y: 20, W: 5, H: 1}}},
		{"left clamp", nil, -5, 10, 10, []Rect{{X: 0, Y: 10, W: 5, H: 1}}},
		{"right clamp", nil, 315, 10, 10, []Rect{{X: 315, Y: 10, W: 5, H: 1}}},
		{"at right edge", nil, 320, 10, 5, nil},
		{"above", nil, 0, -1, 5, nil},
		{"below", nil, 0, 480, 5, nil},
		{"entirely left", nil, -10, 5, 5, nil},
		{"zero width", nil, 10, 10, 0, nil},
		{"negative width", nil, 10, 10, -3, nil},
		{"both sides clipped", &Rect{X: 100, Y: 100, W: 50, H: 50}, 90, 120, 100, []Rect{{X: 100, Y: 120, W: 50, H: 1}}},
		{"above clip", &Rect{X: 100, Y: 100, W: 50, H: 50}, 110, 99, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, w := newTestDev(t, nil)
			if tt.clip != nil {
				d.SetClip(*tt.clip)
			}
			if err := d.HLine(tt.x, tt.y, tt.w, rgb666.White); err != nil {
				t.Fatal(err)
			}
			got := rects(w.spans(t))
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("spans = %v, want %v", got, tt.want)
			}
			if tt.want == nil && len(w.log) != 0 {
				t.Errorf("expected no bus traffic, got %q", w.trace())
			}
		})
	}
}

func TestVLine(t *testing.T) {
	tests := []struct {
		name    string
		clip    *Rect
		x, y, h int
		want    []Rect
	}{
		{"inside", nil, 10, 20, 5, []Rect{{X: 10, Y: 20, W: 1, H: 5}}},
		{"top clamp", nil, 10, -5, 10, []Rect{{X: 10, Y: 0, W: 1, H: 5}}},
		{"bottom clamp", nil, 10, 475, 10, []Rect{{X: 10, Y: 475, W: 1, H: 5}}},
		{"at bottom edge", nil, 10, 480, 5, nil},
		{"left of clip", nil, -1, 10, 5, nil},
		{"right of clip", nil, 320, 10, 5, nil},
		// Only the bottom edge rejects on y; a start above the clip is clamped first.
		{"entirely above", nil, 10, -10, 5, nil},
		{"zero height", nil, 10, 10, 0, nil},
		{"both ends clipped", &Rect{X: 100, Y: 100, W: 50, H: 50}, 120, 90, 100, []Rect{{X: 120, Y: 100, W: 1, H: 50}}},
		// x is checked against the clip's own x-span, not the panel's.
		{"left of custom clip", &Rect{X: 100, Y: 100, W: 50, H: 50}, 99, 110, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, w := newTestDev(t, nil)
			if tt.clip != nil {
				d.SetClip(*tt.clip)
			}
			if err := d.VLine(tt.x, tt.y, tt.h, rgb666.White); err != nil {
				t.Fatal(err)
			}
			got := rects(w.spans(t))
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("spans = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFillRect(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want []Rect
	}{
		{"inside", Rect{X: 10, Y: 10, W: 20, H: 30}, []Rect{{X: 10, Y: 10, W: 20, H: 30}}},
		{"overflow all sides", Rect{X: -10, Y: -10, W: 400, H: 600}, []Rect{{X: 0, Y: 0, W: 320, H: 480}}},
		{"right and bottom", Rect{X: 300, Y: 470, W: 50, H: 50}, []Rect{{X: 300, Y: 470, W: 20, H: 10}}},
		{"entirely left", Rect{X: -20, Y: 0, W: 10, H: 10}, nil},
		{"entirely above", Rect{X: 0, Y: -20, W: 10, H: 10}, nil},
		{"past right", Rect{X: 320, Y: 0, W: 10, H: 10}, nil},
		{"past bottom", Rect{X: 0, Y: 480, W: 10, H: 10}, nil},
		{"empty", Rect{X: 10, Y: 10, W: 0, H: 10}, nil},
		{"negative", Rect{X: 10, Y: 10, W: -5, H: 10}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, w := newTestDev(t, nil)
			if err := d.FillRect(tt.r, rgb666.Blue); err != nil {
				t.Fatal(err)
			}
			s := w.spans(t)
			got := rects(s)
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Fatalf("spans = %v, want %v", got, tt.want)
			}
			for _, sp := range s {
				if sp.n != sp.r.samples() {
					t.Errorf("pushed %d samples, want %d", sp.n, sp.r.samples())
				}
				if sp.c != rgb666.Blue {
					t.Errorf("color = %v, want %v", sp.c, rgb666.Blue)
				}
			}
		})
	}
}

func TestPlot(t *testing.T) {
	d, w := newTestDev(t, nil)
	if err := d.Plot(image.Pt(7, 9), rgb666.Red); err != nil {
		t.Fatal(err)
	}
	s := w.spans(t)
	if len(s) != 1 || s[0].r != (Rect{X: 7, Y: 9, W: 1, H: 1}) {
		t.Fatalf("spans = %v", s)
	}
	if s[0].n != 4 {
		t.Errorf("pushed %d samples, want 4", s[0].n)
	}
	if len(w.txns()) != 1 {
		t.Errorf("got %d transactions, want 1", len(w.txns()))
	}
}

func TestNothingOutsideClip(t *testing.T) {
	d, w := newTestDev(t, nil)
	d.SetClip(Rect{X: 100, Y: 100, W: 50, H: 50})
	c := rgb666.Green
	calls := []func() error{
		func() error { return d.HLine(0, 0, 99, c) },
		func() error { return d.VLine(99, 100, 50, c) },
		func() error { return d.FillRect(Rect{X: 0, Y: 0, W: 100, H: 100}, c) },
		func() error { return d.FillRect(Rect{X: 150, Y: 150, W: 10, H: 10}, c) },
		func() error { return d.Plot(image.Pt(150, 120), c) },
		func() error { return d.Line(image.Pt(0, 0), image.Pt(99, 40), c) },
		func() error { return d.Circle(image.Pt(20, 20), 10, c, true) },
		func() error { return d.Circle(image.Pt(20, 20), 10, c, false) },
		func() error { return d.Box(Rect{X: 200, Y: 200, W: 40, H: 40}, c, false, 5) },
		func() error { return d.Ellipse(image.Pt(300, 300), 10, 5, c, true) },
		func() error { return d.Triangle(image.Pt(0, 0), image.Pt(50, 0), image.Pt(0, 50), c, true) },
	}
	for i, f := range calls {
		if err := f(); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if len(w.log) != 0 {
		t.Errorf("expected no bus traffic, got %q", w.trace())
	}
}

func TestSetClip(t *testing.T) {
	d, _ := newTestDev(t, nil)
	d.SetClip(Rect{X: -10, Y: 470, W: 50, H: 50})
	if got, want := d.Clip(), (Rect{X: 0, Y: 470, W: 40, H: 10}); got != want {
		t.Errorf("Clip() = %v, want %v", got, want)
	}
	d.ResetClip()
	if got, want := d.Clip(), (Rect{W: Width, H: Height}); got != want {
		t.Errorf("Clip() after reset = %v, want %v", got, want)
	}
}

func TestClear(t *testing.T) {
	d, w := newTestDev(t, &Opts{Rotation: Landscape})
	d.SetClip(Rect{W: 10, H: 10})
	if err := d.Clear(rgb666.Black); err != nil {
		t.Fatal(err)
	}
	s := w.spans(t)
	if len(s) != 1 || s[0].r != (Rect{W: 10, H: 10}) {
		t.Errorf("spans = %v, want the clip region", s)
	}
}
