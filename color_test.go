package lines

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGBA
		wantErr bool
	}{
		{"#000000", RGBA{0, 0, 0, 1}, false},
		{"#ffffff", RGBA{1, 1, 1, 1}, false},
		{"#FF0000", RGBA{1, 0, 0, 1}, false},
		{"00ff00", RGBA{0, 1, 0, 1}, false},
		{"#336699", RGBA{0x33 / 255.0, 0x66 / 255.0, 0x99 / 255.0, 1}, false},
		{"", RGBA{}, true},
		{"#fff", RGBA{}, true},
		{"#ff00000", RGBA{}, true},
		{"#gg0000", RGBA{}, true},
		{"red", RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("ParseHex(%q) error = %v, want ErrInvalidColor", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRGBA_Color(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
		want color.NRGBA
	}{
		{"black", Black, color.NRGBA{0, 0, 0, 255}},
		{"half red", RGBA{1, 0, 0, 0.5}, color.NRGBA{255, 0, 0, 128}},
		{"clamped", RGBA{2, -1, 0.5, 1}, color.NRGBA{255, 0, 128, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Color(); got != tt.want {
				t.Errorf("Color() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRGBA_Array(t *testing.T) {
	c := RGBA{0.1, 0.2, 0.3, 0.4}
	if got := c.Array(); got != [4]float32{0.1, 0.2, 0.3, 0.4} {
		t.Errorf("Array() = %v", got)
	}
}
