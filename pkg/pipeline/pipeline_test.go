package pipeline

import (
	"testing"

	"github.com/matzehuels/fct/pkg/core/ifs"
	"github.com/matzehuels/fct/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"heatmap", false},
		{"ascii", false},
		{"txt", false},
		{"grid", false},
		{"pdf", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"png", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"png", "gif"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.Validate(); err != nil {
		t.Fatalf("zero options should validate after defaults: %v", err)
	}
	if opts.Kind != DefaultKind {
		t.Errorf("Kind = %q, want %q", opts.Kind, DefaultKind)
	}
	if opts.Count != DefaultCount {
		t.Errorf("Count = %d, want %d", opts.Count, DefaultCount)
	}
	if opts.Bounds != ifs.DefaultBounds {
		t.Errorf("Bounds = %v, want %v", opts.Bounds, ifs.DefaultBounds)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPNG {
		t.Errorf("Formats = %v, want [png]", opts.Formats)
	}
	if opts.Size != DefaultSize {
		t.Errorf("Size = %d, want %d", opts.Size, DefaultSize)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"too few points", Options{Count: 100}, errors.ErrCodeInvalidArgument},
		{"too many points", Options{Count: 6401}, errors.ErrCodeInvalidArgument},
		{"bad kind", Options{Kind: "Tree!"}, errors.ErrCodeInvalidKind},
		{"m too large", Options{Count: 2500, M: 50}, errors.ErrCodeInvalidArgument},
		{"m too small", Options{Count: 2500, M: 24}, errors.ErrCodeInvalidArgument},
		{"heatmap without m", Options{Formats: []string{FormatHeatmap}}, errors.ErrCodeInvalidArgument},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"size too large", Options{Size: MaxSize + 1}, errors.ErrCodeInvalidArgument},
		{"custom bounds", Options{Count: 100, Bounds: ifs.Bounds{Min: 10, Max: 200}}, ""},
		{"valid m", Options{Count: 2500, M: 49, Formats: []string{FormatASCII}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsCacheable(t *testing.T) {
	tests := []struct {
		opts Options
		want bool
	}{
		{Options{}, false},
		{Options{Seed: 3}, true},
		{Options{Seed: 3, Refresh: true}, false},
		{Options{Seed: 3, Source: ifs.NewSource(3)}, false},
	}
	for _, tt := range tests {
		if got := tt.opts.Cacheable(); got != tt.want {
			t.Errorf("%+v Cacheable() = %v, want %v", tt.opts, got, tt.want)
		}
	}
}

func TestNeedsHistogram(t *testing.T) {
	if (&Options{Formats: []string{FormatPNG, FormatSVG, FormatPoints}}).NeedsHistogram() {
		t.Error("point formats should not need a histogram")
	}
	for _, f := range []string{FormatHeatmap, FormatASCII, FormatGrid} {
		if !(&Options{Formats: []string{FormatPNG, f}}).NeedsHistogram() {
			t.Errorf("%s should need a histogram", f)
		}
	}
}

func TestArtifactKeyOptsMonochrome(t *testing.T) {
	color := Options{Size: 100}
	mono := Options{Size: 100, Monochrome: true}
	if color.ArtifactKeyOpts(FormatPNG) == mono.ArtifactKeyOpts(FormatPNG) {
		t.Error("monochrome should change the artifact key")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatPNG:     "image/png",
		FormatHeatmap: "image/png",
		FormatSVG:     "image/svg+xml",
		FormatASCII:   "text/plain; charset=utf-8",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", format, got, want)
		}
	}
}
