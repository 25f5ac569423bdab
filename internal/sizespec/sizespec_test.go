package sizespec_test

import (
	"errors"
	"testing"

	"frots/internal/sizespec"
)

func TestParseValid(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		spec string
		bits bool
		want uint64
	}{
		{spec: "4096", want: 4096},
		{spec: "1", want: 1},
		{spec: "1K", want: 1024},
		{spec: "1k", want: 1024},
		{spec: "1KB", want: 1024},
		{spec: "512K", want: 512 * 1024},
		{spec: "1M", want: 1024 * 1024},
		{spec: "3M", want: 3 * 1024 * 1024},
		{spec: "1G", want: 1073741824},
		{spec: "4G", want: 4 * 1073741824},
		{spec: "1.5K", want: 1536},
		{spec: "1.5G", want: 1610612736},
		{spec: "1Kb", bits: true, want: 128},
		{spec: "1KB", bits: true, want: 128},
		{spec: "1Mb", bits: true, want: 131072},
		{spec: "1Gb", bits: true, want: 134217728},
		// Raw byte counts are unaffected by bits mode.
		{spec: "4096", bits: true, want: 4096},
		// Below one byte rounds up to the one-byte minimum.
		{spec: "1b", bits: true, want: 1},
	} {
		tt := tt
		t.Run(tt.spec, func(t *testing.T) {
			t.Parallel()

			got, err := sizespec.Parse(tt.spec, tt.bits)
			if err != nil {
				t.Fatalf("Parse(%q, %v) error: %v", tt.spec, tt.bits, err)
			}

			if got != tt.want {
				t.Errorf("Parse(%q, %v)=%d, want=%d", tt.spec, tt.bits, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		spec string
	}{
		{name: "empty", spec: ""},
		{name: "letters only", spec: "abc"},
		{name: "negative", spec: "-1K"},
		{name: "zero", spec: "0"},
		{name: "zero with unit", spec: "0K"},
		{name: "unknown unit", spec: "1T"},
		{name: "suffix only", spec: "K"},
		{name: "double dot", spec: "1..5K"},
		{name: "trailing garbage", spec: "1Kx"},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := sizespec.Parse(tt.spec, false)
			if !errors.Is(err, sizespec.ErrInvalidSizeSpec) {
				t.Errorf("Parse(%q) err=%v, want ErrInvalidSizeSpec", tt.spec, err)
			}
		})
	}
}
