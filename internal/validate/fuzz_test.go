package validate

import (
	"strings"
	"testing"
	"unicode"

	"github.com/manav03panchal/daymark/internal/model"
)

var fuzzSeeds = []string{
	"normal text",
	"hello\x00world",
	"test\x1b[31mred",
	"line\r\nbreak\rhere",
	"café résumé",
	"日本語テスト",
	"emoji 😀🎉",
	"'; DROP TABLE users;--",
	"<script>alert('xss')</script>",
	string(make([]byte, 10000)),
	"",
	"   ",
	"\t\n\r",
}

// FuzzSanitizeText checks that stored text never carries NUL or CR.
// Run with: go test ./internal/validate -fuzz=FuzzSanitizeText -fuzztime=30s
func FuzzSanitizeText(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		out := SanitizeText(input)
		if strings.ContainsAny(out, "\x00\r") {
			t.Fatalf("SanitizeText(%q) = %q", input, out)
		}
	})
}

// FuzzSanitizeName checks that names are free of control characters.
// Run with: go test ./internal/validate -fuzz=FuzzSanitizeName -fuzztime=30s
func FuzzSanitizeName(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if strings.IndexFunc(SanitizeName(input), unicode.IsControl) >= 0 {
			t.Fatalf("SanitizeName(%q) kept a control character", input)
		}
	})
}

// FuzzFieldValue checks that canonical values validate to themselves.
// Run with: go test ./internal/validate -fuzz=FuzzFieldValue -fuzztime=30s
func FuzzFieldValue(f *testing.F) {
	for _, seed := range []string{"4", "-1.5", "$1,234.50", "true", "NO", "1", "2024-01-05", "08:30", "abc", ""} {
		f.Add(seed)
	}

	types := []model.FieldType{
		model.FieldTypeNumber,
		model.FieldTypeCurrency,
		model.FieldTypeBoolean,
		model.FieldTypeDate,
		model.FieldTypeTime,
	}
	f.Fuzz(func(t *testing.T, input string) {
		for _, ft := range types {
			stored, err := FieldValue(ft, input)
			if err != nil {
				continue
			}
			again, err := FieldValue(ft, stored)
			if err != nil || again != stored {
				t.Fatalf("%s: %q stored as %q re-validates to %q (%v)", ft, input, stored, again, err)
			}
		}
	})
}
