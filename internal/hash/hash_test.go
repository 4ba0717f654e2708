package hash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// BLAKE3 digest of the empty input. Fixed by the algorithm.
const emptyDigestHex = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"

func TestSum_Deterministic(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	if a != b {
		t.Errorf("Sum() not deterministic: %s != %s", a.Hex(), b.Hex())
	}

	c := Sum([]byte("hello!"))
	if a == c {
		t.Errorf("different inputs produced identical digest %s", a.Hex())
	}
}

func TestSum_Empty(t *testing.T) {
	d := Sum(nil)
	if d.Hex() != emptyDigestHex {
		t.Errorf("empty digest = %s, want %s", d.Hex(), emptyDigestHex)
	}
}

func TestReader_MatchesSum(t *testing.T) {
	content := strings.Repeat("some file content\n", 100)

	d, err := Reader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	if want := Sum([]byte(content)); d != want {
		t.Errorf("Reader() = %s, want %s", d.Hex(), want.Hex())
	}
}

func TestFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "regular content", content: "hello world"},
		{name: "empty file", content: ""},
		{name: "binary-ish content", content: "\x00\x01\x02\xff\xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "f")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("writing fixture: %v", err)
			}

			d, err := File(path)
			if err != nil {
				t.Fatalf("File() error = %v", err)
			}
			if want := Sum([]byte(tt.content)); d != want {
				t.Errorf("File() = %s, want %s", d.Hex(), want.Hex())
			}
		})
	}
}

func TestFile_EmptyIsKnownConstant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	d, err := File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if d.Hex() != emptyDigestHex {
		t.Errorf("File(empty) = %s, want %s", d.Hex(), emptyDigestHex)
	}
}

func TestFile_Nonexistent(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("File() on missing path: expected error, got nil")
	}
}

func TestParseHex_RoundTrip(t *testing.T) {
	d := Sum([]byte("round trip"))

	parsed, err := ParseHex(d.Hex())
	if err != nil {
		t.Fatalf("ParseHex() error = %v", err)
	}
	if parsed != d {
		t.Errorf("ParseHex(Hex()) = %s, want %s", parsed.Hex(), d.Hex())
	}
}

func TestParseHex_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not hex", input: "zzzz"},
		{name: "wrong length", input: "abcd"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseHex(tt.input); err == nil {
				t.Errorf("ParseHex(%q): expected error, got nil", tt.input)
			}
		})
	}
}
