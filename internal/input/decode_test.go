package input

import (
	"strings"
	"testing"
)

func TestDecode_UTF8PassThroughDropsBOM(t *testing.T) {
	got, name, err := Decode([]byte("\xEF\xBB\xBF<a>Blåbær</a>"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "<a>Blåbær</a>" || name != "utf-8" {
		t.Fatalf("got %q (%s)", got, name)
	}
}

func TestDecode_DeclaredLatin1(t *testing.T) {
	raw := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a>Bl\xe5b\xe6r</a>")
	got, name, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(got, "Blåbær") {
		t.Fatalf("got %q", got)
	}
	if name != "windows-1252" {
		t.Fatalf("encoding name %q", name)
	}
}

func TestDecode_DeclaredUTF8(t *testing.T) {
	got, name, err := Decode([]byte(`<?xml version='1.0' encoding='utf-8'?><a>ø</a>`))
	if err != nil || name != "utf-8" || !strings.HasSuffix(got, "<a>ø</a>") {
		t.Fatalf("got %q (%s) %v", got, name, err)
	}
}

func TestDecode_SniffsInvalidUTF8(t *testing.T) {
	got, _, err := Decode([]byte("<a>Bl\xe5b\xe6r</a>"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(got, "Blåbær") {
		t.Fatalf("got %q", got)
	}
}

func TestDecode_UTF16WithBOM(t *testing.T) {
	raw := []byte{0xFF, 0xFE, '<', 0, 'a', 0, '/', 0, '>', 0}
	got, name, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "<a/>" {
		t.Fatalf("got %q (%s)", got, name)
	}
}

func TestDecode_UnknownLabelFallsBack(t *testing.T) {
	got, name, err := Decode([]byte(`<?xml version="1.0" encoding="x-made-up"?><a/>`))
	if err != nil || name != "utf-8" || !strings.HasSuffix(got, "<a/>") {
		t.Fatalf("got %q (%s) %v", got, name, err)
	}
}
