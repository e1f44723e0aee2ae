package serial_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"vellum/serial"
)

func mustMarshal(t *testing.T, v any, pretty bool) string {
	t.Helper()
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = serial.MarshalPretty(v)
	} else {
		data, err = serial.Marshal(v)
	}
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestMarshalCompact(t *testing.T) {
	doc := serial.NewDocument()
	doc.Set("a", int64(1))
	doc.Set("b", []any{int64(1), int64(2)})

	if got := mustMarshal(t, doc, false); got != `{"a":1,"b":[1,2]}` {
		t.Fatalf("compact = %s", got)
	}
}

func TestMarshalPretty(t *testing.T) {
	doc := serial.NewDocument()
	doc.Set("a", int64(1))
	doc.Set("b", []any{int64(1), int64(2)})

	want := strings.Join([]string{
		"{",
		`    "a": 1,`,
		`    "b": [`,
		"        1,",
		"        2",
		"    ]",
		"}",
	}, "\n")
	if got := mustMarshal(t, doc, true); got != want {
		t.Fatalf("pretty =\n%s\nwant\n%s", got, want)
	}
}

func TestMarshalEmptyValues(t *testing.T) {
	doc := serial.NewDocument()
	doc.Set("obj", serial.NewDocument())
	doc.Set("list", []any{})
	doc.Set("none", nil)

	if got := mustMarshal(t, doc, false); got != `{"obj":{},"list":[],"none":null}` {
		t.Fatalf("compact = %s", got)
	}
}

func TestMarshalScalars(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	doc := serial.NewDocument()
	doc.Set("when", ts)
	doc.Set("ok", true)
	doc.Set("ratio", 0.5)
	doc.Set("note", "a<b & c")

	got := mustMarshal(t, doc, false)
	want := `{"when":"2024-03-01T12:30:00Z","ok":true,"ratio":0.5,"note":"a<b & c"}`
	if got != want {
		t.Fatalf("compact = %s, want %s", got, want)
	}
}

func TestMarshalSerializableValue(t *testing.T) {
	got := mustMarshal(t, &Dog{Name: "rex", Age: 3}, false)
	if got != `{"name":"rex","age":3,"weight":0}` {
		t.Fatalf("compact = %s", got)
	}
}

func TestPrettyIsFormattingOnly(t *testing.T) {
	doc := serial.NewDocument()
	doc.Set("a", int64(1))
	doc.Set("b", []any{"x", nil, true})

	pretty, err := serial.Parse([]byte(mustMarshal(t, doc, true)))
	if err != nil {
		t.Fatal(err)
	}
	compact, err := serial.Parse([]byte(mustMarshal(t, doc, false)))
	if err != nil {
		t.Fatal(err)
	}
	if mustMarshal(t, pretty, false) != mustMarshal(t, compact, false) {
		t.Fatal("pretty and compact round trips disagree")
	}
}

func TestParsePreservesKeyOrder(t *testing.T) {
	v, err := serial.Parse([]byte(`{"z": 1, "a": 2, "m": 3}`))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := serial.AsDocument(v)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Keys(); !reflect.DeepEqual(got, []string{"z", "a", "m"}) {
		t.Fatalf("keys = %v", got)
	}
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"3", int64(3)},
		{"-12", int64(-12)},
		{"3.5", 3.5},
		{"1e3", 1000.0},
		{"9223372036854775807", int64(9223372036854775807)},
	}
	for _, tc := range tests {
		v, err := serial.Parse([]byte(tc.in))
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if v != tc.want {
			t.Fatalf("%s: got %v (%T), want %v (%T)", tc.in, v, v, tc.want, tc.want)
		}
	}
}

func TestParseToleratesCommentsAndTrailingCommas(t *testing.T) {
	text := `{
    // identity
    "name": "rex", /* inline */
    "age": 3,
}`
	v, err := serial.Parse([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := serial.AsDocument(v)
	if err != nil {
		t.Fatal(err)
	}
	if name, _ := doc.Get("name"); name != "rex" {
		t.Fatalf("name = %v", name)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "{", `{"a"}`, "{} {}", "nope"} {
		if _, err := serial.Parse([]byte(in)); err == nil {
			t.Fatalf("expected parse error for %q", in)
		}
	}
}

func TestLoadLiteralText(t *testing.T) {
	v, err := serial.Load(`{"a": 1}`)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := serial.AsDocument(v)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := doc.Get("a"); n != int64(1) {
		t.Fatalf("a = %v", n)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"a": 7}`), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := serial.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := serial.AsDocument(v)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := doc.Get("a"); n != int64(7) {
		t.Fatalf("a = %v", n)
	}
}

func TestLoadShorthand(t *testing.T) {
	v, err := serial.Load(`a=1,b=true,c="hi"`)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := serial.AsDocument(v)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("keys = %v", got)
	}
	if b, _ := doc.Get("b"); b != true {
		t.Fatalf("b = %v", b)
	}
	if c, _ := doc.Get("c"); c != "hi" {
		t.Fatalf("c = %v", c)
	}
}

func TestLoadAggregatesErrors(t *testing.T) {
	_, err := serial.Load("definitely not loadable")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unable to load document") {
		t.Fatalf("error = %v", err)
	}
}

func TestWriteFileReadFileRoundTrip(t *testing.T) {
	doc := serial.NewDocument()
	doc.Set("name", "rex")
	doc.Set("tags", []any{"good", "dog"})

	for _, name := range []string{"doc.json", "doc.json.zst", "doc.json.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := serial.WriteFile(doc, path, serial.WriteOptions{}); err != nil {
				t.Fatal(err)
			}

			v, err := serial.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			got, err := serial.AsDocument(v)
			if err != nil {
				t.Fatal(err)
			}
			if mustMarshal(t, got, false) != mustMarshal(t, doc, false) {
				t.Fatal("round trip mismatch")
			}
		})
	}
}
