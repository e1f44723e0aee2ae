package serial

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	"vellum/internal/fileutil"
)

const indentWidth = 4

// Marshal encodes a value as a compact document with no extraneous
// whitespace. Serializable values are serialized through their capability
// (non-reflectively); use Serialize first to control the reflective flag.
func Marshal(v any) ([]byte, error) {
	return marshal(v, false)
}

// MarshalPretty encodes a value as a human-readable document using 4-space
// indentation and ": " key separators. Formatting never alters round-trip
// semantics.
func MarshalPretty(v any) ([]byte, error) {
	return marshal(v, true)
}

func marshal(v any, pretty bool) ([]byte, error) {
	e := &encoder{pretty: pretty}
	if err := e.encode(v); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf    bytes.Buffer
	pretty bool
	depth  int
}

func (e *encoder) encode(v any) error {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case int:
		e.buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int32:
		e.buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int64:
		e.buf.WriteString(strconv.FormatInt(t, 10))
	case float32:
		return e.encodeFloat(float64(t))
	case float64:
		return e.encodeFloat(t)
	case json.Number:
		e.buf.WriteString(t.String())
	case string:
		return e.encodeString(t)
	case time.Time:
		return e.encodeString(t.Format(time.RFC3339Nano))
	case *Document:
		return e.encodeDocument(t)
	case []any:
		return e.encodeList(t)
	case Serializable:
		doc, err := Serialize(t, false)
		if err != nil {
			return err
		}
		return e.encodeDocument(doc)
	case map[string]any:
		return e.encodeDocument(documentFromMap(t))
	default:
		return e.encodeFallback(v)
	}
	return nil
}

// encodeFallback handles typed slices and maps via reflection; anything else
// is rejected so unsupported values fail loudly instead of encoding garbage.
func (e *encoder) encodeFallback(v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		list := make([]any, rv.Len())
		for i := range list {
			list[i] = rv.Index(i).Interface()
		}
		return e.encodeList(list)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("serial: cannot encode map with %s keys", rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		for _, k := range rv.MapKeys() {
			m[k.String()] = rv.MapIndex(k).Interface()
		}
		return e.encodeDocument(documentFromMap(m))
	}
	return fmt.Errorf("serial: cannot encode value of type %T", v)
}

func (e *encoder) encodeFloat(f float64) error {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("serial: cannot encode float: %w", err)
	}
	e.buf.Write(b)
	return nil
}

func (e *encoder) encodeString(s string) error {
	var sb bytes.Buffer
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("serial: cannot encode string: %w", err)
	}
	e.buf.Write(bytes.TrimRight(sb.Bytes(), "\n"))
	return nil
}

func (e *encoder) encodeDocument(d *Document) error {
	if d == nil || d.Len() == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	e.buf.WriteByte('{')
	e.depth++
	for i, key := range d.keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline()
		if err := e.encodeString(key); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		if e.pretty {
			e.buf.WriteByte(' ')
		}
		if err := e.encode(d.values[key]); err != nil {
			return err
		}
	}
	e.depth--
	e.newline()
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) encodeList(list []any) error {
	if len(list) == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('[')
	e.depth++
	for i, item := range list {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline()
		if err := e.encode(item); err != nil {
			return err
		}
	}
	e.depth--
	e.newline()
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) newline() {
	if !e.pretty {
		return
	}
	e.buf.WriteByte('\n')
	for i := 0; i < e.depth*indentWidth; i++ {
		e.buf.WriteByte(' ')
	}
}

func documentFromMap(m map[string]any) *Document {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	doc := NewDocument()
	for _, k := range keys {
		doc.Set(k, m[k])
	}
	return doc
}

// Parse decodes document text into its structural form: objects become
// *Document (field order preserved), arrays []any, integral numbers int64,
// other numbers float64. Comments and trailing commas are tolerated and
// stripped before parsing.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("parse document: trailing data after value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())
	case json.Number:
		return parseNumber(t)
	default:
		// string, bool, or nil
		return tok, nil
	}
}

func parseObject(dec *json.Decoder) (*Document, error) {
	doc := NewDocument()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token %v", tok)
		}
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		doc.Set(key, value)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return doc, nil
}

func parseArray(dec *json.Decoder) ([]any, error) {
	list := []any{}
	for dec.More() {
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		list = append(list, value)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return list, nil
}

func parseNumber(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return f, nil
}

// Load resolves its argument into a parsed document by trying, in order:
// literal document text, a path to a document file on disk, and a
// comma-separated "key=value" shorthand where each value is itself document
// syntax (producing an ordered mapping). If all three fail the errors are
// aggregated into one.
func Load(s string) (any, error) {
	v, parseErr := Parse([]byte(s))
	if parseErr == nil {
		return v, nil
	}

	var fileErr error
	if info, err := os.Stat(s); err == nil && !info.IsDir() {
		v, fileErr = ReadFile(s)
		if fileErr == nil {
			return v, nil
		}
	} else {
		fileErr = fmt.Errorf("not a readable file: %q", s)
	}

	v, shorthandErr := parseShorthand(s)
	if shorthandErr == nil {
		return v, nil
	}

	return nil, fmt.Errorf("unable to load document from %q: %w",
		s, errors.Join(parseErr, fileErr, shorthandErr))
}

// parseShorthand parses "key1=<doc1>,key2=<doc2>,..." into an ordered
// mapping. Values containing commas are not supported by the shorthand;
// use full document syntax for those.
func parseShorthand(s string) (*Document, error) {
	doc := NewDocument()
	for _, chunk := range strings.Split(s, ",") {
		key, raw, ok := strings.Cut(chunk, "=")
		if !ok {
			return nil, fmt.Errorf("shorthand chunk %q is not key=value", chunk)
		}
		value, err := Parse([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("shorthand value for key %q: %w", key, err)
		}
		doc.Set(key, value)
	}
	return doc, nil
}

// ReadFile reads and parses a document file. Files ending in .zst or .lz4
// are decompressed transparently.
func ReadFile(path string) (any, error) {
	data, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// WriteOptions controls document file writes.
type WriteOptions struct {
	// Compact disables pretty-printing.
	Compact bool
	// Lock guards the write with an advisory file lock.
	Lock bool
}

// WriteFile encodes a value and writes it to path atomically, creating the
// output directory if necessary. Files ending in .zst or .lz4 are
// compressed transparently.
func WriteFile(v any, path string, opts WriteOptions) error {
	var (
		data []byte
		err  error
	)
	if opts.Compact {
		data, err = Marshal(v)
	} else {
		data, err = MarshalPretty(v)
	}
	if err != nil {
		return err
	}
	if !opts.Compact {
		data = append(data, '\n')
	}
	return fileutil.WriteFileAtomic(path, data, fileutil.WriteConfig{Lock: opts.Lock})
}
