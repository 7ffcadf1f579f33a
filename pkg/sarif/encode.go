package sarif

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// encoder writes a tree with object keys in insertion order. HTML
// characters are left unescaped so messages such as "std::vector<int>" stay
// readable.
type encoder struct {
	buf    bytes.Buffer
	indent string

	scratch bytes.Buffer
	enc     *json.Encoder
}

func newEncoder(indent string) *encoder {
	e := &encoder{indent: indent}
	e.enc = json.NewEncoder(&e.scratch)
	e.enc.SetEscapeHTML(false)
	return e
}

// encodeTree renders v as JSON text terminated by a newline.
func encodeTree(v any, indent string) ([]byte, error) {
	e := newEncoder(indent)
	if err := e.write(v, 0); err != nil {
		return nil, err
	}
	e.buf.WriteByte('\n')
	return e.buf.Bytes(), nil
}

func (e *encoder) write(v any, depth int) error {
	switch t := v.(type) {
	case *Object:
		return e.writeObject(t, depth)
	case []any:
		return e.writeArray(t, depth)
	case string:
		return e.writeScalar(t)
	case json.Number:
		if t == "" {
			e.buf.WriteByte('0')
			return nil
		}
		e.buf.WriteString(string(t))
		return nil
	case bool:
		if t {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
		return nil
	case nil:
		e.buf.WriteString("null")
		return nil
	default:
		// Values set programmatically, e.g. ints from the Builder.
		return e.writeScalar(t)
	}
}

func (e *encoder) writeObject(obj *Object, depth int) error {
	if obj.Len() == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	e.buf.WriteByte('{')
	first := true
	for p := obj.Oldest(); p != nil; p = p.Next() {
		if !first {
			e.buf.WriteByte(',')
		}
		first = false
		e.newline(depth + 1)
		if err := e.writeScalar(p.Key); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		if e.indent != "" {
			e.buf.WriteByte(' ')
		}
		if err := e.write(p.Value, depth+1); err != nil {
			return fmt.Errorf("key %q: %w", p.Key, err)
		}
	}
	e.newline(depth)
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) writeArray(arr []any, depth int) error {
	if len(arr) == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('[')
	for i, v := range arr {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.write(v, depth+1); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	e.newline(depth)
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) writeScalar(v any) error {
	e.scratch.Reset()
	if err := e.enc.Encode(v); err != nil {
		return err
	}
	e.buf.Write(bytes.TrimSuffix(e.scratch.Bytes(), []byte("\n")))
	return nil
}

func (e *encoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.buf.WriteByte('\n')
	e.buf.WriteString(strings.Repeat(e.indent, depth))
}
