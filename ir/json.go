package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// The codec round-trips plain JSON. Objects keep their key order,
// which encoding/json maps would lose, so decoding walks the token
// stream directly.

func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*n = *v
	return nil
}

func decodeValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("ir: decode: %w", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			res := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("ir: decode key: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("ir: decode: object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				res.Fields = append(res.Fields, key)
				res.Values = append(res.Values, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, fmt.Errorf("ir: decode: %w", err)
			}
			return res, nil
		case '[':
			res := NewArray()
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				res.Values = append(res.Values, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, fmt.Errorf("ir: decode: %w", err)
			}
			return res, nil
		}
		return nil, fmt.Errorf("ir: decode: unexpected delim %v", t)
	case string:
		return FromString(t), nil
	case json.Number:
		lit := string(t)
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return &Node{Type: IntType, Int: i, Num: lit}, nil
		}
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, fmt.Errorf("ir: decode number %q: %w", lit, err)
		}
		return &Node{Type: FloatType, Float: f, Num: lit}, nil
	case bool:
		return FromBool(t), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("ir: decode: unexpected token %v", tok)
}

func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	switch n.Type {
	case NullType:
		buf.WriteString("null")
	case BoolType:
		buf.WriteString(strconv.FormatBool(n.Bool))
	case IntType, FloatType:
		buf.WriteString(n.numLiteral())
	case StringType:
		b, err := json.Marshal(n.String)
		if err != nil {
			return err
		}
		buf.Write(b)
	case ArrayType:
		buf.WriteByte('[')
		for i, v := range n.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := v.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectType:
		buf.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(f)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := n.Values[i].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("ir: encode: invalid node")
	}
	return nil
}

// Parse decodes a JSON document into a tree.
func Parse(data []byte) (*Node, error) {
	n := &Node{}
	if err := n.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return n, nil
}
