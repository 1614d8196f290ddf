package vpmobil

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/clbanning/mxj/v2"
	"golang.org/x/net/html/charset"
)

func init() {
	// Older plan exports declare ISO-8859-1
	mxj.XmlCharsetReader = charset.NewReaderLabel
}

// ParseFeed decodes a feed document into a generic tree.
// Only a root element is required; every other node is optional.
func ParseFeed(raw []byte) (feed RawFeed, err error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedFeed)
	}

	defer func() {
		if r := recover(); r != nil {
			feed, err = nil, fmt.Errorf("%w: %v", ErrMalformedFeed, r)
		}
	}()

	m, err := mxj.NewMapXml(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedFeed)
	}

	return RawFeed(m), nil
}

// asMap returns v as a mapping node if it is one
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch n := v.(type) {
	case map[string]interface{}:
		return n, true
	case RawFeed:
		return n, true
	case mxj.Map:
		return n, true
	}
	return nil, false
}

// child looks up a mapping child of m
func child(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	if m == nil {
		return nil, false
	}
	return asMap(m[key])
}

// list normalises a node that may occur once or repeatedly.
// A single element decodes as a scalar or map, repeated ones as a slice.
func list(v interface{}) []interface{} {
	switch n := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return n
	default:
		return []interface{}{n}
	}
}

// text returns the trimmed character data of a node.
// Elements carrying attributes keep their text under "#text".
func text(v interface{}) string {
	switch n := v.(type) {
	case string:
		return strings.TrimSpace(n)
	case []interface{}:
		if len(n) > 0 {
			return text(n[0])
		}
		return ""
	}
	if m, ok := asMap(v); ok {
		return text(m["#text"])
	}
	return ""
}

// attr returns the trimmed value of an attribute of an element node
func attr(v interface{}, name string) string {
	m, ok := asMap(v)
	if !ok {
		return ""
	}
	return text(m["-"+name])
}
