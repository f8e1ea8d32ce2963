/*
DESCRIPTION
  mpd.go provides a minimal generic XML tree for locating and annotating a
  DASH Media Presentation Description's SegmentURL elements, standing in for
  the dedicated MPD library the segment correlator is specified against.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mpd provides a generic, order-preserving XML tree and the
// BaseURL/SegmentList/SegmentURL navigation the segment correlator needs,
// built on stdlib encoding/xml rather than a dedicated MPD library.
package mpd

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// ErrMalformedMPD indicates the document is not well-formed XML, or a
// SegmentURL is missing the mediaRange attribute the correlator requires.
var ErrMalformedMPD = errors.New("mpd: malformed mpd")

// ErrTargetNotFound indicates no BaseURL element's text content carried the
// requested prefix.
var ErrTargetNotFound = errors.New("mpd: no matching base url")

// Log is the package's optional debug/warning logger. Attribute overwrites
// are logged here per the external interface contract.
var Log logging.Logger

func warn(msg string, kv ...interface{}) {
	if Log != nil {
		Log.Warning(msg, kv...)
	}
}

// Node is one element of the document tree. Children and Attrs preserve
// document order, so Save reproduces the structure of a document that has
// had no attributes added.
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Node
	Text     string
	parent   *Node
}

// Attr returns the value of the attribute named name and whether it is
// present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr adds name=value to n, or overwrites the existing value and logs a
// warning if the attribute is already present.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name.Local == name {
			warn("overwriting existing attribute", "name", name, "old", a.Value, "new", value)
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// Doc is a parsed MPD document.
type Doc struct {
	path string
	root *Node
}

// Load parses the MPD document at path into a generic tree.
func Load(path string) (*Doc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedMPD, err.Error())
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	root, err := decodeTree(dec)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedMPD, err.Error())
	}
	return &Doc{path: path, root: root}, nil
}

// decodeTree reads a single element subtree, assuming the next token from
// dec is its start element.
func decodeTree(dec *xml.Decoder) (*Node, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		return decodeElement(dec, start)
	}
}

func decodeElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	n := &Node{Name: start.Name.Local, Attrs: append([]xml.Attr{}, start.Attr...)}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			child.parent = n
			n.Children = append(n.Children, child)
		case xml.CharData:
			n.Text += string(t)
		case xml.EndElement:
			return n, nil
		}
	}
}

// Save writes the document back to its original path, pretty-printed with
// UTF-8 encoding.
func (d *Doc) Save() error {
	f, err := os.Create(d.path)
	if err != nil {
		return errors.Wrap(ErrMalformedMPD, err.Error())
	}
	defer f.Close()

	if _, err := fmt.Fprint(f, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := encodeNode(enc, d.root); err != nil {
		return err
	}
	return enc.Flush()
}

func encodeNode(enc *xml.Encoder, n *Node) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Name}, Attr: n.Attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := encodeNode(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}

// DashPrefix returns the prefix of basename up to and including its last
// occurrence of the literal substring "dash", matching the original tool's
// greedy ".*dash" regular expression match.
func DashPrefix(basename string) (string, bool) {
	idx := strings.LastIndex(basename, "dash")
	if idx < 0 {
		return "", false
	}
	return basename[:idx+len("dash")], true
}

// walk calls visit for every node in the subtree rooted at n, in document
// order, stopping early if visit returns false.
func walk(n *Node, visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// Cursor walks the ordered SegmentURL siblings of one SegmentList.
type Cursor struct {
	parent *Node
	idx    int
}

// Locate finds the BaseURL element whose text content has prefix as a
// prefix, navigates forward through its siblings to the first SegmentList,
// descends to its first child, and navigates forward through siblings to
// the first SegmentURL, returning a Cursor positioned there.
func (d *Doc) Locate(prefix string) (*Cursor, error) {
	var baseURL *Node
	walk(d.root, func(n *Node) bool {
		if n.Name == "BaseURL" && strings.HasPrefix(n.Text, prefix) {
			baseURL = n
			return false
		}
		return true
	})
	if baseURL == nil {
		return nil, errors.Wrapf(ErrTargetNotFound, "mpd: prefix %q", prefix)
	}

	segList := siblingAfterInclusive(baseURL.parent, baseURL, "SegmentList")
	if segList == nil {
		return nil, errors.Wrap(ErrMalformedMPD, "mpd: no SegmentList sibling of matching BaseURL")
	}
	if len(segList.Children) == 0 {
		return nil, errors.Wrap(ErrMalformedMPD, "mpd: SegmentList has no children")
	}

	first := segList.Children[0]
	segURL := siblingAfterInclusive(segList, first, "SegmentURL")
	if segURL == nil {
		return nil, errors.Wrap(ErrMalformedMPD, "mpd: no SegmentURL in SegmentList")
	}

	idx := -1
	for i, c := range segList.Children {
		if c == segURL {
			idx = i
			break
		}
	}
	return &Cursor{parent: segList, idx: idx}, nil
}

// siblingAfterInclusive scans parent's children starting at start
// (inclusive) for the first one named name.
func siblingAfterInclusive(parent *Node, start *Node, name string) *Node {
	if parent == nil {
		return nil
	}
	found := false
	for _, c := range parent.Children {
		if c == start {
			found = true
		}
		if found && c.Name == name {
			return c
		}
	}
	return nil
}

// Node returns the SegmentURL node the cursor is currently positioned at.
func (c *Cursor) Node() *Node { return c.parent.Children[c.idx] }

// Range returns the (start, end) byte offsets of the current SegmentURL's
// mediaRange attribute.
func (c *Cursor) Range() (start, end uint64, err error) {
	raw, ok := c.Node().Attr("mediaRange")
	if !ok {
		return 0, 0, errors.Wrap(ErrMalformedMPD, "mpd: SegmentURL missing mediaRange attribute")
	}
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return 0, 0, errors.Wrapf(ErrMalformedMPD, "mpd: malformed mediaRange %q", raw)
	}
	s, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrMalformedMPD, "mpd: malformed mediaRange start %q", raw)
	}
	e, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrMalformedMPD, "mpd: malformed mediaRange end %q", raw)
	}
	return s, e, nil
}

// SetAttribute adds or overwrites an attribute on the current SegmentURL.
func (c *Cursor) SetAttribute(name, value string) {
	c.Node().SetAttr(name, value)
}

// Next advances the cursor to the next SegmentURL sibling, reporting
// whether one was found.
func (c *Cursor) Next() bool {
	for i := c.idx + 1; i < len(c.parent.Children); i++ {
		if c.parent.Children[i].Name == "SegmentURL" {
			c.idx = i
			return true
		}
	}
	return false
}
