package domain

import (
	"encoding/json"
	"strings"
)

// Field kind constants as declared by the content backend. The declared type
// is advisory: content authors routinely store plain strings in typed fields,
// so resolution always falls back through value and reference extraction.
const (
	FieldTypeRichText        = "rich_text_field"
	FieldTypeRichTextShort   = "rich_text"
	FieldTypeFileReference   = "file_reference"
	FieldTypeObjectReference = "metaobject_reference"
)

// Field is one key/value entry on a content object. Value holds the raw
// string representation; Reference is set when the field points at a media
// asset or another content object.
type Field struct {
	Key       string     `json:"key"`
	Type      string     `json:"type"`
	Value     string     `json:"value"`
	Reference *Reference `json:"reference,omitempty"`
}

// Reference is the typed target of a reference field: an image asset, a
// generic file asset, or a linked content object with fields of its own.
type Reference struct {
	ImageURL    string  `json:"image_url,omitempty"`
	ImageWidth  int     `json:"image_width,omitempty"`
	ImageHeight int     `json:"image_height,omitempty"`
	FileURL     string  `json:"file_url,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

// FieldSet is the full field list of one content object.
type FieldSet []Field

// referenceNameKeys is the candidate-key priority used when dereferencing a
// linked object for a display value.
var referenceNameKeys = []string{"name", "title", "label", "handle"}

// Get returns the first field matching any of the candidate keys, in key
// priority order. Key comparison is case-insensitive.
func (fs FieldSet) Get(keys ...string) (Field, bool) {
	for _, key := range keys {
		for _, f := range fs {
			if strings.EqualFold(f.Key, key) {
				return f, true
			}
		}
	}
	return Field{}, false
}

// Text resolves a display string for the first matching candidate key. The
// fallback chain per field: declared-type-aware extraction (rich text is
// flattened to plain text), then the raw value, then a dereferenced linked
// object's own name-like fields. Returns false when nothing resolves.
func (fs FieldSet) Text(keys ...string) (string, bool) {
	for _, key := range keys {
		f, ok := fs.Get(key)
		if !ok {
			continue
		}
		if v, ok := f.text(); ok {
			return v, true
		}
	}
	return "", false
}

// TextOr resolves like Text but returns the fallback when nothing matches.
func (fs FieldSet) TextOr(fallback string, keys ...string) string {
	if v, ok := fs.Text(keys...); ok {
		return v
	}
	return fallback
}

// HTML resolves a field to rendered HTML. Rich-text fields are rendered from
// their AST; plain values are returned as-is.
func (fs FieldSet) HTML(keys ...string) (string, bool) {
	for _, key := range keys {
		f, ok := fs.Get(key)
		if !ok {
			continue
		}
		if isRichText(f.Type) {
			if html := RichTextToHTML(f.Value); html != "" {
				return html, true
			}
		}
		if v, ok := f.text(); ok {
			return v, true
		}
	}
	return "", false
}

// Image resolves an image URL for the first matching candidate key, trying
// the image reference, then the file reference, then a raw URL value.
func (fs FieldSet) Image(keys ...string) (string, bool) {
	for _, key := range keys {
		f, ok := fs.Get(key)
		if !ok {
			continue
		}
		if f.Reference != nil {
			if f.Reference.ImageURL != "" {
				return f.Reference.ImageURL, true
			}
			if f.Reference.FileURL != "" {
				return f.Reference.FileURL, true
			}
		}
		if strings.HasPrefix(f.Value, "http://") || strings.HasPrefix(f.Value, "https://") {
			return f.Value, true
		}
	}
	return "", false
}

// ImageAspect classifies the referenced image for the first candidate key
// whose reference carries pixel dimensions. Empty when no match or the
// dimensions are unknown.
func (fs FieldSet) ImageAspect(keys ...string) string {
	for _, key := range keys {
		f, ok := fs.Get(key)
		if !ok || f.Reference == nil {
			continue
		}
		if a := ClassifyAspect(f.Reference.ImageWidth, f.Reference.ImageHeight); a != "" {
			return a
		}
	}
	return ""
}

// text resolves a single field to a display string.
func (f Field) text() (string, bool) {
	if isRichText(f.Type) {
		if plain := RichTextToPlain(f.Value); plain != "" {
			return plain, true
		}
	}
	if v := strings.TrimSpace(f.Value); v != "" && !looksLikeGID(v) {
		return v, true
	}
	if f.Reference != nil && len(f.Reference.Fields) > 0 {
		if v, ok := FieldSet(f.Reference.Fields).Text(referenceNameKeys...); ok {
			return v, true
		}
	}
	return "", false
}

// looksLikeGID reports whether a raw value is an opaque platform global ID
// rather than displayable text.
func looksLikeGID(v string) bool {
	return strings.HasPrefix(v, "gid://")
}

func isRichText(t string) bool {
	return t == FieldTypeRichText || t == FieldTypeRichTextShort
}

// --- Rich text ---

// richTextNode is one node of the backend's rich-text JSON AST.
type richTextNode struct {
	Type     string         `json:"type"`
	Value    string         `json:"value,omitempty"`
	URL      string         `json:"url,omitempty"`
	Level    int            `json:"level,omitempty"`
	ListType string         `json:"listType,omitempty"`
	Bold     bool           `json:"bold,omitempty"`
	Italic   bool           `json:"italic,omitempty"`
	Children []richTextNode `json:"children,omitempty"`
}

// RichTextToPlain flattens a rich-text AST value into plain text. Paragraphs
// are separated by blank lines. A value that is not valid rich-text JSON is
// returned trimmed as-is.
func RichTextToPlain(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	var root richTextNode
	if err := json.Unmarshal([]byte(value), &root); err != nil || root.Type != "root" {
		return value
	}

	var blocks []string
	for _, child := range root.Children {
		if text := strings.TrimSpace(plainText(child)); text != "" {
			blocks = append(blocks, text)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func plainText(n richTextNode) string {
	if n.Type == "text" {
		return n.Value
	}
	var b strings.Builder
	for _, child := range n.Children {
		b.WriteString(plainText(child))
	}
	return b.String()
}

// RichTextToHTML renders a rich-text AST value to HTML. Non-JSON values are
// wrapped in a single paragraph.
func RichTextToHTML(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	var root richTextNode
	if err := json.Unmarshal([]byte(value), &root); err != nil || root.Type != "root" {
		return "<p>" + htmlEscape(value) + "</p>"
	}

	var b strings.Builder
	for _, child := range root.Children {
		renderHTML(&b, child)
	}
	return b.String()
}

func renderHTML(b *strings.Builder, n richTextNode) {
	switch n.Type {
	case "paragraph":
		b.WriteString("<p>")
		renderChildren(b, n)
		b.WriteString("</p>")
	case "heading":
		tag := headingTag(n.Level)
		b.WriteString("<" + tag + ">")
		renderChildren(b, n)
		b.WriteString("</" + tag + ">")
	case "list":
		tag := "ul"
		if n.ListType == "ordered" {
			tag = "ol"
		}
		b.WriteString("<" + tag + ">")
		renderChildren(b, n)
		b.WriteString("</" + tag + ">")
	case "list-item":
		b.WriteString("<li>")
		renderChildren(b, n)
		b.WriteString("</li>")
	case "link":
		b.WriteString(`<a href="` + htmlEscape(n.URL) + `">`)
		renderChildren(b, n)
		b.WriteString("</a>")
	case "text":
		text := htmlEscape(n.Value)
		if n.Bold {
			text = "<strong>" + text + "</strong>"
		}
		if n.Italic {
			text = "<em>" + text + "</em>"
		}
		b.WriteString(text)
	default:
		renderChildren(b, n)
	}
}

func renderChildren(b *strings.Builder, n richTextNode) {
	for _, child := range n.Children {
		renderHTML(b, child)
	}
}

func headingTag(level int) string {
	if level < 1 || level > 6 {
		return "h2"
	}
	return "h" + string(rune('0'+level))
}

func htmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}
