package schedule

import (
	"encoding/json"
	"strings"
)

// blockListLayoutKey is the layout kind the CMS block list editor writes; the
// persisted Layout object keys its entry list by it.
const blockListLayoutKey = "Umbraco.BlockList"

// Wire types for the persisted blob. Field order matches the historical
// writer so re-encoded documents diff cleanly against untouched ones.

type blockValue struct {
	EditorAlias string  `json:"editorAlias"`
	Culture     *string `json:"culture"`
	Segment     *string `json:"segment"`
	Alias       string  `json:"alias"`
	Value       *string `json:"value"`
}

type blockContent struct {
	ContentTypeKey string       `json:"contentTypeKey"`
	UDI            *string      `json:"udi"`
	Key            string       `json:"key"`
	Values         []blockValue `json:"values"`
}

type blockExpose struct {
	ContentKey string  `json:"contentKey"`
	Culture    *string `json:"culture"`
	Segment    *string `json:"segment"`
}

type blockLayoutEntry struct {
	ContentUDI  *string `json:"contentUdi"`
	SettingsUDI *string `json:"settingsUdi"`
	ContentKey  string  `json:"contentKey"`
	SettingsKey *string `json:"settingsKey"`
}

type blockList struct {
	ContentData  []blockContent                `json:"contentData"`
	SettingsData []json.RawMessage             `json:"settingsData"`
	Expose       []blockExpose                 `json:"expose"`
	Layout       map[string][]blockLayoutEntry `json:"Layout"`
}

// Decode parses a stored schedule blob into a Document. It never fails:
// empty, absent or malformed input yields a fresh empty document, and missing
// substructures default to empty. A corrupt blob is treated as if it never
// existed.
func Decode(raw string) *Document {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NewDocument()
	}

	var root blockList
	if err := json.Unmarshal([]byte(s), &root); err != nil {
		return NewDocument()
	}

	doc := NewDocument()
	for _, c := range root.ContentData {
		item := Item{
			Key:            c.Key,
			ContentTypeKey: c.ContentTypeKey,
		}
		for _, v := range c.Values {
			item.Fields = append(item.Fields, Field{
				Alias:       v.Alias,
				Value:       v.Value,
				EditorAlias: v.EditorAlias,
			})
		}
		doc.Items = append(doc.Items, item)
	}

	// Stale layout/expose entries pointing at no item are dropped here, so a
	// drifted document comes out consistent.
	for _, l := range root.Layout[blockListLayoutKey] {
		if doc.Item(l.ContentKey) != nil {
			doc.Order = append(doc.Order, l.ContentKey)
		}
	}
	for _, e := range root.Expose {
		if doc.Item(e.ContentKey) != nil {
			doc.Exposed = append(doc.Exposed, e.ContentKey)
		}
	}
	return doc
}

// Encode serializes a Document back into the blob form. Total and
// deterministic: any valid document, including the empty one, produces a
// well-formed compact JSON object with all four top-level keys.
func Encode(d *Document) string {
	root := blockList{
		ContentData:  make([]blockContent, 0, len(d.Items)),
		SettingsData: []json.RawMessage{},
		Expose:       make([]blockExpose, 0, len(d.Exposed)),
		Layout: map[string][]blockLayoutEntry{
			blockListLayoutKey: make([]blockLayoutEntry, 0, len(d.Order)),
		},
	}

	for _, item := range d.Items {
		c := blockContent{
			ContentTypeKey: item.ContentTypeKey,
			Key:            item.Key,
			Values:         make([]blockValue, 0, len(item.Fields)),
		}
		for _, f := range item.Fields {
			c.Values = append(c.Values, blockValue{
				EditorAlias: f.EditorAlias,
				Alias:       f.Alias,
				Value:       f.Value,
			})
		}
		root.ContentData = append(root.ContentData, c)
	}
	for _, key := range d.Order {
		root.Layout[blockListLayoutKey] = append(root.Layout[blockListLayoutKey], blockLayoutEntry{ContentKey: key})
	}
	for _, key := range d.Exposed {
		root.Expose = append(root.Expose, blockExpose{ContentKey: key})
	}

	// Marshalling cannot fail for this shape.
	b, _ := json.Marshal(root)
	return string(b)
}
