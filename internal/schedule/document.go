package schedule

import (
	"strings"

	"github.com/google/uuid"
)

// Field aliases recognized on a schedule item.
const (
	AliasStartTime = "startTime"
	AliasTitle     = "title"
	AliasWorkout   = "workout"
)

// Editor aliases stamped on field values, carried over from the CMS editors
// that originally authored this data.
const (
	EditorDateTime      = "Umbraco.DateTime"
	EditorTextBox       = "Umbraco.TextBox"
	EditorContentPicker = "Umbraco.ContentPicker"
)

// ItemTypeKey is the element type key stamped on newly created schedule
// items. Existing items keep whatever key they were persisted with.
const ItemTypeKey = "6f33ba2e-54f5-4a8b-b3c1-7d0ff3a0d3c6"

// Field is one named value inside a schedule item. A nil Value is persisted
// as an explicit null.
type Field struct {
	Alias       string
	Value       *string
	EditorAlias string
}

// Item is one schedule block: a planned session with a start time, a title
// and an optional workout reference.
type Item struct {
	Key            string
	ContentTypeKey string
	Fields         []Field
}

// Field returns the entry for alias, or nil. Alias comparison is
// case-insensitive: persisted data carries inconsistent historical casing.
func (it *Item) Field(alias string) *Field {
	for i := range it.Fields {
		if strings.EqualFold(it.Fields[i].Alias, alias) {
			return &it.Fields[i]
		}
	}
	return nil
}

// Value returns the text value for alias, or nil when the field is absent or
// explicitly null.
func (it *Item) Value(alias string) *string {
	f := it.Field(alias)
	if f == nil {
		return nil
	}
	return f.Value
}

// Upsert replaces the value of an existing field or appends a new one. Field
// identity is the alias, compared case-insensitively.
func (it *Item) Upsert(alias, editorAlias string, value *string) {
	if f := it.Field(alias); f != nil {
		f.Value = value
		return
	}
	it.Fields = append(it.Fields, Field{
		Alias:       alias,
		Value:       value,
		EditorAlias: editorAlias,
	})
}

// Document is a member's full schedule block collection: the items themselves,
// the authored layout order and the set of exposed (published) items. The
// three collections are only ever mutated together, through Add and Remove.
type Document struct {
	Items   []Item
	Order   []string
	Exposed []string
}

// NewDocument returns an empty but valid document.
func NewDocument() *Document {
	return &Document{}
}

// Item returns the item with the given key, or nil. Key comparison is
// case-insensitive like everything else in the legacy format.
func (d *Document) Item(key string) *Item {
	for i := range d.Items {
		if strings.EqualFold(d.Items[i].Key, key) {
			return &d.Items[i]
		}
	}
	return nil
}

// Add creates a new item with a fresh key, appends it to the item list and
// registers it in the layout order and the exposed set. Returns the new item.
func (d *Document) Add(fields ...Field) *Item {
	key := uuid.NewString()
	d.Items = append(d.Items, Item{
		Key:            key,
		ContentTypeKey: ItemTypeKey,
		Fields:         fields,
	})
	d.Order = append(d.Order, key)
	d.Exposed = append(d.Exposed, key)
	return &d.Items[len(d.Items)-1]
}

// Remove deletes the item with the given key from the item list, the layout
// order and the exposed set in one step. Reports whether anything changed;
// removing an unknown key is a no-op.
func (d *Document) Remove(key string) bool {
	removed := false
	for i := range d.Items {
		if strings.EqualFold(d.Items[i].Key, key) {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			removed = true
			break
		}
	}
	d.Order = deleteKey(d.Order, key)
	d.Exposed = deleteKey(d.Exposed, key)
	return removed
}

func deleteKey(keys []string, key string) []string {
	for i := range keys {
		if strings.EqualFold(keys[i], key) {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
