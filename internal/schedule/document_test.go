package schedule

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDocumentAddRegistersEverywhere(t *testing.T) {
	doc := NewDocument()

	item := doc.Add(
		Field{Alias: AliasStartTime, EditorAlias: EditorDateTime, Value: strPtr("2024-05-01 09:30:00")},
		Field{Alias: AliasTitle, EditorAlias: EditorTextBox, Value: strPtr("Morning stretch")},
	)

	require.NotNil(t, item)
	_, err := uuid.Parse(item.Key)
	require.NoError(t, err, "new items get a generated uuid key")
	assert.Equal(t, ItemTypeKey, item.ContentTypeKey)

	require.Len(t, doc.Items, 1)
	assert.Equal(t, []string{item.Key}, doc.Order)
	assert.Equal(t, []string{item.Key}, doc.Exposed)
}

func TestDocumentRemoveIsAtomic(t *testing.T) {
	doc := NewDocument()
	first := doc.Add(Field{Alias: AliasTitle, EditorAlias: EditorTextBox, Value: strPtr("one")})
	second := doc.Add(Field{Alias: AliasTitle, EditorAlias: EditorTextBox, Value: strPtr("two")})

	require.True(t, doc.Remove(first.Key))

	require.Len(t, doc.Items, 1)
	assert.Equal(t, []string{second.Key}, doc.Order)
	assert.Equal(t, []string{second.Key}, doc.Exposed)
	assert.Nil(t, doc.Item(first.Key))
}

func TestDocumentRemoveUnknownKeyIsNoOp(t *testing.T) {
	doc := NewDocument()
	item := doc.Add(Field{Alias: AliasTitle, EditorAlias: EditorTextBox, Value: strPtr("keep")})

	assert.False(t, doc.Remove(uuid.NewString()))
	require.Len(t, doc.Items, 1)
	assert.Equal(t, []string{item.Key}, doc.Order)
}

func TestDocumentKeyLookupIsCaseInsensitive(t *testing.T) {
	doc := NewDocument()
	item := doc.Add(Field{Alias: AliasTitle, EditorAlias: EditorTextBox, Value: strPtr("x")})

	found := doc.Item(strings.ToUpper(item.Key))
	require.NotNil(t, found)
	assert.Equal(t, item.Key, found.Key)

	assert.True(t, doc.Remove(strings.ToUpper(item.Key)))
	assert.Empty(t, doc.Items)
	assert.Empty(t, doc.Order)
	assert.Empty(t, doc.Exposed)
}

func TestItemFieldLookupIsCaseInsensitive(t *testing.T) {
	item := Item{Fields: []Field{
		{Alias: "StartTime", EditorAlias: EditorDateTime, Value: strPtr("2024-05-01 09:30:00")},
	}}

	v := item.Value("starttime")
	require.NotNil(t, v)
	assert.Equal(t, "2024-05-01 09:30:00", *v)

	assert.Nil(t, item.Value(AliasTitle))
}

func TestItemUpsert(t *testing.T) {
	item := Item{Fields: []Field{
		{Alias: "Title", EditorAlias: EditorTextBox, Value: strPtr("old")},
	}}

	// Replaces through a differently cased alias without duplicating.
	item.Upsert(AliasTitle, EditorTextBox, strPtr("new"))
	require.Len(t, item.Fields, 1)
	assert.Equal(t, "new", *item.Value(AliasTitle))

	// Appends a missing field.
	item.Upsert(AliasWorkout, EditorContentPicker, nil)
	require.Len(t, item.Fields, 2)
	assert.Nil(t, item.Value(AliasWorkout))
	assert.Equal(t, EditorContentPicker, item.Field(AliasWorkout).EditorAlias)
}
