package jisho

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/tags"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	entry, err := fixedParser().Parse(decodeDocument(t, henkenDocument))
	require.NoError(t, err)

	data, err := Encode(entry)
	require.NoError(t, err)

	back, err := Decode(data, tags.Default())
	require.NoError(t, err)
	assert.Equal(t, entry, back)
}

func TestEncode_AbsentVersusEmpty(t *testing.T) {
	t.Parallel()

	entry := domain.DictionaryEntry{
		ID:   EntryID("ai"),
		Word: domain.NewWordRepresentation("愛", "あいじょう", nil),
		Meanings: domain.MeaningSection{
			Groups: []domain.MeaningGroup{{
				Tag: tags.Default().Classify("Noun"),
				Entries: []domain.MeaningWrapper{
					{SupplementalInfo: nil, ExampleSentences: []domain.ExampleSentence{}},
				},
			}},
			OtherForms: nil,
			Notes:      []string{},
		},
	}

	data, err := Encode(entry)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	word := raw["word_representation"].(map[string]any)
	assert.Contains(t, word, "alignment")
	assert.Nil(t, word["alignment"])
	assert.Equal(t, false, word["is_dirty"])

	section := raw["meaning_section"].(map[string]any)
	assert.NotContains(t, section, "other_forms")
	assert.Equal(t, []any{}, section["notes"])

	group := section["groups"].([]any)[0].(map[string]any)
	assert.Equal(t, "Noun", group["tag"])
	first := group["entries"].([]any)[0].(map[string]any)
	assert.NotContains(t, first, "supplemental_info")
	assert.Equal(t, []any{}, first["example_sentences"])

	links := raw["supplementary_links"].(map[string]any)
	for _, key := range []string{"audio_links", "collocation_links", "other_links"} {
		assert.Equal(t, []any{}, links[key], key)
	}

	labels := raw["concept_labels"].(map[string]any)
	assert.Contains(t, labels, "jlpt_level")
	assert.Nil(t, labels["jlpt_level"])

	back, err := Decode(data, tags.Default())
	require.NoError(t, err)
	assert.Nil(t, back.Word.Alignment)
	assert.False(t, back.Word.IsDirty)
	assert.Nil(t, back.Meanings.OtherForms)
	assert.NotNil(t, back.Meanings.Notes)
	assert.Nil(t, back.Meanings.Groups[0].Entries[0].SupplementalInfo)
	assert.NotNil(t, back.Meanings.Groups[0].Entries[0].ExampleSentences)
}

func TestDecode_DirtyFlagSurvives(t *testing.T) {
	t.Parallel()

	entry := domain.DictionaryEntry{
		ID:       EntryID("nihongo"),
		Word:     domain.NewWordRepresentation("日本語", "にほんご", []int{0, 0, 2, 2}),
		Meanings: domain.MeaningSection{Groups: []domain.MeaningGroup{}},
	}
	require.True(t, entry.Word.IsDirty)

	data, err := Encode(entry)
	require.NoError(t, err)
	back, err := Decode(data, tags.Default())
	require.NoError(t, err)

	assert.True(t, back.Word.IsDirty)
	assert.Nil(t, back.Word.Alignment)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{"},
		{name: "bad id", data: `{"id": "nope"}`},
		{name: "bad jlpt", data: `{"id": "` + EntryID("x").String() + `", "concept_labels": {"jlpt_level": "N9"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tt.data), tags.Default())
			assert.Error(t, err)
		})
	}
}
