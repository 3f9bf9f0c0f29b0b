package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFilled(t *testing.T) {
	assert.True(t, IsFilled("大阪府"))
	assert.False(t, IsFilled(""))
	assert.False(t, IsFilled("-"))
	assert.False(t, IsFilled("未入力"))
}

func TestEffectiveStatusDefaultsToActive(t *testing.T) {
	c := &Customer{}
	assert.Equal(t, StatusActive, c.EffectiveStatus())

	c.Status = StatusBlocked
	assert.Equal(t, StatusBlocked, c.EffectiveStatus())
}

func TestEffectiveStageDefaultsToMin(t *testing.T) {
	c := &Customer{}
	assert.Equal(t, StageMin, c.EffectiveStage())

	c.Stage = 3
	assert.Equal(t, 3, c.EffectiveStage())
}

func TestFieldRoundTrip(t *testing.T) {
	c := &Customer{}
	for _, key := range AdminEditableFields {
		ok := SetField(c, key, "value-"+key)
		require.True(t, ok, "SetField should accept %s", key)

		got, ok := Field(c, key)
		require.True(t, ok, "Field should accept %s", key)
		assert.Equal(t, "value-"+key, got)
	}
}

func TestFieldRejectsUnknownKey(t *testing.T) {
	c := &Customer{}
	_, ok := Field(c, "passwordHash")
	assert.False(t, ok)
	assert.False(t, SetField(c, "token", "x"))
}

func TestProfileCompleteness(t *testing.T) {
	c := &Customer{
		Name:            "山田太郎",
		BirthYear:       "1990",
		Prefecture:      "大阪府",
		Family:          "夫婦",
		HouseholdIncome: "800万円",
		PropertyType:    "マンション",
		Area:            "-", // sentinel, does not count
	}
	filled, total := ProfileCompleteness(c)
	assert.Equal(t, 6, filled)
	assert.Equal(t, 10, total)
	assert.False(t, CompleteEnoughForStage2(c))

	// Seventh filled field crosses the 70% line.
	c.Email = "taro@example.com"
	assert.True(t, CompleteEnoughForStage2(c))
}

func TestHasTag(t *testing.T) {
	c := &Customer{Tags: []string{"大阪府", "マンション"}}
	assert.True(t, c.HasTag("大阪府"))
	assert.False(t, c.HasTag("東京都"))
}

func TestCloneIsDeep(t *testing.T) {
	c := &Customer{
		Token:       "tok",
		Tags:        []string{"a"},
		ChatHistory: []ChatMessage{{Role: "user", Content: "hi"}},
		Todos:       []Todo{{ID: "1", Text: "call"}},
		Checklist:   NewChecklist(),
	}

	cp := c.Clone()
	cp.Tags[0] = "b"
	cp.ChatHistory[0].Content = "changed"
	cp.Todos[0].Text = "changed"
	cp.Checklist[0].Items[0].Checked = true

	assert.Equal(t, "a", c.Tags[0])
	assert.Equal(t, "hi", c.ChatHistory[0].Content)
	assert.Equal(t, "call", c.Todos[0].Text)
	assert.False(t, c.Checklist[0].Items[0].Checked)
}

func TestNewChecklistIsIndependentCopy(t *testing.T) {
	a := NewChecklist()
	b := NewChecklist()
	require.NotEmpty(t, a)
	require.NotEmpty(t, a[0].Items)

	a[0].Items[0].Checked = true
	assert.False(t, b[0].Items[0].Checked)

	tmpl := ChecklistTemplate()
	assert.False(t, tmpl[0].Items[0].Checked)
}
