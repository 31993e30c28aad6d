package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaddedTags(t *testing.T) {
	rec := InquiryRecord{Tags: []string{"経費", "null", "その他"}}
	assert.Equal(t, []string{"経費", "", "その他", "", ""}, rec.PaddedTags())

	rec = InquiryRecord{Tags: []string{"a", "b", "c", "d", "e", "f"}}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, rec.PaddedTags())

	rec = InquiryRecord{}
	assert.Equal(t, []string{"", "", "", "", ""}, rec.PaddedTags())
}

func TestActiveTags(t *testing.T) {
	rec := InquiryRecord{Tags: []string{"経費", "null", "", "その他"}}
	assert.Equal(t, []string{"経費", "その他"}, rec.ActiveTags())

	assert.Empty(t, InquiryRecord{}.ActiveTags())
}

func TestHasTag(t *testing.T) {
	rec := InquiryRecord{Tags: []string{"アカウント管理"}}
	assert.True(t, rec.HasTag("アカウント管理"))
	assert.False(t, rec.HasTag("経費"))
}

func TestJSONNullDecodesToEmpty(t *testing.T) {
	var rec InquiryRecord
	raw := `{"target_name":"佐藤 太郎","target_email":null,"tags":null,"details":"PC交換","due_date":null}`
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Equal(t, "佐藤 太郎", rec.TargetName)
	assert.Equal(t, "", rec.TargetEmail)
	assert.Nil(t, rec.Tags)
	assert.Equal(t, "", rec.DueDate)
}
