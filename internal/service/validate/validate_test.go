package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inquiry-intake-service/internal/model"
)

func TestCheckEmptyBatch(t *testing.T) {
	rej := Check(nil)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonNothingExtracted, rej.Reason)

	rej = Check([]model.InquiryRecord{})
	require.NotNil(t, rej)
	assert.Equal(t, ReasonNothingExtracted, rej.Reason)
}

func TestCheckAccountManagementNeedsEmail(t *testing.T) {
	rej := Check([]model.InquiryRecord{
		{TargetName: "佐藤 太郎", Tags: []string{AccountManagementTag}},
	})
	require.NotNil(t, rej)
	assert.Equal(t, ReasonEmailRequired, rej.Reason)
}

func TestCheckWhitespaceEmailStillRejected(t *testing.T) {
	rej := Check([]model.InquiryRecord{
		{Tags: []string{AccountManagementTag}, TargetEmail: "   "},
	})
	require.NotNil(t, rej)
	assert.Equal(t, ReasonEmailRequired, rej.Reason)
}

func TestCheckRejectsWholeBatch(t *testing.T) {
	batch := []model.InquiryRecord{
		{Details: "問題なし", Tags: []string{"その他"}},
		{Tags: []string{AccountManagementTag}}, // violating record
	}
	rej := Check(batch)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonEmailRequired, rej.Reason)
}

func TestCheckAccepts(t *testing.T) {
	assert.Nil(t, Check([]model.InquiryRecord{
		{Tags: []string{AccountManagementTag}, TargetEmail: "taro@example.com"},
		{Tags: []string{"その他"}, Details: "アカウント不要の依頼"},
		{}, // no tags at all is acceptable
	}))
}
