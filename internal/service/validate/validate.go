// Package validate applies the business rules a batch must satisfy before
// anything is written to the sheet. A rejection is an expected outcome carried
// as a typed value, not a collaborator failure.
package validate

import (
	"strings"

	"inquiry-intake-service/internal/model"
)

// AccountManagementTag is the tag whose presence makes the target email
// mandatory.
const AccountManagementTag = "アカウント管理"

// User-facing rejection reasons, replied verbatim into the Slack thread.
const (
	ReasonNothingExtracted = "情報を正しく読み取れませんでした。再度入力してください"
	ReasonEmailRequired    = "アカウント管理の依頼には対象者のメールアドレスが必要です。メールアドレスを含めて再度入力してください"
)

// Rejection reports why a batch was refused.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

// Check validates the whole batch and returns the first violation, or nil when
// the batch may proceed to persistence. All-or-nothing: a single violating
// record rejects every record in the batch.
func Check(batch []model.InquiryRecord) *Rejection {
	if len(batch) == 0 {
		return &Rejection{Reason: ReasonNothingExtracted}
	}

	for _, rec := range batch {
		if rec.HasTag(AccountManagementTag) && strings.TrimSpace(rec.TargetEmail) == "" {
			return &Rejection{Reason: ReasonEmailRequired}
		}
	}

	return nil
}
