// Package reply formats the confirmation message posted back into the Slack
// thread after a batch has been registered. Pure formatting: absent fields are
// omitted, never errored on.
package reply

import (
	"fmt"
	"strings"

	"inquiry-intake-service/internal/model"
)

// Compose builds the confirmation message for a persisted batch: a header with
// the record count, a range link into the spreadsheet, then each record's
// assigned number and non-empty fields.
func Compose(rows []model.PersistedRow, spreadsheetID string, gid int64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "お問合せ頂いた内容について、以下の通りスプレッドシートに%d件登録しました。認識相違が無いかご確認ください。\n", len(rows))

	if link := rangeLink(rows, spreadsheetID, gid); link != "" {
		fmt.Fprintf(&b, "\n📋 スプレッドシート: %s\n", link)
	}

	for i, row := range rows {
		fmt.Fprintf(&b, "\n【%d件目】 (問合せNo: %d)\n", i+1, row.SequenceNumber)
		if row.Record.TargetName != "" {
			fmt.Fprintf(&b, "対象者: %s\n", row.Record.TargetName)
		}
		if row.Record.TargetEmail != "" {
			fmt.Fprintf(&b, "メールアドレス: %s\n", row.Record.TargetEmail)
		}
		if row.Record.DueDate != "" {
			fmt.Fprintf(&b, "対応期日: %s\n", row.Record.DueDate)
		}
		if tags := row.Record.ActiveTags(); len(tags) > 0 {
			fmt.Fprintf(&b, "タグ: %s\n", strings.Join(tags, ", "))
		}
	}

	return b.String()
}

// rangeLink builds a Slack-formatted link to the written row range, collapsing
// to single-row phrasing when the batch landed on one row.
func rangeLink(rows []model.PersistedRow, spreadsheetID string, gid int64) string {
	if len(rows) == 0 || spreadsheetID == "" {
		return ""
	}

	minRow, maxRow := rows[0].RowPosition, rows[0].RowPosition
	minSeq, maxSeq := rows[0].SequenceNumber, rows[0].SequenceNumber
	for _, row := range rows[1:] {
		if row.RowPosition < minRow {
			minRow = row.RowPosition
		}
		if row.RowPosition > maxRow {
			maxRow = row.RowPosition
		}
		if row.SequenceNumber < minSeq {
			minSeq = row.SequenceNumber
		}
		if row.SequenceNumber > maxSeq {
			maxSeq = row.SequenceNumber
		}
	}

	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d&range=A%d:N%d",
		spreadsheetID, gid, minRow, maxRow)

	if minRow == maxRow {
		return fmt.Sprintf("<%s|問合せNo%d>", url, minSeq)
	}
	return fmt.Sprintf("<%s|問合せNo%d-%d>", url, minSeq, maxSeq)
}
