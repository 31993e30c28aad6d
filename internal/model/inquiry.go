package model

// TagSlots is the fixed number of tag columns on the spreadsheet.
const TagSlots = 5

// InquiryRecord is one structured request extracted from a single Slack
// message. The extraction model returns JSON null for anything it could not
// determine, which decodes to the empty string here; empty and absent are the
// same "not provided" state throughout the pipeline.
type InquiryRecord struct {
	TargetName  string   `json:"target_name"`
	TargetEmail string   `json:"target_email"`
	Tags        []string `json:"tags"`
	Details     string   `json:"details"`
	DueDate     string   `json:"due_date"`
}

// HasTag reports whether the record carries the given tag.
func (r InquiryRecord) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PaddedTags returns exactly TagSlots entries: shorter tag lists are padded
// with empty strings, longer ones truncated, and "null" placeholders the model
// sometimes emits as literal strings are blanked out.
func (r InquiryRecord) PaddedTags() []string {
	padded := make([]string, TagSlots)
	for i := 0; i < TagSlots && i < len(r.Tags); i++ {
		if r.Tags[i] == "null" {
			continue
		}
		padded[i] = r.Tags[i]
	}
	return padded
}

// ActiveTags returns the tags worth showing to a human, dropping empty slots
// and literal "null" placeholders while preserving order.
func (r InquiryRecord) ActiveTags() []string {
	var tags []string
	for _, t := range r.Tags {
		if t == "" || t == "null" {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}

// PersistedRow is one InquiryRecord as written to the backing store, together
// with the identifiers assigned at persistence time. SequenceNumber and
// RowPosition are immutable once assigned.
type PersistedRow struct {
	SequenceNumber int
	RowPosition    int
	Record         InquiryRecord
	Inquirer       string
	Timestamp      string
	SourceMessage  string
	SourceLink     string
}
