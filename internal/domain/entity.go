package domain

import "time"

// Metadata carries the identity and bookkeeping timestamps shared by every persisted record.
type Metadata struct {
	ID        int32     `json:"id"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Touch stamps the record as modified at now, setting the creation time on first use.
func (m *Metadata) Touch(now time.Time) {
	if m.CreatedOn.IsZero() {
		m.CreatedOn = now
	}
	m.UpdatedOn = now
}
