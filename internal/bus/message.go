package bus

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ShareMessage records a case being shared.
type ShareMessage struct {
	ShareID   string `json:"share_id"`
	CaseID    string `json:"case_id"`
	URL       string `json:"url"`
	Target    string `json:"target"`
	Timestamp int64  `json:"timestamp"`
}

// QueryMessage records a filter query typed into a browser instance.
type QueryMessage struct {
	QueryID   string `json:"query_id"`
	Instance  int    `json:"instance"`
	Query     string `json:"query"`
	Matches   int    `json:"matches"`
	Timestamp int64  `json:"timestamp"`
}

// NewShareMessage stamps a share with a fresh id and the current time.
func NewShareMessage(caseID, url, target string) ShareMessage {
	return ShareMessage{
		ShareID:   uuid.NewString(),
		CaseID:    caseID,
		URL:       url,
		Target:    target,
		Timestamp: time.Now().Unix(),
	}
}

// NewQueryMessage stamps a query with a fresh id and the current time.
func NewQueryMessage(instance int, query string, matches int) QueryMessage {
	return QueryMessage{
		QueryID:   uuid.NewString(),
		Instance:  instance,
		Query:     query,
		Matches:   matches,
		Timestamp: time.Now().Unix(),
	}
}

func (m ShareMessage) fields() map[string]interface{} {
	return map[string]interface{}{
		"share_id":  m.ShareID,
		"case_id":   m.CaseID,
		"url":       m.URL,
		"target":    m.Target,
		"timestamp": m.Timestamp,
	}
}

func shareFromFields(fields map[string]string) ShareMessage {
	msg := ShareMessage{
		ShareID: fields["share_id"],
		CaseID:  fields["case_id"],
		URL:     fields["url"],
		Target:  fields["target"],
	}
	if timestamp := fields["timestamp"]; timestamp != "" {
		if ts, err := parseTimestamp(timestamp); err == nil {
			msg.Timestamp = ts
		}
	}
	return msg
}

func (m QueryMessage) fields() map[string]interface{} {
	return map[string]interface{}{
		"query_id":  m.QueryID,
		"instance":  strconv.Itoa(m.Instance),
		"query":     m.Query,
		"matches":   strconv.Itoa(m.Matches),
		"timestamp": m.Timestamp,
	}
}
