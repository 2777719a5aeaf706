package domain

import (
	"strings"
	"time"
)

// Core domain models. HTTP request/response shapes live in the http adapter;
// the JSON tags here define the persisted form of the lead list.

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusArchived  Status = "archived"
)

// Statuses lists every lead status in dashboard order.
var Statuses = []Status{StatusNew, StatusContacted, StatusArchived}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusArchived:
		return true
	}
	return false
}

// Next returns the status the dashboard's single action button moves a lead to:
// new -> contacted -> archived -> new.
func (s Status) Next() Status {
	switch s {
	case StatusNew:
		return StatusContacted
	case StatusContacted:
		return StatusArchived
	default:
		return StatusNew
	}
}

// StatusFilter is either FilterAll or one of the lead statuses.
type StatusFilter string

const FilterAll StatusFilter = "all"

// ParseStatusFilter accepts "", "all" or a valid status (case-insensitive).
func ParseStatusFilter(raw string) (StatusFilter, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == string(FilterAll) {
		return FilterAll, true
	}
	if !Status(raw).Valid() {
		return "", false
	}
	return StatusFilter(raw), true
}

func (f StatusFilter) Match(s Status) bool {
	return f == FilterAll || f == "" || Status(f) == s
}

type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
}

// Inquiry is a validated contact form submission.
type Inquiry struct {
	Name    string
	Email   string
	Service string // optional
	Message string
}

// FormState is the caller-visible state of a contact form submission.
type FormState string

const (
	FormIdle    FormState = "idle"
	FormSending FormState = "sending"
	FormSuccess FormState = "success"
	FormError   FormState = "error"
)

type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// Stats summarises the lead list for the dashboard header.
type Stats struct {
	Total      int           `json:"total"`
	New        int           `json:"new"`
	Contacted  int           `json:"contacted"`
	Archived   int           `json:"archived"`
	TopDomains []DomainCount `json:"top_domains"`
}
