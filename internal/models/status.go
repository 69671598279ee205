package models

import (
	"fmt"
	"strings"
)

type Status int

const (
	StatusPending Status = iota
	StatusApproved
	StatusRejected
)

var statusLabels = map[Status]string{
	StatusPending:  "Pending",
	StatusApproved: "Approved",
	StatusRejected: "Rejected",
}

// String returns the display label of the status.
func (s Status) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ParseStatus accepts a label ("approved", "Approved") or a numeric value ("1").
func ParseStatus(value string) (Status, error) {
	for status, label := range statusLabels {
		if strings.EqualFold(label, value) || fmt.Sprint(int(status)) == value {
			return status, nil
		}
	}
	return StatusPending, fmt.Errorf("unknown status %q", value)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
