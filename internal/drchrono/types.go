package drchrono

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamp formats observed on the drchrono API. Appointment times carry no
// zone and are interpreted in the practice's local time.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// APITime parses the timestamp variants the API emits. The zero value marks
// a field the upstream record omitted.
type APITime struct {
	time.Time
}

func (t *APITime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("drchrono: time field: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("drchrono: unparseable timestamp %q", raw)
}

func (t APITime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// PatientRecord is the upstream representation of a patient.
type PatientRecord struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PatientPhoto string `json:"patient_photo"`
}

// StatusTransition is one entry of an appointment's status history, ordered
// oldest first as returned by the API.
type StatusTransition struct {
	ToStatus string  `json:"to_status"`
	DateTime APITime `json:"datetime"`
}

// AppointmentRecord is the upstream representation of an appointment.
// Patient is the linked patient id; zero means the record carries no patient
// link, which upstream data legitimately does mid-flow.
type AppointmentRecord struct {
	ID                int64              `json:"id"`
	ScheduledTime     APITime            `json:"scheduled_time"`
	Duration          int                `json:"duration"`
	Status            string             `json:"status"`
	Reason            string             `json:"reason"`
	ExamRoom          json.Number        `json:"exam_room"`
	Patient           int64              `json:"patient"`
	StatusTransitions []StatusTransition `json:"status_transitions"`
}

// DoctorRecord is the upstream representation of a doctor.
type DoctorRecord struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Specialty      string `json:"specialty"`
	OfficePhone    string `json:"office_phone"`
	ProfilePicture string `json:"profile_picture"`
}

// FullName returns the doctor's display name.
func (d DoctorRecord) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}
