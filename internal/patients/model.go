package patients

import (
	"strings"
	"time"
)

// Patient mirrors a drchrono patient. The id is assigned upstream and never
// generated locally; stored fields are not refreshed from later API reads.
type Patient struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	PhotoURL  string    `json:"photo_url"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName returns the patient's display name.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
