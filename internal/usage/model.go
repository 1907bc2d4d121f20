package usage

import "time"

// Usage is a device fingerprint's free-tier consumption snapshot. There is no
// user account in this system; the client-generated fingerprint is the only
// identity payments and quotas attach to.
type Usage struct {
	Fingerprint string    `json:"fingerprint"`
	Used        int       `json:"used"`
	Limit       int       `json:"limit"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Remaining reports how many free analyses are left. Paid devices are unmetered.
func (u Usage) Remaining() int {
	if u.Paid {
		return -1
	}
	left := u.Limit - u.Used
	if left < 0 {
		return 0
	}
	return left
}
