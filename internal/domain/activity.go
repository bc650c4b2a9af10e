package domain

// ActivityBucket is one calendar day of creation counts, keyed by the day's
// ISO date in UTC.
type ActivityBucket struct {
	Date        string `json:"date"`
	Signups     int    `json:"signups"`
	Products    int    `json:"products"`
	Prompts     int    `json:"prompts"`
	Stacks      int    `json:"stacks"`
	Collections int    `json:"collections"`
	Agents      int    `json:"agents"`
}

// KindStats is the dashboard summary for one kind.
//
// Active and Trending are fixed-multiplier approximations of the total and
// new counts, carried over from the observed product behavior.
type KindStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	New      int `json:"new"`
	Trending int `json:"trending"`
}

// Stats is the per-kind dashboard summary.
type Stats struct {
	Users       KindStats `json:"users"`
	Products    KindStats `json:"products"`
	Prompts     KindStats `json:"prompts"`
	Stacks      KindStats `json:"stacks"`
	Collections KindStats `json:"collections"`
	Agents      KindStats `json:"agents"`
	// Partial is set when a sub-fetch failed and its kind reports zeroes.
	Partial bool `json:"partial,omitempty"`
}

// MutationOutcome is the per-item result of a bulk mutation.
type MutationOutcome struct {
	TargetID string `json:"targetId"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}
