package model

import (
	"encoding/json"
	"strconv"
)

// PriorityTier summarises a classification for sorting and grouping.
// 1 is the most urgent. TierNone means no rule matched.
type PriorityTier int

// Priority tiers.
const (
	TierNone     PriorityTier = 0
	TierCritical PriorityTier = 1
	TierHigh     PriorityTier = 2
	TierElevated PriorityTier = 3
)

// Valid reports whether the tier is one of 1, 2 or 3.
func (t PriorityTier) Valid() bool {
	return t >= TierCritical && t <= TierElevated
}

func (t PriorityTier) String() string {
	if !t.Valid() {
		return "-"
	}
	return strconv.Itoa(int(t))
}

// MarshalJSON encodes TierNone as null.
func (t PriorityTier) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(t))), nil
}

// UnmarshalJSON decodes null as TierNone.
func (t *PriorityTier) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TierNone
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = PriorityTier(n)
	return nil
}

// Neutral colors used when no rule matches.
const (
	NeutralBackground = "transparent"
	NeutralText       = "blue"
)

// Classification is the urgency verdict for a single job. It is produced and
// discarded per row; nothing persists it.
type Classification struct {
	BackgroundColor string       `json:"backgroundColor"`
	TextColor       string       `json:"textColor"`
	Tier            PriorityTier `json:"priorityTier"`
}

// Neutral returns the classification used when nothing matched.
func Neutral() Classification {
	return Classification{
		Tier:            TierNone,
		BackgroundColor: NeutralBackground,
		TextColor:       NeutralText,
	}
}

// IsNeutral reports whether no rule matched.
func (c Classification) IsNeutral() bool {
	return !c.Tier.Valid()
}
