package valueobject

import (
	"encoding/json"
	"fmt"
)

// FraudThreshold is the score at or above which a transaction is labelled FRAUD.
const FraudThreshold = 0.5

// Label is an immutable value object holding the binary fraud classification.
type Label struct {
	value string
}

var (
	LabelFraud = Label{value: "FRAUD"}
	LabelLegit = Label{value: "LEGIT"}
)

// LabelFromScore derives the label for a risk score.
func LabelFromScore(score float64) Label {
	if score >= FraudThreshold {
		return LabelFraud
	}
	return LabelLegit
}

// LabelFromString reconstructs a Label from its string representation.
func LabelFromString(s string) (Label, error) {
	switch s {
	case "FRAUD":
		return LabelFraud, nil
	case "LEGIT":
		return LabelLegit, nil
	default:
		return Label{}, fmt.Errorf("invalid label: %q", s)
	}
}

// String returns the string representation.
func (l Label) String() string {
	return l.value
}

// IsZero returns true if the label has not been set.
func (l Label) IsZero() bool {
	return l.value == ""
}

// Equal checks equality with another Label.
func (l Label) Equal(other Label) bool {
	return l.value == other.value
}

// IsFraud returns true if the label is FRAUD.
func (l Label) IsFraud() bool {
	return l.value == "FRAUD"
}

// MarshalJSON encodes the label as a JSON string.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.value)
}

// UnmarshalJSON decodes a JSON string into a Label, rejecting unknown values.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("label must be a string: %w", err)
	}
	parsed, err := LabelFromString(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
