package service

import (
	"strings"
	"time"

	"github.com/bibbank/upi-risk/internal/domain/model"
)

const (
	// BurstThreshold is the number of transactions in the last hour that counts as a burst.
	BurstThreshold = 5

	nightStartHour = 23
	nightEndHour   = 5
)

// zonedLayouts carry an explicit UTC offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// wallClockLayouts carry no offset and are read as local wall-clock values.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"15:04:05",
	"15:04",
	"3:04PM",
	"3:04 PM",
}

// Features is the canonical feature bundle derived from a TransactionRequest.
type Features struct {
	Timestamp        string
	Amount           float64
	TxnCountLastHour float64
	Hour             int
	HourKnown        bool
	IsNightHour      bool
	IsBurst          bool
}

// Normalizer coerces a TransactionRequest into Features. It is pure and
// never fails: an unparsable timestamp yields an unknown hour.
type Normalizer struct {
	location *time.Location
}

// NewNormalizer creates a Normalizer. When loc is non-nil, timestamps that
// carry an offset are converted to loc before the hour is read; otherwise
// they are read in their own offset.
func NewNormalizer(loc *time.Location) *Normalizer {
	return &Normalizer{location: loc}
}

// Normalize derives the feature bundle for req.
func (n *Normalizer) Normalize(req *model.TransactionRequest) Features {
	f := Features{
		Amount:           req.Amount().InexactFloat64(),
		Timestamp:        req.Timestamp(),
		TxnCountLastHour: req.TxnCountLastHour(),
		IsBurst:          req.TxnCountLastHour() >= BurstThreshold,
	}

	if hour, ok := n.LocalHour(req.Timestamp()); ok {
		f.Hour = hour
		f.HourKnown = true
		f.IsNightHour = IsNightHour(hour)
	}

	return f
}

// LocalHour extracts the local hour of day from a timestamp string.
func (n *Normalizer) LocalHour(timestamp string) (int, bool) {
	s := strings.TrimSpace(timestamp)
	if len(s) > len("local") && strings.EqualFold(s[len(s)-len("local"):], "local") {
		s = strings.TrimSpace(s[:len(s)-len("local")])
	}
	if s == "" {
		return 0, false
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if n.location != nil {
				t = t.In(n.location)
			}
			return t.Hour(), true
		}
	}

	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t.Hour(), true
		}
	}

	return 0, false
}

// IsNightHour reports whether hour falls in the 23:00-05:59 window.
func IsNightHour(hour int) bool {
	return hour >= nightStartHour || hour <= nightEndHour
}
