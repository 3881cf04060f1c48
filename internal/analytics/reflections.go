package analytics

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"upbit-trade-dashboard/internal/models"
)

// DefaultLabelTimeFormat renders label timestamps to the minute.
const DefaultLabelTimeFormat = "2006-01-02 15:04"

// ReflectionEntry is a selectable reflection. Labels may repeat; ID does not.
type ReflectionEntry struct {
	ID         uint            `json:"id"`
	Label      string          `json:"label"`
	Timestamp  time.Time       `json:"timestamp"`
	Coin       models.Coin     `json:"coin"`
	Decision   models.Decision `json:"decision"`
	Percentage float64         `json:"percentage"`
	Reflection string          `json:"reflection"`
	Reason     string          `json:"reason"`
}

// Reflections keeps the records that carry a reflection, most recent first.
func Reflections(records []Record, timeFormat string) []ReflectionEntry {
	if timeFormat == "" {
		timeFormat = DefaultLabelTimeFormat
	}

	var withNotes []Record
	for _, r := range records {
		if strings.TrimSpace(r.Reflection) != "" {
			withNotes = append(withNotes, r)
		}
	}
	sortNewestFirst(withNotes)

	entries := make([]ReflectionEntry, 0, len(withNotes))
	for _, r := range withNotes {
		entries = append(entries, ReflectionEntry{
			ID:         r.ID,
			Label:      reflectionLabel(r, timeFormat),
			Timestamp:  r.Timestamp,
			Coin:       r.Coin,
			Decision:   r.Decision,
			Percentage: r.Percentage,
			Reflection: r.Reflection,
			Reason:     r.Reason,
		})
	}
	return entries
}

// reflectionLabel renders "2024-11-03 09:00 - BTC (SELL 50%)".
func reflectionLabel(r Record, timeFormat string) string {
	return fmt.Sprintf("%s - %s (%s %s%%)",
		r.Timestamp.Format(timeFormat),
		r.Coin,
		strings.ToUpper(string(r.Decision)),
		formatPercentage(r.Percentage),
	)
}

func formatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// SelectReflection finds the entry with the given record ID.
func SelectReflection(entries []ReflectionEntry, id uint) (ReflectionEntry, bool) {
	i := slices.IndexFunc(entries, func(e ReflectionEntry) bool { return e.ID == id })
	if i < 0 {
		return ReflectionEntry{}, false
	}
	return entries[i], true
}
