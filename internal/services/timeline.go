package services

import (
	"sort"
	"time"

	"github.com/chiedozieu/website-builder/internal/models"
)

// Timeline entry kinds.
const (
	TimelineMessage = "message"
	TimelineVersion = "version"
)

// TimelineEntry is one item of a project's interleaved history: either a
// conversation turn or a version marker, carried behind an explicit kind tag
// rather than detected by field probing.
type TimelineEntry struct {
	Kind      string               `json:"kind"`
	Timestamp time.Time            `json:"timestamp"`
	Message   *models.Conversation `json:"message,omitempty"`
	Version   *models.Version      `json:"version,omitempty"`
}

// BuildTimeline merges conversation turns and versions into one list sorted
// by timestamp. Ties keep messages ahead of the version they produced.
func BuildTimeline(turns []models.Conversation, versions []models.Version) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(turns)+len(versions))
	for i := range turns {
		entries = append(entries, TimelineEntry{
			Kind:      TimelineMessage,
			Timestamp: turns[i].CreatedAt,
			Message:   &turns[i],
		})
	}
	for i := range versions {
		entries = append(entries, TimelineEntry{
			Kind:      TimelineVersion,
			Timestamp: versions[i].CreatedAt,
			Version:   &versions[i],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Kind == TimelineMessage && entries[j].Kind == TimelineVersion
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries
}
