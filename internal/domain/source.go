package domain

import "time"

type SourceType string

const (
	SourcePrimary   SourceType = "primary"
	SourceSecondary SourceType = "secondary"
)

type DeltaStatus string

const (
	DeltaIdentical         DeltaStatus = "identical"
	DeltaMinorDifferences  DeltaStatus = "minor_differences"
	DeltaContentDrift      DeltaStatus = "content_drift"
	DeltaMajorDiscrepancy  DeltaStatus = "major_discrepancy"
	DeltaOutdatedSecondary DeltaStatus = "outdated_secondary"
)

// JobSource is one (job, discovery channel) copy of a posting.
type JobSource struct {
	JobID              string     `json:"job_id"`
	Platform           string     `json:"platform"`
	URL                string     `json:"url"`
	SourceType         SourceType `json:"source_type"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Requirements       string     `json:"requirements"`
	SalaryText         string     `json:"salary_text"`
	LocationText       string     `json:"location_text"`
	ContentFingerprint string     `json:"content_fingerprint"`
	DiscoveredAt       time.Time  `json:"discovered_at"`
	LastSeenAt         time.Time  `json:"last_seen_at"`
}

// SourceDelta compares a secondary copy against its primary.
type SourceDelta struct {
	JobID                      string             `json:"job_id"`
	PrimaryURL                 string             `json:"primary_url"`
	SecondaryURL               string             `json:"secondary_url"`
	SecondaryPlatform          string             `json:"secondary_platform"`
	FieldSimilarities          map[string]float64 `json:"field_similarities"`
	OverallSimilarity          float64            `json:"overall_similarity"`
	DeltaStatus                DeltaStatus        `json:"delta_status"`
	Differences                []string           `json:"differences,omitempty"`
	PrimaryUniqueSentences     int                `json:"primary_unique_sentences"`
	SecondaryUniqueSentences   int                `json:"secondary_unique_sentences"`
	IndicatesOutdatedSecondary bool               `json:"indicates_outdated_secondary"`
	IndicatesPoorSync          bool               `json:"indicates_poor_sync"`
}
