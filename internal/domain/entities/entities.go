// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import "strconv"

// Record is one row of the company catalog as read from the source file.
// All fields are kept as strings: the source is tabular text, and the
// normalizer interpolates values verbatim so that every field value stays
// recoverable as an exact substring of the passage.
type Record struct {
	Name      string
	Industry  string
	Sector    string
	HQState   string
	Revenue   string // annual revenue in USD billions, must parse as a number
	Employees string // employee count, must parse as an integer
}

// Validate reports whether the record can be ingested.
// A record with no name or with non-numeric revenue/employees is malformed;
// the pipeline skips and counts it instead of aborting the run.
func (r Record) Validate() error {
	if r.Name == "" {
		return ErrRecordMalformed
	}
	if r.Revenue != "" {
		if _, err := strconv.ParseFloat(r.Revenue, 64); err != nil {
			return ErrRecordMalformed
		}
	}
	if r.Employees != "" {
		if _, err := strconv.Atoi(r.Employees); err != nil {
			return ErrRecordMalformed
		}
	}
	return nil
}

// Passage is the searchable unit derived from one Record.
// The store assigns ID on insert; nothing outside the store mutates a stored passage.
type Passage struct {
	ID        int64
	Name      string
	Text      string
	Embedding []float32
}

// Match pairs a retrieved passage with its distance to the query vector.
type Match struct {
	Passage  Passage
	Distance float64
}

// Extraction is the raw output of the extractive QA capability.
type Extraction struct {
	Answer string
	Score  float64
}

// Answer is the final result returned for one question.
type Answer struct {
	Text       string
	SourceText string
	SourceName string
	Score      float64
}

// IngestSummary reports the outcome of one ingestion run.
type IngestSummary struct {
	Loaded  int
	Skipped int
}
