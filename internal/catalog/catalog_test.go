// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"strings"
	"testing"
)

func TestEntriesWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Entries() {
		if e.Phrase == "" {
			t.Fatal("catalog entry with empty phrase")
		}
		if e.Phrase != strings.ToLower(e.Phrase) {
			t.Errorf("phrase %q must be lowercase for case-insensitive matching", e.Phrase)
		}
		if seen[e.Phrase] {
			t.Errorf("duplicate phrase %q", e.Phrase)
		}
		seen[e.Phrase] = true
		if !e.Severity.Valid() {
			t.Errorf("phrase %q has invalid severity %q", e.Phrase, e.Severity)
		}
		if e.Rationale == "" || e.Suggestion == "" {
			t.Errorf("phrase %q missing rationale or suggestion", e.Phrase)
		}
		if len(e.Rationale) > 400 || len(e.Suggestion) > 400 {
			t.Errorf("phrase %q rationale/suggestion exceeds length bound", e.Phrase)
		}
	}
	if len(seen) < 20 {
		t.Errorf("expected at least 20 catalog entries, got %d", len(seen))
	}
}
