// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ai

import (
	"context"
	"fmt"
	"sort"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// moderationSampleLimit bounds how much text is sent for screening.
const moderationSampleLimit = 10000

// Verdict is the moderation collaborator's answer. Categories names the
// violated policies when Flagged is true.
type Verdict struct {
	Flagged    bool
	Categories []string
}

// moderationAPI is the slice of the provider client moderation needs.
type moderationAPI interface {
	Moderations(ctx context.Context, req openai.ModerationRequest) (openai.ModerationResponse, error)
}

// Moderator screens contract text before it is sent to the analyzer.
type Moderator struct {
	api     moderationAPI
	timeout time.Duration
}

// NewModerator builds a moderator against the hosted provider.
func NewModerator(apiKey string) *Moderator {
	return newModerator(openai.NewClient(apiKey))
}

func newModerator(api moderationAPI) *Moderator {
	return &Moderator{api: api, timeout: 15 * time.Second}
}

// Check classifies a text sample. The sample itself is never logged by
// this package regardless of outcome.
func (m *Moderator) Check(ctx context.Context, text string) (Verdict, error) {
	if len(text) > moderationSampleLimit {
		text = text[:moderationSampleLimit]
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	resp, err := m.api.Moderations(ctx, openai.ModerationRequest{
		Input: text,
		Model: openai.ModerationTextLatest,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("moderation request failed: %w", err)
	}
	if len(resp.Results) == 0 {
		return Verdict{}, fmt.Errorf("moderation returned no results")
	}

	result := resp.Results[0]
	if !result.Flagged {
		return Verdict{}, nil
	}
	return Verdict{Flagged: true, Categories: flaggedCategories(result.Categories)}, nil
}

func flaggedCategories(c openai.ResultCategories) []string {
	var names []string
	for name, hit := range map[string]bool{
		"hate":                   c.Hate,
		"hate/threatening":       c.HateThreatening,
		"harassment":             c.Harassment,
		"harassment/threatening": c.HarassmentThreatening,
		"self-harm":              c.SelfHarm,
		"self-harm/intent":       c.SelfHarmIntent,
		"self-harm/instructions": c.SelfHarmInstructions,
		"sexual":                 c.Sexual,
		"sexual/minors":          c.SexualMinors,
		"violence":               c.Violence,
		"violence/graphic":       c.ViolenceGraphic,
	} {
		if hit {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
