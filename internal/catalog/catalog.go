// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the static risk-pattern table used by the rule
// engine. Each entry maps an indicator phrase to a precomputed severity,
// rationale, and remediation suggestion. Phrases are matched
// case-insensitively as substrings.
package catalog

import "clausecheck/internal/detector"

// Entry is one risk-indicator pattern.
type Entry struct {
	// Phrase is the lowercase indicator substring searched for in the
	// contract text.
	Phrase     string
	Severity   detector.Severity
	Rationale  string
	Suggestion string
}

var entries = []Entry{
	{
		Phrase:     "indemn",
		Severity:   detector.SeverityHigh,
		Rationale:  "Indemnification clauses can create open-ended financial exposure, especially when one-sided or uncapped.",
		Suggestion: "Make indemnification mutual and cap it at fees paid under the agreement; carve out losses caused by the other party's negligence.",
	},
	{
		Phrase:     "hold harmless",
		Severity:   detector.SeverityHigh,
		Rationale:  "Hold-harmless language shifts liability for third-party claims onto you regardless of fault.",
		Suggestion: "Limit the hold-harmless obligation to claims arising from your own breach or negligence.",
	},
	{
		Phrase:     "unlimited liability",
		Severity:   detector.SeverityHigh,
		Rationale:  "Unlimited liability removes any ceiling on damages you could owe.",
		Suggestion: "Add a liability cap, commonly the fees paid in the preceding 12 months.",
	},
	{
		Phrase:     "limitation of liability",
		Severity:   detector.SeverityHigh,
		Rationale:  "Liability limits are often asymmetric, capping the drafter's exposure while leaving yours open.",
		Suggestion: "Verify the cap applies equally to both parties and excludes neither party's indemnification duties.",
	},
	{
		Phrase:     "liquidated damages",
		Severity:   detector.SeverityMedium,
		Rationale:  "Liquidated damages fix a penalty amount in advance, which may far exceed actual harm.",
		Suggestion: "Confirm the stated amount is a genuine pre-estimate of loss, not a punitive figure.",
	},
	{
		Phrase:     "waive",
		Severity:   detector.SeverityMedium,
		Rationale:  "Waiver language can surrender rights or remedies you would otherwise keep.",
		Suggestion: "Identify exactly which rights are waived and strike any blanket waivers.",
	},
	{
		Phrase:     "jury trial",
		Severity:   detector.SeverityHigh,
		Rationale:  "Jury trial waivers remove a significant procedural protection in a dispute.",
		Suggestion: "Consider whether giving up a jury trial is acceptable; many counterparties will drop this on request.",
	},
	{
		Phrase:     "class action",
		Severity:   detector.SeverityHigh,
		Rationale:  "Class-action waivers bar collective claims, often paired with mandatory arbitration.",
		Suggestion: "Evaluate the waiver together with the arbitration clause; small individual claims may become impractical to pursue.",
	},
	{
		Phrase:     "arbitration",
		Severity:   detector.SeverityMedium,
		Rationale:  "Mandatory arbitration replaces court litigation, limits appeals, and may impose venue and cost burdens.",
		Suggestion: "Check who pays arbitration fees and where proceedings occur; prefer arbitration in your own jurisdiction.",
	},
	{
		Phrase:     "governing law",
		Severity:   detector.SeverityLow,
		Rationale:  "The governing-law choice determines which state's or country's rules interpret the contract.",
		Suggestion: "Confirm the chosen jurisdiction is acceptable and consistent with the venue clause.",
	},
	{
		Phrase:     "automatically renew",
		Severity:   detector.SeverityLow,
		Rationale:  "Auto-renewal continues the agreement unless cancelled within a notice window that is easy to miss.",
		Suggestion: "Calendar the renewal notice deadline or negotiate renewal by mutual written agreement.",
	},
	{
		Phrase:     "auto-renew",
		Severity:   detector.SeverityLow,
		Rationale:  "Auto-renewal continues the agreement unless cancelled within a notice window that is easy to miss.",
		Suggestion: "Calendar the renewal notice deadline or negotiate renewal by mutual written agreement.",
	},
	{
		Phrase:     "non-compete",
		Severity:   detector.SeverityHigh,
		Rationale:  "Non-compete restrictions can block future work in your field; enforceability varies by jurisdiction.",
		Suggestion: "Narrow the restriction by duration, geography, and scope, or replace it with a non-solicitation clause.",
	},
	{
		Phrase:     "non-solicit",
		Severity:   detector.SeverityMedium,
		Rationale:  "Non-solicitation clauses restrict whom you may hire or do business with after the contract ends.",
		Suggestion: "Limit the restriction to employees you directly worked with and to a 12-month term.",
	},
	{
		Phrase:     "termination for convenience",
		Severity:   detector.SeverityMedium,
		Rationale:  "One-sided termination for convenience lets the counterparty exit at will while you stay bound.",
		Suggestion: "Make convenience termination mutual and require notice plus payment for work performed.",
	},
	{
		Phrase:     "terminate at any time",
		Severity:   detector.SeverityMedium,
		Rationale:  "At-will termination rights create revenue uncertainty and may strand work in progress.",
		Suggestion: "Require reasonable written notice and compensation for work completed through termination.",
	},
	{
		Phrase:     "work made for hire",
		Severity:   detector.SeverityMedium,
		Rationale:  "Work-made-for-hire language transfers all intellectual property in deliverables, sometimes including pre-existing material.",
		Suggestion: "Carve out pre-existing tools and libraries and license them instead of assigning ownership.",
	},
	{
		Phrase:     "perpetual",
		Severity:   detector.SeverityMedium,
		Rationale:  "Perpetual grants or obligations survive indefinitely with no renegotiation point.",
		Suggestion: "Replace perpetual terms with a fixed term plus renewal, or add a termination right.",
	},
	{
		Phrase:     "exclusiv",
		Severity:   detector.SeverityMedium,
		Rationale:  "Exclusivity obligations can lock you out of other customers or suppliers.",
		Suggestion: "Limit exclusivity to a named product or market segment and a defined period.",
	},
	{
		Phrase:     "as is",
		Severity:   detector.SeverityMedium,
		Rationale:  "\"As is\" language disclaims warranties, leaving you without recourse for defects.",
		Suggestion: "Negotiate at least a limited warranty of conformance to the documentation for a defined period.",
	},
	{
		Phrase:     "confidential",
		Severity:   detector.SeverityLow,
		Rationale:  "Confidentiality duties are standard but check the definition's breadth and the survival period.",
		Suggestion: "Exclude independently developed and publicly available information; bound the survival period.",
	},
	{
		Phrase:     "force majeure",
		Severity:   detector.SeverityLow,
		Rationale:  "Force majeure excuses performance during extraordinary events; narrow definitions can leave you exposed.",
		Suggestion: "Ensure the definition covers events relevant to your performance and allows termination after a prolonged outage.",
	},
	{
		Phrase:     "time is of the essence",
		Severity:   detector.SeverityLow,
		Rationale:  "This phrase makes any missed deadline a material breach, however minor.",
		Suggestion: "Strike the phrase or attach it only to specific, critical milestones with cure periods.",
	},
	{
		Phrase:     "late fee",
		Severity:   detector.SeverityLow,
		Rationale:  "Late-fee and interest terms determine the cost of delayed payment.",
		Suggestion: "Confirm the rate is lawful in the governing jurisdiction and applies only after a grace period.",
	},
}

// Entries returns the full pattern table. Callers must not modify the
// returned slice.
func Entries() []Entry {
	return entries
}
