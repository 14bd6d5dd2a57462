// ABOUTME: Prompt frames for every model call the coder makes
// ABOUTME: Frames use {scenario}-style placeholders filled by llm.Render
package catalog

import (
	"fmt"
	"strings"
)

const topicFrame = `You are an experienced dental coding specialist working with ADA CDT codes.

Read the scenario and decide which of the %s code ranges below could apply to
the visit. Prefer including a range that might apply over missing one; later
steps refine every range you name.

Ranges:
%s

Scenario:
"{scenario}"

Answer in this format:
EXPLANATION: why the named ranges apply
DOUBT: anything uncertain, or "none"
CODE RANGE: the applicable ranges copied exactly as written above, comma separated, or "none"`

const subtopicFrame = `You are an experienced dental coding specialist working with ADA CDT codes.

Focus only on %s within %s.
%s

Scenario:
"{scenario}"

Pick the CDT code or codes from this range that the scenario supports. Base the
choice only on what the scenario documents. If no code from this range is
supported, answer "None".

Answer with the code or codes only, comma separated, with no other text.`

const keywordBucketNote = `Only applies when the scenario documents an %s.`

// RangeClassifierPrompt asks for the top-level CDT categories of a scenario.
const RangeClassifierPrompt = `You are an experienced dental coding specialist working with ADA CDT codes.

CDT categories:
{categories}

Scenario:
"{scenario}"

Identify every category above whose procedures the scenario documents or
clearly implies. Including an extra category is better than missing one.
Use the ranges exactly as written. Do not add details the scenario does not contain.

For each category, answer with this block and nothing else:
CODE_RANGE: Dxxxx-Dxxxx - Category name
EXPLANATION: why it applies
DOUBT: anything uncertain, or "none"`

// CleanerPrompt restructures raw clinical notes before classification.
const CleanerPrompt = `You are preparing a dental clinical note for billing review.

Rewrite the note below into clear sections: patient and visit context, findings,
diagnosis, procedures performed, materials and teeth or surfaces involved,
and follow-up. Keep every clinical fact, tooth number, surface and quantity.
Do not add facts, opinions or codes.

Note:
"{scenario}"`

// QuestionerPrompt asks for clarifying questions before final code selection.
const QuestionerPrompt = `You are reviewing a dental scenario before final CDT code selection.

Scenario:
"{scenario}"

Candidate codes by category:
{topics}

List the questions a coder would need answered to choose between the candidate
codes with confidence. Ask only about information missing from the scenario.

Answer in this format:
CDT_QUESTIONS:
one question per line, or "none"
CDT_EXPLANATION: why the answers matter`

// InspectorPrompt asks for the final code selection over all candidates.
const InspectorPrompt = `You are the final reviewer of CDT codes for a dental claim.

Scenario:
"{scenario}"

Candidate codes by category:
{topics}

Answers to clarifying questions:
{answers}

Select the codes the documentation supports for this visit and reject the
rest. Do not bill the same service twice. Do not add codes outside the candidates
unless the scenario plainly documents the procedure.

Answer in this format:
EXPLANATION: reasoning for the selection
CODES: selected codes, comma separated, or "none"
REJECTED CODES: rejected codes, comma separated, or "none"`

// VerifierPrompt asks whether each supplied code is supported by the scenario.
const VerifierPrompt = `You are a dental coding assistant checking CDT codes against a clinical scenario.

Scenario:
"{scenario}"

Codes to check:
{codes}

For each code above, decide whether the scenario documents the procedure the
code describes. Stay grounded in CDT definitions and in what the scenario says.
Do not suggest other codes.

Answer with this block for every code, in the order given, and nothing else:
CDT_CODE: the code
APPLICABLE: yes or no
REASON: one or two sentences`

// TopicPrompt builds the classifier frame for a topic, leaving {scenario} open.
func TopicPrompt(t Topic) string {
	var lines []string
	for _, b := range t.Buckets {
		line := fmt.Sprintf("- %s %s", b.Key, b.Label)
		switch {
		case b.Guidance != "":
			line += ": " + b.Guidance
		case b.Keyword != "":
			line += ": " + fmt.Sprintf(keywordBucketNote, b.Keyword)
		}
		lines = append(lines, line)
	}
	return fmt.Sprintf(topicFrame, t.Name, strings.Join(lines, "\n"))
}

// SubtopicPrompt builds the extraction frame for one bucket, leaving {scenario} open.
func SubtopicPrompt(t Topic, b Bucket) string {
	return fmt.Sprintf(subtopicFrame, b.DisplayName(), t.Name, b.Guidance)
}

// CategoryList renders every topic as "Dxxxx-Dxxxx - Name: summary" lines.
func CategoryList() string {
	var lines []string
	for _, t := range topics {
		lines = append(lines, fmt.Sprintf("%s - %s: %s", t.CodeRange, t.Name, t.Summary))
	}
	return strings.Join(lines, "\n")
}
