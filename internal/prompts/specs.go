package prompts

const categorizeSpec = `Respond with a JSON object matching this exact structure:

{
  "category": "<category>",
  "rationale": "<explanation>"
}

Field constraints:
- category: Exactly one value from the allowed category set provided in
  the prompt, spelled exactly as given. Never invent a new category.
- rationale: One or two sentences explaining why this category fits the
  email better than the alternatives.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Assign exactly one category per email
- Base the decision only on the email content provided in the prompt`

const queriesSpec = `Respond with a JSON object matching this exact structure:

{
  "queries": ["<query1>", "<query2>"]
}

Field constraints:
- queries: Array of at most three distinct search query strings, each
  targeting one fact or topic the reply must cover. An empty array is
  valid and means no reference material is needed.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never repeat the full email text as a query
- Prefer short, specific phrases over complete sentences`

const draftSpec = `Respond with a JSON object matching this exact structure:

{
  "email": "<reply body>"
}

Field constraints:
- email: The complete reply body, ready to send without further editing.
  Plain text only, no subject line, no signature placeholders.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Ground factual statements in the retrieved documents when provided
- When reviewer feedback is present, fix every issue it raises`

const evaluateSpec = `Respond with a JSON object matching this exact structure:

{
  "sendable": false,
  "reason": "<explanation>"
}

Field constraints:
- sendable: true only when the draft is ready to send as-is. false when
  any question is unanswered, any claim lacks support in the reference
  documents, or the tone is wrong for the sender.
- reason: When sendable is false, a concrete list of problems the writer
  must fix. When sendable is true, a brief statement of why the draft
  is ready.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Judge only the draft provided in the prompt, not hypothetical revisions
- Reject drafts containing placeholders or incomplete sentences`

var specs = map[Stage]string{
	StageCategorize: categorizeSpec,
	StageQueries:    queriesSpec,
	StageDraft:      draftSpec,
	StageEvaluate:   evaluateSpec,
}

// Spec returns the hardcoded specification for a triage stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
