package quizgen

import "fmt"

// BuildQuizPrompt renders a transcript into the instruction prompt sent to
// the generative model. It is deterministic and side-effect free. The prompt
// spells out, verbatim, the exact output contract the payload validator
// enforces, so the retry loop has a reasonable chance of success. The
// transcript-only and no-duplicates directives are best-effort quality
// instructions that are not mechanically enforced.
func BuildQuizPrompt(transcript string) string {
	return fmt.Sprintf(`You are a system that generates quiz questions strictly as JSON.

TASK:
Create EXACTLY 10 multiple-choice quiz questions based ONLY on the transcript below.

STRICT REQUIREMENTS (MUST FOLLOW ALL):
- Output MUST be a valid JSON array.
- The array MUST contain EXACTLY 10 objects.
- Each object MUST contain:
  - "question_title": a clear question between 40 and 70 characters.
  - "question_options": an array of EXACTLY 4 unique strings.
  - "answer": EXACTLY one string that matches one of the options.
- The correct answer MUST appear verbatim in "question_options".
- Do NOT repeat questions.
- Do NOT repeat answer options within a question.
- All questions MUST be directly derived from the transcript.
- Do NOT invent facts not present in the transcript.

OUTPUT RULES (CRITICAL):
- Output ONLY the raw JSON array.
- Do NOT include explanations.
- Do NOT include markdown.
- Do NOT include backticks.
- Do NOT include any text before or after the JSON.
- If you cannot fully comply, output NOTHING.

EXAMPLE FORMAT:
[
  {
    "question_title": "Example question written clearly and precisely?",
    "question_options": ["Option A", "Option B", "Option C", "Option D"],
    "answer": "Option A"
  }
]

TRANSCRIPT:
%s
`, transcript)
}
