package domain

// Contract enforced on every generated quiz payload.
const (
	PayloadQuestionCount = 10
	PayloadOptionCount   = 4
)

// QuestionPayload is one question-shaped record as produced by the
// generative model, prior to persistence. The JSON field names are part of
// the model output contract.
type QuestionPayload struct {
	Title   string   `json:"question_title"`
	Options []string `json:"question_options"`
	Answer  string   `json:"answer"`
}

// QuizPayload is the transient candidate quiz produced by one generation
// attempt. It is accepted or discarded as a whole; individual questions are
// never salvaged from an invalid payload.
type QuizPayload []QuestionPayload

// Valid reports whether the payload satisfies the full structural contract:
// exactly 10 questions, each with exactly 4 pairwise-distinct options and an
// answer equal to one of its options verbatim. Titles are not inspected; the
// contract is purely structural. It is a pure function of the payload value.
func (p QuizPayload) Valid() bool {
	if len(p) != PayloadQuestionCount {
		return false
	}
	for _, q := range p {
		if len(q.Options) != PayloadOptionCount {
			return false
		}
		seen := make(map[string]struct{}, PayloadOptionCount)
		for _, opt := range q.Options {
			if _, dup := seen[opt]; dup {
				return false
			}
			seen[opt] = struct{}{}
		}
		if _, ok := seen[q.Answer]; !ok {
			return false
		}
	}
	return true
}

// Questions materializes the payload into persistable Question entities
// owned by the given quiz, preserving generation order.
func (p QuizPayload) Questions(quizID string) []*Question {
	questions := make([]*Question, 0, len(p))
	for i, q := range p {
		questions = append(questions, &Question{
			QuizID:   quizID,
			Position: i,
			Title:    q.Title,
			Options:  append([]string(nil), q.Options...),
			Answer:   q.Answer,
		})
	}
	return questions
}
