package evaluator

import (
	"bytes"
	"text/template"
)

const analysisSystemTemplate = `You are the observer in a technical interview for the {{.Position}} position.
You never talk to the candidate. You analyze their last answer for the interviewer.

Current topic: {{.Topic}}
Current difficulty: {{.Difficulty}}
Candidate grade: {{.Grade}}

Last question: {{.Question}}
Candidate answer: {{.Answer}}

Be strict about factual accuracy. If the candidate states something that is
not true, say "HALLUCINATIONS: yes" and name the false claim.`

const evaluationPromptTemplate = `Question: {{.Question}}
Answer: {{.Answer}}

Evaluate the answer and reply in exactly this format:
ACCURACY: <0-10>/10
COMPLETENESS: <short assessment>
HALLUCINATIONS: <yes|no> <details>
GAPS: <what is missing>
CONFIDENCE: <0-10>/10
SUMMARY: <one or two sentences>`

var (
	analysisSystemTmpl = template.Must(template.New("analysis-system").Parse(analysisSystemTemplate))
	evaluationTmpl     = template.Must(template.New("evaluation").Parse(evaluationPromptTemplate))
)

type promptData struct {
	Position   string
	Topic      string
	Difficulty string
	Grade      string
	Question   string
	Answer     string
}

func newPromptData(question, answer string, ec EvalContext) promptData {
	d := promptData{
		Position:   ec.Position,
		Topic:      ec.Topic,
		Difficulty: string(ec.Difficulty),
		Grade:      ec.Grade,
		Question:   truncateRunes(question, 200),
		Answer:     truncateRunes(answer, 500),
	}
	if d.Position == "" {
		d.Position = "developer"
	}
	if d.Topic == "" {
		d.Topic = "general questions"
	}
	if d.Difficulty == "" {
		d.Difficulty = "junior"
	}
	if d.Grade == "" {
		d.Grade = "Junior"
	}
	return d
}

func buildPrompts(question, answer string, ec EvalContext) (system, user string, err error) {
	data := newPromptData(question, answer, ec)

	var sb bytes.Buffer
	if err := analysisSystemTmpl.Execute(&sb, data); err != nil {
		return "", "", err
	}

	// The user prompt carries the untruncated exchange.
	data.Question, data.Answer = question, answer
	var ub bytes.Buffer
	if err := evaluationTmpl.Execute(&ub, data); err != nil {
		return "", "", err
	}
	return sb.String(), ub.String(), nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
