package planner

import (
	"fmt"
	"strings"

	"github.com/abhisek/intervio/internal/level"
	"github.com/abhisek/intervio/internal/session"
)

const systemPromptFormat = `You are a friendly but rigorous technical interviewer.

Position: %s
Candidate grade: %s
Experience: %s
Technologies: %s

Rules:
- Ask exactly one question and nothing else.
- Do not comment on the quality of previous answers.
- Do not number the question or add headings, notes or brackets.
- Keep it to one or two sentences.`

func interviewerSystemPrompt(c session.Context) string {
	experience := c.Experience
	if experience == "" {
		experience = "not specified"
	}
	return fmt.Sprintf(systemPromptFormat, c.Position, c.Grade, experience, strings.Join(c.Techs(), ", "))
}

var questionPrompts = map[level.Difficulty]string{
	level.Junior: "Ask a basic question about %s that checks understanding of core concepts and everyday usage.",
	level.Middle: "Ask a practical question about %s that requires applying it to a realistic task and explaining trade-offs.",
	level.Senior: "Ask an advanced question about %s covering design decisions, internals or behaviour under load.",
}

// maxPriorQuestions bounds the dedup list sent with a question prompt.
const maxPriorQuestions = 10

func questionPrompt(topic string, d level.Difficulty, prior []string) string {
	tmpl, ok := questionPrompts[d]
	if !ok {
		tmpl = questionPrompts[level.Junior]
	}

	var b strings.Builder
	fmt.Fprintf(&b, tmpl, topic)

	if len(prior) > maxPriorQuestions {
		prior = prior[len(prior)-maxPriorQuestions:]
	}
	if len(prior) > 0 {
		b.WriteString("\n\nAlready asked in this interview:\n")
		for _, q := range prior {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	return b.String()
}

const duplicateHint = "\n\nThe question %q was already asked. Ask something different."

const offTopicSystemPrompt = "You are a professional interviewer. Politely bring the candidate back to the interview. Do not use square brackets."

const offTopicTemplate = `While answering an interview question the candidate went off topic.

Original question: {{.original_question}}
Candidate said: {{.offtopic_response}}
They seem to be asking about {{.offtopic_topic}}.

Acknowledge it in one short sentence, say it can be discussed at the end of the interview, then repeat or rephrase the original question. Reply with the message only.`

const counterSystemPrompt = "You are an interviewer. Answer the candidate's question briefly and return to the interview."

const counterQuestionTemplate = `The candidate asked: {{.candidate_question}}
Context: {{.context}}

Answer in at most two sentences, then invite them to continue with the interview question. Reply with the message only.`

const (
	offTopicFallback = "Thanks for the question. Let's get back to the interview topic. Can you tell me about your experience with %s?"
	counterFallback  = "Good question, we can discuss it at the end of the interview. Let's continue: can you tell me more about your experience with %s?"
)

var fallbackQuestions = []string{
	"Can you describe a recent project you worked on and your role in it?",
	"How do you approach debugging a problem you have not seen before?",
	"Which data structures do you use most often, and why?",
	"How do you make sure the code you write is correct?",
	"Which technical decision from a past project would you make differently today?",
}
