// Package interview is the chat screen that drives one interview session.
package interview

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/orchestrator"
	"github.com/abhisek/intervio/internal/router"
	"github.com/abhisek/intervio/internal/screen"
	"github.com/abhisek/intervio/internal/screens/report"
	"github.com/abhisek/intervio/internal/session"
	"github.com/abhisek/intervio/internal/ui/components"
	"github.com/abhisek/intervio/internal/ui/layout"
)

// Interviewer is the session API used by the screen.
type Interviewer interface {
	StartSession(ctx context.Context, c session.Context) (string, error)
	ProcessTurn(ctx context.Context, text string) (string, error)
	EndSession(ctx context.Context) (*feedback.Feedback, error)
	Status() orchestrator.Status
}

// Options configures the screen.
type Options struct {
	Interviewer     Interviewer
	Context         session.Context
	InterviewerName string
}

// Screen implements screen.Screen for a running interview. Only one
// turn is in flight at a time; input is disabled until it returns.
type Screen struct {
	iv      Interviewer
	ctx     session.Context
	ivName  string
	input   components.ChatInput
	chat    components.Transcript
	status  orchestrator.Status
	started bool
	busy    bool
	ending  bool
	frame   int
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)

// New creates the interview screen.
func New(opts Options) *Screen {
	name := opts.InterviewerName
	if name == "" {
		name = orchestrator.DefaultConfig().InterviewerName
	}
	s := &Screen{
		iv:     opts.Interviewer,
		ctx:    opts.Context,
		ivName: name,
		input:  components.NewChatInput("Type your answer..."),
		busy:   true,
	}
	s.input.SetDisabled(true)
	return s
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.start(), s.input.Init(), spinnerTick())
}

func (s *Screen) Title() string {
	return "Interview"
}

func (s *Screen) HeaderStatus() string {
	if !s.started {
		return ""
	}
	st := s.status
	return fmt.Sprintf("%s · %s · Q%d · %d/%d", st.Phase, st.Difficulty, st.QuestionsAsked,
		st.Stats.CorrectAnswers, st.Stats.TotalQuestions)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+E", Description: "End & get feedback"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)
	case replyMsg:
		return s.handleReply(msg)
	case finishedMsg:
		return s.handleFinished(msg)
	case spinnerTickMsg:
		if !s.busy {
			return s, nil
		}
		s.frame++
		return s, spinnerTick()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	s.setIdle()
	if msg.Err != nil {
		s.errMsg = fmt.Sprintf("Could not start the interview: %v", msg.Err)
		return s, nil
	}
	s.started = true
	s.status = msg.Status
	s.say(components.SpeakerInterviewer, s.ivName, msg.Greeting)
	return s, nil
}

func (s *Screen) handleReply(msg replyMsg) (screen.Screen, tea.Cmd) {
	s.setIdle()
	if msg.Err != nil {
		s.say(components.SpeakerSystem, "error", msg.Err.Error())
		return s, nil
	}
	s.status = msg.Status
	s.say(components.SpeakerInterviewer, s.ivName, msg.Reply)
	if !msg.Status.Active {
		return s.finish()
	}
	return s, nil
}

func (s *Screen) handleFinished(msg finishedMsg) (screen.Screen, tea.Cmd) {
	s.setIdle()
	if msg.Err != nil {
		s.errMsg = fmt.Sprintf("Could not build feedback: %v", msg.Err)
		return s, nil
	}
	next := report.New(msg.Feedback)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" || s.busy {
		return s, nil
	}
	switch msg.String() {
	case "enter":
		return s.submit()
	case "ctrl+e":
		return s.finish()
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) submit() (screen.Screen, tea.Cmd) {
	text := s.input.Take()
	if text == "" {
		return s, nil
	}
	s.say(components.SpeakerCandidate, s.candidateName(), text)
	s.setBusy()
	return s, tea.Batch(s.turn(text), spinnerTick())
}

func (s *Screen) finish() (screen.Screen, tea.Cmd) {
	if s.ending {
		return s, nil
	}
	s.ending = true
	s.setBusy()
	return s, tea.Batch(s.end(), spinnerTick())
}

func (s *Screen) candidateName() string {
	if s.ctx.Name != "" {
		return s.ctx.Name
	}
	return "You"
}

func (s *Screen) say(sp components.Speaker, name, text string) {
	s.chat.Add(components.Message{Speaker: sp, Name: name, Text: text})
}

func (s *Screen) setBusy() {
	s.busy = true
	s.input.SetDisabled(true)
}

func (s *Screen) setIdle() {
	s.busy = false
	s.input.SetDisabled(false)
}

func (s *Screen) start() tea.Cmd {
	iv, c := s.iv, s.ctx
	return func() tea.Msg {
		greeting, err := iv.StartSession(context.Background(), c)
		return startedMsg{Greeting: greeting, Status: iv.Status(), Err: err}
	}
}

func (s *Screen) turn(text string) tea.Cmd {
	iv := s.iv
	return func() tea.Msg {
		reply, err := iv.ProcessTurn(context.Background(), text)
		return replyMsg{Reply: reply, Status: iv.Status(), Err: err}
	}
}

func (s *Screen) end() tea.Cmd {
	iv := s.iv
	return func() tea.Msg {
		fb, err := iv.EndSession(context.Background())
		return finishedMsg{Feedback: fb, Err: err}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
