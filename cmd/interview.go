package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/intervio/internal/app"
	"github.com/abhisek/intervio/internal/session"
)

var grades = []string{"Trainee", "Intern", "Junior", "Middle", "Senior", "Lead"}

func addContextFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("name", "n", "", "Candidate name")
	f.StringP("position", "p", "", "Position applied for")
	f.StringP("grade", "g", "", "Target grade: "+strings.Join(grades, ", "))
	f.StringP("experience", "e", "", "Short experience summary")
	f.StringSliceP("tech", "t", nil, "Technologies, comma-separated")
}

// candidateContext reads the context flags. When stdin is a terminal and
// no flag was given, it asks for the values interactively.
func candidateContext(cmd *cobra.Command, defaultTechs []string) (session.Context, error) {
	f := cmd.Flags()
	name, _ := f.GetString("name")
	position, _ := f.GetString("position")
	grade, _ := f.GetString("grade")
	experience, _ := f.GetString("experience")
	techs, _ := f.GetStringSlice("tech")

	c := session.Context{
		Name:         name,
		Position:     position,
		Grade:        grade,
		Experience:   experience,
		Technologies: techs,
	}

	anySet := false
	for _, n := range []string{"name", "position", "grade", "experience", "tech"} {
		anySet = anySet || f.Changed(n)
	}
	if !anySet && isatty.IsTerminal(os.Stdin.Fd()) {
		var err error
		if c, err = promptContext(defaultTechs); err != nil {
			return c, err
		}
	}
	if len(c.Technologies) == 0 {
		c.Technologies = defaultTechs
	}
	return c, c.Validate()
}

func promptContext(defaultTechs []string) (session.Context, error) {
	var c session.Context
	ask := func(label, def string) (string, error) {
		p := promptui.Prompt{Label: label, Default: def}
		v, err := p.Run()
		return strings.TrimSpace(v), err
	}

	var err error
	if c.Name, err = ask("Your name", ""); err != nil {
		return c, err
	}
	if c.Position, err = ask("Position", session.DefaultPosition); err != nil {
		return c, err
	}

	gradePrompt := promptui.Select{
		Label:     "Grade",
		Items:     grades,
		CursorPos: 2,
	}
	if _, c.Grade, err = gradePrompt.Run(); err != nil {
		return c, err
	}

	if c.Experience, err = ask("Experience (optional)", ""); err != nil {
		return c, err
	}
	techs, err := ask("Technologies (comma-separated)", strings.Join(defaultTechs, ", "))
	if err != nil {
		return c, err
	}
	for _, t := range strings.Split(techs, ",") {
		if t = strings.TrimSpace(t); t != "" {
			c.Technologies = append(c.Technologies, t)
		}
	}
	return c, nil
}

// runInterview runs one interactive interview in the TUI and saves the
// session log when it ends.
func runInterview(cmd *cobra.Command) error {
	rt, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer rt.close()

	c, err := candidateContext(cmd, rt.cfg.Interview.DefaultTechnologies)
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return nil
		}
		return err
	}

	orch := rt.newOrchestrator(rt.newGenerator(cmd.Context()))
	if err := app.Run(app.Options{
		Interviewer:     orch,
		Context:         c,
		InterviewerName: rt.cfg.Interview.InterviewerName,
	}); err != nil {
		return err
	}

	if orch.State() == nil {
		return nil
	}
	files, err := orch.SaveSession(rt.cfg.LogsDir)
	if err != nil {
		rt.logger.Warn("saving session log failed", zap.Error(err))
		return nil
	}
	fmt.Println("Session saved to", files.Log)
	if fb := orch.Feedback(); fb != nil {
		fmt.Printf("Verdict: %s (%s)\n", fb.Verdict.Grade, fb.Verdict.HiringRecommendation)
	}
	return nil
}
