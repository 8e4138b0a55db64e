package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect recorded interview sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent interview sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.close()

		recs, err := rt.store.SessionRepo().ListSessions(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-8s  %-19s  %-16s  %-20s  %-8s  %-9s  %s\n",
			"ID", "Started", "Participant", "Position", "Grade", "Score", "Phase")
		fmt.Println(strings.Repeat("─", 96))
		for _, r := range recs {
			fmt.Printf("%-8s  %-19s  %-16s  %-20s  %-8s  %-9s  %s\n",
				truncate(r.ID, 8),
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(r.Participant, 16),
				truncate(r.Position, 20),
				r.Grade,
				fmt.Sprintf("%d/%d", r.CorrectAnswers, r.TotalQuestions),
				r.Phase,
			)
		}
		return nil
	},
}

var sessionsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the transcript and feedback of a session (id prefix accepted)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		showNotes, _ := cmd.Flags().GetBool("notes")

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.close()

		rec, turns, err := loadSession(cmd, rt.store, args[0])
		if err != nil {
			return err
		}

		sep := strings.Repeat("─", 60)
		fmt.Printf("Session:     %s\n", rec.ID)
		fmt.Printf("Participant: %s\n", rec.Participant)
		fmt.Printf("Position:    %s (%s)\n", rec.Position, rec.Grade)
		fmt.Printf("Started:     %s\n", rec.StartedAt.Local().Format("2006-01-02 15:04:05"))
		if rec.Finished() {
			fmt.Printf("Ended:       %s\n", rec.EndedAt.Local().Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("Score:       %d/%d\n", rec.CorrectAnswers, rec.TotalQuestions)

		fmt.Println()
		fmt.Println(sep)
		fmt.Println("TRANSCRIPT")
		fmt.Println(sep)
		for _, t := range turns {
			if t.UserMessage != "" {
				fmt.Printf("[%d] Candidate:   %s\n", t.TurnID, t.UserMessage)
			}
			fmt.Printf("[%d] Interviewer: %s\n", t.TurnID, t.VisibleMessage)
			if showNotes && t.InternalNotes != "" {
				fmt.Println("    " + strings.ReplaceAll(t.InternalNotes, "\n", "\n    "))
			}
		}

		if len(rec.Feedback) > 0 {
			var fb feedback.Feedback
			if err := json.Unmarshal(rec.Feedback, &fb); err != nil {
				return fmt.Errorf("decode feedback: %w", err)
			}
			fmt.Println(sep)
			fmt.Println("FEEDBACK")
			fmt.Println(sep)
			fmt.Print(fb.Text())
		}
		return nil
	},
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.close()

		rec, turns, err := loadSession(cmd, rt.store, args[0])
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}
		if err := writeExport(w, rec, turns); err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintln(os.Stderr, "Exported to", output)
		}
		return nil
	},
}

func loadSession(cmd *cobra.Command, st *store.Store, id string) (*store.SessionRecord, []store.TurnRecord, error) {
	rec, err := st.SessionRepo().GetSession(cmd.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	turns, err := st.SessionRepo().ListTurns(cmd.Context(), rec.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list turns: %w", err)
	}
	return rec, turns, nil
}

type exportTurn struct {
	TurnID        int    `json:"turn_id"`
	UserMessage   string `json:"user_message"`
	AgentResponse string `json:"agent_visible_message"`
	InternalNotes string `json:"internal_thoughts"`
	CreatedAt     string `json:"created_at"`
}

type exportSession struct {
	ID          string          `json:"session_id"`
	Participant string          `json:"participant_name"`
	Context     json.RawMessage `json:"context,omitempty"`
	StartedAt   string          `json:"started_at"`
	EndedAt     string          `json:"ended_at,omitempty"`
	Turns       []exportTurn    `json:"turns"`
	Feedback    json.RawMessage `json:"final_feedback,omitempty"`
}

func writeExport(w io.Writer, rec *store.SessionRecord, turns []store.TurnRecord) error {
	out := exportSession{
		ID:          rec.ID,
		Participant: rec.Participant,
		Context:     rec.Context,
		StartedAt:   rec.StartedAt.Format(time.RFC3339),
		Feedback:    rec.Feedback,
		Turns:       make([]exportTurn, 0, len(turns)),
	}
	if rec.Finished() {
		out.EndedAt = rec.EndedAt.Format(time.RFC3339)
	}
	for _, t := range turns {
		out.Turns = append(out.Turns, exportTurn{
			TurnID:        t.TurnID,
			UserMessage:   t.UserMessage,
			AgentResponse: t.VisibleMessage,
			InternalNotes: t.InternalNotes,
			CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	sessionsListCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	sessionsViewCmd.Flags().Bool("notes", false, "Include the internal evaluator and planner notes")
	sessionsExportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsViewCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
}
