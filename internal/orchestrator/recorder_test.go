package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/intervio/internal/evaluator"
	"github.com/abhisek/intervio/internal/session"
	"github.com/abhisek/intervio/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRecorder(t *testing.T) {
	s := openStore(t)
	f := newFixture(t, []evaluator.Result{{Quality: 8}}, WithRecorder(NewStoreRecorder(s.SessionRepo())))
	ctx := context.Background()

	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)
	_, err = f.orch.ProcessTurn(ctx, "I have used Go for years")
	require.NoError(t, err)

	id := f.orch.State().ParticipantID
	repo := s.SessionRepo()

	rec, err := repo.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", rec.Participant)
	assert.Equal(t, string(session.PhaseTechnical), rec.Phase)
	assert.Equal(t, 1, rec.TotalQuestions)
	assert.False(t, rec.Finished())

	restored, err := session.UnmarshalSnapshot(rec.Snapshot)
	require.NoError(t, err)
	assert.Equal(t, f.orch.State().Stats, restored.Stats)

	turns, err := repo.ListTurns(ctx, id)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, 1, turns[0].TurnID)
	assert.Equal(t, "I have used Go for years", turns[1].UserMessage)

	_, err = f.orch.EndSession(ctx)
	require.NoError(t, err)

	rec, err = repo.GetSession(ctx, id)
	require.NoError(t, err)
	assert.True(t, rec.Finished())
	assert.Equal(t, string(session.PhaseEnded), rec.Phase)
	assert.Contains(t, string(rec.Feedback), `"verdict"`)
}
