package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gosrhd/checkpoint"
	"github.com/notargets/gosrhd/model_problems/SRHD"
)

func writeDeck(t *testing.T, deck string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(deck), 0o644))
	return path
}

const sodDeck = `
Title: Sod
N1: 50
Gamma: 1.6666666666666667
CFL: 0.4
FinalTime: 0.1
Order: 2
CheckpointInterval: 0.05
Left:
  Rho: 1
  P: 1
Right:
  Rho: 0.125
  P: 0.1
`

func TestRunModel(t *testing.T) {
	var (
		ctx = context.Background()
		db  = filepath.Join(t.TempDir(), "sod.db")
		m   = &Model{Dims: 1, ICFile: writeDeck(t, sodDeck), CheckpointFile: db, Preview: true}
		out bytes.Buffer
	)
	c, err := RunModel(ctx, m, &out)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, c.Time, 1.e-12)
	assert.Equal(t, "Sod", m.Run)
	assert.Contains(t, out.String(), "= CFL")
	assert.Contains(t, out.String(), "exact solution")

	// Continue the same run to a later time
	restart := &Model{Dims: 1, ICFile: m.ICFile, CheckpointFile: db, Restart: true, FinalTime: 0.2}
	r, err := RunModel(ctx, restart, io.Discard)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, r.Time, 1.e-12)

	var list bytes.Buffer
	require.NoError(t, listCheckpoints(ctx, db, "Sod", &list))
	assert.Contains(t, list.String(), "STEP")
	assert.GreaterOrEqual(t, bytes.Count(list.Bytes(), []byte("Sod")), 5)

	// The restart writes no second copy of its starting state and keeps counting steps
	store, err := checkpoint.Open(db, slog.Default())
	require.NoError(t, err)
	entries, err := store.List(ctx, "Sod")
	require.NoError(t, store.Close())
	require.NoError(t, err)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].Time, entries[i-1].Time)
		assert.Greater(t, entries[i].Step, entries[i-1].Step)
	}
	assert.Equal(t, r.Steps, entries[len(entries)-1].Step)
	assert.Greater(t, r.Steps, c.Steps)

	// A deck with another gamma or domain can not continue the run
	for _, deck := range []string{
		strings.Replace(sodDeck, "Gamma: 1.6666666666666667", "Gamma: 1.4", 1),
		sodDeck + "X1Max: 2\n",
	} {
		_, err = RunModel(ctx, &Model{Dims: 1, ICFile: writeDeck(t, deck), CheckpointFile: db, Restart: true, FinalTime: 0.3}, io.Discard)
		assert.Error(t, err, deck)
	}

	// Nothing left to do for a finished run
	_, err = RunModel(ctx, &Model{Dims: 1, ICFile: m.ICFile, CheckpointFile: db, Restart: true}, io.Discard)
	assert.Error(t, err)
}

const injectionDeck = `
Title: Injection
N1: 50
Order: 1
Gamma: 1.3333333333333333
FinalTime: 0.1
InitType: uniform
Uniform:
  Rho: 1
  P: 1
Boundaries:
  X1Lower: reflecting
EngineDuration: 0.05
DecayConstant: 0.01
Sources:
  Tau: 1
  Radius: 0.2
`

func TestRunModelSources(t *testing.T) {
	c, err := RunModel(context.Background(), &Model{Dims: 1, ICFile: writeDeck(t, injectionDeck)}, io.Discard)
	require.NoError(t, err)
	require.NotNil(t, c.Sources[SRHD.QTau])
	// Tau = 3 per unit length at rest, the source adds 0.2*(0.05 + 0.01*(1-exp(-5)))
	var (
		tau      = floats.Sum(c.Grid.ExtractActive(c.Q[SRHD.QTau])) * 0.02
		injected = 0.2 * (0.05 + 0.01*(1-math.Exp(-5)))
	)
	assert.InDelta(t, injected, tau-3, 0.002)
}

func TestRunModelErrors(t *testing.T) {
	ctx := context.Background()
	{ // A 1D deck can not run in 2D
		_, err := RunModel(ctx, &Model{Dims: 2, ICFile: writeDeck(t, "Dimensions: 1\nN1: 10")}, io.Discard)
		assert.Error(t, err)
	}
	{
		_, err := RunModel(ctx, &Model{Dims: 1, ICFile: writeDeck(t, sodDeck), Restart: true}, io.Discard)
		assert.Error(t, err)
	}
	{
		_, err := RunModel(ctx, &Model{Dims: 1, ICFile: filepath.Join(t.TempDir(), "missing.yaml")}, io.Discard)
		assert.Error(t, err)
	}
	{
		_, err := RunModel(ctx, &Model{Dims: 1, ICFile: writeDeck(t, "FluxType: roe")}, io.Discard)
		assert.Error(t, err)
	}
}

func TestConvergenceStudy(t *testing.T) {
	m := &Model{Dims: 1, ICFile: writeDeck(t, sodDeck)}
	ip, err := m.readInput()
	require.NoError(t, err)
	ip.Order = 1
	cs, err := RunConvergenceStudy(context.Background(), ip, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{50, 100, 200}, cs.NumPTS)
	for i := 1; i < 3; i++ {
		assert.Less(t, cs.RhoL1[i], cs.RhoL1[i-1])
	}
	for _, order := range cs.Orders() {
		assert.Greater(t, order, 0.)
	}

	var out bytes.Buffer
	require.NoError(t, cs.WriteCSV(&out))
	assert.Equal(t, 4, bytes.Count(out.Bytes(), []byte("\n")))
	assert.Contains(t, out.String(), "Sod,100,1,")

	_, err = RunConvergenceStudy(context.Background(), ip, 1)
	assert.Error(t, err)
	ip.InitType = "blast"
	_, err = RunConvergenceStudy(context.Background(), ip, 3)
	assert.Error(t, err)
}
