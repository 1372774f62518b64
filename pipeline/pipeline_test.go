package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	tt "github.com/goof2/bfmine/internal/types"
)

type mockStage struct {
	mock.Mock
	name string
}

func (m *mockStage) Name() string { return m.name }

func (m *mockStage) Run() error {
	args := m.Called()
	return args.Error(0)
}

func newMockStage(name string, err error) *mockStage {
	s := &mockStage{name: name}
	s.On("Run").Return(err).Once()
	return s
}

func TestRunExecutesStagesInOrder(t *testing.T) {
	t.Parallel()
	var order []string
	first := &mockStage{name: "first"}
	first.On("Run").Run(func(mock.Arguments) { order = append(order, "first") }).Return(nil)
	second := &mockStage{name: "second"}
	second.On("Run").Run(func(mock.Arguments) { order = append(order, "second") }).Return(nil)

	logger, _ := zap.NewProduction()
	err := Run(context.Background(), logger, []Stage{first, second})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	first := newMockStage("collect", boom)
	second := &mockStage{name: "mine"}

	err := Run(context.Background(), nil, []Stage{first, second})
	require.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "collect")
	first.AssertExpectations(t)
	second.AssertNotCalled(t, "Run")
}

func TestRunHonorsCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stage := &mockStage{name: "collect"}

	err := Run(ctx, nil, []Stage{stage})
	require.ErrorIs(t, err, context.Canceled)
	stage.AssertNotCalled(t, "Run")
}

func TestStagesEndToEnd(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	src := filepath.Join(root, "programs")
	require.NoError(t, os.MkdirAll(src, 0o755))
	programs := map[string]string{
		"a.bf": "++",
		"b.bf": "++",
		"c.bf": "+-",
		"d.bf": "[-]",
	}
	for name, content := range programs {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(content), 0o644))
	}

	cfg := DefaultConfig()
	cfg.SourceDir = src
	cfg.Dataset = filepath.Join(root, "build", "dataset.tsv")
	cfg.Rules = filepath.Join(root, "assets", "ml_model.txt")
	cfg.Table = filepath.Join(root, "include", "ml_model.hxx")

	stages, err := Stages(cfg, nil, io.Discard)
	require.NoError(t, err)
	require.Len(t, stages, 3)
	require.NoError(t, Run(context.Background(), nil, stages))

	dataset, err := os.ReadFile(cfg.Dataset)
	require.NoError(t, err)
	assert.Equal(t, "++\t\n++\t\n+-\t+\n[-]\t[-]\n", string(dataset))

	rules, err := os.ReadFile(cfg.Rules)
	require.NoError(t, err)
	assert.Equal(t, "++\t\n+-\t+\n", string(rules))

	mined := stages[1].(*MineStage).Table
	assert.Equal(t, tt.RuleTable{
		{Pattern: "++", Replacement: "", Frequency: 2},
		{Pattern: "+-", Replacement: "+", Frequency: 1},
	}, mined)
	assert.Equal(t, 4, stages[0].(*CollectStage).Stats.Samples)
	assert.Equal(t, 2, stages[2].(*CompileStage).Entries)

	header, err := os.ReadFile(cfg.Table)
	require.NoError(t, err)
	assert.Contains(t, string(header), "    {R\"(++)\", \"\"},\n    {R\"(+-)\", \"+\"},\n")
	assert.Contains(t, string(header), "inline constexpr size_t mlModelCount = 2;")
	assert.Contains(t, string(header), "namespace goof2 {")
}

func TestStagesInvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Mode = "bogus"
	_, err := Stages(cfg, nil, io.Discard)
	assert.ErrorIs(t, err, tt.ErrInvalidMode)
}
