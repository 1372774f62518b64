package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/goof2/bfmine/internal/collector"
	"github.com/goof2/bfmine/internal/miner"
	"github.com/goof2/bfmine/internal/normalize"
	"github.com/goof2/bfmine/internal/table"
	tt "github.com/goof2/bfmine/internal/types"
)

// Stage is one step of the pipeline. Stages only share data through the
// files they read and write.
type Stage interface {
	Name() string
	Run() error
}

// Run executes stages in order and stops at the first failure. The context is
// only consulted between stages; a running stage always completes.
func Run(ctx context.Context, logger *zap.Logger, stages []Stage) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline stopped before %s: %w", stage.Name(), err)
		}

		start := time.Now()
		if err := stage.Run(); err != nil {
			logger.Error("Stage failed", zap.String("stage", stage.Name()), zap.Error(err))
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}
		logger.Info("Stage finished",
			zap.String("stage", stage.Name()),
			zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}

type CollectStage struct {
	Collector *collector.Collector
	SourceDir string
	Output    string
	Stats     collector.Stats
}

func (s *CollectStage) Name() string { return "collect" }

func (s *CollectStage) Run() error {
	stats, err := s.Collector.Collect(s.SourceDir, s.Output)
	s.Stats = stats
	return err
}

type MineStage struct {
	Miner   *miner.Miner
	Dataset string
	Output  string
	Mode    tt.Mode
	Table   tt.RuleTable
}

func (s *MineStage) Name() string { return "mine" }

func (s *MineStage) Run() error {
	rules, err := s.Miner.Mine(s.Dataset, s.Output, s.Mode)
	s.Table = rules
	return err
}

type CompileStage struct {
	Compiler *table.Compiler
	Rules    string
	Output   string
	Entries  int
}

func (s *CompileStage) Name() string { return "compile" }

func (s *CompileStage) Run() error {
	n, err := s.Compiler.Compile(s.Rules, s.Output)
	s.Entries = n
	return err
}

// Stages wires the three stages described by cfg. Progress for the collect
// stage is written to progress.
func Stages(cfg Config, logger *zap.Logger, progress io.Writer) ([]Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cache, err := normalize.NewCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	mode := cfg.Mode
	if mode == "" {
		mode = tt.ModeAllDistinct
	}

	var extensions []string
	if cfg.Extension != "" {
		extensions = append(extensions, cfg.Extension)
	}

	compilerOpts := []table.Option{table.WithPackage(cfg.Package)}
	if cfg.Format != "" {
		compilerOpts = append(compilerOpts, table.WithFormat(cfg.Format))
	}

	return []Stage{
		&CollectStage{
			Collector: collector.New(logger,
				collector.WithExtensions(extensions...),
				collector.WithRecursive(cfg.Recursive),
				collector.WithNormalizer(cache),
				collector.WithProgress(progress)),
			SourceDir: cfg.SourceDir,
			Output:    cfg.Dataset,
		},
		&MineStage{
			Miner:   miner.New(logger),
			Dataset: cfg.Dataset,
			Output:  cfg.Rules,
			Mode:    mode,
		},
		&CompileStage{
			Compiler: table.New(logger, compilerOpts...),
			Rules:    cfg.Rules,
			Output:   cfg.Table,
		},
	}, nil
}
