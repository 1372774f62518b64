package miner

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/goof2/bfmine/internal/dataset"
	"github.com/goof2/bfmine/internal/fsutil"
	tt "github.com/goof2/bfmine/internal/types"
)

// DefaultModelPath is where the canonical all-distinct rule list is written
// when no output path is configured.
const DefaultModelPath = "assets/ml_model.txt"

// Miner turns a dataset of samples into a ranked rule list.
type Miner struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Miner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Miner{logger: logger}
}

// Mine ranks the samples in datasetPath according to mode and replaces
// outputPath with one "pattern\treplacement" line per rule.
func (m *Miner) Mine(datasetPath, outputPath string, mode tt.Mode) (tt.RuleTable, error) {
	mode, err := tt.ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	samples, err := m.Load(datasetPath)
	if err != nil {
		return nil, err
	}

	table, err := Rank(samples, mode)
	if err != nil {
		return nil, err
	}

	if err := fsutil.WriteFileAtomic(outputPath, func(w io.Writer) error {
		return dataset.WriteRules(w, table)
	}); err != nil {
		return nil, err
	}

	m.logger.Info("Mined rules",
		zap.String("dataset", datasetPath),
		zap.String("output", outputPath),
		zap.String("mode", string(mode)),
		zap.Int("samples", len(samples)),
		zap.Int("rules", len(table)))
	return table, nil
}

// Load reads every well-formed sample from datasetPath. Lines without a tab
// are skipped.
func (m *Miner) Load(datasetPath string) ([]tt.Sample, error) {
	f, err := os.Open(datasetPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", tt.ErrInputNotFound, datasetPath)
		}
		return nil, fmt.Errorf("%w: failed to open %s: %v", tt.ErrFileSystem, datasetPath, err)
	}
	defer f.Close()

	var samples []tt.Sample
	err = dataset.ScanLines(f, func(lineNo int, line string) error {
		s, err := dataset.ParseSample(line)
		if err != nil {
			m.logger.Debug("Skipping dataset line",
				zap.String("dataset", datasetPath),
				zap.Int("line", lineNo),
				zap.Error(err))
			return nil
		}
		samples = append(samples, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}
