package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/sim"
)

const (
	resultsFile = "results.json"
	logFile     = "log.csv"
)

// Store keeps one directory per exported run under baseDir.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(testID string) string {
	return filepath.Join(s.baseDir, testID)
}

// Save writes results.json and log.csv for a run and returns its directory.
func (s *Store) Save(res *sim.TestResults, entries []datalog.Entry) (string, error) {
	if res == nil || res.TestID == "" {
		return "", errors.New("results without a test id")
	}
	dir := s.Dir(res.TestID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(dir, resultsFile), func(f *os.File) error {
		return ExportJSON(f, res)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(dir, logFile), func(f *os.File) error {
		return WriteCSV(f, entries)
	}); err != nil {
		return "", err
	}
	return dir, nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// RunInfo is the listing view of a stored run.
type RunInfo struct {
	TestID   string
	Scenario string
	Start    time.Time
	Status   sim.Status
	Steps    int
	Energy   float64
}

// List returns stored runs, newest first. Directories without readable results are skipped.
func (s *Store) List() ([]RunInfo, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunInfo{}, nil
		}
		return nil, err
	}

	runs := make([]RunInfo, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		res, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, RunInfo{
			TestID:   res.TestID,
			Scenario: res.ScenarioName,
			Start:    res.Start,
			Status:   res.Status,
			Steps:    res.Steps,
			Energy:   res.Performance.RecoveredEnergy,
		})
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Start.After(runs[j].Start) })
	return runs, nil
}

func (s *Store) Load(testID string) (*sim.TestResults, error) {
	f, err := os.Open(filepath.Join(s.Dir(testID), resultsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ImportJSON(f)
}

func (s *Store) LoadLog(testID string) (*Table, error) {
	f, err := os.Open(filepath.Join(s.Dir(testID), logFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}
