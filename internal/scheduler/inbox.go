package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"StatementSentinel/internal/model"
	"StatementSentinel/internal/waterfall"
)

const (
	statementExt  = ".txt"
	submissionExt = ".application.yaml"
	reportExt     = ".report.json"
)

// Submission is one inbox entry: either a single statement file or a
// directory holding several statements of the same applicant.
type Submission struct {
	Name    string
	Path    string
	Request waterfall.Request
}

// submissionFile is the optional YAML sidecar describing the applicant.
type submissionFile struct {
	Application model.ApplicationData `yaml:"application"`
	Registry    model.RegistryData    `yaml:"registry"`
}

// ScanInbox lists the submissions in dir. A top-level "<name>.txt" is a
// single-statement submission with an optional "<name>.application.yaml";
// a subdirectory is one submission of all its *.txt files with an optional
// "application.yaml".
func ScanInbox(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() || strings.HasSuffix(name, statementExt) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}

// LoadSubmission reads the statement texts and sidecar of the submission at path.
func LoadSubmission(path string) (*Submission, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	sub := &Submission{Path: path}
	var sidecar string
	if info.IsDir() {
		sub.Name = filepath.Base(path)
		files, err := filepath.Glob(filepath.Join(path, "*"+statementExt))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		for _, f := range files {
			text, err := os.ReadFile(f)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", f, err)
			}
			sub.Request.Texts = append(sub.Request.Texts, string(text))
		}
		sidecar = filepath.Join(path, "application.yaml")
	} else {
		sub.Name = strings.TrimSuffix(filepath.Base(path), statementExt)
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		sub.Request.Texts = []string{string(text)}
		sidecar = filepath.Join(filepath.Dir(path), sub.Name+submissionExt)
	}

	data, err := os.ReadFile(sidecar)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", sidecar, err)
	default:
		var sf submissionFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", sidecar, err)
		}
		sub.Request.Application = sf.Application
		sub.Request.Registry = sf.Registry
	}
	return sub, nil
}

// WriteReport stores rep as "<name>.report.json" in dir.
func WriteReport(dir, name string, rep *model.AnalysisReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	path := filepath.Join(dir, name+reportExt)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
