package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
)

// ResultsExporterJob periodically writes finished interviews to JSONL files
// and stamps the exported candidates so they are written only once.
type ResultsExporterJob struct {
	workspaces *repositories.WorkspaceRepository
	config     *ExporterConfig
	cron       *cron.Cron
	logger     *zap.Logger
	now        func() time.Time
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // Cron schedule (e.g., "0 2 * * *" for 2 AM daily)
	ExportDir     string
	ExportEnabled bool
}

// ExportRecord is one JSONL line.
type ExportRecord struct {
	OwnerID    string                  `json:"ownerId"`
	Candidate  models.CandidateProfile `json:"candidate"`
	Interview  *models.Interview       `json:"interview,omitempty"`
	Messages   []models.ChatMessage    `json:"messages"`
	ExportedAt time.Time               `json:"exportedAt"`
}

func NewResultsExporterJob(workspaces *repositories.WorkspaceRepository, config *ExporterConfig, logger *zap.Logger) *ResultsExporterJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultsExporterJob{
		workspaces: workspaces,
		config:     config,
		cron:       cron.New(),
		logger:     logger,
		now:        time.Now,
	}
}

// Start begins the scheduled export job
func (j *ResultsExporterJob) Start() error {
	if !j.config.ExportEnabled {
		j.logger.Info("Results export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := j.RunExport(ctx); err != nil {
			j.logger.Error("Export job failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("Results exporter started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop stops the scheduler and waits for a running export to finish.
func (j *ResultsExporterJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("Results exporter stopped")
	}
}

// RunExport performs a single export run and returns the file written, or ""
// when there was nothing to export.
func (j *ResultsExporterJob) RunExport(ctx context.Context) (string, error) {
	owners, err := j.workspaces.Owners(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list workspaces: %w", err)
	}

	now := j.now()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	exported := make(map[string][]string)
	total := 0

	for _, owner := range owners {
		ws, err := j.workspaces.View(ctx, owner)
		if err != nil {
			return "", fmt.Errorf("failed to load workspace %s: %w", owner, err)
		}
		for _, detail := range ws.UnexportedResults() {
			record := ExportRecord{
				OwnerID:    owner,
				Candidate:  detail.Candidate,
				Interview:  detail.Interview,
				Messages:   detail.Messages,
				ExportedAt: now,
			}
			if err := enc.Encode(record); err != nil {
				return "", fmt.Errorf("failed to encode result: %w", err)
			}
			exported[owner] = append(exported[owner], detail.Candidate.ID)
			total++
		}
	}

	if total == 0 {
		j.logger.Info("No unexported results found")
		return "", nil
	}

	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	filename := fmt.Sprintf("results_export_%s.jsonl", now.Format("20060102_150405"))
	path := filepath.Join(j.config.ExportDir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	for owner, ids := range exported {
		err := j.workspaces.Update(ctx, owner, func(ws *repositories.Workspace) error {
			ws.MarkExported(ids, now)
			return nil
		})
		if err != nil {
			return path, fmt.Errorf("failed to mark results exported for %s: %w", owner, err)
		}
	}

	j.logger.Info("Exported interview results", zap.Int("count", total), zap.String("file", path))
	return path, nil
}
