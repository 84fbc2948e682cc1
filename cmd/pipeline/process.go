package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/api"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/config"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/documents"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/infrastructure"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/pipeline"
)

func newProcessCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "process <file> [file...]",
		Short: "Upload and process local files through the pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(args, timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall processing timeout")
	return cmd
}

func runProcess(paths []string, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}

	if err := infra.Start(); err != nil {
		return err
	}
	infra.Lifecycle.WaitForStartup()
	defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(runtime)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, path := range paths {
		result, err := processFile(ctx, domain.Pipeline, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		renderResult(path, result)
	}

	return nil
}

func processFile(ctx context.Context, coordinator *pipeline.Coordinator, path string) (*pipeline.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return coordinator.Process(ctx, documents.CreateCommand{
		Data:        data,
		Filename:    filepath.Base(path),
		ContentType: detectContentType(path, data),
	})
}

func detectContentType(path string, data []byte) string {
	switch filepath.Ext(path) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".tif", ".tiff":
		return "image/tiff"
	}
	return http.DetectContentType(data)
}

func renderResult(path string, result *pipeline.Result) {
	e := result.Extraction

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(path)
	t.AppendHeader(table.Row{"Field", "Value", "Confidence"})
	t.AppendRows([]table.Row{
		{"patient_name", e.PatientName, confidence(e.PatientNameConfidence)},
		{"report_date", e.ReportDate, confidence(e.ReportDateConfidence)},
		{"subject", e.Subject, confidence(e.SubjectConfidence)},
		{"source_contact", e.SourceContact, confidence(e.SourceContactConfidence)},
		{"store_in", e.StoreIn, confidence(e.StoreInConfidence)},
		{"assigned_doctor", e.AssignedDoctor, confidence(e.AssignedDoctorConfidence)},
		{"category", e.Category, confidence(e.CategoryConfidence)},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"workflow", e.WorkflowType, ""})
	t.AppendRow(table.Row{"doctor_review", e.RequiresDoctorReview, ""})
	t.SetStyle(table.StyleLight)
	t.Render()

	timings := table.NewWriter()
	timings.SetOutputMirror(os.Stdout)
	timings.AppendHeader(table.Row{"Stage", "Duration (ms)"})
	for _, stage := range result.Stages {
		timings.AppendRow(table.Row{stage.Stage, fmt.Sprintf("%.1f", stage.DurationMS)})
	}
	timings.AppendFooter(table.Row{"total", fmt.Sprintf("%.1f", result.TotalMS)})
	timings.SetStyle(table.StyleLight)
	timings.Render()

	if result.Degraded {
		fmt.Println("extraction degraded: placeholder fields stored for manual review")
	}
}

func confidence(value float64) string {
	if value == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", value)
}
