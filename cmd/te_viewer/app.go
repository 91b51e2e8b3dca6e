package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/user/te_viewer_go/internal/analysis"
	"github.com/user/te_viewer_go/internal/config"
	"github.com/user/te_viewer_go/internal/parser"
	"github.com/user/te_viewer_go/internal/report"
)

const windowTitle = "TE Dataset Viewer"

// App struct
type App struct {
	ctx context.Context
	cfg *config.Global

	mu         sync.RWMutex
	collection *parser.Collection
}

// NewApp creates a new App application struct
func NewApp() *App {
	cfg, err := config.Load("")
	if err != nil {
		log.Printf("Could not load config, using defaults: %v", err)
		cfg = config.Default()
	}
	return &App{cfg: cfg}
}

// Startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	runtime.WindowSetTitle(a.ctx, windowTitle)
}

// DomReady loads the configured data directory, if any, once the page can receive events.
func (a *App) DomReady(ctx context.Context) {
	dir, keys, err := a.loadConfiguredDir()
	if err != nil || dir == "" {
		return
	}
	runtime.EventsEmit(ctx, "directoryLoaded", dir, keys)
}

func (a *App) loadConfiguredDir() (string, []string, error) {
	dir := a.cfg.DataDir
	if dir == "" {
		return "", nil, nil
	}
	keys, err := a.LoadDirectory(dir)
	return dir, keys, err
}

func (a *App) sendStatus(message string) {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "statusUpdate", message)
	}
	log.Println(message)
}

func (a *App) clearLog() {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "clearLog")
	}
}

func (a *App) current() *parser.Collection {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.collection
}

// SelectDirectory opens a native directory picker and returns the chosen path.
func (a *App) SelectDirectory() (string, error) {
	return runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title:            "Select dataset directory",
		DefaultDirectory: a.cfg.DataDir,
	})
}

// LoadDirectory loads every dataset file in dir and returns the file names in load order.
func (a *App) LoadDirectory(dir string) ([]string, error) {
	a.clearLog()
	a.sendStatus(fmt.Sprintf("Loading *%s files from %s", a.cfg.Extension, dir))

	c, err := parser.LoadDir(dir, a.cfg.LoadOptions())
	if err != nil {
		a.sendStatus(fmt.Sprintf("Error loading directory: %v", err))
		return nil, err
	}
	for _, s := range c.Skipped {
		a.sendStatus(fmt.Sprintf("- skipped %s: %v", s.Name, s.Err))
	}
	a.sendStatus(fmt.Sprintf("Loaded %d file(s).", c.Len()))

	a.mu.Lock()
	a.collection = c
	a.mu.Unlock()
	return c.Keys(), nil
}

// PreviewFile returns the text preview of one loaded file.
func (a *App) PreviewFile(name string, rows int) string {
	var buf bytes.Buffer
	if err := report.NewPreviewer(&buf).Preview(a.current(), name, rows); err != nil {
		a.sendStatus(fmt.Sprintf("Preview failed: %v", err))
	}
	return buf.String()
}

func (a *App) plotter(out *bytes.Buffer) (*report.Plotter, error) {
	r, err := report.NewRenderer(a.cfg.Backend, a.cfg.Chart())
	if err != nil {
		return nil, err
	}
	return &report.Plotter{Out: out, Renderer: r, Sigma: a.cfg.ClipSigma}, nil
}

func (a *App) forwardLines(buf *bytes.Buffer) {
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) > 0 {
			a.sendStatus(string(line))
		}
	}
}

// PlotFile cleans and plots the given variables of one file and returns the chart as a base64 PNG.
// An empty vars list plots every column.
func (a *App) PlotFile(name string, vars []string) (string, error) {
	var buf bytes.Buffer
	p, err := a.plotter(&buf)
	if err != nil {
		return "", err
	}
	ch, img, err := p.PlotImage(a.current(), name, vars, "png")
	a.forwardLines(&buf)
	if err != nil {
		return "", err
	}
	a.sendStatus(fmt.Sprintf("Plotted %d variable(s) of %s.", len(ch.Lines), name))
	return base64.StdEncoding.EncodeToString(img), nil
}

// ExportReport is called from the frontend to write a PDF report for one file.
// Work happens in the background; progress is reported through events.
func (a *App) ExportReport(name string, vars []string, pdfFilePath string) (string, error) {
	a.clearLog()
	a.sendStatus(fmt.Sprintf("Request: file=[%s], PDF=[%s]", name, pdfFilePath))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errMsg := fmt.Sprintf("PANIC recovered: %v", r)
				a.sendStatus(errMsg)
				runtime.EventsEmit(a.ctx, "generationComplete", false, errMsg)
			}
		}()

		runtime.EventsEmit(a.ctx, "generationStart")
		fail := func(errMsg string) {
			a.sendStatus(errMsg)
			runtime.EventsEmit(a.ctx, "generationComplete", false, errMsg)
		}

		c := a.current()
		table, ok := c.Get(name)
		if !ok || table == nil {
			fail(fmt.Sprintf("Error: file %s not found", name))
			return
		}

		a.sendStatus("Computing column statistics...")
		summary, err := analysis.Describe(table)
		if err != nil {
			fail(fmt.Sprintf("Error analyzing data: %v", err))
			return
		}
		for _, e := range summary.AnalysisErrors {
			a.sendStatus(fmt.Sprintf("- %s", e))
		}

		a.sendStatus("Generating plots...")
		var buf bytes.Buffer
		p, err := a.plotter(&buf)
		if err != nil {
			fail(fmt.Sprintf("Error creating renderer: %v", err))
			return
		}
		ch, linePlot, err := p.PlotImage(c, name, vars, "png")
		a.forwardLines(&buf)
		if err != nil {
			fail(fmt.Sprintf("Error generating plot: %v", err))
			return
		}
		var heatmap []byte
		if a.cfg.Heatmap {
			heatmap, err = report.CreateHeatmapPlot(ch, a.cfg.Chart())
			if err != nil {
				a.sendStatus(fmt.Sprintf("Error generating heatmap: %v", err))
			}
		}
		a.sendStatus("Plot generation complete.")

		a.sendStatus(fmt.Sprintf("Generating PDF: %s...", pdfFilePath))
		err = report.BuildPDFReport(pdfFilePath, report.ReportInput{
			Key:         name,
			Table:       table,
			PreviewRows: a.cfg.PreviewRows,
			Summary:     summary,
			Chart:       ch,
			LinePlot:    linePlot,
			Heatmap:     heatmap,
		})
		if err != nil {
			fail(fmt.Sprintf("Error generating PDF report: %v", err))
			return
		}
		successMsg := fmt.Sprintf("PDF report successfully generated: %s", pdfFilePath)
		a.sendStatus(successMsg)
		runtime.EventsEmit(a.ctx, "generationComplete", true, successMsg)
	}()

	return "Report generation started in background.", nil
}
