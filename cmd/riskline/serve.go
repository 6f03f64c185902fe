package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerline/riskline/internal/casestore"
	"github.com/ledgerline/riskline/internal/config"
	"github.com/ledgerline/riskline/internal/convert"
	"github.com/ledgerline/riskline/internal/docstore"
	"github.com/ledgerline/riskline/internal/engine"
	"github.com/ledgerline/riskline/internal/llm"
	"github.com/ledgerline/riskline/internal/server"
	"github.com/ledgerline/riskline/internal/usage"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the risk assessment API server",
		Long: `Start the REST API. Cases are seeded from the built-in demo corpus or
from a JSON export produced by 'riskline import'. The AI endpoints fall
back to rule-based results when no generator is configured.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings := config.FromViper()
	if err := settings.Validate(); err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		settings.Server.Addr = addr
	}

	logger := slog.Default()

	cases := casestore.New()
	if settings.Cases.SeedFile != "" {
		n, err := cases.SeedFromFile(settings.Cases.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to seed cases from %s: %w", settings.Cases.SeedFile, err)
		}
		logger.Info("seeded cases from file", "path", settings.Cases.SeedFile, "count", n)
	} else {
		if err := cases.Seed(); err != nil {
			return fmt.Errorf("failed to seed demo cases: %w", err)
		}
		logger.Info("seeded built-in demo cases", "count", len(cases.List()))
	}

	var conv convert.Converter = convert.Unavailable{}
	if settings.Documents.ConverterURL != "" {
		docling, err := convert.NewDoclingClient(settings.Documents.ConverterURL)
		if err != nil {
			return fmt.Errorf("failed to configure document converter: %w", err)
		}
		conv = docling
	}
	docs := docstore.New(conv, logger, docstore.WithChunkSize(settings.Documents.ChunkSize))

	var store usage.Store
	switch settings.Budget.LedgerBackend {
	case "sqlite":
		s, err := usage.NewSQLiteStore(settings.Budget.LedgerPath)
		if err != nil {
			return fmt.Errorf("failed to open usage ledger: %w", err)
		}
		defer s.Close()
		store = s
	default:
		s, err := usage.NewJSONStore(settings.Budget.LedgerPath)
		if err != nil {
			return fmt.Errorf("failed to open usage ledger: %w", err)
		}
		store = s
	}
	tracker, err := usage.NewTracker(store, settings.Budget.LimitUSD, logger)
	if err != nil {
		return err
	}

	gen, err := llm.NewGenerator(llm.Config{
		Provider:    settings.LLM.Provider,
		APIKey:      settings.LLM.APIKey,
		ProjectID:   settings.LLM.ProjectID,
		URL:         settings.LLM.URL,
		Model:       settings.LLM.Model,
		Temperature: settings.LLM.Temperature,
		MaxTokens:   settings.LLM.MaxTokens,
		Timeout:     settings.LLM.Timeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to configure generator: %w", err)
	}

	eng := engine.New(gen, tracker, docs, settings.LLM.Timeout, logger)

	_, router := server.New(server.Config{
		Cases:       cases,
		Documents:   docs,
		Engine:      eng,
		Tracker:     tracker,
		Logger:      logger,
		UploadDir:   settings.Documents.UploadDir,
		FrontendURL: settings.Server.FrontendURL,
	})

	srv := &http.Server{
		Addr:              settings.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("riskline API listening",
			"addr", settings.Server.Addr,
			"generator", gen.Model(),
			"budget_usd", settings.Budget.LimitUSD)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
