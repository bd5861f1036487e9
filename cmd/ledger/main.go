// Команда ledger применяет транзакции из CSV файла и печатает итоговые
// балансы клиентов в stdout.
//
//	ledger transactions.csv > accounts.csv
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignatzorin/ledger-engine/internal/app"
	"github.com/ignatzorin/ledger-engine/internal/config"
	"github.com/ignatzorin/ledger-engine/internal/logger"
	"github.com/ignatzorin/ledger-engine/internal/report"
)

var errUsage = errors.New("использование: ledger <transactions.csv>")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)
	if cfg.IsDevelopment() {
		logger.SetTextFormatter()
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("ledger: не удалось открыть вход: %w", err)
	}
	defer file.Close()

	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Log.WithError(err).Warn("ledger: ошибка закрытия хранилища")
		}
	}()

	res, err := app.Run(ctx, bufio.NewReader(file), storage, app.Options{
		Workers:   cfg.Workers,
		Precision: cfg.AmountPrecision,
	})
	if err != nil {
		return err
	}

	out := bufio.NewWriter(stdout)
	if err := report.WriteCSV(out, res.Clients, cfg.AmountPrecision); err != nil {
		return fmt.Errorf("ledger: не удалось записать снимок: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("ledger: не удалось записать снимок: %w", err)
	}
	return nil
}
