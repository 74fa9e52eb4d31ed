package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eslabs/cmdata/internal/adapters/watch"
	"github.com/eslabs/cmdata/internal/app"
	"github.com/eslabs/cmdata/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-validate a taxonomy directory on every change",
	Long:  "Watches an external taxonomy directory and re-runs validation whenever a label or unit file changes. Runs until interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	dir := args[0]
	revalidate := func(trigger string) {
		catalog := app.NewCatalog()
		if err := catalog.AddDir(dir, nil); err != nil {
			logger.Error("load failed", zap.String("trigger", trigger), zap.Error(err))
			return
		}
		if err := catalog.Validate(); err != nil {
			logger.Error("validation failed", zap.String("trigger", trigger), zap.Error(err))
			return
		}
		logger.Info("taxonomy valid",
			zap.String("trigger", trigger),
			zap.Int("files", len(catalog.Files())))
	}
	revalidate("startup")

	w, err := watch.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Stop()
	if err := w.Watch(dir, func(path string) {
		revalidate(path)
	}); err != nil {
		return err
	}
	logger.Info("watching", zap.String("dir", dir))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("stopping")
	return nil
}
