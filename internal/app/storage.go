package app

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/angiandrew/enhancedchem-sub000/internal/domain/order"
	"github.com/angiandrew/enhancedchem-sub000/internal/storage/jsonfile"
	"github.com/angiandrew/enhancedchem-sub000/internal/storage/memory"
)

// serverlessEnvVars are platform flags that mark the filesystem as
// ephemeral. Their presence rules out the durable backend in auto mode.
var serverlessEnvVars = []string{"ECHEM_SERVERLESS", "VERCEL", "AWS_LAMBDA_FUNCTION_NAME"}

// selectStore picks the order store backend once per process. The returned
// mode string is what was actually selected ("file" or "memory"), logged so
// operators can see which persistence guarantee is in effect.
func selectStore(cfg StorageConfig, lg *zap.Logger) (order.Store, string) {
	mode := cfg.Mode
	if mode == "auto" {
		mode = detectMode(cfg.Path, lg)
	}

	if mode == "file" {
		return jsonfile.New(cfg.Path, lg), "file"
	}
	return memory.New(), "memory"
}

// detectMode resolves auto mode: serverless flags or a failed write probe
// mean memory. The bias is availability over persistence, so any ambiguity
// lands on memory.
func detectMode(path string, lg *zap.Logger) string {
	for _, name := range serverlessEnvVars {
		if os.Getenv(name) != "" {
			lg.Info("serverless environment detected, using in-memory store",
				zap.String("env", name))
			return "memory"
		}
	}

	if err := probeWritable(filepath.Dir(path)); err != nil {
		lg.Warn("data directory not writable, using in-memory store",
			zap.String("path", path),
			zap.Error(err))
		return "memory"
	}
	return "file"
}

// probeWritable verifies the directory accepts writes by creating and
// removing a throwaway file.
func probeWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
