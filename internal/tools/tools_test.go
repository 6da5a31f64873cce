package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ytget/omnitool/internal/compress"
	"github.com/ytget/omnitool/internal/discovery"
	"github.com/ytget/omnitool/internal/download"
	"github.com/ytget/omnitool/internal/registry"
	"github.com/ytget/omnitool/internal/tools/compressor"
	"github.com/ytget/omnitool/internal/tools/youtube"
)

func TestBuiltinRegistersAllTools(t *testing.T) {
	logger := zaptest.NewLogger(t)
	reg := registry.New(logger)

	errs := discovery.Load(reg, Builtin(Deps{
		Downloader: download.NewEngine(t.TempDir()),
		Compressor: compress.NewService(),
		Logger:     logger,
	}), logger)

	require.Empty(t, errs)
	ids := make([]string, 0)
	for _, meta := range reg.Metadata() {
		ids = append(ids, meta.ID)
	}
	assert.Equal(t, []string{youtube.ID, compressor.ID}, ids)
}
