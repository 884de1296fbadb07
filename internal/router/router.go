package router

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"visiongate/internal/analyzer"
	"visiongate/internal/config"
	"visiongate/internal/imaging"
)

// Router routes read requests between the direct reader and the vision
// analysis backend. It holds no per-invocation state; every call is
// independent and safe to run concurrently.
type Router struct {
	cfg     *config.VisionConfig
	direct  DirectReader
	backend analyzer.AnalysisBackend
	logger  *zap.Logger
}

// New creates a Router. A nil logger disables logging.
func New(cfg *config.VisionConfig, direct DirectReader, backend analyzer.AnalysisBackend, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		cfg:     cfg,
		direct:  direct,
		backend: backend,
		logger:  logger,
	}
}

// Route serves a read request. Image reads under a trigger model are
// delegated to the analysis backend and the normalized summary replaces the
// file content; everything else is passed to the direct reader unchanged.
// A failed delegation returns a *DelegationError, never a partial result.
func (r *Router) Route(ctx context.Context, req Request, rctx Context) (*Result, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	logger := r.logger.With(
		zap.String("request_id", req.RequestID),
		zap.String("path", req.Path))

	absPath := req.Path
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(rctx.WorkingDir, absPath)
	}

	if !r.cfg.IsTriggerModel(rctx.ModelID) {
		logger.Debug("passthrough: active model reads images natively",
			zap.String("model", rctx.ModelID))
		return r.direct.ReadDirect(ctx, req)
	}

	mimeType, isImage := imaging.Classify(absPath)
	if !isImage {
		logger.Debug("passthrough: not a supported image")
		return r.direct.ReadDirect(ctx, req)
	}

	if rctx.Interactive && rctx.Notify != nil {
		rctx.Notify(fmt.Sprintf("Analyzing image with %s...", r.cfg.SecondaryModel), "info")
	}

	logger.Info("delegating image read",
		zap.String("mime_type", mimeType),
		zap.String("model", r.cfg.SecondaryModel))

	raw, err := r.backend.Analyze(ctx, absPath, r.cfg.Prompt)
	if err != nil {
		logger.Warn("image delegation failed", zap.Error(err))
		return nil, &DelegationError{Path: req.Path, Model: r.cfg.SecondaryModel, Err: err}
	}

	summary := analyzer.Normalize(raw)
	return &Result{
		Blocks: []Block{{
			Type: "text",
			Text: fmt.Sprintf("[Image analyzed with %s]\n\n%s", r.cfg.SecondaryModel, summary),
		}},
		Metadata: map[string]string{
			"analyzed_by": r.cfg.SecondaryModel,
			"mime_type":   mimeType,
		},
	}, nil
}
