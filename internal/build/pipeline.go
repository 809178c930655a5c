package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitepipe/internal/assets"
	"git.home.luguber.info/inful/sitepipe/internal/content"
	"git.home.luguber.info/inful/sitepipe/internal/filters"
	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/postprocess"
	"git.home.luguber.info/inful/sitepipe/internal/routes"
)

func stageErrorFor(ctx context.Context, stage StageName, err error) *StageError {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return newCanceledStageError(stage, err)
	}
	return newFatalStageError(stage, err)
}

// stagePrepareOutput empties the output root when clean is set and makes
// sure it exists.
func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	out := bs.Config.OutputDir
	if bs.Config.Clean {
		if err := os.RemoveAll(out); err != nil {
			return newFatalStageError(StagePrepareOutput, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to clean output directory").
				Fatal().
				WithContext(logfields.KeyPath, out).
				Build())
		}
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return newFatalStageError(StagePrepareOutput, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to create output directory").
			Fatal().
			WithContext(logfields.KeyPath, out).
			Build())
	}
	return nil
}

func stageLoadDocuments(ctx context.Context, bs *BuildState) error {
	docs, err := content.NewLoader(bs.Config.SourceDir, bs.logger, bs.Config.OutputDir).Load(ctx)
	if err != nil {
		return stageErrorFor(ctx, StageLoadDocuments, err)
	}
	bs.Docs = docs
	bs.Report.Documents = len(docs)
	bs.recorder.IncDocuments(len(docs))
	return nil
}

// stageFilterDocuments runs the content filter chain over every document.
// Failed filters leave the document's content as it was and only warn.
func stageFilterDocuments(ctx context.Context, bs *BuildState) error {
	chain := filters.DefaultChain(filters.Options{
		CarouselLookback: bs.Config.Filters.CarouselLookback,
	}, bs.logger, bs.recorder)

	failed := 0
	for _, doc := range bs.Docs {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageFilterDocuments, err)
		}
		failed += chain.Apply(doc)
	}
	bs.Report.FilterFailures = failed
	if failed > 0 {
		return newWarnStageError(StageFilterDocuments, fmt.Errorf("%d content filter failures", failed))
	}
	return nil
}

// stageGenerateRoutes runs every route generator over the filtered
// documents. A route whose path is already taken by a document or an
// earlier route is rejected. A failing generator contributes no routes.
func stageGenerateRoutes(ctx context.Context, bs *BuildState) error {
	taken := make(map[string]string, len(bs.Docs))
	for _, d := range bs.Docs {
		taken[content.NormalizePath(d.OutputPath)] = d.SourcePath
	}

	gens := routes.DefaultGenerators(routes.Options{
		ListingLayout: bs.Config.Routes.Listing.Layout,
		ListingPath:   bs.Config.Routes.Listing.Path,
		ListingTitle:  bs.Config.Routes.Listing.Title,
	})

	var problems []error
	for _, g := range gens {
		generated, err := routes.Run([]routes.Generator{g}, bs.Docs)
		if err != nil {
			ce := foundationerrors.WrapError(err, foundationerrors.CategoryRoute, "route generator failed").
				Warning().
				WithContext(logfields.KeyGenerator, g.Name).
				Build()
			bs.logger.LogAttrs(ctx, ce.Level(), ce.Message(), ce.LogAttrs()...)
			problems = append(problems, ce)
			continue
		}
		for _, r := range generated {
			if owner, ok := taken[r.Path]; ok {
				ce := foundationerrors.RouteError("route path already taken").
					WithContext(logfields.KeyRoute, r.Path).
					WithContext(logfields.KeyGenerator, r.Generator).
					WithContext("taken_by", owner).
					Build()
				bs.logger.LogAttrs(ctx, ce.Level(), ce.Message(), ce.LogAttrs()...)
				bs.recorder.IncRouteRejected(r.Generator)
				bs.Report.RejectedRoutes++
				problems = append(problems, ce)
				continue
			}
			taken[r.Path] = r.Generator
			bs.Routes = append(bs.Routes, r)
		}
	}
	bs.Report.Routes = len(bs.Routes)
	if len(problems) > 0 {
		return newWarnStageError(StageGenerateRoutes, errors.Join(problems...))
	}
	return nil
}

// stageWriteOutput renders every document through the page shell and
// writes every accepted route verbatim. Two documents resolving to the same
// output path are a warning; the first one in source order is kept.
func stageWriteOutput(ctx context.Context, bs *BuildState) error {
	shell := newPageShell(bs.Config.Site.Title, bs.Config.Site.BaseURL)
	written := make(map[string]string, len(bs.Docs))
	var dupes []error

	for _, doc := range bs.Docs {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageWriteOutput, err)
		}
		rel := content.NormalizePath(doc.OutputPath)
		if first, ok := written[rel]; ok {
			ce := foundationerrors.BuildError("duplicate output path").
				Warning().
				WithContext(logfields.KeyOutput, rel).
				WithContext(logfields.KeyDocument, doc.SourcePath).
				WithContext("kept", first).
				Build()
			bs.logger.LogAttrs(ctx, ce.Level(), ce.Message(), ce.LogAttrs()...)
			dupes = append(dupes, ce)
			continue
		}
		page, err := shell.Render(doc)
		if err != nil {
			return newFatalStageError(StageWriteOutput, foundationerrors.WrapError(err, foundationerrors.CategoryBuild, "failed to render page").
				Fatal().
				WithContext(logfields.KeyDocument, doc.SourcePath).
				Build())
		}
		if err := writeOutputFile(bs.Config.OutputDir, rel, page); err != nil {
			return newFatalStageError(StageWriteOutput, err)
		}
		written[rel] = doc.SourcePath
		bs.Report.PagesWritten++
		bs.logger.Debug("Wrote page", logfields.Document(doc.SourcePath), logfields.Output(rel))
	}

	for _, r := range bs.Routes {
		if err := writeOutputFile(bs.Config.OutputDir, r.Path, []byte(r.Content)); err != nil {
			return newFatalStageError(StageWriteOutput, err)
		}
		bs.logger.Debug("Wrote route", logfields.Route(r.Path), logfields.Generator(r.Generator))
	}

	if len(dupes) > 0 {
		return newWarnStageError(StageWriteOutput, errors.Join(dupes...))
	}
	return nil
}

func writeOutputFile(root, rel string, data []byte) error {
	dst := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to create output directory").
			Fatal().
			WithContext(logfields.KeyPath, filepath.Dir(dst)).
			Build()
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to write output file").
			Fatal().
			WithContext(logfields.KeyPath, dst).
			Build()
	}
	return nil
}

func stageSyncAssets(ctx context.Context, bs *BuildState) error {
	s := &assets.Synchronizer{
		SourceRoot:  bs.Config.SourceDir,
		OutputRoot:  bs.Config.OutputDir,
		Layout:      bs.Config.Assets.Layout,
		Tag:         bs.Config.Assets.Tag,
		Concurrency: bs.Config.Assets.Concurrency,
		Logger:      bs.logger,
		Recorder:    bs.recorder,
	}
	res := s.Sync(ctx, bs.Docs)
	bs.Report.AssetsCopied = res.Copied
	bs.Report.AssetsSkipped = res.Skipped
	bs.Report.AssetsFailed = res.Failed
	bs.Report.AssetFiles = res.Files
	if err := ctx.Err(); err != nil {
		return newCanceledStageError(StageSyncAssets, err)
	}
	if res.Failed > 0 {
		return newWarnStageError(StageSyncAssets, fmt.Errorf("%d of %d asset directories failed to copy", res.Failed, res.Qualifying))
	}
	return nil
}

func stagePostProcess(ctx context.Context, bs *BuildState) error {
	res, err := postprocess.Default(bs.logger, bs.recorder).ProcessTree(ctx, bs.Config.OutputDir)
	bs.Report.PostProcessed = res.Rewritten
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StagePostProcess, err)
		}
		return newWarnStageError(StagePostProcess, err)
	}
	if res.Failed > 0 {
		return newWarnStageError(StagePostProcess, fmt.Errorf("%d files could not be post-processed", res.Failed))
	}
	return nil
}
