package reflection

import (
	"context"
	"time"

	"glslreflect/internal/core/errors"
	"glslreflect/internal/engine/parser"
	"glslreflect/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result carries the parse tree alongside the document built from it.
type Result struct {
	Tree     *parser.Tree
	Document *Document
}

// Reflect parses source and extracts its reflection document. It either
// returns a complete document or an error, never a partial result.
func Reflect(ctx context.Context, source string) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "reflection.Reflect",
		trace.WithAttributes(attribute.Int("source.bytes", len(source))))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	tree, err := parser.Parse(source)
	observability.ParsingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(err, errors.CodeParseFailure, "parse shader source")
	}

	_, extractSpan := observability.Tracer.Start(ctx, "reflection.Extract")
	start = time.Now()
	doc, err := Extract(tree)
	observability.ExtractionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		extractSpan.SetStatus(codes.Error, err.Error())
		extractSpan.End()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	extractSpan.End()

	stats := doc.Stats()
	span.SetAttributes(
		attribute.Int("reflection.structs", stats.Structs),
		attribute.Int("reflection.functions", stats.Functions),
	)
	return &Result{Tree: tree, Document: doc}, nil
}
