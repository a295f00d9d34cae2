package domain

import (
	"context"
	"fmt"
	"strings"

	"stitch.dev/pkg/stitch/internal/adapter"
	"stitch.dev/pkg/stitch/internal/domain/passes"
	m "stitch.dev/pkg/stitch/internal/model"
)

// Weaver runs the two-pass weaving pipeline for one file: the join-point
// marking pass over the fully buffered source, then the streaming injection
// pass with path-identity substitution.
type Weaver interface {
	// Weave transforms the ordered chunks of one source file into woven
	// output and reports how many functions were wrapped. Either the full
	// marking and injection completes or the file is considered unwoven.
	Weave(ctx context.Context, source m.Source, structure *m.StructureDescriptor, chunks []string) (string, int, error)
}

type weaver struct {
	adapter.LexerAdapter

	dialect m.Dialect
}

// NewWeaver creates a Weaver using the provided lexer and dialect.
func NewWeaver(lexer adapter.LexerAdapter, dialect m.Dialect) Weaver {
	return &weaver{LexerAdapter: lexer, dialect: dialect}
}

func (w *weaver) Weave(ctx context.Context, source m.Source, structure *m.StructureDescriptor, chunks []string) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	if source.Origin == nil || source.Origin.FullPath == "" {
		return "", 0, fmt.Errorf("missing source origin")
	}

	if structure == nil {
		return "", 0, fmt.Errorf("missing structure descriptor for %s", source.Origin.FullPath)
	}

	// Marking needs the whole file; chunk boundaries only matter to the
	// injection state, which is threaded explicitly below.
	full := strings.Join(chunks, "")
	marked := passes.Mark(w.dialect, w.Tokenize(full))

	injector := passes.NewInjector(w.dialect, structure, source.Origin, w.Tokenize)
	state := passes.NewFileState()

	woven, err := injector.InjectChunk(state, marked)
	if err != nil {
		return "", 0, fmt.Errorf("weave %s: %w", source.Origin.FullPath, err)
	}

	if err := injector.Finish(state); err != nil {
		return "", 0, fmt.Errorf("weave %s: %w", source.Origin.FullPath, err)
	}

	return woven, state.Wrapped(), nil
}

// EligibleFunctions counts the functions of a structure that weaving applies
// to. Abstract functions never receive a wrapper.
func EligibleFunctions(structure *m.StructureDescriptor) int {
	if structure == nil {
		return 0
	}

	eligible := 0

	for _, name := range structure.FunctionOrder {
		if fn := structure.Functions[name]; fn != nil && !fn.Abstract {
			eligible++
		}
	}

	return eligible
}
