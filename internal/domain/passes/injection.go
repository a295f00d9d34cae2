package passes

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	m "stitch.dev/pkg/stitch/internal/model"
)

// aliasSuffix prefixes the per-call unique token appended to the original
// method name when it is re-declared under the wrapper.
const aliasSuffix = "__orig"

// aliasSeq makes every alias suffix unique so repeated weaving can never
// collide with a previously generated alias.
var aliasSeq atomic.Uint64

func nextAliasSuffix() string {
	return aliasSuffix + strconv.FormatUint(aliasSeq.Add(1), 10)
}

// Tokenize converts accumulated text into the token sequence. Satisfied by
// the lexer adapter.
type Tokenize func(text string) []m.Token

// FileState carries the cross-chunk weaving state for one file. Each one-time
// injection is guarded by an explicit already-done flag; once set it stays
// spent for the rest of the file.
type FileState struct {
	hook          string
	hookPlaced    bool
	pathHintDone  bool
	constantsDone bool
	woven         map[string]bool
}

// NewFileState creates the per-file state for one injection run.
func NewFileState() *FileState {
	return &FileState{woven: make(map[string]bool)}
}

// Wrapped returns how many functions have been wrapped so far.
func (s *FileState) Wrapped() int {
	return len(s.woven)
}

// Injector performs the streaming contract-injection pass for one structure.
// Chunks arrive in order and are tokenized independently; everything that
// must survive a chunk boundary lives in the FileState.
type Injector struct {
	dialect   m.Dialect
	structure *m.StructureDescriptor
	origin    *m.File
	tokenize  Tokenize
}

// NewInjector creates an Injector for one source file and its structure
// descriptor.
func NewInjector(dialect m.Dialect, structure *m.StructureDescriptor, origin *m.File, tokenize Tokenize) *Injector {
	return &Injector{
		dialect:   dialect,
		structure: structure,
		origin:    origin,
		tokenize:  tokenize,
	}
}

// InjectChunk weaves one chunk and returns the transformed text. The same
// FileState must be threaded through every chunk of the file, in order.
func (inj *Injector) InjectChunk(state *FileState, chunk string) (string, error) {
	buf := inj.injectOriginHint(state, chunk)

	buf, err := inj.placeFunctionHook(state, buf)
	if err != nil {
		return "", err
	}

	buf = inj.injectConstants(state, buf)

	buf, err = inj.wrapFunctions(state, buf)
	if err != nil {
		return "", err
	}

	return Substitute(inj.dialect, buf), nil
}

// Finish validates the terminal state once the input is exhausted. A file
// whose structure join point never appeared is unweavable.
func (inj *Injector) Finish(state *FileState) error {
	if !state.hookPlaced {
		return &MissingJoinPointError{Name: string(inj.structure.QualifiedName)}
	}

	return nil
}

// injectOriginHint drops the one-time sourcePath#modificationTime comment
// right after the opening language marker, at the first chance to do so.
func (inj *Injector) injectOriginHint(state *FileState, buf string) string {
	if state.pathHintDone {
		return buf
	}

	idx := strings.Index(buf, inj.dialect.OpenMarker)
	if idx < 0 {
		return buf
	}

	at := idx + len(inj.dialect.OpenMarker)
	state.pathHintDone = true

	return buf[:at] + " " + OriginHint(inj.origin) + buf[at:]
}

// placeFunctionHook locates the structure's header hook and places the
// function-hook marker right after it, exactly once per file.
func (inj *Injector) placeFunctionHook(state *FileState, buf string) (string, error) {
	if state.hookPlaced {
		return buf, nil
	}

	tokens := inj.tokenize(buf)

	for i, tok := range tokens {
		if tok.Kind != m.TokenKeyword || !inj.dialect.IsStructureKeyword(tok.Text) {
			continue
		}

		hook, _, ok := collectHook(tokens, i)
		if !ok {
			continue
		}

		pos := strings.Index(buf, hook)
		if pos < 0 {
			return "", &UnlocatableHookError{Name: string(inj.structure.QualifiedName), Hook: hook}
		}

		at := pos + len(hook)
		state.hook = hook
		state.hookPlaced = true

		return buf[:at] + m.MarkerFuncHook + buf[at:], nil
	}

	return buf, nil
}

// injectConstants declares the two local substitution constants right after
// the function-hook marker, exactly once per file.
func (inj *Injector) injectConstants(state *FileState, buf string) string {
	if state.constantsDone || !state.hookPlaced {
		return buf
	}

	idx := strings.Index(buf, m.MarkerFuncHook)
	if idx < 0 {
		return buf
	}

	at := idx + len(m.MarkerFuncHook)
	dir := filepath.Dir(string(inj.origin.FullPath))
	decl := inj.dialect.ConstDeclarations(dir, string(inj.origin.FullPath))
	state.constantsDone = true

	return buf[:at] + decl + buf[at:]
}

// wrapFunctions splices the synthesized wrapper after every eligible function
// hook found in the chunk and re-declares the original body under a suffixed
// alias. Each function is woven at most once.
func (inj *Injector) wrapFunctions(state *FileState, buf string) (string, error) {
	tokens := inj.tokenize(buf)
	searchFrom := 0

	for i, tok := range tokens {
		if !tok.IsKeyword(inj.dialect.FunctionKeyword) {
			continue
		}

		name, ok := functionName(tokens, i+1)
		if !ok {
			continue
		}

		fn := inj.structure.Functions[name]
		if fn == nil || fn.Abstract || state.woven[name] {
			continue
		}

		hook, _, ok := collectHook(tokens, i)
		if !ok {
			continue
		}

		rel := strings.Index(buf[searchFrom:], hook)
		if rel < 0 {
			return "", &UnlocatableHookError{Name: name, Hook: hook}
		}

		at := searchFrom + rel + len(hook)
		before := inj.buildBeforeCode(fn)
		buf = buf[:at] + before + buf[at:]
		searchFrom = at + len(before)
		state.woven[name] = true
	}

	return buf, nil
}

// buildBeforeCode synthesizes the wrapper body spliced between a method's
// opening brace and its original body, plus the re-declaration that re-opens
// the original body under the alias name.
func (inj *Injector) buildBeforeCode(fn *m.FunctionDescriptor) string {
	d := inj.dialect
	suffix := nextAliasSuffix()

	receiver := d.InstanceReceiver
	if fn.Static {
		receiver = d.StaticReceiver
	}

	result := d.VariableSigil + "__stitchResult"
	scope := d.VariableSigil + "__stitchScope"
	checkInvariant := inj.invariantApplies(fn)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(scope + " = \\Stitch\\Runtime\\ContractScope::open('" +
		string(inj.structure.QualifiedName) + "', '" + fn.Name + "');\n")

	if checkInvariant {
		b.WriteString(m.MarkerInvariant + "\n")
	}

	b.WriteString(m.MarkerPrecondition(fn.Name) + "\n")
	b.WriteString(m.MarkerOldValues(fn.Name) + "\n")

	call := fn.Header.Call(receiver, suffix)
	if fn.AccessorHook {
		// Accessor hooks must not let the original call escape: swallow
		// and let the injected method decide what to surface.
		b.WriteString("try { " + result + " = " + call + "; } catch (\\Exception " +
			d.VariableSigil + "__stitchSwallowed) {}\n")
		b.WriteString(m.MarkerMethodInject(fn.Name) + "\n")
	} else {
		b.WriteString(result + " = " + call + ";\n")
	}

	b.WriteString(m.MarkerPostcondition(fn.Name) + "\n")

	if checkInvariant {
		b.WriteString(m.MarkerInvariant + "\n")
	}

	b.WriteString("\\Stitch\\Runtime\\ContractScope::close(" + scope + ");\n")
	b.WriteString("return " + result + ";\n")
	b.WriteString("}\n")
	b.WriteString(fn.Header.Declaration(suffix, true))
	b.WriteString("\n{")

	return b.String()
}

// invariantApplies reports whether invariant checks surround the wrapper.
// Private and static methods and the constructor run without them.
func (inj *Injector) invariantApplies(fn *m.FunctionDescriptor) bool {
	if fn.Visibility == m.VisibilityPrivate || fn.Static {
		return false
	}

	return fn.Name != inj.dialect.ConstructorName
}
