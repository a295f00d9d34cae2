package passes

import "fmt"

// MissingJoinPointError reports that no structure-introducing keyword followed
// by an opening brace was found where one was expected. Weaving aborts for
// the file and nothing is emitted.
type MissingJoinPointError struct {
	Name string
}

func (e *MissingJoinPointError) Error() string {
	return fmt.Sprintf("no join point found for %q: structure keyword with opening brace expected", e.Name)
}

// UnlocatableHookError reports that a previously computed hook string could
// not be found verbatim in the current buffer, which means the token-to-text
// reconstructions drifted apart. Fatal for the file.
type UnlocatableHookError struct {
	Name string
	Hook string
}

func (e *UnlocatableHookError) Error() string {
	return fmt.Sprintf("hook for %q not found in buffer: %q", e.Name, e.Hook)
}
