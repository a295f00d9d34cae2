package model

// Placeholder markers inserted by one weaving pass for a later pass (or the
// downstream contract compiler) to find and replace. They are rendered as
// block comments so partially woven output stays parseable, and the token
// text is deliberately unusual enough never to collide with user source.
const (
	// MarkerStructHeader wraps a structure header so a later pass can
	// splice additional parent types in front of the opening brace.
	MarkerStructHeader = "/*<stitch.struct.header>*/"
	// MarkerStructBody follows a structure's opening brace so a later pass
	// can splice synthesized members at the top of the body.
	MarkerStructBody = "/*<stitch.struct.body>*/"
	// MarkerFuncHeader wraps a function header, analogous to
	// MarkerStructHeader but scoped to the method.
	MarkerFuncHeader = "/*<stitch.func.header>*/"
	// MarkerFuncBody follows a function's opening brace.
	MarkerFuncBody = "/*<stitch.func.body>*/"
	// MarkerFuncHook is placed once per file after the structure hook and
	// anchors the injection point for the per-file local constants.
	MarkerFuncHook = "/*<stitch.func.hook>*/"
	// MarkerInvariant is replaced by an invariant check.
	MarkerInvariant = "/*<stitch.invariant>*/"
	// MarkerOriginStart and MarkerOriginEnd delimit the one-time original
	// path hint comment.
	MarkerOriginStart = "/*<stitch.origin>"
	MarkerOriginEnd   = "</stitch.origin>*/"
)

// MarkerPrecondition is replaced by the precondition check of the named method.
func MarkerPrecondition(method string) string {
	return "/*<stitch.pre " + method + ">*/"
}

// MarkerPostcondition is replaced by the postcondition check of the named method.
func MarkerPostcondition(method string) string {
	return "/*<stitch.post " + method + ">*/"
}

// MarkerOldValues is replaced by the old-value capture of the named method.
func MarkerOldValues(method string) string {
	return "/*<stitch.old " + method + ">*/"
}

// MarkerMethodInject is replaced by the accessor-hook method injection of the
// named method.
func MarkerMethodInject(method string) string {
	return "/*<stitch.inject " + method + ">*/"
}
