package process

// Spec is a fully-resolved process ready to spawn: every Expression in the
// document's ProcessSpec has already been evaluated against the case's
// scope and arena.
type Spec struct {
	Name string
	Argv []string

	HasStdin bool
	Stdin    []byte

	// Workdir empty means inherit the runner's own working directory.
	Workdir string
	// Env overrides merge on top of the runner's ambient environment.
	Env map[string]string

	TeeStdout bool
	TeeStderr bool
}
