package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnCapturesStdoutAndExitCode(t *testing.T) {
	h, err := Spawn(Spec{Name: "main", Argv: []string{"echo", "hello"}})
	require.NoError(t, err)

	code, err := h.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", string(h.Stdout.Bytes()))
}

func TestSpawnPipesStdin(t *testing.T) {
	h, err := Spawn(Spec{Name: "main", Argv: []string{"cat"}, HasStdin: true, Stdin: []byte("piped")})
	require.NoError(t, err)

	code, err := h.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "piped", string(h.Stdout.Bytes()))
}

func TestSpawnNonZeroExit(t *testing.T) {
	h, err := Spawn(Spec{Name: "main", Argv: []string{"sh", "-c", "exit 7"}})
	require.NoError(t, err)

	code, err := h.Wait()
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestSpawnUnknownCommandIsSpawnError(t *testing.T) {
	_, err := Spawn(Spec{Name: "main", Argv: []string{"this-binary-does-not-exist-anywhere"}})
	assert.Error(t, err)
}

func TestTerminateEscalatesToSigkillAfterGrace(t *testing.T) {
	h, err := Spawn(Spec{Name: "bg", Argv: []string{"sh", "-c", "trap '' TERM; sleep 5"}})
	require.NoError(t, err)

	start := time.Now()
	h.Terminate()
	elapsed := time.Since(start)

	code, err := h.Wait()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, TerminationGrace)
	assert.Equal(t, 128+9, code, "SIGKILL should be reflected as 128+9")
}

func TestTerminateIsNoOpOnAlreadyExited(t *testing.T) {
	h, err := Spawn(Spec{Name: "main", Argv: []string{"true"}})
	require.NoError(t, err)
	_, err = h.Wait()
	require.NoError(t, err)

	h.Terminate() // must not hang or panic
}

func TestAwaitSleep(t *testing.T) {
	start := time.Now()
	err := Await(context.Background(), WaitSpec{Kind: WaitSleep, Duration: 20 * time.Millisecond}, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestAwaitStdoutPatternAppears(t *testing.T) {
	h, err := Spawn(Spec{Name: "bg", Argv: []string{"sh", "-c", "sleep 0.05; echo ready; sleep 1"}})
	require.NoError(t, err)
	defer h.Terminate()

	err = Await(context.Background(), WaitSpec{Kind: WaitStdout, Pattern: "ready", Timeout: time.Second}, h)
	require.NoError(t, err)
}

func TestAwaitStdoutTimesOut(t *testing.T) {
	h, err := Spawn(Spec{Name: "bg", Argv: []string{"sleep", "1"}})
	require.NoError(t, err)
	defer h.Terminate()

	err = Await(context.Background(), WaitSpec{Kind: WaitStdout, Pattern: "never appears", Timeout: 30 * time.Millisecond}, h)
	assert.Error(t, err)
}
