package args_test

import (
	"strings"
	"testing"

	"github.com/gxo-labs/launcher/internal/args"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Ordering(t *testing.T) {
	v, err := args.NewBuilder(args.EmptyTokenSkip).Build(args.Spec{
		Interpreter:  "/usr/bin/java",
		Classpath:    "app.jar",
		EntryPoint:   "Main",
		PlatformArgs: "-Dfoo=1,-Dbar=2",
		VMArgs:       "-Xmx512m",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/usr/bin/java", "-cp", "app.jar", "-Dfoo=1", "-Dbar=2", "-Xmx512m", "Main"}, v.Args())
	assert.Equal(t, 8, v.Len(), "seven arguments plus the terminator slot")
	assert.Equal(t, "/usr/bin/java", v.Path())
}

func TestBuild_EmptyLists(t *testing.T) {
	v, err := args.NewBuilder(args.EmptyTokenKeep).Build(args.Spec{Interpreter: "java", EntryPoint: "Main"})
	require.NoError(t, err)
	assert.Equal(t, []string{"java", "-cp", "", "Main"}, v.Args())
}

func TestBuild_EmptyTokenPolicy(t *testing.T) {
	spec := args.Spec{Interpreter: "java", Classpath: "a.jar", EntryPoint: "Main", VMArgs: "-Xa,,-Xb,"}

	skipped, err := args.NewBuilder(args.EmptyTokenSkip).Build(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"java", "-cp", "a.jar", "-Xa", "-Xb", "Main"}, skipped.Args())

	kept, err := args.NewBuilder(args.EmptyTokenKeep).Build(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"java", "-cp", "a.jar", "-Xa", "", "-Xb", "", "Main"}, kept.Args())
}

func TestBuild_TokensAreNotTrimmed(t *testing.T) {
	v, err := args.NewBuilder(args.EmptyTokenSkip).Build(args.Spec{Interpreter: "java", VMArgs: " -Xa, -Xb"})
	require.NoError(t, err)
	assert.Equal(t, []string{" -Xa", " -Xb"}, v.Args()[3:5])
}

func TestBuild_Capacity(t *testing.T) {
	// 5 fixed slots leave MaxArgs-5 for list tokens.
	tokens := func(n int) string {
		return strings.TrimSuffix(strings.Repeat("-Dx=1,", n), ",")
	}

	v, err := args.NewBuilder(args.EmptyTokenSkip).Build(args.Spec{Interpreter: "java", VMArgs: tokens(args.MaxArgs - 5)})
	require.NoError(t, err)
	assert.Equal(t, args.MaxArgs, v.Len())

	_, err = args.NewBuilder(args.EmptyTokenSkip).Build(args.Spec{
		Interpreter:  "java",
		PlatformArgs: "-Dp=1",
		VMArgs:       tokens(args.MaxArgs - 5),
	})
	assert.ErrorIs(t, err, args.ErrTooManyArguments)
}

func TestBuild_EmptyInterpreter(t *testing.T) {
	_, err := args.NewBuilder(args.EmptyTokenSkip).Build(args.Spec{Classpath: "a.jar", EntryPoint: "Main"})
	assert.ErrorIs(t, err, args.ErrEmptyInterpreter)
}

func TestParseEmptyTokenPolicy(t *testing.T) {
	testCases := []struct {
		input    string
		expected args.EmptyTokenPolicy
		wantErr  bool
	}{
		{input: "", expected: args.EmptyTokenSkip},
		{input: "skip", expected: args.EmptyTokenSkip},
		{input: " KEEP ", expected: args.EmptyTokenKeep},
		{input: "sometimes", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			p, err := args.ParseEmptyTokenPolicy(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
		})
	}
}

func TestPlatformKey(t *testing.T) {
	assert.Equal(t, "platform.osx", args.PlatformKey("darwin"))
	assert.Equal(t, "platform.windows", args.PlatformKey("windows"))
	assert.Equal(t, "platform.linux", args.PlatformKey("linux"))
	assert.Equal(t, "", args.PlatformKey("plan9"))
}

func TestNewVector(t *testing.T) {
	v, err := args.NewVector("/bin/sh", "-c", "exit 0")
	require.NoError(t, err)
	assert.Equal(t, 4, v.Len())

	_, err = args.NewVector()
	assert.ErrorIs(t, err, args.ErrEmptyInterpreter)

	_, err = args.NewVector(make([]string, args.MaxArgs)...)
	assert.ErrorIs(t, err, args.ErrEmptyInterpreter)

	long := make([]string, args.MaxArgs)
	long[0] = "java"
	_, err = args.NewVector(long...)
	assert.ErrorIs(t, err, args.ErrTooManyArguments)
}
