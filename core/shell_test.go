package core

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/sshell/sshell/core/config"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	s, err := NewShell(config.Default(), strings.NewReader(""), &stdout, &stderr, false)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	return s, &stdout, &stderr
}

func runScript(t *testing.T, s *Shell, lines ...string) {
	t.Helper()
	for _, line := range lines {
		assert.NoError(t, s.eval(line))
	}
}

func chdirTemp(t *testing.T) string {
	t.Helper()

	origin, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(origin) })

	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestShellTranscripts(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithTestNameForDir(true),
	)

	cases := map[string][]string{
		"parse-errors": {
			"ls |",
			"| ls",
			"ls >",
			"ls > a > b",
			"a|b|c|d|e|f|g|h|i",
			"exit",
		},
		"too-many-args": {
			"cmd a b c d e f g h i j k l m n o p q",
			"exit",
		},
		"blank-lines": {
			"",
			" \t ",
			"cd",
			"exit",
		},
	}

	for name, script := range cases {
		s, _, stderr := newTestShell(t)
		runScript(t, s, script...)
		assert.True(t, s.quit, name)

		g.Assert(t, name, stderr.Bytes())
	}
}

func TestShellRunsPipelines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires unix process semantics")
	}
	out := filepath.Join(t.TempDir(), "out")

	s, _, stderr := newTestShell(t)
	line := "echo one two | wc -w > " + out
	runScript(t, s, line)

	assert.Equal(t, "+ completed '"+line+"' [0][0]\n", stderr.String())

	data, err := os.ReadFile(out)
	assert.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(string(data)))
}

func TestBuiltinPwd(t *testing.T) {
	s, stdout, stderr := newTestShell(t)

	wd, err := os.Getwd()
	assert.NoError(t, err)

	runScript(t, s, "pwd")
	assert.Equal(t, wd+"\n", stdout.String())
	assert.Equal(t, "+ completed 'pwd' [0]\n", stderr.String())
}

func TestBuiltinCd(t *testing.T) {
	dir := chdirTemp(t)
	sub := filepath.Join(dir, "sub")
	assert.NoError(t, os.Mkdir(sub, 0755))

	s, _, stderr := newTestShell(t)
	runScript(t, s, "cd sub")
	assert.Equal(t, "+ completed 'cd sub' [0]\n", stderr.String())

	wd, err := os.Getwd()
	assert.NoError(t, err)
	wantWd, err := filepath.EvalSymlinks(sub)
	assert.NoError(t, err)
	gotWd, err := filepath.EvalSymlinks(wd)
	assert.NoError(t, err)
	assert.Equal(t, wantWd, gotWd)
}

func TestBuiltinCdErrors(t *testing.T) {
	s, _, stderr := newTestShell(t)

	runScript(t, s, "cd definitely-not-a-directory")
	assert.Equal(t,
		"Error: cannot cd into directory\n"+
			"+ completed 'cd definitely-not-a-directory' [1]\n",
		stderr.String())
}

func TestBuiltinSls(t *testing.T) {
	chdirTemp(t)

	assert.NoError(t, os.WriteFile("b.txt", []byte("12345"), 0644))
	assert.NoError(t, os.WriteFile("a.txt", []byte("xyz"), 0644))
	assert.NoError(t, os.WriteFile(".hidden", []byte("shh"), 0644))

	s, stdout, stderr := newTestShell(t)
	runScript(t, s, "sls")

	assert.Equal(t, "a.txt (3 bytes)\nb.txt (5 bytes)\n", stdout.String())
	assert.Equal(t, "+ completed 'sls' [0]\n", stderr.String())
}

func TestBuiltinSlsAll(t *testing.T) {
	chdirTemp(t)

	assert.NoError(t, os.WriteFile(".hidden", []byte("shh"), 0644))

	s, stdout, _ := newTestShell(t)
	runScript(t, s, "sls -a")

	assert.Equal(t, ".hidden (3 bytes)\n", stdout.String())
}

func TestBuiltinExit(t *testing.T) {
	s, _, stderr := newTestShell(t)

	runScript(t, s, "exit")
	assert.True(t, s.quit)
	assert.Equal(t, "Bye...\n+ completed 'exit' [0]\n", stderr.String())
}

func TestBuiltinsNotDispatchedInPipelines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires unix process semantics")
	}

	// exit is only a builtin as a single unpiped command; in a pipeline it
	// is looked up like any program and fails, leaving the session alive.
	s, _, stderr := newTestShell(t)
	runScript(t, s, "exit | cat")

	assert.False(t, s.quit)
	assert.Equal(t, "+ completed 'exit | cat' [1][0]\n", stderr.String())
}
