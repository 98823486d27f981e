package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubcommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{args: nil, want: ""},
		{args: []string{"login"}, want: "login"},
		{args: []string{"-a", "localhost:3001", "health"}, want: "health"},
		{args: []string{"-c", "cli.json", "-t", "5", "validate"}, want: "validate"},
		{args: []string{"-config=cli.json", "register"}, want: "register"},
		{args: []string{"-a", "localhost:3001"}, want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, subcommand(tt.args), "%v", tt.args)
	}
}

func TestGetStatus_Empty(t *testing.T) {
	a := &App{}
	assert.Equal(t, "", a.getStatus())
}

func TestRun_Subcommands(t *testing.T) {
	api := &fakeAPI{}
	a, out := newTestApp(api, "")

	assert.Equal(t, 0, a.Run(context.Background(), []string{"-a", "x:1", "health"}))
	assert.Contains(t, out.String(), `"status": "ok"`)

	assert.Equal(t, 0, a.Run(context.Background(), []string{"help"}))
	assert.Contains(t, out.String(), "usage: authctl")

	assert.Equal(t, 2, a.Run(context.Background(), []string{"frobnicate"}))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")
}

func TestRun_FailureExitCode(t *testing.T) {
	stubInputs(t, "a@x.com", []byte("pw"))

	a, _ := newTestApp(&fakeAPI{err: assert.AnError}, "")
	assert.Equal(t, 1, a.Run(context.Background(), []string{"login"}))
}

func TestRun_REPL(t *testing.T) {
	capturePrintln(t)

	api := &fakeAPI{}
	a, out := newTestApp(api, "health\nquit\n")

	assert.Equal(t, 0, a.Run(context.Background(), nil))
	assert.Contains(t, out.String(), "authctl (type 'help' for commands)")
	assert.Contains(t, out.String(), `"userCount": 4`)
}
