package main

import (
	"os"
	"reflect"
	"testing"

	"jot/internal/config"
	"jot/internal/kv"
	"jot/internal/notes"
)

func TestParseTags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
		{" , ", []string{}},
	}
	for _, tc := range cases {
		got := parseTags(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseTags(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewCLIApp_RegistersAllCommands(t *testing.T) {
	repo, err := notes.NewRepository(kv.NewAdapter(kv.NewMemoryStore(0), "jot"), 0)
	if err != nil {
		t.Fatalf("failed to build repository: %v", err)
	}
	adapter := kv.NewAdapter(kv.NewMemoryStore(0), "jot")
	app := newCLIApp(repo, adapter, config.DefaultConfig())

	want := []string{
		"add", "get", "list", "update", "delete", "toggle",
		"clear-completed", "stats", "tags",
		"export", "import", "backup", "restore", "serve",
	}
	for _, name := range want {
		if app.Command(name) == nil {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestCLICommandsMapMatchesApp(t *testing.T) {
	repo, err := notes.NewRepository(kv.NewAdapter(kv.NewMemoryStore(0), "jot"), 0)
	if err != nil {
		t.Fatalf("failed to build repository: %v", err)
	}
	app := newCLIApp(repo, kv.NewAdapter(kv.NewMemoryStore(0), "jot"), config.DefaultConfig())

	// Every command in the mode-dispatch map (except the built-in help)
	// must exist on the app, or dispatch and app would disagree.
	for name := range cliCommands {
		if name == "help" {
			continue
		}
		if app.Command(name) == nil {
			t.Errorf("cliCommands lists %q but the app does not define it", name)
		}
	}
	for _, cmd := range app.Commands {
		if !cliCommands[cmd.Name] {
			t.Errorf("app defines %q but cliCommands does not list it", cmd.Name)
		}
	}
}

func TestIsCLIMode(t *testing.T) {
	cases := []struct {
		args []string
		want bool
	}{
		{[]string{"jot"}, false},
		{[]string{"jot", "list"}, true},
		{[]string{"jot", "--help"}, true},
		{[]string{"jot", "-v"}, true},
		{[]string{"jot", "unknown-thing"}, false},
	}
	old := os.Args
	defer func() { os.Args = old }()

	for _, tc := range cases {
		os.Args = tc.args
		if got := isCLIMode(); got != tc.want {
			t.Errorf("isCLIMode(%v) = %v, want %v", tc.args, got, tc.want)
		}
	}
}
