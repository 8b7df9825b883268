// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/taskflow-go/internal/storage"
	"github.com/nibzard/taskflow-go/internal/todo"
	"github.com/nibzard/taskflow-go/internal/ui"
)

// isolate keeps user and project config files out of the test and returns
// a fresh data directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return filepath.Join(home, "data")
}

func runCLI(t *testing.T, dataDir string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--data-dir", dataDir}, args...)
	err := run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// seed writes tasks straight into the file backend.
func seed(t *testing.T, dataDir, raw string) {
	t.Helper()
	kv, err := storage.OpenFile(filepath.Join(dataDir, "storage.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	if err := kv.Set(todo.StorageKey, raw); err != nil {
		t.Fatal(err)
	}
}

func stored(t *testing.T, dataDir string) []todo.Task {
	t.Helper()
	kv, err := storage.OpenFile(filepath.Join(dataDir, "storage.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	raw, ok, err := kv.Get(todo.StorageKey)
	if err != nil || !ok {
		t.Fatalf("no stored tasks: ok=%v err=%v", ok, err)
	}
	tasks, result := todo.Decode(raw)
	if !result.Valid {
		t.Fatalf("stored tasks invalid: %v", result.Errors)
	}
	return tasks
}

const twoTasks = `[{"id":"abc1","todo":"First","isCompleted":false},{"id":"abc2","todo":"Second","isCompleted":true}]`

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	dataDir := isolate(t)

	t.Run("shows help with --help flag", func(t *testing.T) {
		out, _, err := runCLI(t, dataDir, "--help")
		if err != nil {
			t.Errorf("expected no error with --help, got %v", err)
		}
		if !strings.Contains(out, "Commands:") {
			t.Errorf("help output missing commands: %q", out)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		out, _, err := runCLI(t, dataDir, "help")
		if err != nil || !strings.Contains(out, "export") {
			t.Errorf("help command: err=%v out=%q", err, out)
		}
	})

	t.Run("shows version with -v flag", func(t *testing.T) {
		out, _, err := runCLI(t, dataDir, "-v")
		if err != nil {
			t.Errorf("expected no error with -v, got %v", err)
		}
		if !strings.Contains(out, Version) {
			t.Errorf("version output = %q", out)
		}
	})

	t.Run("shows version with version command", func(t *testing.T) {
		out, _, err := runCLI(t, dataDir, "version")
		if err != nil || !strings.HasPrefix(out, "taskflow ") {
			t.Errorf("version command: err=%v out=%q", err, out)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		_, stderr, err := runCLI(t, dataDir, "unknown-command")
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
		if !strings.Contains(stderr, "Usage:") {
			t.Errorf("expected usage on stderr, got %q", stderr)
		}
	})

	t.Run("unknown store returns error", func(t *testing.T) {
		_, _, err := runCLI(t, dataDir, "--store", "redis", "ls")
		if err == nil || !strings.Contains(err.Error(), "redis") {
			t.Errorf("expected store error, got %v", err)
		}
	})
}

func TestAddAndList(t *testing.T) {
	dataDir := isolate(t)

	out, _, err := runCLI(t, dataDir, "add", "Buy", "milk")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Buy milk") || !strings.Contains(out, "1 task remaining") {
		t.Errorf("add output = %q", out)
	}

	if _, _, err := runCLI(t, dataDir, "add", "  Walk the dog  "); err != nil {
		t.Fatalf("add: %v", err)
	}

	tasks := stored(t, dataDir)
	if len(tasks) != 2 || tasks[0].Title != "Buy milk" || tasks[1].Title != "Walk the dog" {
		t.Fatalf("stored = %+v", tasks)
	}
	if tasks[0].ID == tasks[1].ID {
		t.Error("ids are not distinct")
	}

	out, _, err = runCLI(t, dataDir, "ls")
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(out, "2 tasks remaining") {
		t.Errorf("ls output = %q", out)
	}
	if strings.Contains(out, tasks[0].ID) {
		t.Errorf("ls should show short ids: %q", out)
	}

	out, _, _ = runCLI(t, dataDir, "ls", "-v")
	if !strings.Contains(out, tasks[0].ID) {
		t.Errorf("ls -v should show full ids: %q", out)
	}
}

func TestAddBlankIsNoop(t *testing.T) {
	dataDir := isolate(t)

	_, stderr, err := runCLI(t, dataDir, "add", "   ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(stderr, "Nothing to add") {
		t.Errorf("stderr = %q", stderr)
	}

	out, _, _ := runCLI(t, dataDir, "ls")
	if !strings.Contains(out, "No tasks here yet") || !strings.Contains(out, "0 tasks remaining") {
		t.Errorf("ls output = %q", out)
	}
}

func TestToggleByPrefix(t *testing.T) {
	dataDir := isolate(t)
	seed(t, dataDir, twoTasks)

	if _, _, err := runCLI(t, dataDir, "toggle", "abc1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if tasks := stored(t, dataDir); !tasks[0].Completed {
		t.Error("abc1 not completed")
	}

	if _, _, err := runCLI(t, dataDir, "done", "abc1"); err != nil {
		t.Fatalf("done: %v", err)
	}
	if tasks := stored(t, dataDir); tasks[0].Completed {
		t.Error("toggling twice should restore the flag")
	}
}

func TestUnknownAndAmbiguousIDsAreNoops(t *testing.T) {
	dataDir := isolate(t)
	seed(t, dataDir, twoTasks)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ambiguous toggle", []string{"toggle", "abc"}, "ambiguous"},
		{"unknown toggle", []string{"toggle", "zzz"}, "No task matches"},
		{"unknown rm", []string{"rm", "zzz"}, "No task matches"},
		{"unknown edit", []string{"edit", "zzz", "New"}, "No task matches"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := runCLI(t, dataDir, tt.args...)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want %q", stderr, tt.want)
			}
		})
	}

	tasks := stored(t, dataDir)
	if len(tasks) != 2 || tasks[0].Completed || !tasks[1].Completed || tasks[0].Title != "First" {
		t.Errorf("tasks changed: %+v", tasks)
	}
}

func TestEditKeepsCompletionAndOrder(t *testing.T) {
	dataDir := isolate(t)
	seed(t, dataDir, twoTasks)

	out, _, err := runCLI(t, dataDir, "edit", "abc2", "Second,", "revised")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !strings.Contains(out, "Second, revised") {
		t.Errorf("edit output = %q", out)
	}

	tasks := stored(t, dataDir)
	if tasks[1].ID != "abc2" || tasks[1].Title != "Second, revised" || !tasks[1].Completed {
		t.Errorf("edited task = %+v", tasks[1])
	}

	_, stderr, err := runCLI(t, dataDir, "edit", "abc2", " ")
	if err != nil || !strings.Contains(stderr, "Nothing to update") {
		t.Errorf("blank edit: err=%v stderr=%q", err, stderr)
	}

	if _, _, err := runCLI(t, dataDir, "edit"); err == nil {
		t.Error("expected usage error")
	}
}

func TestRemove(t *testing.T) {
	dataDir := isolate(t)
	seed(t, dataDir, twoTasks)

	if _, _, err := runCLI(t, dataDir, "rm", "abc2"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	tasks := stored(t, dataDir)
	if len(tasks) != 1 || tasks[0].ID != "abc1" {
		t.Errorf("after rm: %+v", tasks)
	}

	if _, _, err := runCLI(t, dataDir, "rm"); err == nil {
		t.Error("expected usage error")
	}
}

func TestListFilters(t *testing.T) {
	dataDir := isolate(t)
	seed(t, dataDir, twoTasks)

	tests := []struct {
		filter  string
		want    []string
		notWant []string
	}{
		{"all", []string{"First", "Second"}, nil},
		{"active", []string{"First", "Active tasks"}, []string{"Second"}},
		{"completed", []string{"Second"}, []string{"First"}},
		{"bogus", []string{"First", "Second"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			out, _, err := runCLI(t, dataDir, "ls", "--filter", tt.filter)
			if err != nil {
				t.Fatalf("ls: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q: %q", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output contains %q: %q", w, out)
				}
			}
			if !strings.Contains(out, "1 task remaining") {
				t.Errorf("remaining count should ignore the filter: %q", out)
			}
		})
	}
}

func TestExport(t *testing.T) {
	dataDir := isolate(t)
	seed(t, dataDir, twoTasks)

	t.Run("json to stdout", func(t *testing.T) {
		out, _, err := runCLI(t, dataDir, "export")
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		var tasks []map[string]interface{}
		if err := json.Unmarshal([]byte(out), &tasks); err != nil {
			t.Fatalf("export is not JSON: %v", err)
		}
		if len(tasks) != 2 || tasks[0]["todo"] != "First" {
			t.Errorf("tasks = %v", tasks)
		}
	})

	t.Run("markdown inferred from extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.md")
		out, _, err := runCLI(t, dataDir, "export", "--out", path, "--filter", "completed")
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		if !strings.Contains(out, "Exported 1 task to") {
			t.Errorf("output = %q", out)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "- [x] Second") || strings.Contains(string(data), "First") {
			t.Errorf("markdown = %q", data)
		}
	})

	t.Run("pdf to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "tasks.pdf")
		if _, _, err := runCLI(t, dataDir, "export", "--format", "pdf", "--out", path); err != nil {
			t.Fatalf("export: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Error("output is not a PDF")
		}
	})

	t.Run("csv", func(t *testing.T) {
		out, _, err := runCLI(t, dataDir, "export", "--format", "csv")
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		if !strings.HasPrefix(out, "id,todo,isCompleted") {
			t.Errorf("csv = %q", out)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, _, err := runCLI(t, dataDir, "export", "--format", "docx"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"tasks.md":   "markdown",
		"TASKS.PDF":  "pdf",
		"tasks.csv":  "csv",
		"tasks.json": "json",
		"tasks.txt":  "",
		"":           "",
	}
	for path, want := range tests {
		if got := formatFromPath(path); got != want {
			t.Errorf("formatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDoctor(t *testing.T) {
	t.Run("passes with no data", func(t *testing.T) {
		dataDir := isolate(t)
		out, _, err := runCLI(t, dataDir, "doctor")
		if err != nil {
			t.Fatalf("doctor: %v\n%s", err, out)
		}
		if !strings.Contains(out, "No tasks stored yet") || !strings.Contains(out, "All checks passed") {
			t.Errorf("doctor output = %q", out)
		}
	})

	t.Run("passes with valid data", func(t *testing.T) {
		dataDir := isolate(t)
		seed(t, dataDir, twoTasks)
		out, _, err := runCLI(t, dataDir, "doctor", "-v")
		if err != nil {
			t.Fatalf("doctor: %v\n%s", err, out)
		}
		if !strings.Contains(out, "Tasks: 2 loadable") || !strings.Contains(out, "abc2") {
			t.Errorf("doctor output = %q", out)
		}
	})

	t.Run("fails with invalid data", func(t *testing.T) {
		dataDir := isolate(t)
		seed(t, dataDir, `[{"id":"a","todo":"ok","isCompleted":false},{"id":"a","todo":"dup","isCompleted":false}]`)
		out, _, err := runCLI(t, dataDir, "doctor")
		if err == nil || !strings.Contains(err.Error(), "doctor checks failed") {
			t.Fatalf("expected doctor failure, got %v", err)
		}
		if !strings.Contains(out, "Validation failed") || !strings.Contains(out, "Tasks: 1 loadable") {
			t.Errorf("doctor output = %q", out)
		}
	})

	t.Run("warns about bad theme value", func(t *testing.T) {
		dataDir := isolate(t)
		kv, err := storage.OpenFile(filepath.Join(dataDir, "storage.json"))
		if err != nil {
			t.Fatal(err)
		}
		_ = kv.Set(ui.DarkModeKey, "sometimes")
		kv.Close()

		out, _, err := runCLI(t, dataDir, "doctor")
		if err != nil {
			t.Fatalf("doctor: %v", err)
		}
		if !strings.Contains(out, "not a boolean") {
			t.Errorf("doctor output = %q", out)
		}
	})
}

func TestConfigCommand(t *testing.T) {
	dataDir := isolate(t)
	t.Setenv("TASKFLOW_LOG_LEVEL", "debug")

	out, _, err := runCLI(t, dataDir, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"(none)", "data_dir", "(flag)", "log_level", "(environment)", "store", "(default)"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, dataDir, "config", "--example")
	if err != nil || !strings.Contains(out, `store = "file"`) {
		t.Errorf("config --example: err=%v out=%q", err, out)
	}
}

func TestProjectConfigFile(t *testing.T) {
	dataDir := isolate(t)
	if err := os.WriteFile("taskflow.toml", []byte("store = \"sqlite\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, dataDir, "add", "From sqlite"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "taskflow.db")); err != nil {
		t.Errorf("sqlite database not created: %v", err)
	}

	out, _, err := runCLI(t, dataDir, "ls")
	if err != nil || !strings.Contains(out, "From sqlite") {
		t.Errorf("ls: err=%v out=%q", err, out)
	}

	out, _, _ = runCLI(t, dataDir, "config")
	if !strings.Contains(out, "taskflow.toml") || !strings.Contains(out, "(project file)") {
		t.Errorf("config output = %q", out)
	}
}

func TestMemoryStoreDoesNotPersist(t *testing.T) {
	dataDir := isolate(t)

	out, _, err := runCLI(t, dataDir, "--store", "memory", "add", "Ephemeral")
	if err != nil || !strings.Contains(out, "Ephemeral") {
		t.Fatalf("add: err=%v out=%q", err, out)
	}
	out, _, _ = runCLI(t, dataDir, "--store", "memory", "ls")
	if !strings.Contains(out, "No tasks here yet") {
		t.Errorf("memory store leaked between runs: %q", out)
	}
}

func TestWriteFailureReturnsError(t *testing.T) {
	dataDir := isolate(t)
	// A directory where the storage file should be makes every write fail.
	storePath := filepath.Join(dataDir, "blocked")
	if err := os.MkdirAll(filepath.Join(storePath, "child"), 0755); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, dataDir, "--store-path", storePath, "add", "Doomed")
	if err == nil || !strings.Contains(err.Error(), "persist tasks") {
		t.Errorf("expected persist error, got %v", err)
	}
}

func TestLogCommand(t *testing.T) {
	dataDir := isolate(t)

	out, _, err := runCLI(t, dataDir, "log")
	if err != nil || !strings.Contains(out, "No log file yet") {
		t.Fatalf("log without file: err=%v out=%q", err, out)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "one\ntwo\nthree\n"
	if err := os.WriteFile(filepath.Join(dataDir, "taskflow.log"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err = runCLI(t, dataDir, "log", "-n", "2")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if out != "two\nthree\n" {
		t.Errorf("log output = %q", out)
	}
}

func TestTUIRequiresTTY(t *testing.T) {
	if ui.IsTTY(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	dataDir := isolate(t)

	_, _, err := runCLI(t, dataDir)
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("expected TTY error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dataDir, "taskflow.log")); statErr != nil {
		t.Errorf("tui should open its log file: %v", statErr)
	}
}
