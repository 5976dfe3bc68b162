package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bdougie/lecturekit/internal/models"
	"github.com/bdougie/lecturekit/internal/storage"
)

const notes = `Free fall is the motion of a body where gravity is the only force acting upon it.
Galileo dropped spheres from a tower because he wanted to test the acceleration of mass.
Air resistance slows feathers and parachutes until they reach a terminal velocity.`

type cliTestEnv struct {
	baseDir    string
	configPath string
	sqlitePath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("DATABASE_URL", "")

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		sqlitePath: filepath.Join(base, "slides.db"),
	}
	content := fmt.Sprintf(`[embeddings]
provider = "hash"
dimensions = 32

[questions]
seed = 42

[mindmap]
top_n = 6
clusters = 2
width = 400
height = 300
output_path = %q

[storage]
backend = "sqlite"
sqlite_path = %q

[logging]
level = "error"
`, filepath.Join(base, "mindmap.png"), env.sqlitePath)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestQuestionsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, env, "", "questions", "--text", notes)
	if err != nil {
		t.Fatalf("questions: %v\n%s", err, out)
	}
	if !strings.Contains(out, "What are the causes and effects of this phenomenon?") {
		t.Fatalf("expected a causal question, got:\n%s", out)
	}

	again, err := runCLI(t, env, notes, "questions")
	if err != nil {
		t.Fatalf("questions from stdin: %v", err)
	}
	if again != out {
		t.Fatalf("seeded runs differ:\n%s\n---\n%s", out, again)
	}
}

func TestQuestionsCommandRequiresInput(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, env, "", "questions"); err == nil {
		t.Fatal("expected error without input")
	}
}

func TestMindMapCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	notesPath := filepath.Join(env.baseDir, "notes.txt")
	if err := os.WriteFile(notesPath, []byte(notes), 0o644); err != nil {
		t.Fatal(err)
	}
	dotPath := filepath.Join(env.baseDir, "map.dot")

	out, err := runCLI(t, env, "Free Fall\n", "mindmap", "--file", notesPath, "--dot", dotPath)
	if err != nil {
		t.Fatalf("mindmap: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Enter main topic: ") || !strings.Contains(strings.ToUpper(out), "CLUSTER") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if info, err := os.Stat(filepath.Join(env.baseDir, "mindmap.png")); err != nil || info.Size() == 0 {
		t.Fatalf("expected mind map PNG, got %v", err)
	}
	dot, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.Contains(string(dot), `"Free Fall" -- `) {
		t.Fatalf("unexpected DOT:\n%s", dot)
	}
}

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "", "search", "gravity")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "No matching slides.") {
		t.Fatalf("expected empty result, got:\n%s", out)
	}

	store, err := storage.OpenSQLite(context.Background(), env.sqlitePath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	v := make([]float32, 32)
	v[0] = 1
	if err := store.AddSlide(context.Background(), models.Slide{SessionID: "s1", FrameNum: 30, Summary: "Gravity pulls", Embedding: v}); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	store.Close()

	out, err = runCLI(t, env, "", "search", "gravity", "--limit", "3")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Gravity pulls") || !strings.Contains(out, "s1") {
		t.Fatalf("expected stored slide in results:\n%s", out)
	}
}

func TestConfigInitCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "nested", "lecturekit.toml")

	out, err := runCLI(t, env, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := runCLI(t, env, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists")
	}
	if _, err := runCLI(t, env, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, err = runCLI(t, env, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") || !strings.Contains(out, "sqlite") {
		t.Fatalf("unexpected validate output:\n%s", out)
	}
}

func TestDBInitRequiresDSN(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, env, "", "db", "init"); err == nil || !strings.Contains(err.Error(), "postgres_dsn") {
		t.Fatalf("expected missing DSN error, got %v", err)
	}
}
