package hunt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseEnvironment(t *testing.T) {
	cases := []struct {
		in      string
		want    Environment
		wantErr bool
	}{
		{"device", EnvDevice, false},
		{"sandbox", EnvSandbox, false},
		{"SANDBOX", EnvSandbox, false},
		{"", EnvDevice, false},
		{"  device ", EnvDevice, false},
		{"simulator", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseEnvironment(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseEnvironment(%q) succeeded, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEnvironment(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseEnvironment(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEnvironmentString(t *testing.T) {
	if EnvDevice.String() != "device" || EnvSandbox.String() != "sandbox" {
		t.Errorf("String() = %q, %q", EnvDevice, EnvSandbox)
	}
}

func TestDefaultChecklist(t *testing.T) {
	seeds := DefaultChecklist()
	if len(seeds) == 0 {
		t.Fatal("default checklist is empty")
	}
	if seeds[0].Title != "Take a photo of a tree" {
		t.Errorf("first task = %q", seeds[0].Title)
	}
	for i, s := range seeds {
		if s.Title == "" {
			t.Errorf("task %d has no title", i)
		}
	}
}

func TestLoadSeedFile(t *testing.T) {
	seeds, err := LoadSeedFile(filepath.Join("testdata", "hunt.yaml"))
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(seeds) != 3 {
		t.Fatalf("got %d tasks, want 3", len(seeds))
	}
	if seeds[0].Title != "Photograph the museum entrance" {
		t.Errorf("first task = %q", seeds[0].Title)
	}
	if seeds[1].Description != "Main hall, look up." {
		t.Errorf("second description = %q", seeds[1].Description)
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadSeedFile of missing file succeeded")
	}
}

func TestLoadSeedFileRejectsEmptyHunt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: nothing\ntasks: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSeedFile(path); err == nil {
		t.Error("LoadSeedFile of empty hunt succeeded")
	}
}

func TestLoadSeedFileRejectsUntitledTask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untitled.yaml")
	body := "tasks:\n  - title: ok\n  - description: no title here\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSeedFile(path); err == nil {
		t.Error("LoadSeedFile accepted an untitled task")
	}
}
