package statefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CodeurPro04/driverWago/internal/driver"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	file := New(path)

	state := driver.InitialState()
	state.DriverID = 42
	state.DriverPhone = "+2250102030405"
	state.DriverName = "Awa"
	state.AccountStep = 3
	state.Jobs = []driver.Job{
		{ID: "j1", Status: driver.StatusCompleted, Price: 5000, BeforePhotos: []string{}, AfterPhotos: []string{}},
	}
	state.CashoutBalance = 4000

	if err := file.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok := New(path).Load()
	if !ok {
		t.Fatal("expected a usable snapshot")
	}
	if loaded.DriverID != 42 || loaded.DriverPhone != "+2250102030405" || loaded.DriverName != "Awa" {
		t.Fatalf("session fields lost: %+v", loaded)
	}
	if loaded.AccountStep != 3 {
		t.Fatalf("accountStep = %d, want 3", loaded.AccountStep)
	}
	if len(loaded.Jobs) != 1 || loaded.Jobs[0].ID != "j1" || loaded.Jobs[0].Price != 5000 {
		t.Fatalf("jobs lost: %+v", loaded.Jobs)
	}
	if loaded.CashoutBalance != 4000 {
		t.Fatalf("cashoutBalance = %d, want 4000", loaded.CashoutBalance)
	}
}

func TestLoadMissingFileStartsFresh(t *testing.T) {
	file := New(filepath.Join(t.TempDir(), "absent.json"))

	state, ok := file.Load()
	if ok {
		t.Fatal("missing file must not count as prior state")
	}
	if state.DriverID != 0 || len(state.Jobs) != 0 {
		t.Fatalf("expected initial state, got %+v", state)
	}
}

func TestLoadCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	state, ok := New(path).Load()
	if ok {
		t.Fatal("corrupt file must not count as prior state")
	}
	if state.DriverName != "Laveur" {
		t.Fatalf("expected initial state, got %+v", state)
	}
}

func TestLoadSchemaMismatchStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"schema":"OLD_V1","state":{}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, ok := New(path).Load(); ok {
		t.Fatal("old schema must be discarded")
	}
}

func TestLoadPartialSnapshotKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	partial := `{"schema":"` + SchemaKey + `","state":{"driver_id":42,"driver_name":"Awa","availability":false}}`
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, ok := New(path).Load()
	if !ok {
		t.Fatal("expected a usable snapshot")
	}
	if loaded.DriverID != 42 || loaded.DriverName != "Awa" {
		t.Fatalf("snapshot fields lost: %+v", loaded)
	}
	if loaded.Availability {
		t.Error("availability should come from the snapshot, not the default")
	}

	// Fields the snapshot never mentions keep their initial values.
	if loaded.Rating != 4.9 {
		t.Errorf("rating = %v, want 4.9", loaded.Rating)
	}
	if loaded.ProfileStatus != driver.ProfilePending {
		t.Errorf("profileStatus = %q, want pending", loaded.ProfileStatus)
	}
	if len(loaded.Documents) != len(driver.DocumentKinds) {
		t.Fatalf("documents = %v, want the %d default kinds", loaded.Documents, len(driver.DocumentKinds))
	}
	for _, kind := range driver.DocumentKinds {
		if _, ok := loaded.Documents[kind]; !ok {
			t.Errorf("document kind %q missing", kind)
		}
	}
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	file := New(path)

	first := driver.InitialState()
	first.DriverID = 1
	if err := file.Save(first); err != nil {
		t.Fatal(err)
	}

	second := driver.InitialState()
	second.DriverID = 2
	if err := file.Save(second); err != nil {
		t.Fatal(err)
	}

	loaded, ok := file.Load()
	if !ok || loaded.DriverID != 2 {
		t.Fatalf("loaded driverID = %d, want 2", loaded.DriverID)
	}
}
