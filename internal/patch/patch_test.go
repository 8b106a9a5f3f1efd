package patch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltinsOnly(t *testing.T) {
	set, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o := set.Get("2012020018")
	if len(o.DropReportRows) != 1 || o.DropReportRows[0] != 122 {
		t.Errorf("builtin drop rows: %+v", o)
	}
	if zero := set.Get("no-such-game"); len(zero.JerseyFixes) != 0 || zero.ForceSession != "" {
		t.Errorf("unknown game must yield the zero override: %+v", zero)
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	set, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set) == 0 {
		t.Error("builtins missing")
	}
}

func TestLoadFileOverridesBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.yaml")
	body := `
"2012020018":
  drop_report_rows: [5]
"2023020999":
  jersey_fixes:
    - team: BOS
      from: 71
      to: 17
  force_session: P
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rows := set.Get("2012020018").DropReportRows; len(rows) != 1 || rows[0] != 5 {
		t.Errorf("file must replace the builtin record: %v", rows)
	}
	o := set.Get("2023020999")
	if len(o.JerseyFixes) != 1 || o.JerseyFixes[0] != (JerseyFix{Team: "BOS", From: 71, To: 17}) {
		t.Errorf("jersey fix: %+v", o.JerseyFixes)
	}
	if o.ForceSession != "P" {
		t.Errorf("force session: %q", o.ForceSession)
	}
	// Untouched builtins survive the merge.
	if set.Get("2019030016").ForceSession != "P" {
		t.Error("builtin dropped by merge")
	}
}
