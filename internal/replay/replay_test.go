package replay

import (
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/stablegate/internal/seal"
	"github.com/danielpatrickdp/stablegate/internal/settle"
)

func seedStore(t *testing.T, sealer *seal.Sealer) *settle.Store {
	t.Helper()
	store, err := settle.NewStore(filepath.Join(t.TempDir(), "settle.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for i, content := range []string{"stablecoin:USDC:100", "stablecoin:USDT:50"} {
		rec := settle.Record{
			Key:      sealer.ContentKey(content),
			RecordID: string(rune('a' + i)),
			Instance: "issuance",
			Content:  content,
			Token:    sealer.Seal(content),
			Decision: "accepted",
		}
		if err := store.Insert(rec); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	return store
}

func TestVerifyCleanLog(t *testing.T) {
	sealer := seal.NewSealer("test-seed")
	store := seedStore(t, sealer)

	report, err := Verify(store, sealer, 100)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK() {
		t.Fatalf("mismatches on clean log: %+v", report.Mismatches)
	}
	if report.Checked != 2 {
		t.Fatalf("checked = %d, want 2", report.Checked)
	}
}

func TestVerifyDetectsKeyChange(t *testing.T) {
	store := seedStore(t, seal.NewSealer("test-seed"))

	report, err := Verify(store, seal.NewSealer("rotated-seed"), 100)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(report.Mismatches) != 2 {
		t.Fatalf("mismatches = %d, want 2 under a different key", len(report.Mismatches))
	}
}

func TestVerifySkipsRejections(t *testing.T) {
	sealer := seal.NewSealer("test-seed")
	store := seedStore(t, sealer)
	rec := settle.Record{Key: "rk", RecordID: "r", Instance: "issuance", Content: "volatile", Decision: "rejected"}
	if err := store.Insert(rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	report, err := Verify(store, sealer, 100)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Total != 3 || report.Checked != 2 {
		t.Fatalf("total=%d checked=%d, want 3/2", report.Total, report.Checked)
	}
	if !report.OK() {
		t.Fatalf("unexpected mismatches: %+v", report.Mismatches)
	}
}
