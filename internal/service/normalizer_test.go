package service

import (
	"testing"

	"floorwatch/internal/models"
)

func TestNormalize_SynonymFamilies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want models.CanonicalStatus
	}{
		{"run_exact", "RUN", models.StatusRun},
		{"running_lowercase", "running", models.StatusRun},
		{"running_mixed_case", "RuNnInG", models.StatusRun},
		{"idle", "IDLE", models.StatusIdle},
		{"wait", "wait", models.StatusIdle},
		{"waiting", "Waiting", models.StatusIdle},
		{"stop", "STOP", models.StatusStop},
		{"stopped", "stopped", models.StatusStop},
		{"down", "DOWN", models.StatusStop},
		{"sudden_stop", "SUDDEN_STOP", models.StatusSuddenStop},
		{"alarm", "alarm", models.StatusSuddenStop},
		{"error", "ERROR", models.StatusSuddenStop},
		{"off", "off", models.StatusOff},
		{"disconnected", "DISCONNECTED", models.StatusDisconnected},
		{"offline", "Offline", models.StatusDisconnected},
		{"unknown_token", "UNKNOWN", models.StatusDisconnected},
		{"empty", "", models.StatusDisconnected},
		{"whitespace_only", "   ", models.StatusDisconnected},
		{"surrounding_whitespace", "  run  ", models.StatusRun},
		{"garbage", "37signals!!", models.StatusDisconnected},
		{"almost_run", "RUNN", models.StatusDisconnected},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tc.raw); got != tc.want {
				t.Fatalf("Normalize(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

// Normalize must be total (always one of the six canonical values) and
// idempotent under re-application, for any input.
func TestNormalize_TotalAndIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"", " ", "run", "RUNNING", "wait", "down", "alarm", "off", "offline"}
	// Generate a spread of arbitrary tokens on top of the known ones.
	alphabet := []string{"a", "Z", "9", "_", "-", " ", "!", "ß", "停", "\x00"}
	for _, a := range alphabet {
		for _, b := range alphabet {
			inputs = append(inputs, a+b, a+"RUN"+b, "STOP"+a)
		}
	}

	for _, raw := range inputs {
		got := Normalize(raw)
		if !got.Valid() {
			t.Fatalf("Normalize(%q) = %q, not a canonical value", raw, got)
		}
		if again := Normalize(got.String()); again != got {
			t.Fatalf("Normalize not idempotent for %q: first %q, reapplied %q", raw, got, again)
		}
	}
}

func TestParseCanonical(t *testing.T) {
	t.Parallel()

	if got, ok := models.ParseCanonical(" sudden_stop "); !ok || got != models.StatusSuddenStop {
		t.Fatalf("ParseCanonical(sudden_stop) = %v, %v", got, ok)
	}
	if _, ok := models.ParseCanonical("RUNNING"); ok {
		t.Fatalf("ParseCanonical must not accept synonyms, only canonical values")
	}
}

// DISCONNECTED and OFF are distinct states with distinct downstream lamp
// behavior; conflating them is a known defect class.
func TestDisconnectedIsNotOff(t *testing.T) {
	t.Parallel()

	if models.StatusDisconnected == models.StatusOff {
		t.Fatalf("DISCONNECTED and OFF must be different enum values")
	}
	if Normalize("offline") == Normalize("off") {
		t.Fatalf("OFFLINE must normalize to DISCONNECTED, not OFF")
	}
}
