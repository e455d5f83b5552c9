package util

import "testing"

func TestFirstEnv(t *testing.T) {
	t.Setenv("DEVDESK_TEST_A", "")
	t.Setenv("DEVDESK_TEST_B", "  ")
	t.Setenv("DEVDESK_TEST_C", "value")

	if got := FirstEnv("DEVDESK_TEST_A", "DEVDESK_TEST_B", "DEVDESK_TEST_C"); got != "value" {
		t.Errorf("FirstEnv = %q, want value", got)
	}
	if got := FirstEnv("DEVDESK_TEST_A"); got != "" {
		t.Errorf("FirstEnv = %q, want empty", got)
	}
}
