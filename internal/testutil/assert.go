package testutil

import (
	"strings"
	"testing"
)

// MustSucceed fails the test if the command did not succeed.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		msg := "unknown error"
		if r.Error != nil {
			msg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected command to succeed, got %s\nraw output: %s", msg, r.RawJSON)
	}
	return r
}

// MustFail fails the test if the command succeeded or failed with a different code.
func (r *CLIResult) MustFail(t *testing.T, expectedCode string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail with %s, but it succeeded\nraw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error == nil {
		t.Fatalf("expected error %s, got none\nraw output: %s", expectedCode, r.RawJSON)
	}
	if expectedCode != "" && r.Error.Code != expectedCode {
		t.Fatalf("expected error code %s, got %s: %s", expectedCode, r.Error.Code, r.Error.Message)
	}
	return r
}

// MustFailWithMessage fails the test unless the command failed with a message containing substr.
func (r *CLIResult) MustFailWithMessage(t *testing.T, substr string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail, but it succeeded\nraw output: %s", r.RawJSON)
	}
	if r.Error == nil || !strings.Contains(r.Error.Message, substr) {
		t.Fatalf("expected error message containing %q, got %+v", substr, r.Error)
	}
	return r
}

// DataList returns a list from the data field.
func (r *CLIResult) DataList(key string) []interface{} {
	if r.Data == nil {
		return nil
	}
	list, _ := r.Data[key].([]interface{})
	return list
}

// DataString returns a string from the data field.
func (r *CLIResult) DataString(key string) string {
	if r.Data == nil {
		return ""
	}
	s, _ := r.Data[key].(string)
	return s
}

// DataMap returns a nested object from the data field.
func (r *CLIResult) DataMap(key string) map[string]interface{} {
	if r.Data == nil {
		return nil
	}
	m, _ := r.Data[key].(map[string]interface{})
	return m
}

// DataInt returns a number from the data field.
func (r *CLIResult) DataInt(key string) int {
	if r.Data == nil {
		return 0
	}
	n, _ := r.Data[key].(float64)
	return int(n)
}

// AssertHasWarning fails the test if no warning with the given code was emitted.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning %s, got %+v", code, r.Warnings)
}

// AssertResultCount checks the count reported in meta.
func (r *CLIResult) AssertResultCount(t *testing.T, expected int) {
	t.Helper()
	if r.Meta == nil {
		t.Errorf("expected meta with count %d, got none", expected)
		return
	}
	if r.Meta.Count != expected {
		t.Errorf("expected count %d, got %d", expected, r.Meta.Count)
	}
}
