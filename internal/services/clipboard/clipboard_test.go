package clipboard

import (
	"errors"
	"testing"
)

func TestServiceCopy(t *testing.T) {
	testCases := []struct {
		name         string
		unsupported  bool
		writeError   error
		expectedText string
		expectError  error
	}{
		{name: "copies_text", expectedText: "feat: Add parser"},
		{name: "unsupported_clipboard", unsupported: true, expectError: ErrUnavailable},
		{name: "write_failure", writeError: errors.New("exit status 1")},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var written string
			service := &Service{
				write: func(text string) error {
					written = text
					return testCase.writeError
				},
				unsupported: func() bool { return testCase.unsupported },
			}
			err := service.Copy("feat: Add parser")
			switch {
			case testCase.expectError != nil:
				if !errors.Is(err, testCase.expectError) {
					t.Fatalf("expected %v, got %v", testCase.expectError, err)
				}
			case testCase.writeError != nil:
				if !errors.Is(err, testCase.writeError) {
					t.Fatalf("expected wrapped write error, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("Copy error: %v", err)
				}
				if written != testCase.expectedText {
					t.Fatalf("expected %q, got %q", testCase.expectedText, written)
				}
			}
		})
	}
}
