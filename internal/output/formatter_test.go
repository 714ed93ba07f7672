package output

import "testing"

func TestNewMiningReportWriter(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
	}{
		{name: "Console", format: FormatConsole},
		{name: "JSON", format: FormatJSON},
		{name: "NDJSON", format: FormatNDJSON},
		{name: "Unknown defaults to Console", format: "unknown"},
		{name: "Empty defaults to Console", format: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewMiningReportWriter(tt.format)
			if writer == nil {
				t.Fatal("NewMiningReportWriter returned nil")
			}

			switch tt.format {
			case FormatJSON:
				if _, ok := writer.(*JSONMiningWriter); !ok {
					t.Errorf("Expected *JSONMiningWriter for format %q", tt.format)
				}
			case FormatNDJSON:
				if _, ok := writer.(*NDJSONMiningWriter); !ok {
					t.Errorf("Expected *NDJSONMiningWriter for format %q", tt.format)
				}
			default:
				if _, ok := writer.(*ConsoleMiningWriter); !ok {
					t.Errorf("Expected *ConsoleMiningWriter for format %q", tt.format)
				}
			}
		})
	}
}

func TestNewPathReportWriter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		check  func(PathReportWriter) bool
	}{
		{format: FormatJSON, check: func(w PathReportWriter) bool { _, ok := w.(*JSONPathWriter); return ok }},
		{format: FormatNDJSON, check: func(w PathReportWriter) bool { _, ok := w.(*NDJSONPathWriter); return ok }},
		{format: FormatConsole, check: func(w PathReportWriter) bool { _, ok := w.(*ConsolePathWriter); return ok }},
		{format: "other", check: func(w PathReportWriter) bool { _, ok := w.(*ConsolePathWriter); return ok }},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if w := NewPathReportWriter(tt.format); !tt.check(w) {
				t.Errorf("NewPathReportWriter(%q) returned %T", tt.format, w)
			}
		})
	}
}
