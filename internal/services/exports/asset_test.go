package exports

import "testing"

func TestFormatValid(t *testing.T) {
	for _, f := range []Format{FormatPNG, FormatPDF, FormatCSV} {
		if !f.Valid() {
			t.Fatalf("%s should be valid", f)
		}
	}
	if Format("text/html").Valid() {
		t.Fatal("text/html should not be valid")
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		name   string
		asset  Asset
		expect string
	}{
		{"default", Asset{Format: FormatPNG}, "export.png"},
		{"from context", Asset{Format: FormatCSV, ExportContext: map[string]interface{}{"filename": "Weekly Report (v2)"}}, "weekly-report-v2.csv"},
		{"all stripped", Asset{Format: FormatPDF, ExportContext: map[string]interface{}{"filename": "!!!"}}, "export.pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.asset.Filename(); got != tc.expect {
				t.Fatalf("got %q, want %q", got, tc.expect)
			}
		})
	}
}
