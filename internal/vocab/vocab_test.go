package vocab

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    []Entry
		wantErr bool
	}{
		{
			name:  "plain two column file",
			input: "de,en\nHaus,house\nBaum,tree\n",
			want:  []Entry{{DE: "Haus", EN: "house"}, {DE: "Baum", EN: "tree"}},
		},
		{
			name:  "column order is free",
			input: "en,de\nhouse,Haus\n",
			want:  []Entry{{DE: "Haus", EN: "house"}},
		},
		{
			name:  "extra columns are ignored",
			input: "id,de,hint,en\n1,Haus,building,house\n",
			want:  []Entry{{DE: "Haus", EN: "house"}},
		},
		{
			name:  "header case and spacing are forgiven",
			input: "DE, En\nHaus,house\n",
			want:  []Entry{{DE: "Haus", EN: "house"}},
		},
		{
			name:  "incomplete rows are skipped",
			input: "de,en\nHaus,house\nBaum\n,tree\nHund,dog\n",
			want:  []Entry{{DE: "Haus", EN: "house"}, {DE: "Hund", EN: "dog"}},
		},
		{
			name:  "values are trimmed",
			input: "de,en\n Haus , house \n",
			want:  []Entry{{DE: "Haus", EN: "house"}},
		},
		{
			name:  "quoted values with commas",
			input: "de,en\n\"der Hund, die Hunde\",dog\n",
			want:  []Entry{{DE: "der Hund, die Hunde", EN: "dog"}},
		},
		{
			name:  "header only yields no entries",
			input: "de,en\n",
			want:  nil,
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: true,
		},
		{
			name:    "missing en column",
			input:   "de,english\nHaus,house\n",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tc.input))
			if tc.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Expected %d entries, got %d: %+v", len(tc.want), len(got), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Entry %d: expected %+v, got %+v", i, tc.want[i], got[i])
				}
			}
		})
	}
}
