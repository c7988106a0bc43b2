package errors

import "testing"

func TestValidateFieldText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "surface glycoprotein", false},
		{"empty", "", false},
		{"pipes and spaces", "gb|QHD43416.1|", false},
		{"unicode", "Nsp1 – leader protein", false},
		{"tab", "a\tb", true},
		{"newline", "a\nb", true},
		{"carriage return", "a\r", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldText("qualifier value", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFieldText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		wantErr    bool
	}{
		{"normal", 0, 10, false},
		{"empty interval", 5, 5, false},
		{"negative start", -1, 10, true},
		{"reversed", 10, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange("gene", tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRange(%d, %d) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}
