package task

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    Date
		wantErr bool
	}{
		{input: "2025-12-31", want: NewDate(2025, time.December, 31)},
		{input: "2024-02-29", want: NewDate(2024, time.February, 29)},
		{input: "9999-12-31", want: NewDate(9999, time.December, 31)},
		{input: "2025-02-30", wantErr: true},
		{input: "2025-13-01", wantErr: true},
		{input: "2025/12/31", wantErr: true},
		{input: "31-12-2025", wantErr: true},
		{input: "", wantErr: true},
		{input: " 2025-12-31", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateBefore(t *testing.T) {
	a := NewDate(2025, time.January, 31)
	b := NewDate(2025, time.February, 1)
	if !a.Before(b) {
		t.Errorf("%s should be before %s", a, b)
	}
	if b.Before(a) || a.Before(a) {
		t.Error("Before should be strict")
	}
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Due Date `json:"due"`
	}

	data, err := json.Marshal(wrapper{Due: NewDate(2030, time.July, 4)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"due":"2030-07-04"}` {
		t.Errorf("Marshal: got %s", data)
	}

	data, err = json.Marshal(wrapper{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"due":null}` {
		t.Errorf("Marshal unset: got %s", data)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"due":"2030-07-04"}`), &w); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if w.Due != NewDate(2030, time.July, 4) {
		t.Errorf("Unmarshal: got %s", w.Due)
	}

	if err := json.Unmarshal([]byte(`{"due":"2030-02-31"}`), &w); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Unmarshal invalid: error = %v, want ErrInvalidDate", err)
	}
	if err := json.Unmarshal([]byte(`{"due":17}`), &w); !errors.Is(err, ErrWrongType) {
		t.Errorf("Unmarshal number: error = %v, want ErrWrongType", err)
	}
}

func TestStatus(t *testing.T) {
	for _, s := range Statuses() {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("todo").IsValid() {
		t.Error("todo should not be valid")
	}
	if StatusPending.IsFinished() || StatusInProgress.IsFinished() {
		t.Error("pending and in_progress are not finished")
	}
	if _, err := ParseStatus("blocked"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(blocked) error = %v, want ErrInvalidStatus", err)
	}
}
